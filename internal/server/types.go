package server

import (
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

// TargetQuery selects the version and profile of save, convert and validate
type TargetQuery struct {
	Version   string `form:"version" binding:"omitempty,oneof=1 1.0 2 2.1"`
	Profile   string `form:"profile" binding:"omitempty,max=16"`
	TaxPolicy string `form:"tax_policy" binding:"omitempty,oneof=reject coerce"`
}

// LoadResponse is the response for the load endpoint
type LoadResponse struct {
	Invoice  *model.InvoiceDescriptor `json:"invoice"`
	Format   string                   `json:"format"`
	Version  model.Version            `json:"version"`
	Profile  model.Profile            `json:"profile"`
	Source   string                   `json:"source,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// ValidationResponse is the response for validate endpoint
type ValidationResponse struct {
	Valid    bool            `json:"valid"`
	Version  model.Version   `json:"version"`
	Profile  model.Profile   `json:"profile"`
	Errors   []ErrorResponse `json:"errors,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// InfoResponse is the response for info endpoint
type InfoResponse struct {
	Format   string        `json:"format"`
	MimeType string        `json:"mime_type"`
	Size     int           `json:"size"`
	Version  model.Version `json:"version,omitempty"`
	Profile  model.Profile `json:"profile,omitempty"`
	URN      string        `json:"urn,omitempty"`
	Source   string        `json:"source,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// ProfileResponse describes one entry of the capability table
type ProfileResponse struct {
	Version  model.Version        `json:"version"`
	Profile  model.Profile        `json:"profile"`
	URN      string               `json:"urn"`
	Default  bool                 `json:"default,omitempty"`
	Groups   []profile.FieldGroup `json:"groups"`
	TaxTypes []model.TaxType      `json:"tax_types"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string          `json:"error"`
	Kind     string          `json:"kind,omitempty"`
	Field    string          `json:"field,omitempty"`
	Rule     string          `json:"rule,omitempty"`
	Details  string          `json:"details,omitempty"`
	Errors   []ErrorResponse `json:"errors,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}
