// Package processor loads invoices from XML or hybrid PDF input and converts them between layouts.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/rezonia/zugferd/internal/codec"
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/parser/pdf"
	"github.com/rezonia/zugferd/internal/profile"
	"github.com/rezonia/zugferd/internal/validator"
)

// ErrUnsupportedFormat is returned for input that is neither XML nor PDF
var ErrUnsupportedFormat = errors.New("unsupported input format, expected XML or PDF")

// Format is the container the invoice arrived in
type Format int

const (
	FormatUnknown Format = iota
	FormatXML
	FormatPDF
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// DetectFormat sniffs the input
func DetectFormat(data []byte) Format {
	if len(data) == 0 {
		return FormatUnknown
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		switch {
		case m.Is("application/pdf"):
			return FormatPDF
		case m.Is("text/xml"):
			return FormatXML
		}
	}
	if looksLikeXML(data) {
		return FormatXML
	}
	return FormatUnknown
}

// looksLikeXML catches documents without a declaration, which mimetype reports as plain text
func looksLikeXML(data []byte) bool {
	for i, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case 0xEF:
			if i == 0 && len(data) > 3 && data[1] == 0xBB && data[2] == 0xBF {
				return looksLikeXML(data[3:])
			}
			return false
		case '<':
			return true
		default:
			return false
		}
	}
	return false
}

// Result is the outcome of loading one input
type Result struct {
	Invoice  *model.InvoiceDescriptor
	Format   Format
	Version  model.Version
	Profile  model.Profile
	Source   string // attachment name when the XML came out of a PDF
	Warnings []string
	Error    error
}

func (r *Result) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Pipeline ties format detection, PDF extraction and the codec together
type Pipeline struct {
	extractor     *pdf.Extractor
	taxTypePolicy codec.TaxTypePolicy
}

// Option configures the Pipeline
type Option func(*Pipeline)

// WithExtractor replaces the PDF extractor
func WithExtractor(e *pdf.Extractor) Option {
	return func(p *Pipeline) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithTaxTypePolicy sets the policy used by Convert
func WithTaxTypePolicy(policy codec.TaxTypePolicy) Option {
	return func(p *Pipeline) {
		p.taxTypePolicy = policy
	}
}

// NewPipeline creates a pipeline
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:     pdf.NewExtractor(),
		taxTypePolicy: codec.TaxTypeReject,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TaxTypePolicy returns the policy Convert applies
func (p *Pipeline) TaxTypePolicy() codec.TaxTypePolicy {
	return p.taxTypePolicy
}

// payload returns the invoice XML of the input
func (p *Pipeline) payload(ctx context.Context, data []byte, result *Result) ([]byte, error) {
	result.Format = DetectFormat(data)

	switch result.Format {
	case FormatXML:
		return data, nil
	case FormatPDF:
		a, err := p.extractor.Extract(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("PDF extraction failed: %w", err)
		}
		result.Source = a.Name
		return a.Data, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Load decodes an XML document or the XML embedded in a hybrid PDF
func (p *Pipeline) Load(ctx context.Context, data []byte) *Result {
	result := &Result{}

	xml, err := p.payload(ctx, data, result)
	if err != nil {
		result.Error = err
		return result
	}

	desc, err := codec.LoadBytes(xml)
	if err != nil {
		result.Error = fmt.Errorf("XML parsing failed: %w", err)
		return result
	}

	result.Invoice = desc
	result.Version = desc.Version
	result.Profile = desc.Profile
	return result
}

// LoadFile reads and decodes a file
func (p *Pipeline) LoadFile(ctx context.Context, path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{Error: fmt.Errorf("failed to read file: %w", err)}
	}
	return p.Load(ctx, data)
}

// Convert loads the input and writes it again for the target version and profile.
// Field groups the target cannot carry are dropped and reported as warnings.
func (p *Pipeline) Convert(ctx context.Context, data []byte, version model.Version, prof model.Profile) ([]byte, *Result) {
	result := p.Load(ctx, data)
	if result.Error != nil {
		return nil, result
	}

	if prof == model.ProfileUnknown {
		prof = profile.Default(version)
	}
	target, err := profile.Lookup(version, prof)
	if err != nil {
		result.Error = err
		return nil, result
	}
	if source, err := profile.Lookup(result.Version, result.Profile); err == nil {
		for _, g := range source.AllowedGroups() {
			if !target.IsGroupAllowed(g) {
				result.warn("field group %s is not carried by %s %s", g, version, prof)
			}
		}
	}

	out, err := codec.Marshal(result.Invoice, version, prof,
		codec.WithTaxTypePolicy(p.taxTypePolicy),
		codec.WithTaxTypeCoerced(func(field string, from model.TaxType) {
			result.warn("%s: tax type %s written as %s", field, from, model.TaxTypeVAT)
		}),
	)
	if err != nil {
		result.Error = err
		return nil, result
	}
	return out, result
}

// Validate loads the input and checks it against a target version and profile
func (p *Pipeline) Validate(ctx context.Context, data []byte, version model.Version, prof model.Profile) *Result {
	result := p.Load(ctx, data)
	if result.Error != nil {
		return result
	}
	if version == "" {
		version = result.Version
	}
	if prof == model.ProfileUnknown {
		prof = result.Profile
	}

	c, err := profile.Lookup(version, prof)
	if err != nil {
		result.Error = err
		return result
	}
	result.Error = validator.Validate(result.Invoice, c, p.taxTypePolicy)
	return result
}

// Info is what can be learned about an input without decoding it
type Info struct {
	Format  Format        `json:"-"`
	Version model.Version `json:"version,omitempty"`
	Profile model.Profile `json:"profile,omitempty"`
	URN     string        `json:"urn,omitempty"`
	Source  string        `json:"source,omitempty"`
	Error   error         `json:"-"`
}

// Inspect identifies format, version and profile
func (p *Pipeline) Inspect(ctx context.Context, data []byte) Info {
	result := &Result{}
	xml, err := p.payload(ctx, data, result)
	info := Info{Format: result.Format, Source: result.Source}
	if err != nil {
		info.Error = err
		return info
	}

	id, err := codec.Identify(xml)
	info.Version = id.Version
	info.Profile = id.Profile
	info.URN = id.URN
	info.Error = err
	return info
}
