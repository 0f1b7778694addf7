package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/rezonia/zugferd/internal/codec"
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/processor"
	"github.com/rezonia/zugferd/internal/profile"
	"github.com/rezonia/zugferd/internal/validator"
)

// WarningHeader is added once per warning to XML responses
const WarningHeader = "X-Zugferd-Warning"

const xmlContentType = "application/xml; charset=utf-8"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleProfiles(c *gin.Context) {
	var version model.Version
	if v := c.Query("version"); v != "" {
		parsed, ok := model.ParseVersion(v)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown version", Details: v})
			return
		}
		version = parsed
	}

	out := []ProfileResponse{}
	for _, cp := range profile.All() {
		if version != "" && cp.Version != version {
			continue
		}
		out = append(out, ProfileResponse{
			Version:  cp.Version,
			Profile:  cp.Profile,
			URN:      cp.URN,
			Default:  cp.Profile == profile.Default(cp.Version),
			Groups:   cp.AllowedGroups(),
			TaxTypes: cp.AllowedTaxTypes(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleLoad(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	result := s.pipeline.Load(ctx, body)
	if result.Error != nil {
		s.fail(c, result.Error, result.Warnings)
		return
	}

	c.JSON(http.StatusOK, LoadResponse{
		Invoice:  result.Invoice,
		Format:   result.Format.String(),
		Version:  result.Version,
		Profile:  result.Profile,
		Source:   result.Source,
		Warnings: result.Warnings,
	})
}

func (s *Server) handleSave(c *gin.Context) {
	t, ok := s.bindTarget(c, true)
	if !ok {
		return
	}

	var desc model.InvoiceDescriptor
	if err := c.ShouldBindJSON(&desc); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice JSON", Details: err.Error()})
		return
	}

	var warnings []string
	out, err := codec.Marshal(&desc, t.version, t.profile,
		codec.WithTaxTypePolicy(t.policy),
		codec.WithIndent(s.config.Indent),
		codec.WithTaxTypeCoerced(func(field string, from model.TaxType) {
			warnings = append(warnings, field+": tax type "+string(from)+" written as "+string(model.TaxTypeVAT))
		}),
	)
	if err != nil {
		s.fail(c, err, warnings)
		return
	}
	writeXML(c, out, warnings)
}

func (s *Server) handleConvert(c *gin.Context) {
	t, ok := s.bindTarget(c, true)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	out, result := s.pipelineFor(t.policy).Convert(ctx, body, t.version, t.profile)
	if result.Error != nil {
		s.fail(c, result.Error, result.Warnings)
		return
	}
	writeXML(c, out, result.Warnings)
}

func (s *Server) handleValidate(c *gin.Context) {
	t, ok := s.bindTarget(c, false)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	result := s.pipelineFor(t.policy).Validate(ctx, body, t.version, t.profile)
	var profileErr *model.UnknownProfileError
	if result.Invoice == nil || errors.As(result.Error, &profileErr) {
		s.fail(c, result.Error, result.Warnings)
		return
	}

	version, prof := t.version, t.profile
	if version == "" {
		version = result.Version
	}
	if prof == model.ProfileUnknown {
		prof = result.Profile
	}

	resp := ValidationResponse{
		Valid:    result.Error == nil,
		Version:  version,
		Profile:  prof,
		Warnings: result.Warnings,
	}
	for _, err := range flatten(result.Error) {
		resp.Errors = append(resp.Errors, describe(err))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	info := s.pipeline.Inspect(ctx, body)
	resp := InfoResponse{
		Format:   info.Format.String(),
		MimeType: mimetype.Detect(body).String(),
		Size:     len(body),
		Version:  info.Version,
		Profile:  info.Profile,
		URN:      info.URN,
		Source:   info.Source,
	}
	if info.Error != nil {
		resp.Error = info.Error.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// Helper functions

type target struct {
	version model.Version
	profile model.Profile
	policy  codec.TaxTypePolicy
}

// bindTarget reads the target query; with defaults unset fields fall back to the server config
func (s *Server) bindTarget(c *gin.Context, defaults bool) (target, bool) {
	var q TargetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters", Details: err.Error()})
		return target{}, false
	}

	t := target{policy: s.config.TaxTypePolicy}
	if defaults {
		t.version = s.config.DefaultVersion
		t.profile = s.config.DefaultProfile
	}
	if q.Version != "" {
		t.version, _ = model.ParseVersion(q.Version)
	}
	if q.Profile != "" {
		p, ok := model.ParseProfile(q.Profile)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown profile", Kind: "unknown_profile", Details: q.Profile})
			return target{}, false
		}
		t.profile = p
	}
	if q.TaxPolicy != "" {
		t.policy, _ = validator.ParseTaxTypePolicy(q.TaxPolicy)
	}
	return t, true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

func writeXML(c *gin.Context, out []byte, warnings []string) {
	for _, w := range warnings {
		c.Writer.Header().Add(WarningHeader, w)
	}
	c.Data(http.StatusOK, xmlContentType, out)
}

func (s *Server) fail(c *gin.Context, err error, warnings []string) {
	status := statusFor(err)
	resp := describe(err)
	resp.Warnings = warnings
	if errs := flatten(err); len(errs) > 1 {
		for _, e := range errs {
			resp.Errors = append(resp.Errors, describe(e))
		}
	}
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("request failed")
	}
	c.JSON(status, resp)
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var (
		parseErr    *model.ParseError
		profileErr  *model.UnknownProfileError
		unsupported *model.UnsupportedError
		violation   *model.BusinessRuleViolation
	)
	switch {
	case errors.Is(err, processor.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &parseErr), errors.As(err, &profileErr):
		return http.StatusBadRequest
	case errors.As(err, &unsupported), errors.As(err, &violation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusUnprocessableEntity
	}
}

func describe(err error) ErrorResponse {
	r := ErrorResponse{Error: err.Error()}

	var (
		parseErr    *model.ParseError
		profileErr  *model.UnknownProfileError
		unsupported *model.UnsupportedError
		violation   *model.BusinessRuleViolation
	)
	switch {
	case errors.As(err, &violation):
		r.Kind = "business_rule"
		r.Field = violation.Field
		r.Rule = violation.Rule
	case errors.As(err, &unsupported):
		r.Kind = "unsupported"
		r.Field = unsupported.Field
	case errors.As(err, &profileErr):
		r.Kind = "unknown_profile"
	case errors.As(err, &parseErr):
		r.Kind = "parse"
		r.Field = parseErr.Path
	}
	return r
}

// flatten splits errors.Join results into their parts
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
