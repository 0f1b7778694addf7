// Package pdf pulls the embedded invoice XML out of hybrid ZUGFeRD / Factur-X / XRechnung PDFs.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrNotPDF is returned when the input does not start with a PDF header
	ErrNotPDF = errors.New("input is not a PDF document")
	// ErrNoInvoice is returned when the PDF carries no invoice attachment
	ErrNoInvoice = errors.New("no embedded invoice XML found")
)

// InvoiceFileNames are the attachment names used by the hybrid formats, in lookup order
var InvoiceFileNames = []string{
	"factur-x.xml",
	"zugferd-invoice.xml",
	"xrechnung.xml",
}

// Attachment is one embedded file
type Attachment struct {
	Name        string
	Description string
	Data        []byte
}

// Extractor reads embedded files through pdfcpu
type Extractor struct {
	conf  *pdfmodel.Configuration
	names []string
}

// ExtractorOption configures the Extractor
type ExtractorOption func(*Extractor)

// WithFileNames replaces the attachment names looked for
func WithFileNames(names ...string) ExtractorOption {
	return func(e *Extractor) {
		e.names = names
	}
}

// WithStrictValidation makes pdfcpu reject PDFs that deviate from the standard
func WithStrictValidation() ExtractorOption {
	return func(e *Extractor) {
		e.conf.ValidationMode = pdfmodel.ValidationStrict
	}
}

// NewExtractor creates an extractor with relaxed PDF validation
func NewExtractor(opts ...ExtractorOption) *Extractor {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	e := &Extractor{
		conf:  conf,
		names: InvoiceFileNames,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attachments returns every embedded file of the PDF
func (e *Extractor) Attachments(ctx context.Context, data []byte) ([]Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	raw, err := api.ExtractAttachmentsRaw(bytes.NewReader(data), "", nil, e.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF attachments: %w", err)
	}

	out := make([]Attachment, 0, len(raw))
	for _, a := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := io.ReadAll(a)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", a.FileName, err)
		}
		out = append(out, Attachment{
			Name:        a.FileName,
			Description: a.Desc,
			Data:        content,
		})
	}
	return out, nil
}

// Extract returns the invoice XML embedded in the PDF.
// A well-known name wins; otherwise a single XML attachment is taken as the invoice.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*Attachment, error) {
	attachments, err := e.Attachments(ctx, data)
	if err != nil {
		return nil, err
	}

	for _, name := range e.names {
		for i := range attachments {
			if strings.EqualFold(path.Base(attachments[i].Name), name) {
				return &attachments[i], nil
			}
		}
	}

	var xmlFiles []*Attachment
	for i := range attachments {
		if strings.EqualFold(path.Ext(attachments[i].Name), ".xml") {
			xmlFiles = append(xmlFiles, &attachments[i])
		}
	}
	if len(xmlFiles) == 1 {
		return xmlFiles[0], nil
	}
	return nil, ErrNoInvoice
}
