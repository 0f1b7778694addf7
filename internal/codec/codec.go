// Package codec writes invoice descriptors as ZUGFeRD / Factur-X CII documents and reads them back.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
	"github.com/rezonia/zugferd/internal/validator"
)

// TaxTypePolicy decides what Save does with tax type codes the profile does not accept
type TaxTypePolicy = validator.TaxTypePolicy

const (
	TaxTypeReject = validator.TaxTypeReject
	TaxTypeCoerce = validator.TaxTypeCoerce
)

// CoerceFunc is told about every tax type code replaced under TaxTypeCoerce
type CoerceFunc func(field string, from model.TaxType)

type options struct {
	taxTypePolicy    TaxTypePolicy
	onTaxTypeCoerced CoerceFunc
	indent           int
	registry         *Registry
}

// Option configures Save
type Option func(*options)

// WithTaxTypePolicy sets the tax type policy, TaxTypeReject by default
func WithTaxTypePolicy(p TaxTypePolicy) Option {
	return func(o *options) {
		o.taxTypePolicy = p
	}
}

// WithTaxTypeCoerced is called for every code replaced under TaxTypeCoerce
func WithTaxTypeCoerced(fn CoerceFunc) Option {
	return func(o *options) {
		o.onTaxTypeCoerced = fn
	}
}

// WithIndent sets the number of spaces per nesting level, 0 writes a single line
func WithIndent(spaces int) Option {
	return func(o *options) {
		o.indent = spaces
	}
}

// WithRegistry replaces the built-in layouts
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		taxTypePolicy: TaxTypeReject,
		indent:        2,
		registry:      defaultRegistry,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Marshal renders the descriptor for a version and profile. An empty profile selects the default.
func Marshal(d *model.InvoiceDescriptor, version model.Version, p model.Profile, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	if p == model.ProfileUnknown {
		p = profile.Default(version)
	}
	c, err := profile.Lookup(version, p)
	if err != nil {
		return nil, err
	}
	adapter := o.registry.GetAdapter(version)
	if adapter == nil {
		return nil, model.NewUnknownProfileError(version, p, "")
	}

	if err := validator.Validate(d, c, o.taxTypePolicy); err != nil {
		return nil, err
	}

	doc, err := adapter.Encode(d, c, o.onTaxTypeCoerced)
	if err != nil {
		return nil, err
	}
	if o.indent > 0 {
		doc.Indent(o.indent)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to w. Nothing is written when encoding fails.
func Save(w io.Writer, d *model.InvoiceDescriptor, version model.Version, p model.Profile, opts ...Option) error {
	data, err := Marshal(d, version, p, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// SaveFile writes the document next to path and renames it into place on success
func SaveFile(path string, d *model.InvoiceDescriptor, version model.Version, p model.Profile, opts ...Option) error {
	data, err := Marshal(d, version, p, opts...)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".zugferd-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move document into place: %w", err)
	}
	return nil
}

// Load reads a document of either version
func Load(r io.Reader) (*model.InvoiceDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError("", "", "failed to read content", err)
	}
	return LoadBytes(data)
}

// LoadBytes reads a document of either version
func LoadBytes(data []byte) (*model.InvoiceDescriptor, error) {
	root, adapter, err := parse(data, defaultRegistry)
	if err != nil {
		return nil, err
	}
	return adapter.Decode(root)
}

// LoadFile reads a document from disk
func LoadFile(path string) (*model.InvoiceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// Identity is what a document says about itself
type Identity struct {
	Version model.Version `json:"version"`
	Profile model.Profile `json:"profile"`
	URN     string        `json:"urn"`
}

// Identify reads version and profile without decoding the rest of the document
func Identify(data []byte) (Identity, error) {
	root, adapter, err := parse(data, defaultRegistry)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{Version: adapter.Version(), URN: adapter.Identify(root)}
	c, err := profile.ForURN(id.Version, id.URN)
	if err != nil {
		return id, err
	}
	id.Profile = c.Profile
	return id, nil
}

func parse(data []byte, r *Registry) (*etree.Element, Adapter, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, nil, model.NewParseError("", "", "failed to parse XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, model.NewParseError("", "", "empty XML document", nil)
	}
	adapter, err := r.Detect(root)
	if err != nil {
		return nil, nil, err
	}
	return root, adapter, nil
}
