package zugferd

import (
	"context"
	"io"
	"os"

	"github.com/rezonia/zugferd/internal/codec"
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/processor"
	"github.com/rezonia/zugferd/internal/profile"
)

// TaxTypePolicy decides what Save does with tax type codes the profile does not accept
type TaxTypePolicy = codec.TaxTypePolicy

const (
	TaxTypeReject = codec.TaxTypeReject
	TaxTypeCoerce = codec.TaxTypeCoerce
)

// Option configures Save
type Option = codec.Option

var (
	WithTaxTypePolicy  = codec.WithTaxTypePolicy
	WithTaxTypeCoerced = codec.WithTaxTypeCoerced
	WithIndent         = codec.WithIndent
)

var pipeline = processor.NewPipeline()

// Load reads an XML document or a hybrid PDF
func Load(r io.Reader) (*InvoiceDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError("", "", "failed to read input", err)
	}
	return LoadBytes(data)
}

// LoadBytes reads an XML document or a hybrid PDF
func LoadBytes(data []byte) (*InvoiceDescriptor, error) {
	return LoadContext(context.Background(), data)
}

// LoadContext reads an XML document or a hybrid PDF, giving up when ctx is done
func LoadContext(ctx context.Context, data []byte) (*InvoiceDescriptor, error) {
	result := pipeline.Load(ctx, data)
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Invoice, nil
}

// LoadFile reads an XML document or a hybrid PDF from disk
func LoadFile(path string) (*InvoiceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// Marshal renders the invoice for a version and profile. An empty profile selects the default.
func Marshal(d *InvoiceDescriptor, version Version, p Profile, opts ...Option) ([]byte, error) {
	return codec.Marshal(d, version, p, opts...)
}

// Save writes the invoice to w. Nothing is written when encoding fails.
func Save(w io.Writer, d *InvoiceDescriptor, version Version, p Profile, opts ...Option) error {
	return codec.Save(w, d, version, p, opts...)
}

// SaveFile writes the invoice to path, leaving an existing file untouched on failure
func SaveFile(path string, d *InvoiceDescriptor, version Version, p Profile, opts ...Option) error {
	return codec.SaveFile(path, d, version, p, opts...)
}

// Lookup returns what a (version, profile) pair may carry
func Lookup(version Version, p Profile) (Capability, error) {
	return profile.Lookup(version, p)
}

// Profiles lists the profiles defined for a version
func Profiles(version Version) []Profile {
	return profile.Profiles(version)
}

// Identify reads version and profile of an XML document or hybrid PDF without decoding it
func Identify(data []byte) (Version, Profile, error) {
	info := pipeline.Inspect(context.Background(), data)
	return info.Version, info.Profile, info.Error
}
