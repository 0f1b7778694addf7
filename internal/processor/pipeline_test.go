package processor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/zugferd/internal/codec"
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/parser/pdf"
	"github.com/rezonia/zugferd/internal/processor"
)

func readTestFile(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestNewPipeline(t *testing.T) {
	p := processor.NewPipeline()
	require.NotNil(t, p)
	assert.Equal(t, codec.TaxTypeReject, p.TaxTypePolicy())
}

func TestNewPipeline_WithOptions(t *testing.T) {
	p := processor.NewPipeline(
		processor.WithExtractor(pdf.NewExtractor()),
		processor.WithExtractor(nil),
		processor.WithTaxTypePolicy(codec.TaxTypeCoerce),
	)
	require.NotNil(t, p)
	assert.Equal(t, codec.TaxTypeCoerce, p.TaxTypePolicy())
}

func TestLoad_XML(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	result := p.Load(ctx, readTestFile(t, "factur-x.xml"))
	require.NoError(t, result.Error)
	require.NotNil(t, result.Invoice)

	assert.Equal(t, processor.FormatXML, result.Format)
	assert.Equal(t, model.Version21, result.Version)
	assert.Equal(t, model.ProfileMinimum, result.Profile)
	assert.Empty(t, result.Source)
	assert.Equal(t, "FX-2024-001", result.Invoice.InvoiceNo)
	assert.Equal(t, "Lieferant GmbH", result.Invoice.Seller.Name)
	assert.Equal(t, "119", result.Invoice.Totals.GrandTotalAmount.String())
}

func TestLoad_PDF(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	result := p.Load(ctx, readTestFile(t, "hybrid.pdf"))
	require.NoError(t, result.Error)
	require.NotNil(t, result.Invoice)

	assert.Equal(t, processor.FormatPDF, result.Format)
	assert.Equal(t, "factur-x.xml", result.Source)
	assert.Equal(t, "FX-2024-001", result.Invoice.InvoiceNo)
	assert.Equal(t, model.ProfileMinimum, result.Profile)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	tests := []struct {
		name     string
		data     []byte
		contains string
	}{
		{"not xml", []byte("not xml"), "unsupported input format"},
		{"broken xml", []byte("<rsm:CrossIndustryInvoice"), "XML parsing failed"},
		{"foreign xml", []byte(`<?xml version="1.0"?><Invoice/>`), "XML parsing failed"},
		{"pdf without invoice", readTestFile(t, "plain.pdf"), "PDF extraction failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.Load(ctx, tt.data)
			require.Error(t, result.Error)
			assert.Nil(t, result.Invoice)
			assert.Contains(t, result.Error.Error(), tt.contains)
		})
	}
}

func TestLoad_PDFWithoutInvoice(t *testing.T) {
	result := processor.NewPipeline().Load(context.Background(), readTestFile(t, "plain.pdf"))
	require.ErrorIs(t, result.Error, pdf.ErrNoInvoice)
}

func TestLoadFile(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	result := p.LoadFile(ctx, filepath.Join("testdata", "zugferd1_comfort.xml"))
	require.NoError(t, result.Error)
	assert.Equal(t, model.Version1, result.Version)
	assert.Equal(t, model.ProfileComfort, result.Profile)

	result = p.LoadFile(ctx, filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, result.Error)
	assert.True(t, errors.Is(result.Error, os.ErrNotExist))
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	out, result := p.Convert(ctx, readTestFile(t, "zugferd1_comfort.xml"), model.Version21, model.ProfileComfort)
	require.NoError(t, result.Error)
	require.NotEmpty(t, out)
	assert.Empty(t, result.Warnings)

	back, err := codec.LoadBytes(out)
	require.NoError(t, err)
	assert.Equal(t, model.Version21, back.Version)
	assert.Equal(t, model.ProfileComfort, back.Profile)
	assert.Equal(t, result.Invoice.InvoiceNo, back.InvoiceNo)
	assert.Len(t, back.TradeLineItems, len(result.Invoice.TradeLineItems))
}

func TestConvert_DroppedGroupsAreReported(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	out, result := p.Convert(ctx, readTestFile(t, "zugferd1_comfort.xml"), model.Version21, model.ProfileMinimum)
	require.NoError(t, result.Error)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, strings.Join(result.Warnings, "\n"), "LineItems")

	back, err := codec.LoadBytes(out)
	require.NoError(t, err)
	assert.Empty(t, back.TradeLineItems)
}

func TestConvert_DefaultProfile(t *testing.T) {
	out, result := processor.NewPipeline().Convert(context.Background(), readTestFile(t, "factur-x.xml"), model.Version1, model.ProfileUnknown)
	require.NoError(t, result.Error)

	id, err := codec.Identify(out)
	require.NoError(t, err)
	assert.Equal(t, model.Version1, id.Version)
	assert.Equal(t, model.ProfileBasic, id.Profile)
}

func TestConvert_UnknownTarget(t *testing.T) {
	out, result := processor.NewPipeline().Convert(context.Background(), readTestFile(t, "factur-x.xml"), model.Version1, model.ProfileMinimum)
	assert.Nil(t, out)

	var upe *model.UnknownProfileError
	require.ErrorAs(t, result.Error, &upe)
	assert.Equal(t, model.Version1, upe.Version)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	result := p.Validate(ctx, readTestFile(t, "zugferd1_comfort.xml"), "", model.ProfileUnknown)
	require.NoError(t, result.Error)

	result = p.Validate(ctx, readTestFile(t, "factur-x.xml"), model.Version21, model.ProfileExtended)
	require.NoError(t, result.Error)

	result = p.Validate(ctx, readTestFile(t, "factur-x.xml"), model.Version21, "NOPE")
	var upe *model.UnknownProfileError
	require.ErrorAs(t, result.Error, &upe)
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	tests := []struct {
		name    string
		file    string
		format  processor.Format
		version model.Version
		profile model.Profile
		source  string
	}{
		{"factur-x", "factur-x.xml", processor.FormatXML, model.Version21, model.ProfileMinimum, ""},
		{"zugferd 1", "zugferd1_comfort.xml", processor.FormatXML, model.Version1, model.ProfileComfort, ""},
		{"hybrid pdf", "hybrid.pdf", processor.FormatPDF, model.Version21, model.ProfileMinimum, "factur-x.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := p.Inspect(ctx, readTestFile(t, tt.file))
			require.NoError(t, info.Error)
			assert.Equal(t, tt.format, info.Format)
			assert.Equal(t, tt.version, info.Version)
			assert.Equal(t, tt.profile, info.Profile)
			assert.Equal(t, tt.source, info.Source)
			assert.NotEmpty(t, info.URN)
		})
	}
}

func TestInspect_UnknownURN(t *testing.T) {
	data := strings.Replace(string(readTestFile(t, "factur-x.xml")), "urn:factur-x.eu:1p0:minimum", "urn:example:custom", 1)

	info := processor.NewPipeline().Inspect(context.Background(), []byte(data))
	var upe *model.UnknownProfileError
	require.ErrorAs(t, info.Error, &upe)
	assert.Equal(t, model.Version21, info.Version)
	assert.Equal(t, "urn:example:custom", info.URN)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected processor.Format
	}{
		{
			name:     "XML with declaration",
			data:     []byte(`<?xml version="1.0"?><rsm:CrossIndustryInvoice/>`),
			expected: processor.FormatXML,
		},
		{
			name:     "XML without declaration",
			data:     []byte(`<rsm:CrossIndustryInvoice xmlns:rsm="urn:x"></rsm:CrossIndustryInvoice>`),
			expected: processor.FormatXML,
		},
		{
			name:     "XML with BOM",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("\n<Invoice/>")...),
			expected: processor.FormatXML,
		},
		{
			name:     "PDF",
			data:     []byte("%PDF-1.4\n%some content"),
			expected: processor.FormatPDF,
		},
		{
			name:     "PNG image",
			data:     []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
			expected: processor.FormatUnknown,
		},
		{
			name:     "Unknown format",
			data:     []byte("some random text"),
			expected: processor.FormatUnknown,
		},
		{
			name:     "Empty data",
			data:     []byte{},
			expected: processor.FormatUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format := processor.DetectFormat(tt.data)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   processor.Format
		expected string
	}{
		{processor.FormatXML, "xml"},
		{processor.FormatPDF, "pdf"},
		{processor.FormatUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

// Benchmark tests

func BenchmarkDetectFormat_XML(b *testing.B) {
	data := []byte(`<?xml version="1.0"?><rsm:CrossIndustryInvoice/>`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		processor.DetectFormat(data)
	}
}

func BenchmarkDetectFormat_PDF(b *testing.B) {
	data := []byte("%PDF-1.4\n%some content here")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		processor.DetectFormat(data)
	}
}

func BenchmarkLoad(b *testing.B) {
	ctx := context.Background()
	p := processor.NewPipeline()
	data := readTestFile(b, "zugferd1_comfort.xml")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Load(ctx, data)
	}
}
