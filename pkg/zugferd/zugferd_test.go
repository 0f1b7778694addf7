package zugferd_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/zugferd/pkg/zugferd"
)

func newInvoice(t *testing.T) *zugferd.InvoiceDescriptor {
	t.Helper()

	d := zugferd.NewInvoiceDescriptor(uuid.NewString(), time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), "EUR")
	d.SetSeller(zugferd.Party{Name: "Lieferant GmbH", Street: "Lieferantenstraße 20", Postcode: "80333", City: "München", Country: "DE"})
	d.AddSellerTaxRegistration("DE123456789", "VA")
	d.SetBuyer(zugferd.Party{ID: "GE2020211", Name: "Kunden AG Mitte", Country: "DE"})

	li := d.AddTradeLineItem(zugferd.TradeLineItem{
		Name:            "Trennblätter A4",
		UnitCode:        "H87",
		BilledQuantity:  decimal.NewFromInt(20),
		NetUnitPrice:    ptr(decimal.RequireFromString("9.90")),
		LineTotalAmount: ptr(decimal.RequireFromString("198.00")),
		Tax: zugferd.TaxClassification{
			TypeCode:     "VAT",
			CategoryCode: "S",
			Percent:      ptr(decimal.NewFromInt(19)),
		},
	})
	require.Equal(t, "1", li.LineID)

	d.AddApplicableTradeTax(decimal.RequireFromString("198.00"), decimal.NewFromInt(19), decimal.RequireFromString("37.62"), "VAT", "S")
	d.SetTotals(zugferd.Totals{
		LineTotalAmount:  decimal.RequireFromString("198.00"),
		TaxBasisAmount:   decimal.RequireFromString("198.00"),
		TaxTotalAmount:   decimal.RequireFromString("37.62"),
		GrandTotalAmount: decimal.RequireFromString("235.62"),
		DuePayableAmount: decimal.RequireFromString("235.62"),
	})
	return d
}

func ptr[T any](v T) *T {
	return &v
}

func TestSaveFile_LoadFile(t *testing.T) {
	tests := []struct {
		version zugferd.Version
		profile zugferd.Profile
	}{
		{zugferd.Version21, zugferd.ProfileBasic},
		{zugferd.Version21, zugferd.ProfileComfort},
		{zugferd.Version21, zugferd.ProfileXRechnung},
		{zugferd.Version1, zugferd.ProfileComfort},
	}

	for _, tt := range tests {
		t.Run(string(tt.version)+" "+string(tt.profile), func(t *testing.T) {
			d := newInvoice(t)
			path := filepath.Join(t.TempDir(), "invoice.xml")

			require.NoError(t, zugferd.SaveFile(path, d, tt.version, tt.profile))

			back, err := zugferd.LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.version, back.Version)
			assert.Equal(t, tt.profile, back.Profile)
			assert.Equal(t, d.InvoiceNo, back.InvoiceNo)
			assert.True(t, d.InvoiceDate.Equal(back.InvoiceDate))
			assert.Equal(t, "Lieferant GmbH", back.Seller.Name)
			require.Len(t, back.TradeLineItems, 1)
			assert.Equal(t, "Trennblätter A4", back.TradeLineItems[0].Name)
			assert.True(t, back.Totals.GrandTotalAmount.Equal(decimal.RequireFromString("235.62")))
		})
	}
}

func TestLoadFile_HybridPDF(t *testing.T) {
	d, err := zugferd.LoadFile(filepath.Join("testdata", "hybrid.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "FX-2024-001", d.InvoiceNo)
	assert.Equal(t, zugferd.ProfileMinimum, d.Profile)
}

func TestSave_Load(t *testing.T) {
	d := newInvoice(t)

	var buf bytes.Buffer
	require.NoError(t, zugferd.Save(&buf, d, zugferd.Version21, zugferd.ProfileUnknown, zugferd.WithIndent(0)))
	assert.NotContains(t, buf.String(), "\n  <")

	version, p, err := zugferd.Identify(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, zugferd.Version21, version)
	assert.Equal(t, zugferd.ProfileBasic, p)

	back, err := zugferd.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.InvoiceNo, back.InvoiceNo)
}

func TestSave_TaxTypePolicy(t *testing.T) {
	d := newInvoice(t)
	d.TradeLineItems[0].Tax.TypeCode = "GST"

	var buf bytes.Buffer
	err := zugferd.Save(&buf, d, zugferd.Version21, zugferd.ProfileComfort)
	var unsupported *zugferd.UnsupportedError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "TradeLineItems[0].Tax.TypeCode", unsupported.Field)
	assert.Zero(t, buf.Len())

	var coerced []string
	err = zugferd.Save(&buf, d, zugferd.Version21, zugferd.ProfileComfort,
		zugferd.WithTaxTypePolicy(zugferd.TaxTypeCoerce),
		zugferd.WithTaxTypeCoerced(func(field string, from zugferd.TaxType) {
			coerced = append(coerced, field+"="+string(from))
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"TradeLineItems[0].Tax.TypeCode=GST"}, coerced)

	back, err := zugferd.LoadBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, zugferd.TaxType("VAT"), back.TradeLineItems[0].Tax.TypeCode)
}

func TestLookup(t *testing.T) {
	c, err := zugferd.Lookup(zugferd.Version21, zugferd.ProfileXRechnung)
	require.NoError(t, err)
	assert.True(t, c.IsGroupAllowed("Attachments"))
	assert.False(t, c.IsGroupAllowed("ContractIssueDate"))

	_, err = zugferd.Lookup(zugferd.Version1, zugferd.ProfileMinimum)
	var upe *zugferd.UnknownProfileError
	require.ErrorAs(t, err, &upe)

	assert.Equal(t, []zugferd.Profile{zugferd.ProfileBasic, zugferd.ProfileComfort, zugferd.ProfileExtended}, zugferd.Profiles(zugferd.Version1))
}

func TestLoad_Errors(t *testing.T) {
	_, err := zugferd.LoadBytes([]byte("<?xml version=\"1.0\"?><Invoice/>"))
	var pe *zugferd.ParseError
	require.ErrorAs(t, err, &pe)

	_, err = zugferd.LoadFile(filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
}
