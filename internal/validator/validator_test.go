package validator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
	"github.com/rezonia/zugferd/internal/validator"
)

func newInvoice() *model.InvoiceDescriptor {
	desc := model.NewInvoiceDescriptor("471102", time.Date(2018, 3, 5, 0, 0, 0, 0, time.UTC), "EUR")
	desc.SetSeller(model.Party{Name: "Lieferant GmbH", City: "München", Country: "DE"})
	desc.SetBuyer(model.Party{Name: "Kunden AG Mitte", City: "Frankfurt", Country: "DE"})
	desc.AddTradeLineItem(model.TradeLineItem{
		Name:           "Trennblätter A4",
		UnitCode:       model.QuantityPiece,
		BilledQuantity: decimal.NewFromInt(20),
		NetUnitPrice:   model.Ptr(decimal.RequireFromString("9.90")),
		Tax: model.TaxClassification{
			TypeCode:     model.TaxTypeVAT,
			CategoryCode: model.TaxCategoryStandardRate,
			Percent:      model.Ptr(decimal.NewFromInt(19)),
		},
	})
	desc.AddApplicableTradeTax(decimal.NewFromInt(198), decimal.NewFromInt(19), decimal.RequireFromString("37.62"), model.TaxTypeVAT, model.TaxCategoryStandardRate)
	return desc
}

func capability(t *testing.T, v model.Version, p model.Profile) profile.Capability {
	t.Helper()
	c, err := profile.Lookup(v, p)
	require.NoError(t, err)
	return c
}

func violations(err error) []*model.BusinessRuleViolation {
	var out []*model.BusinessRuleViolation
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			var v *model.BusinessRuleViolation
			if errors.As(e, &v) {
				out = append(out, v)
			}
		}
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	for _, c := range profile.All() {
		t.Run(string(c.Version)+"/"+string(c.Profile), func(t *testing.T) {
			assert.NoError(t, validator.Validate(newInvoice(), c, validator.TaxTypeReject))
		})
	}
}

func TestValidate_TaxTypes(t *testing.T) {
	desc := newInvoice()
	desc.TradeLineItems[0].Tax.TypeCode = model.TaxTypePetroleumTax

	tests := []struct {
		profile model.Profile
		wantErr bool
	}{
		{model.ProfileBasic, true},
		{model.ProfileBasicWL, false}, // line items are not written at BasicWL
		{model.ProfileComfort, true},
		{model.ProfileXRechnung1, true},
		{model.ProfileXRechnung, true},
		{model.ProfileExtended, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.profile), func(t *testing.T) {
			err := validator.Validate(desc, capability(t, model.Version21, tt.profile), validator.TaxTypeReject)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var unsupported *model.UnsupportedError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, "TradeLineItems[0].Tax.TypeCode", unsupported.Field)
			assert.Equal(t, model.TaxTypePetroleumTax, unsupported.Value)
		})
	}

	t.Run("coerce policy skips the check", func(t *testing.T) {
		err := validator.Validate(desc, capability(t, model.Version21, model.ProfileBasic), validator.TaxTypeCoerce)
		assert.NoError(t, err)
	})

	t.Run("document tax", func(t *testing.T) {
		d := newInvoice()
		d.Taxes[0].TypeCode = model.TaxTypeGoodsAndServicesTaxGST
		err := validator.Validate(d, capability(t, model.Version21, model.ProfileComfort), validator.TaxTypeReject)
		var unsupported *model.UnsupportedError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, "Taxes[0].TypeCode", unsupported.Field)
	})
}

func TestValidate_SEPADirectDebit(t *testing.T) {
	c := capability(t, model.Version21, model.ProfileComfort)

	t.Run("complete", func(t *testing.T) {
		desc := newInvoice()
		desc.SetPaymentMeansSEPADirectDebit("DE98ZZZ09999999999", "REF A-123", "")
		desc.AddDebitorFinancialAccount("DE21860000000086001055", "")
		assert.NoError(t, validator.Validate(desc, c, validator.TaxTypeReject))
	})

	t.Run("incomplete", func(t *testing.T) {
		desc := newInvoice()
		desc.SetPaymentMeansSEPADirectDebit("", "", "")
		err := validator.Validate(desc, c, validator.TaxTypeReject)
		require.Error(t, err)

		got := violations(err)
		require.Len(t, got, 3)
		for _, v := range got {
			assert.Equal(t, validator.RuleSEPADirectDebit, v.Rule)
		}
	})
}

func TestValidate_BusinessRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *model.InvoiceDescriptor)
		rule   string
		field  string
	}{
		{
			name:   "missing invoice number",
			mutate: func(d *model.InvoiceDescriptor) { d.InvoiceNo = " " },
			rule:   validator.RuleRequired,
			field:  "InvoiceNo",
		},
		{
			name:   "missing date",
			mutate: func(d *model.InvoiceDescriptor) { d.InvoiceDate = time.Time{} },
			rule:   validator.RuleRequired,
			field:  "InvoiceDate",
		},
		{
			name:   "missing type code",
			mutate: func(d *model.InvoiceDescriptor) { d.Type = "" },
			rule:   validator.RuleRequired,
			field:  "Type",
		},
		{
			name:   "nil line item",
			mutate: func(d *model.InvoiceDescriptor) { d.TradeLineItems = append(d.TradeLineItems, nil) },
			rule:   validator.RuleRequired,
			field:  "TradeLineItems[1]",
		},
		{
			name:   "unknown currency",
			mutate: func(d *model.InvoiceDescriptor) { d.Currency = "EURO" },
			rule:   validator.RuleCurrency,
			field:  "Currency",
		},
		{
			name:   "unknown country",
			mutate: func(d *model.InvoiceDescriptor) { d.Buyer.Country = "Germany" },
			rule:   validator.RuleCountry,
			field:  "Buyer.Country",
		},
		{
			name: "reversed billing period",
			mutate: func(d *model.InvoiceDescriptor) {
				d.SetBillingPeriod(time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
			},
			rule:  validator.RuleBillingPeriod,
			field: "BillingPeriod",
		},
		{
			name: "reversed line billing period",
			mutate: func(d *model.InvoiceDescriptor) {
				d.TradeLineItems[0].SetBillingPeriod(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
			},
			rule:  validator.RuleBillingPeriod,
			field: "TradeLineItems[0].BillingPeriod",
		},
		{
			name:   "quantity without unit",
			mutate: func(d *model.InvoiceDescriptor) { d.TradeLineItems[0].UnitCode = "" },
			rule:   validator.RuleUnitCode,
			field:  "TradeLineItems[0].UnitCode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := newInvoice()
			tt.mutate(desc)

			err := validator.Validate(desc, capability(t, model.Version21, model.ProfileExtended), validator.TaxTypeReject)
			got := violations(err)
			require.Len(t, got, 1, "%v", err)
			assert.Equal(t, tt.rule, got[0].Rule)
			assert.Equal(t, tt.field, got[0].Field)
		})
	}
}

func TestValidate_NilInput(t *testing.T) {
	c := capability(t, model.Version21, model.ProfileBasic)

	var violation *model.BusinessRuleViolation
	require.ErrorAs(t, validator.Validate(nil, c, validator.TaxTypeReject), &violation)
	assert.Equal(t, "InvoiceDescriptor", violation.Field)

	desc := newInvoice()
	desc.TradeLineItems = []*model.TradeLineItem{nil, desc.TradeLineItems[0], nil}
	desc.Currency = ""
	assert.NotPanics(t, func() {
		got := violations(validator.Validate(desc, c, validator.TaxTypeReject))
		fields := make([]string, 0, len(got))
		for _, v := range got {
			fields = append(fields, v.Field)
		}
		assert.ElementsMatch(t, []string{"Currency", "TradeLineItems[0]", "TradeLineItems[2]"}, fields)
	})
}

func TestValidate_Minimum(t *testing.T) {
	c := capability(t, model.Version21, model.ProfileMinimum)

	desc := newInvoice()
	assert.NoError(t, validator.Validate(desc, c, validator.TaxTypeReject))

	desc.TradeLineItems = nil
	got := violations(validator.Validate(desc, c, validator.TaxTypeReject))
	require.Len(t, got, 1)
	assert.Equal(t, validator.RuleMinimumBasis, got[0].Rule)

	desc.Totals.TaxBasisAmount = decimal.NewFromInt(73)
	assert.NoError(t, validator.Validate(desc, c, validator.TaxTypeReject))
}

func TestIsCountryCode(t *testing.T) {
	assert.True(t, validator.IsCountryCode("DE"))
	assert.True(t, validator.IsCountryCode("AT"))
	assert.False(t, validator.IsCountryCode("DEU"))
	assert.False(t, validator.IsCountryCode("ZZ"))
	assert.False(t, validator.IsCountryCode(""))
}

func TestParseTaxTypePolicy(t *testing.T) {
	p, err := validator.ParseTaxTypePolicy("coerce")
	require.NoError(t, err)
	assert.Equal(t, validator.TaxTypeCoerce, p)
	assert.Equal(t, "coerce", p.String())

	p, err = validator.ParseTaxTypePolicy("")
	require.NoError(t, err)
	assert.Equal(t, validator.TaxTypeReject, p)

	_, err = validator.ParseTaxTypePolicy("ignore")
	assert.Error(t, err)
}
