// Package validator checks an invoice against the rules of a target capability before it is written.
package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

// TaxTypePolicy decides what happens to a tax type code the target profile does not accept
type TaxTypePolicy int

const (
	// TaxTypeReject fails the save with an UnsupportedError
	TaxTypeReject TaxTypePolicy = iota
	// TaxTypeCoerce writes VAT instead of the offending code
	TaxTypeCoerce
)

func (p TaxTypePolicy) String() string {
	switch p {
	case TaxTypeReject:
		return "reject"
	case TaxTypeCoerce:
		return "coerce"
	default:
		return "unknown"
	}
}

// ParseTaxTypePolicy reads "reject" or "coerce"
func ParseTaxTypePolicy(s string) (TaxTypePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject", "strict":
		return TaxTypeReject, nil
	case "coerce", "vat":
		return TaxTypeCoerce, nil
	}
	return TaxTypeReject, fmt.Errorf("unknown tax type policy %q", s)
}

// Rule names reported in BusinessRuleViolation.Rule
const (
	RuleRequired        = "required"
	RuleCurrency        = "currency-code"
	RuleCountry         = "country-code"
	RuleSEPADirectDebit = "sepa-direct-debit"
	RuleMinimumBasis    = "minimum-tax-basis"
	RuleBillingPeriod   = "billing-period"
	RuleUnitCode        = "unit-code"
)

// Validate returns nil or every violation found, joined with errors.Join
func Validate(d *model.InvoiceDescriptor, c profile.Capability, policy TaxTypePolicy) error {
	if d == nil {
		return model.NewBusinessRuleViolation(RuleRequired, "InvoiceDescriptor", nil, "invoice is required")
	}
	v := &run{desc: d, cap: c, policy: policy}

	v.header()
	v.parties()
	if !v.lineItemsPresent() {
		return errors.Join(v.errs...)
	}
	v.taxTypes()
	v.sepa()
	v.minimum()
	v.periods()
	v.lines()

	return errors.Join(v.errs...)
}

type run struct {
	desc   *model.InvoiceDescriptor
	cap    profile.Capability
	policy TaxTypePolicy
	errs   []error
}

func (v *run) violation(rule, field string, value interface{}, message string) {
	v.errs = append(v.errs, model.NewBusinessRuleViolation(rule, field, value, message))
}

func (v *run) header() {
	d := v.desc
	if strings.TrimSpace(d.InvoiceNo) == "" {
		v.violation(RuleRequired, "InvoiceNo", nil, "invoice number is required")
	}
	if d.InvoiceDate.IsZero() {
		v.violation(RuleRequired, "InvoiceDate", nil, "issue date is required")
	}
	if d.Type == "" {
		v.violation(RuleRequired, "Type", nil, "invoice type code is required")
	}
	if d.Currency == "" {
		v.violation(RuleRequired, "Currency", nil, "currency is required")
	} else if _, err := currency.ParseISO(d.Currency); err != nil || len(d.Currency) != 3 {
		v.violation(RuleCurrency, "Currency", d.Currency, "not an ISO 4217 currency code")
	}
}

// lineItemsPresent reports nil entries in TradeLineItems. The line checks that follow
// dereference every entry, so they only run when it returns true.
func (v *run) lineItemsPresent() bool {
	ok := true
	for i, li := range v.desc.TradeLineItems {
		if li == nil {
			v.violation(RuleRequired, fmt.Sprintf("TradeLineItems[%d]", i), nil, "line item is required")
			ok = false
		}
	}
	return ok
}

func (v *run) parties() {
	parties := []struct {
		field string
		party *model.Party
	}{
		{"Seller", v.desc.Seller},
		{"Buyer", v.desc.Buyer},
		{"ShipTo", v.desc.ShipTo},
		{"ShipFrom", v.desc.ShipFrom},
		{"Invoicee", v.desc.Invoicee},
		{"Payee", v.desc.Payee},
	}
	for _, p := range parties {
		if p.party == nil || p.party.Country == "" {
			continue
		}
		if !IsCountryCode(p.party.Country) {
			v.violation(RuleCountry, p.field+".Country", p.party.Country, "not an ISO 3166 country code")
		}
	}
}

// IsCountryCode reports whether s is an ISO 3166-1 alpha-2 country code
func IsCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	r, err := language.ParseRegion(s)
	return err == nil && r.IsCountry()
}

func (v *run) taxTypes() {
	if v.policy == TaxTypeCoerce {
		return
	}
	d := v.desc
	check := func(field string, t model.TaxType) {
		if t == "" || v.cap.IsTaxTypeAllowed(t) {
			return
		}
		v.errs = append(v.errs, model.NewUnsupportedError(v.cap.Version, v.cap.Profile, field, t,
			fmt.Sprintf("tax type not allowed, expected one of %v", v.cap.AllowedTaxTypes())))
	}

	if v.cap.IsGroupAllowed(profile.GroupTaxBreakdown) {
		for i, t := range d.Taxes {
			check(fmt.Sprintf("Taxes[%d].TypeCode", i), t.TypeCode)
		}
	}
	if v.cap.IsGroupAllowed(profile.GroupTradeAllowanceCharges) {
		for i, ac := range d.TradeAllowanceCharges {
			check(fmt.Sprintf("TradeAllowanceCharges[%d].Tax.TypeCode", i), ac.Tax.TypeCode)
		}
	}
	if v.cap.IsGroupAllowed(profile.GroupServiceCharges) {
		for i, sc := range d.ServiceCharges {
			check(fmt.Sprintf("ServiceCharges[%d].Tax.TypeCode", i), sc.Tax.TypeCode)
		}
	}
	if v.cap.IsGroupAllowed(profile.GroupLineItems) {
		for i, li := range d.TradeLineItems {
			check(fmt.Sprintf("TradeLineItems[%d].Tax.TypeCode", i), li.Tax.TypeCode)
		}
	}
}

func (v *run) sepa() {
	pm := v.desc.PaymentMeans
	if !pm.IsSEPADirectDebit() || !v.cap.IsGroupAllowed(profile.GroupSEPADirectDebit) {
		return
	}
	if pm.SEPACreditorIdentifier == "" {
		v.violation(RuleSEPADirectDebit, "PaymentMeans.SEPACreditorIdentifier", nil, "creditor identifier is required for SEPA direct debit")
	}
	if pm.SEPAMandateReference == "" {
		v.violation(RuleSEPADirectDebit, "PaymentMeans.SEPAMandateReference", nil, "mandate reference is required for SEPA direct debit")
	}
	for _, acc := range v.desc.DebitorBankAccounts {
		if acc.IBAN != "" {
			return
		}
	}
	v.violation(RuleSEPADirectDebit, "DebitorBankAccounts", nil, "a debitor IBAN is required for SEPA direct debit")
}

func (v *run) minimum() {
	if v.cap.IsGroupAllowed(profile.GroupLineItems) {
		return
	}
	if len(v.desc.TradeLineItems) == 0 && v.desc.Totals.TaxBasisAmount.IsZero() {
		v.violation(RuleMinimumBasis, "Totals.TaxBasisAmount", nil, "line items or a tax basis amount are required")
	}
}

func (v *run) periods() {
	v.period("BillingPeriod", v.desc.BillingPeriodStart, v.desc.BillingPeriodEnd)
	for i, li := range v.desc.TradeLineItems {
		v.period(fmt.Sprintf("TradeLineItems[%d].BillingPeriod", i), li.BillingPeriodStart, li.BillingPeriodEnd)
	}
}

func (v *run) period(field string, start, end *time.Time) {
	if start == nil || end == nil {
		return
	}
	if end.Before(*start) {
		v.violation(RuleBillingPeriod, field, end.Format(time.DateOnly), "billing period ends before it starts")
	}
}

func (v *run) lines() {
	for i, li := range v.desc.TradeLineItems {
		if li.IsCommentOnly() {
			continue
		}
		if !li.BilledQuantity.IsZero() && li.UnitCode == "" {
			v.violation(RuleUnitCode, fmt.Sprintf("TradeLineItems[%d].UnitCode", i), nil, "unit code is required with a billed quantity")
		}
	}
}
