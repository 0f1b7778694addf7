package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxClassification is the type, category and rate applied to a line or charge
type TaxClassification struct {
	TypeCode     TaxType          `json:"typeCode,omitempty"`
	CategoryCode TaxCategoryCode  `json:"categoryCode,omitempty"`
	Percent      *decimal.Decimal `json:"percent,omitempty"`
}

// IsZero reports whether no part of the classification is set
func (c TaxClassification) IsZero() bool {
	return c.TypeCode == "" && c.CategoryCode == "" && c.Percent == nil
}

// Tax is one document-level tax breakdown entry, one per distinct rate
type Tax struct {
	TaxClassification
	BasisAmount         decimal.Decimal `json:"basisAmount"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	ExemptionReason     string          `json:"exemptionReason,omitempty"`
	ExemptionReasonCode string          `json:"exemptionReasonCode,omitempty"`
}

// AllowanceCharge is a surcharge (ChargeIndicator true) or rebate
type AllowanceCharge struct {
	ChargeIndicator bool              `json:"chargeIndicator"`
	BasisAmount     *decimal.Decimal  `json:"basisAmount,omitempty"`
	ActualAmount    decimal.Decimal   `json:"actualAmount"`
	Currency        string            `json:"currency,omitempty"`
	Reason          string            `json:"reason,omitempty"`
	Tax             TaxClassification `json:"tax"`
}

// ServiceCharge is a logistics service charge
type ServiceCharge struct {
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Tax         TaxClassification `json:"tax"`
}

// PaymentMeans describes how the invoice is to be paid
type PaymentMeans struct {
	TypeCode               PaymentMeansTypeCode `json:"typeCode,omitempty"`
	Information            string               `json:"information,omitempty"`
	SEPACreditorIdentifier string               `json:"sepaCreditorIdentifier,omitempty"`
	SEPAMandateReference   string               `json:"sepaMandateReference,omitempty"`
	FinancialCard          *FinancialCard       `json:"financialCard,omitempty"`
}

// IsSEPADirectDebit reports whether the payment is collected by SEPA direct debit
func (p *PaymentMeans) IsSEPADirectDebit() bool {
	return p != nil && p.TypeCode == PaymentMeansSEPADirectDebit
}

// FinancialCard references the card used for payment
type FinancialCard struct {
	ID             string `json:"id"`
	CardholderName string `json:"cardholderName,omitempty"`
}

// BankAccount is a creditor or debitor account
type BankAccount struct {
	IBAN     string `json:"iban,omitempty"`
	BIC      string `json:"bic,omitempty"`
	Name     string `json:"name,omitempty"`
	BankName string `json:"bankName,omitempty"`
	ID       string `json:"id,omitempty"`
}

// PaymentTerms holds the payment conditions
type PaymentTerms struct {
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}
