// Package zugferd reads and writes ZUGFeRD 1.0, ZUGFeRD 2.1 / Factur-X and XRechnung invoices.
//
// An invoice is built in memory and written for a target version and profile.
// Fields the profile cannot carry are left out; Load reads both versions back,
// from plain XML or from the attachment of a hybrid PDF.
//
// Example usage:
//
//	d := zugferd.NewInvoiceDescriptor("471102", issued, "EUR")
//	d.SetSeller(zugferd.Party{Name: "Lieferant GmbH", Country: "DE"})
//	if err := zugferd.SaveFile("invoice.xml", d, zugferd.Version21, zugferd.ProfileComfort); err != nil {
//	    log.Fatal(err)
//	}
//
//	inv, err := zugferd.LoadFile("invoice.pdf")
package zugferd

import (
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

// Re-export core types for public API
type (
	InvoiceDescriptor = model.InvoiceDescriptor
	Totals            = model.Totals
	Note              = model.Note
	Party             = model.Party
	GlobalID          = model.GlobalID
	Contact           = model.Contact
	TaxRegistration   = model.TaxRegistration
	TradeLineItem     = model.TradeLineItem
	Tax               = model.Tax
	TaxClassification = model.TaxClassification
	AllowanceCharge   = model.AllowanceCharge
	ServiceCharge     = model.ServiceCharge
	PaymentMeans      = model.PaymentMeans
	FinancialCard     = model.FinancialCard
	BankAccount       = model.BankAccount
	PaymentTerms      = model.PaymentTerms

	AdditionalReferencedDocument = model.AdditionalReferencedDocument
	ProductCharacteristic        = model.ProductCharacteristic
	AccountingAccount            = model.AccountingAccount

	Version     = model.Version
	Profile     = model.Profile
	InvoiceType = model.InvoiceType
	TaxType     = model.TaxType

	Capability = profile.Capability
	FieldGroup = profile.FieldGroup
)

// Re-export versions
const (
	Version1  = model.Version1
	Version21 = model.Version21
)

// Re-export profiles
const (
	ProfileUnknown    = model.ProfileUnknown
	ProfileMinimum    = model.ProfileMinimum
	ProfileBasicWL    = model.ProfileBasicWL
	ProfileBasic      = model.ProfileBasic
	ProfileComfort    = model.ProfileComfort
	ProfileExtended   = model.ProfileExtended
	ProfileXRechnung1 = model.ProfileXRechnung1
	ProfileXRechnung  = model.ProfileXRechnung
)

// Re-export invoice types
const (
	InvoiceTypeInvoice    = model.InvoiceTypeInvoice
	InvoiceTypeCreditNote = model.InvoiceTypeCreditNote
	InvoiceTypeDebitNote  = model.InvoiceTypeDebitNote
	InvoiceTypeCorrection = model.InvoiceTypeCorrection
)

// Re-export error types
type (
	ParseError            = model.ParseError
	UnknownProfileError   = model.UnknownProfileError
	UnsupportedError      = model.UnsupportedError
	BusinessRuleViolation = model.BusinessRuleViolation
)

// NewInvoiceDescriptor creates an invoice with the mandatory header data set
var NewInvoiceDescriptor = model.NewInvoiceDescriptor
