// Package model holds the in-memory representation of a ZUGFeRD / Factur-X invoice.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalendarDate returns midnight UTC of the day t falls on in its own location.
// Every date in an invoice is a calendar date: the writer emits the day only and the
// reader returns dates in this form, so builders normalise with it too.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func calendarDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := CalendarDate(*t)
	return &c
}

// InvoiceDescriptor is one electronic invoice.
// Pointer fields are unset when the source document did not carry them.
type InvoiceDescriptor struct {
	// Filled in by the reader; ignored by the writer, which is told the target explicitly
	Version Version `json:"version,omitempty"`
	Profile Profile `json:"profile,omitempty"`

	InvoiceNo       string      `json:"invoiceNo"`
	InvoiceDate     time.Time   `json:"invoiceDate"`
	Type            InvoiceType `json:"type"`
	Name            string      `json:"name,omitempty"`
	Currency        string      `json:"currency"`
	IsTest          bool        `json:"isTest,omitempty"`
	BusinessProcess string      `json:"businessProcess,omitempty"`
	Notes           []Note      `json:"notes,omitempty"`

	ReferenceOrderNo               string                          `json:"referenceOrderNo,omitempty"`
	OrderNo                        string                          `json:"orderNo,omitempty"`
	OrderDate                      *time.Time                      `json:"orderDate,omitempty"`
	SellerOrderReferencedDocument  *SellerOrderReferencedDocument  `json:"sellerOrderReferencedDocument,omitempty"`
	ContractReferencedDocument     *ContractReferencedDocument     `json:"contractReferencedDocument,omitempty"`
	DeliveryNoteReferencedDocument *DeliveryNoteReferencedDocument `json:"deliveryNoteReferencedDocument,omitempty"`
	InvoiceReferencedDocument      *InvoiceReferencedDocument      `json:"invoiceReferencedDocument,omitempty"`
	AdditionalReferencedDocuments  []AdditionalReferencedDocument  `json:"additionalReferencedDocuments,omitempty"`
	SpecifiedProcuringProject      *ProcuringProject               `json:"specifiedProcuringProject,omitempty"`

	Seller                *Party            `json:"seller,omitempty"`
	SellerContact         *Contact          `json:"sellerContact,omitempty"`
	SellerTaxRegistration []TaxRegistration `json:"sellerTaxRegistration,omitempty"`
	Buyer                 *Party            `json:"buyer,omitempty"`
	BuyerContact          *Contact          `json:"buyerContact,omitempty"`
	BuyerTaxRegistration  []TaxRegistration `json:"buyerTaxRegistration,omitempty"`
	ShipTo                *Party            `json:"shipTo,omitempty"`
	ShipFrom              *Party            `json:"shipFrom,omitempty"`
	Invoicee              *Party            `json:"invoicee,omitempty"`
	Payee                 *Party            `json:"payee,omitempty"`
	ActualDeliveryDate    *time.Time        `json:"actualDeliveryDate,omitempty"`
	BillingPeriodStart    *time.Time        `json:"billingPeriodStart,omitempty"`
	BillingPeriodEnd      *time.Time        `json:"billingPeriodEnd,omitempty"`

	PaymentReference      string            `json:"paymentReference,omitempty"`
	PaymentMeans          *PaymentMeans     `json:"paymentMeans,omitempty"`
	CreditorBankAccounts  []BankAccount     `json:"creditorBankAccounts,omitempty"`
	DebitorBankAccounts   []BankAccount     `json:"debitorBankAccounts,omitempty"`
	PaymentTerms          *PaymentTerms     `json:"paymentTerms,omitempty"`
	Taxes                 []Tax             `json:"taxes,omitempty"`
	TradeAllowanceCharges []AllowanceCharge `json:"tradeAllowanceCharges,omitempty"`
	ServiceCharges        []ServiceCharge   `json:"serviceCharges,omitempty"`

	Totals Totals `json:"totals"`

	TradeLineItems []*TradeLineItem `json:"tradeLineItems,omitempty"`
}

// Totals are the document-level monetary summation.
// Amounts the document did not carry read back as zero.
type Totals struct {
	LineTotalAmount      decimal.Decimal `json:"lineTotalAmount"`
	ChargeTotalAmount    decimal.Decimal `json:"chargeTotalAmount"`
	AllowanceTotalAmount decimal.Decimal `json:"allowanceTotalAmount"`
	TaxBasisAmount       decimal.Decimal `json:"taxBasisAmount"`
	TaxTotalAmount       decimal.Decimal `json:"taxTotalAmount"`
	GrandTotalAmount     decimal.Decimal `json:"grandTotalAmount"`
	TotalPrepaidAmount   decimal.Decimal `json:"totalPrepaidAmount"`
	DuePayableAmount     decimal.Decimal `json:"duePayableAmount"`
	RoundingAmount       decimal.Decimal `json:"roundingAmount"`
}

// Note is a free-text note with an optional subject qualifier
type Note struct {
	Content     string      `json:"content"`
	SubjectCode SubjectCode `json:"subjectCode,omitempty"`
}

// Party is a seller, buyer, ship-to, ship-from, invoicee or payee
type Party struct {
	ID                     string    `json:"id,omitempty"`
	GlobalID               *GlobalID `json:"globalId,omitempty"`
	Name                   string    `json:"name,omitempty"`
	ContactName            string    `json:"contactName,omitempty"`
	Street                 string    `json:"street,omitempty"`
	AddressLine3           string    `json:"addressLine3,omitempty"`
	Postcode               string    `json:"postcode,omitempty"`
	City                   string    `json:"city,omitempty"`
	Country                string    `json:"country,omitempty"`
	CountrySubdivisionName string    `json:"countrySubdivisionName,omitempty"`
}

// HasAddress reports whether any postal address field is set
func (p *Party) HasAddress() bool {
	return p.ContactName != "" || p.Street != "" || p.AddressLine3 != "" || p.Postcode != "" ||
		p.City != "" || p.Country != "" || p.CountrySubdivisionName != ""
}

// GlobalID is a scheme-qualified identifier such as a GLN
type GlobalID struct {
	SchemeID GlobalIDSchemeID `json:"schemeId"`
	ID       string           `json:"id"`
}

// Contact is a contact person or department of a party
type Contact struct {
	Name         string `json:"name,omitempty"`
	OrgUnit      string `json:"orgUnit,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNo      string `json:"phoneNo,omitempty"`
	FaxNo        string `json:"faxNo,omitempty"`
}

// TaxRegistration is a fiscal number or VAT ID
type TaxRegistration struct {
	SchemeID TaxRegistrationSchemeID `json:"schemeId"`
	No       string                  `json:"no"`
}
