package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Ptr returns a pointer to v, handy for the optional fields of the model
func Ptr[T any](v T) *T {
	return &v
}

// NewInvoiceDescriptor creates an invoice with the mandatory header data set
func NewInvoiceDescriptor(invoiceNo string, invoiceDate time.Time, currency string) *InvoiceDescriptor {
	return &InvoiceDescriptor{
		InvoiceNo:   invoiceNo,
		InvoiceDate: CalendarDate(invoiceDate),
		Currency:    currency,
		Type:        InvoiceTypeInvoice,
	}
}

// AddNote appends a document-level note
func (d *InvoiceDescriptor) AddNote(content string, subject SubjectCode) {
	d.Notes = append(d.Notes, Note{Content: content, SubjectCode: subject})
}

func (d *InvoiceDescriptor) SetSeller(p Party) {
	d.Seller = &p
}

func (d *InvoiceDescriptor) SetSellerContact(c Contact) {
	d.SellerContact = &c
}

func (d *InvoiceDescriptor) AddSellerTaxRegistration(no string, scheme TaxRegistrationSchemeID) {
	d.SellerTaxRegistration = append(d.SellerTaxRegistration, TaxRegistration{SchemeID: scheme, No: no})
}

func (d *InvoiceDescriptor) SetBuyer(p Party) {
	d.Buyer = &p
}

func (d *InvoiceDescriptor) SetBuyerContact(c Contact) {
	d.BuyerContact = &c
}

func (d *InvoiceDescriptor) AddBuyerTaxRegistration(no string, scheme TaxRegistrationSchemeID) {
	d.BuyerTaxRegistration = append(d.BuyerTaxRegistration, TaxRegistration{SchemeID: scheme, No: no})
}

func (d *InvoiceDescriptor) SetShipTo(p Party) {
	d.ShipTo = &p
}

func (d *InvoiceDescriptor) SetShipFrom(p Party) {
	d.ShipFrom = &p
}

func (d *InvoiceDescriptor) SetInvoicee(p Party) {
	d.Invoicee = &p
}

func (d *InvoiceDescriptor) SetPayee(p Party) {
	d.Payee = &p
}

// SetBuyerOrderReferencedDocument sets the purchase order number and date
func (d *InvoiceDescriptor) SetBuyerOrderReferencedDocument(orderNo string, orderDate *time.Time) {
	d.OrderNo = orderNo
	d.OrderDate = calendarDatePtr(orderDate)
}

func (d *InvoiceDescriptor) SetSellerOrderReferencedDocument(id string, issueDate *time.Time) {
	d.SellerOrderReferencedDocument = &SellerOrderReferencedDocument{
		ReferencedDocument: ReferencedDocument{ID: id, IssueDateTime: calendarDatePtr(issueDate)},
	}
}

func (d *InvoiceDescriptor) SetContractReferencedDocument(id string, issueDate *time.Time) {
	d.ContractReferencedDocument = &ContractReferencedDocument{
		ReferencedDocument: ReferencedDocument{ID: id, IssueDateTime: calendarDatePtr(issueDate)},
	}
}

func (d *InvoiceDescriptor) SetDeliveryNoteReferencedDocument(id string, issueDate *time.Time) {
	d.DeliveryNoteReferencedDocument = &DeliveryNoteReferencedDocument{
		ReferencedDocument: ReferencedDocument{ID: id, IssueDateTime: calendarDatePtr(issueDate)},
	}
}

// SetInvoiceReferencedDocument references a preceding invoice, e.g. for a credit note
func (d *InvoiceDescriptor) SetInvoiceReferencedDocument(id string, issueDate *time.Time) {
	d.InvoiceReferencedDocument = &InvoiceReferencedDocument{
		ReferencedDocument: ReferencedDocument{ID: id, IssueDateTime: calendarDatePtr(issueDate)},
	}
}

// AddAdditionalReferencedDocument appends a supporting document.
// The MIME type is derived from the filename when a payload is given without one.
func (d *InvoiceDescriptor) AddAdditionalReferencedDocument(doc AdditionalReferencedDocument) {
	if doc.HasAttachment() && doc.MimeType == "" {
		doc.MimeType = MimeTypeFromFilename(doc.Filename)
	}
	d.AdditionalReferencedDocuments = append(d.AdditionalReferencedDocuments, doc)
}

func (d *InvoiceDescriptor) SetProcuringProject(id, name string) {
	d.SpecifiedProcuringProject = &ProcuringProject{ID: id, Name: name}
}

// SetBillingPeriod sets the invoicing period of the whole document
func (d *InvoiceDescriptor) SetBillingPeriod(start, end time.Time) {
	d.BillingPeriodStart = calendarDatePtr(&start)
	d.BillingPeriodEnd = calendarDatePtr(&end)
}

func (d *InvoiceDescriptor) SetPaymentMeans(typeCode PaymentMeansTypeCode, information string) {
	d.PaymentMeans = &PaymentMeans{TypeCode: typeCode, Information: information}
}

// SetPaymentMeansSEPADirectDebit marks the invoice as collected by SEPA direct debit
func (d *InvoiceDescriptor) SetPaymentMeansSEPADirectDebit(creditorID, mandateReference, information string) {
	d.PaymentMeans = &PaymentMeans{
		TypeCode:               PaymentMeansSEPADirectDebit,
		Information:            information,
		SEPACreditorIdentifier: creditorID,
		SEPAMandateReference:   mandateReference,
	}
}

func (d *InvoiceDescriptor) SetPaymentMeansFinancialCard(typeCode PaymentMeansTypeCode, information, cardID, cardholderName string) {
	d.PaymentMeans = &PaymentMeans{
		TypeCode:      typeCode,
		Information:   information,
		FinancialCard: &FinancialCard{ID: cardID, CardholderName: cardholderName},
	}
}

func (d *InvoiceDescriptor) AddCreditorFinancialAccount(iban, bic, name string) {
	d.CreditorBankAccounts = append(d.CreditorBankAccounts, BankAccount{IBAN: iban, BIC: bic, Name: name})
}

func (d *InvoiceDescriptor) AddDebitorFinancialAccount(iban, bic string) {
	d.DebitorBankAccounts = append(d.DebitorBankAccounts, BankAccount{IBAN: iban, BIC: bic})
}

// AddApplicableTradeTax appends a tax breakdown entry. Amounts are stored as given.
func (d *InvoiceDescriptor) AddApplicableTradeTax(basis, percent, taxAmount decimal.Decimal, typeCode TaxType, category TaxCategoryCode) {
	d.Taxes = append(d.Taxes, Tax{
		TaxClassification: TaxClassification{
			TypeCode:     typeCode,
			CategoryCode: category,
			Percent:      &percent,
		},
		BasisAmount: basis,
		TaxAmount:   taxAmount,
	})
}

// AddTradeAllowanceCharge appends a document-level allowance (isDiscount) or charge
func (d *InvoiceDescriptor) AddTradeAllowanceCharge(isDiscount bool, basis *decimal.Decimal, actual decimal.Decimal, currency, reason string, tax TaxClassification) {
	d.TradeAllowanceCharges = append(d.TradeAllowanceCharges, AllowanceCharge{
		ChargeIndicator: !isDiscount,
		BasisAmount:     basis,
		ActualAmount:    actual,
		Currency:        currency,
		Reason:          reason,
		Tax:             tax,
	})
}

func (d *InvoiceDescriptor) AddLogisticsServiceCharge(amount decimal.Decimal, description string, tax TaxClassification) {
	d.ServiceCharges = append(d.ServiceCharges, ServiceCharge{
		Description: description,
		Amount:      amount,
		Tax:         tax,
	})
}

func (d *InvoiceDescriptor) SetTradePaymentTerms(description string, dueDate *time.Time) {
	d.PaymentTerms = &PaymentTerms{Description: description, DueDate: calendarDatePtr(dueDate)}
}

func (d *InvoiceDescriptor) SetTotals(t Totals) {
	d.Totals = t
}

// AddTradeLineItem appends a line, assigning the next free line ID when none is set
func (d *InvoiceDescriptor) AddTradeLineItem(item TradeLineItem) *TradeLineItem {
	if item.LineID == "" {
		item.LineID = d.NextLineID()
	}
	li := &item
	d.TradeLineItems = append(d.TradeLineItems, li)
	return li
}

// AddTradeLineCommentItem appends a line that only carries a comment
func (d *InvoiceDescriptor) AddTradeLineCommentItem(lineID, comment string) *TradeLineItem {
	return d.AddTradeLineItem(TradeLineItem{
		LineID: lineID,
		Notes:  []Note{{Content: comment}},
	})
}

// NextLineID returns one past the highest numeric line ID in use
func (d *InvoiceDescriptor) NextLineID() string {
	highest := 0
	for _, li := range d.TradeLineItems {
		if li == nil {
			continue
		}
		if n, err := strconv.Atoi(li.LineID); err == nil && n > highest {
			highest = n
		}
	}
	if highest < len(d.TradeLineItems) {
		highest = len(d.TradeLineItems)
	}
	return strconv.Itoa(highest + 1)
}

// Line item builders

func (li *TradeLineItem) AddNote(content string, subject SubjectCode) {
	li.Notes = append(li.Notes, Note{Content: content, SubjectCode: subject})
}

func (li *TradeLineItem) SetOrderReferencedDocument(id string, issueDate *time.Time) {
	li.BuyerOrderReferencedDocument = &BuyerOrderReferencedDocument{
		ReferencedDocument: ReferencedDocument{ID: id, IssueDateTime: calendarDatePtr(issueDate)},
	}
}

func (li *TradeLineItem) SetDeliveryNoteReferencedDocument(id string, issueDate *time.Time) {
	li.DeliveryNoteReferencedDocument = &DeliveryNoteReferencedDocument{
		ReferencedDocument: ReferencedDocument{ID: id, IssueDateTime: calendarDatePtr(issueDate)},
	}
}

func (li *TradeLineItem) SetContractReferencedDocument(id string, issueDate *time.Time) {
	li.ContractReferencedDocument = &ContractReferencedDocument{
		ReferencedDocument: ReferencedDocument{ID: id, IssueDateTime: calendarDatePtr(issueDate)},
	}
}

func (li *TradeLineItem) AddAdditionalReferencedDocument(id string, typeCode AdditionalReferencedDocumentTypeCode, refType ReferenceTypeCode, issueDate *time.Time) {
	li.AdditionalReferencedDocuments = append(li.AdditionalReferencedDocuments, AdditionalReferencedDocument{
		ReferencedDocument: ReferencedDocument{ID: id, IssueDateTime: calendarDatePtr(issueDate)},
		TypeCode:           typeCode,
		ReferenceTypeCode:  refType,
	})
}

// AddTradeAllowanceCharge appends a price allowance (isDiscount) or charge to the line
func (li *TradeLineItem) AddTradeAllowanceCharge(isDiscount bool, currency string, basis, actual decimal.Decimal, reason string) {
	li.TradeAllowanceCharges = append(li.TradeAllowanceCharges, AllowanceCharge{
		ChargeIndicator: !isDiscount,
		BasisAmount:     &basis,
		ActualAmount:    actual,
		Currency:        currency,
		Reason:          reason,
	})
}

func (li *TradeLineItem) AddProductCharacteristic(description, value string) {
	li.ApplicableProductCharacteristics = append(li.ApplicableProductCharacteristics, ProductCharacteristic{
		Description: description,
		Value:       value,
	})
}

func (li *TradeLineItem) AddReceivableSpecifiedTradeAccountingAccount(id, typeCode string) {
	li.ReceivableSpecifiedTradeAccountingAccounts = append(li.ReceivableSpecifiedTradeAccountingAccounts, AccountingAccount{
		TradeAccountID:       id,
		TradeAccountTypeCode: typeCode,
	})
}

func (li *TradeLineItem) SetBillingPeriod(start, end time.Time) {
	li.BillingPeriodStart = calendarDatePtr(&start)
	li.BillingPeriodEnd = calendarDatePtr(&end)
}
