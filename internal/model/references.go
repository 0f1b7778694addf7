package model

import "time"

// ReferencedDocument is the part every referenced document shares
type ReferencedDocument struct {
	ID            string     `json:"id"`
	IssueDateTime *time.Time `json:"issueDateTime,omitempty"`
}

// ContractReferencedDocument references the underlying contract
type ContractReferencedDocument struct {
	ReferencedDocument
}

// SellerOrderReferencedDocument references the seller's order confirmation
type SellerOrderReferencedDocument struct {
	ReferencedDocument
}

// BuyerOrderReferencedDocument references the buyer's purchase order
type BuyerOrderReferencedDocument struct {
	ReferencedDocument
	LineID string `json:"lineId,omitempty"`
}

// DeliveryNoteReferencedDocument references a delivery note
type DeliveryNoteReferencedDocument struct {
	ReferencedDocument
}

// InvoiceReferencedDocument references a preceding invoice
type InvoiceReferencedDocument struct {
	ReferencedDocument
}

// AdditionalReferencedDocument is a supporting document, optionally with an embedded payload
type AdditionalReferencedDocument struct {
	ReferencedDocument
	TypeCode               AdditionalReferencedDocumentTypeCode `json:"typeCode,omitempty"`
	ReferenceTypeCode      ReferenceTypeCode                    `json:"referenceTypeCode,omitempty"`
	Name                   string                               `json:"name,omitempty"`
	URIID                  string                               `json:"uriId,omitempty"`
	AttachmentBinaryObject []byte                               `json:"attachmentBinaryObject,omitempty"`
	Filename               string                               `json:"filename,omitempty"`
	MimeType               string                               `json:"mimeType,omitempty"`
}

// HasAttachment reports whether a binary payload is present
func (d *AdditionalReferencedDocument) HasAttachment() bool {
	return len(d.AttachmentBinaryObject) > 0
}

// ProcuringProject is the project the invoice relates to
type ProcuringProject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
