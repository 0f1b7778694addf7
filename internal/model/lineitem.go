package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeLineItem is one invoice position
type TradeLineItem struct {
	LineID           string    `json:"lineId"`
	GlobalID         *GlobalID `json:"globalId,omitempty"`
	SellerAssignedID string    `json:"sellerAssignedId,omitempty"`
	BuyerAssignedID  string    `json:"buyerAssignedId,omitempty"`
	Name             string    `json:"name,omitempty"`
	Description      string    `json:"description,omitempty"`
	Notes            []Note    `json:"notes,omitempty"`

	UnitCode        QuantityCode     `json:"unitCode,omitempty"`
	BilledQuantity  decimal.Decimal  `json:"billedQuantity"`
	UnitQuantity    *decimal.Decimal `json:"unitQuantity,omitempty"`
	NetUnitPrice    *decimal.Decimal `json:"netUnitPrice,omitempty"`
	GrossUnitPrice  *decimal.Decimal `json:"grossUnitPrice,omitempty"`
	LineTotalAmount *decimal.Decimal `json:"lineTotalAmount,omitempty"`

	Tax                TaxClassification `json:"tax"`
	BillingPeriodStart *time.Time        `json:"billingPeriodStart,omitempty"`
	BillingPeriodEnd   *time.Time        `json:"billingPeriodEnd,omitempty"`
	ActualDeliveryDate *time.Time        `json:"actualDeliveryDate,omitempty"`

	ApplicableProductCharacteristics []ProductCharacteristic `json:"applicableProductCharacteristics,omitempty"`

	BuyerOrderReferencedDocument   *BuyerOrderReferencedDocument   `json:"buyerOrderReferencedDocument,omitempty"`
	DeliveryNoteReferencedDocument *DeliveryNoteReferencedDocument `json:"deliveryNoteReferencedDocument,omitempty"`
	ContractReferencedDocument     *ContractReferencedDocument     `json:"contractReferencedDocument,omitempty"`
	AdditionalReferencedDocuments  []AdditionalReferencedDocument  `json:"additionalReferencedDocuments,omitempty"`

	TradeAllowanceCharges                      []AllowanceCharge   `json:"tradeAllowanceCharges,omitempty"`
	ReceivableSpecifiedTradeAccountingAccounts []AccountingAccount `json:"receivableSpecifiedTradeAccountingAccounts,omitempty"`
}

// ProductCharacteristic is a free-form description/value pair
type ProductCharacteristic struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// AccountingAccount is a buyer accounting reference
type AccountingAccount struct {
	TradeAccountID       string `json:"tradeAccountId"`
	TradeAccountTypeCode string `json:"tradeAccountTypeCode,omitempty"`
}

// IsCommentOnly reports whether the line only carries a note
func (li *TradeLineItem) IsCommentOnly() bool {
	return li.Name == "" && li.Description == "" && li.SellerAssignedID == "" && li.GlobalID == nil &&
		li.BilledQuantity.IsZero() && li.NetUnitPrice == nil && len(li.Notes) > 0
}
