package codec

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

const version21Root = "CrossIndustryInvoice"

// version21Adapter handles the ZUGFeRD 2.1 / Factur-X CrossIndustryInvoice layout
type version21Adapter struct{}

func newVersion21Adapter() *version21Adapter {
	return &version21Adapter{}
}

func (a *version21Adapter) Version() model.Version {
	return model.Version21
}

func (a *version21Adapter) CanDecode(root *etree.Element) bool {
	return root.Tag == version21Root && root.NamespaceURI() == version21Namespaces.uri("rsm")
}

func (a *version21Adapter) Identify(root *etree.Element) string {
	d := a.decoder()
	return d.text(root, "rsm:ExchangedDocumentContext/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID")
}

func (a *version21Adapter) decoder() *decoder {
	return &decoder{version: model.Version21, ns: version21Namespaces, percentTag: "ram:RateApplicablePercent"}
}

func (a *version21Adapter) Encode(d *model.InvoiceDescriptor, c profile.Capability, onCoerce CoerceFunc) (*etree.Document, error) {
	e := &encoder{desc: d, cap: c, onCoerce: onCoerce, percentTag: "ram:RateApplicablePercent"}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("rsm:" + version21Root)
	version21Namespaces.declare(root)

	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	if d.IsTest && e.allowed(profile.GroupTestIndicator) {
		e.indicator(ctx, "ram:TestIndicator", true)
	}
	if d.BusinessProcess != "" && e.allowed(profile.GroupBusinessProcess) {
		e.text(ctx.CreateElement("ram:BusinessProcessSpecifiedDocumentContextParameter"), "ram:ID", d.BusinessProcess)
	}
	e.text(ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter"), "ram:ID", c.URN)

	header := root.CreateElement("rsm:ExchangedDocument")
	e.text(header, "ram:ID", d.InvoiceNo)
	if e.allowed(profile.GroupDocumentName) {
		e.text(header, "ram:Name", d.Name)
	}
	e.text(header, "ram:TypeCode", string(d.Type))
	e.dateTime(header, "ram:IssueDateTime", d.InvoiceDate)
	if e.allowed(profile.GroupNotes) {
		for _, n := range d.Notes {
			e.note(header, n)
		}
	}

	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")
	if e.allowed(profile.GroupLineItems) {
		for i, li := range d.TradeLineItems {
			a.encodeLineItem(e, tx, i, li)
		}
	}
	a.encodeAgreement(e, tx)
	a.encodeDelivery(e, tx)
	a.encodeSettlement(e, tx)

	return doc, nil
}

func (a *version21Adapter) referencedDocument(e *encoder, parent *etree.Element, tag string, ref model.ReferencedDocument, withDate bool) *etree.Element {
	el := parent.CreateElement(tag)
	e.text(el, "ram:IssuerAssignedID", ref.ID)
	if withDate && ref.IssueDateTime != nil {
		a.formattedDate(el, *ref.IssueDateTime)
	}
	return el
}

func (a *version21Adapter) formattedDate(parent *etree.Element, t time.Time) {
	dts := parent.CreateElement("ram:FormattedIssueDateTime").CreateElement("qdt:DateTimeString")
	dts.CreateAttr("format", dateFormatDay)
	dts.SetText(formatDate(t))
}

func (a *version21Adapter) encodeAgreement(e *encoder, tx *etree.Element) {
	d := e.desc
	agreement := tx.CreateElement("ram:ApplicableHeaderTradeAgreement")

	if e.allowed(profile.GroupBuyerReference) {
		e.text(agreement, "ram:BuyerReference", d.ReferenceOrderNo)
	}
	e.party(agreement, "ram:SellerTradeParty", d.Seller, e.sellerContact(), e.taxRegistrations(d.SellerTaxRegistration), true)
	e.party(agreement, "ram:BuyerTradeParty", d.Buyer, e.buyerContact(), e.taxRegistrations(d.BuyerTaxRegistration), true)

	if ref := d.SellerOrderReferencedDocument; ref != nil && e.allowed(profile.GroupSellerOrderReference) {
		a.referencedDocument(e, agreement, "ram:SellerOrderReferencedDocument", ref.ReferencedDocument, true)
	}
	if d.OrderNo != "" && e.allowed(profile.GroupBuyerOrderReference) {
		ref := model.ReferencedDocument{ID: d.OrderNo, IssueDateTime: d.OrderDate}
		a.referencedDocument(e, agreement, "ram:BuyerOrderReferencedDocument", ref, e.allowed(profile.GroupOrderIssueDate))
	}
	if ref := d.ContractReferencedDocument; ref != nil && e.allowed(profile.GroupContractReference) {
		a.referencedDocument(e, agreement, "ram:ContractReferencedDocument", ref.ReferencedDocument, e.allowed(profile.GroupContractIssueDate))
	}
	if e.allowed(profile.GroupAdditionalReferencedDocuments) {
		for _, doc := range d.AdditionalReferencedDocuments {
			a.additionalReferencedDocument(e, agreement, doc)
		}
	}
	if p := d.SpecifiedProcuringProject; p != nil && e.allowed(profile.GroupProcuringProject) {
		el := agreement.CreateElement("ram:SpecifiedProcuringProject")
		e.text(el, "ram:ID", p.ID)
		e.text(el, "ram:Name", p.Name)
	}
}

func (a *version21Adapter) additionalReferencedDocument(e *encoder, parent *etree.Element, doc model.AdditionalReferencedDocument) {
	el := parent.CreateElement("ram:AdditionalReferencedDocument")
	e.text(el, "ram:IssuerAssignedID", doc.ID)
	e.text(el, "ram:URIID", doc.URIID)
	e.text(el, "ram:TypeCode", string(doc.TypeCode))
	e.text(el, "ram:Name", doc.Name)
	e.attachment(el, doc)
	e.text(el, "ram:ReferenceTypeCode", string(doc.ReferenceTypeCode))
	if doc.IssueDateTime != nil {
		a.formattedDate(el, *doc.IssueDateTime)
	}
}

func (a *version21Adapter) encodeDelivery(e *encoder, tx *etree.Element) {
	d := e.desc
	// mandatory even when empty
	delivery := tx.CreateElement("ram:ApplicableHeaderTradeDelivery")

	if e.allowed(profile.GroupShipTo) {
		e.party(delivery, "ram:ShipToTradeParty", d.ShipTo, nil, nil, true)
	}
	if e.allowed(profile.GroupShipFrom) {
		e.party(delivery, "ram:ShipFromTradeParty", d.ShipFrom, nil, nil, true)
	}
	if d.ActualDeliveryDate != nil && e.allowed(profile.GroupActualDeliveryDate) {
		e.dateTime(delivery.CreateElement("ram:ActualDeliverySupplyChainEvent"), "ram:OccurrenceDateTime", *d.ActualDeliveryDate)
	}
	if ref := d.DeliveryNoteReferencedDocument; ref != nil && e.allowed(profile.GroupDeliveryNote) {
		a.referencedDocument(e, delivery, "ram:DeliveryNoteReferencedDocument", ref.ReferencedDocument, true)
	}
}

func (a *version21Adapter) encodeSettlement(e *encoder, tx *etree.Element) {
	d := e.desc
	settlement := tx.CreateElement("ram:ApplicableHeaderTradeSettlement")
	sepa := d.PaymentMeans.IsSEPADirectDebit() && e.allowed(profile.GroupSEPADirectDebit)

	if sepa {
		e.text(settlement, "ram:CreditorReferenceID", d.PaymentMeans.SEPACreditorIdentifier)
	}
	if e.allowed(profile.GroupPaymentMeans) {
		e.text(settlement, "ram:PaymentReference", d.PaymentReference)
	}
	e.text(settlement, "ram:InvoiceCurrencyCode", d.Currency)

	if e.allowed(profile.GroupInvoicee) {
		e.party(settlement, "ram:InvoiceeTradeParty", d.Invoicee, nil, nil, true)
	}
	if e.allowed(profile.GroupPayee) {
		e.party(settlement, "ram:PayeeTradeParty", d.Payee, nil, nil, e.allowed(profile.GroupPayeeDetail))
	}

	if e.allowed(profile.GroupPaymentMeans) {
		a.encodePaymentMeans(e, settlement)
	}

	if e.allowed(profile.GroupTaxBreakdown) {
		for i, t := range d.Taxes {
			tax := settlement.CreateElement("ram:ApplicableTradeTax")
			e.amount(tax, "ram:CalculatedAmount", t.TaxAmount)
			e.text(tax, "ram:TypeCode", string(e.taxType(fmt.Sprintf("Taxes[%d].TypeCode", i), t.TypeCode)))
			if e.allowed(profile.GroupTaxExemptionReason) {
				e.text(tax, "ram:ExemptionReason", t.ExemptionReason)
			}
			e.amount(tax, "ram:BasisAmount", t.BasisAmount)
			e.text(tax, "ram:CategoryCode", string(t.CategoryCode))
			if e.allowed(profile.GroupTaxExemptionReason) {
				e.text(tax, "ram:ExemptionReasonCode", t.ExemptionReasonCode)
			}
			e.percent(tax, t.Percent)
		}
	}

	if e.allowed(profile.GroupBillingPeriod) {
		e.period(settlement, d.BillingPeriodStart, d.BillingPeriodEnd)
	}

	if e.allowed(profile.GroupTradeAllowanceCharges) {
		for i, ac := range d.TradeAllowanceCharges {
			el := settlement.CreateElement("ram:SpecifiedTradeAllowanceCharge")
			e.indicator(el, "ram:ChargeIndicator", ac.ChargeIndicator)
			if ac.BasisAmount != nil {
				e.amount(el, "ram:BasisAmount", *ac.BasisAmount)
			}
			e.amount(el, "ram:ActualAmount", ac.ActualAmount)
			e.text(el, "ram:Reason", ac.Reason)
			if !ac.Tax.IsZero() {
				e.tradeTax(el.CreateElement("ram:CategoryTradeTax"), ac.Tax, fmt.Sprintf("TradeAllowanceCharges[%d].Tax.TypeCode", i))
			}
		}
	}

	if e.allowed(profile.GroupServiceCharges) {
		for i, sc := range d.ServiceCharges {
			el := settlement.CreateElement("ram:SpecifiedLogisticsServiceCharge")
			e.text(el, "ram:Description", sc.Description)
			e.amount(el, "ram:AppliedAmount", sc.Amount)
			if !sc.Tax.IsZero() {
				e.tradeTax(el.CreateElement("ram:AppliedTradeTax"), sc.Tax, fmt.Sprintf("ServiceCharges[%d].Tax.TypeCode", i))
			}
		}
	}

	terms := d.PaymentTerms
	if !e.allowed(profile.GroupPaymentTerms) {
		terms = nil
	}
	if terms != nil || (sepa && d.PaymentMeans.SEPAMandateReference != "") {
		el := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
		if terms != nil {
			e.text(el, "ram:Description", terms.Description)
			if terms.DueDate != nil {
				e.dateTime(el, "ram:DueDateDateTime", *terms.DueDate)
			}
		}
		if sepa {
			e.text(el, "ram:DirectDebitMandateID", d.PaymentMeans.SEPAMandateReference)
		}
	}

	a.encodeTotals(e, settlement)

	if ref := d.InvoiceReferencedDocument; ref != nil && e.allowed(profile.GroupInvoiceReferencedDocument) {
		a.referencedDocument(e, settlement, "ram:InvoiceReferencedDocument", ref.ReferencedDocument, true)
	}
}

// encodePaymentMeans writes one element per bank account so each IBAN keeps its BIC
func (a *version21Adapter) encodePaymentMeans(e *encoder, settlement *etree.Element) {
	d := e.desc
	pm := d.PaymentMeans

	var creditors, debitors []model.BankAccount
	if e.allowed(profile.GroupCreditorBankAccounts) {
		creditors = d.CreditorBankAccounts
	}
	if e.allowed(profile.GroupDebitorBankAccounts) {
		debitors = d.DebitorBankAccounts
	}
	if pm == nil && len(creditors) == 0 && len(debitors) == 0 {
		return
	}

	first := true
	means := func() *etree.Element {
		el := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		if pm != nil {
			e.text(el, "ram:TypeCode", string(pm.TypeCode))
			e.text(el, "ram:Information", pm.Information)
			if first && pm.FinancialCard != nil && e.allowed(profile.GroupFinancialCard) {
				card := el.CreateElement("ram:ApplicableTradeSettlementFinancialCard")
				e.text(card, "ram:ID", pm.FinancialCard.ID)
				e.text(card, "ram:CardholderName", pm.FinancialCard.CardholderName)
			}
		}
		first = false
		return el
	}

	for _, acc := range debitors {
		el := means()
		e.text(el.CreateElement("ram:PayerPartyDebtorFinancialAccount"), "ram:IBANID", acc.IBAN)
	}
	for _, acc := range creditors {
		el := means()
		account := el.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		e.text(account, "ram:IBANID", acc.IBAN)
		e.text(account, "ram:AccountName", acc.Name)
		e.text(account, "ram:ProprietaryID", acc.ID)
		if acc.BIC != "" {
			e.text(el.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution"), "ram:BICID", acc.BIC)
		}
	}
	if first {
		means()
	}
}

func (a *version21Adapter) encodeTotals(e *encoder, settlement *etree.Element) {
	t := e.desc.Totals
	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	lineTotals := e.allowed(profile.GroupLineTotals)

	if lineTotals {
		e.amount(sum, "ram:LineTotalAmount", t.LineTotalAmount)
		e.amount(sum, "ram:ChargeTotalAmount", t.ChargeTotalAmount)
		e.amount(sum, "ram:AllowanceTotalAmount", t.AllowanceTotalAmount)
	}
	e.amount(sum, "ram:TaxBasisTotalAmount", t.TaxBasisAmount)
	e.amount(sum, "ram:TaxTotalAmount", t.TaxTotalAmount).CreateAttr("currencyID", e.desc.Currency)
	if !t.RoundingAmount.IsZero() && e.allowed(profile.GroupRoundingAmount) {
		e.amount(sum, "ram:RoundingAmount", t.RoundingAmount)
	}
	e.amount(sum, "ram:GrandTotalAmount", t.GrandTotalAmount)
	if lineTotals {
		e.amount(sum, "ram:TotalPrepaidAmount", t.TotalPrepaidAmount)
	}
	e.amount(sum, "ram:DuePayableAmount", t.DuePayableAmount)
}

func (a *version21Adapter) encodeLineItem(e *encoder, tx *etree.Element, index int, li *model.TradeLineItem) {
	item := tx.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	lineDoc := item.CreateElement("ram:AssociatedDocumentLineDocument")
	e.text(lineDoc, "ram:LineID", li.LineID)
	if e.allowed(profile.GroupLineNotes) {
		for _, n := range li.Notes {
			e.note(lineDoc, n)
		}
	}
	if li.IsCommentOnly() {
		return
	}

	product := item.CreateElement("ram:SpecifiedTradeProduct")
	if li.GlobalID != nil && li.GlobalID.ID != "" && e.allowed(profile.GroupProductGlobalID) {
		gid := product.CreateElement("ram:GlobalID")
		if li.GlobalID.SchemeID != "" {
			gid.CreateAttr("schemeID", string(li.GlobalID.SchemeID))
		}
		gid.SetText(li.GlobalID.ID)
	}
	e.text(product, "ram:SellerAssignedID", li.SellerAssignedID)
	if e.allowed(profile.GroupLineBuyerAssignedID) {
		e.text(product, "ram:BuyerAssignedID", li.BuyerAssignedID)
	}
	e.text(product, "ram:Name", li.Name)
	if e.allowed(profile.GroupLineDescription) {
		e.text(product, "ram:Description", li.Description)
	}
	if e.allowed(profile.GroupProductCharacteristics) {
		for _, pc := range li.ApplicableProductCharacteristics {
			el := product.CreateElement("ram:ApplicableProductCharacteristic")
			e.text(el, "ram:Description", pc.Description)
			e.text(el, "ram:Value", pc.Value)
		}
	}

	agreement := item.CreateElement("ram:SpecifiedLineTradeAgreement")
	if ref := li.BuyerOrderReferencedDocument; ref != nil && e.allowed(profile.GroupLineOrderReference) {
		el := a.referencedDocument(e, agreement, "ram:BuyerOrderReferencedDocument", ref.ReferencedDocument, false)
		e.text(el, "ram:LineID", ref.LineID)
		if ref.IssueDateTime != nil && e.allowed(profile.GroupLineReferencedDocuments) {
			a.formattedDate(el, *ref.IssueDateTime)
		}
	}
	if e.allowed(profile.GroupLineReferencedDocuments) {
		if ref := li.ContractReferencedDocument; ref != nil {
			a.referencedDocument(e, agreement, "ram:ContractReferencedDocument", ref.ReferencedDocument, true)
		}
		for _, doc := range li.AdditionalReferencedDocuments {
			a.additionalReferencedDocument(e, agreement, doc)
		}
	}
	if li.GrossUnitPrice != nil && e.allowed(profile.GroupGrossPrice) {
		gross := agreement.CreateElement("ram:GrossPriceProductTradePrice")
		e.price(gross, "ram:ChargeAmount", *li.GrossUnitPrice)
		if li.UnitQuantity != nil {
			e.quantity(gross, "ram:BasisQuantity", *li.UnitQuantity, li.UnitCode)
		}
		if e.allowed(profile.GroupLineAllowanceCharges) {
			for _, ac := range li.TradeAllowanceCharges {
				el := gross.CreateElement("ram:AppliedTradeAllowanceCharge")
				e.indicator(el, "ram:ChargeIndicator", ac.ChargeIndicator)
				if ac.BasisAmount != nil {
					e.amount(el, "ram:BasisAmount", *ac.BasisAmount)
				}
				e.amount(el, "ram:ActualAmount", ac.ActualAmount)
				e.text(el, "ram:Reason", ac.Reason)
			}
		}
	}
	if li.NetUnitPrice != nil {
		net := agreement.CreateElement("ram:NetPriceProductTradePrice")
		e.price(net, "ram:ChargeAmount", *li.NetUnitPrice)
		if li.UnitQuantity != nil {
			e.quantity(net, "ram:BasisQuantity", *li.UnitQuantity, li.UnitCode)
		}
	}

	delivery := item.CreateElement("ram:SpecifiedLineTradeDelivery")
	e.quantity(delivery, "ram:BilledQuantity", li.BilledQuantity, li.UnitCode)
	if li.ActualDeliveryDate != nil && e.allowed(profile.GroupLineActualDeliveryDate) {
		e.dateTime(delivery.CreateElement("ram:ActualDeliverySupplyChainEvent"), "ram:OccurrenceDateTime", *li.ActualDeliveryDate)
	}
	if ref := li.DeliveryNoteReferencedDocument; ref != nil && e.allowed(profile.GroupLineReferencedDocuments) {
		a.referencedDocument(e, delivery, "ram:DeliveryNoteReferencedDocument", ref.ReferencedDocument, true)
	}

	settlement := item.CreateElement("ram:SpecifiedLineTradeSettlement")
	if !li.Tax.IsZero() {
		e.tradeTax(settlement.CreateElement("ram:ApplicableTradeTax"), li.Tax, fmt.Sprintf("TradeLineItems[%d].Tax.TypeCode", index))
	}
	if e.allowed(profile.GroupTradeLineSettlementPeriod) {
		e.period(settlement, li.BillingPeriodStart, li.BillingPeriodEnd)
	}
	if li.LineTotalAmount != nil {
		e.amount(settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation"), "ram:LineTotalAmount", *li.LineTotalAmount)
	}
	if e.allowed(profile.GroupLineAccountingAccounts) {
		for _, acc := range li.ReceivableSpecifiedTradeAccountingAccounts {
			el := settlement.CreateElement("ram:ReceivableSpecifiedTradeAccountingAccount")
			e.text(el, "ram:ID", acc.TradeAccountID)
			e.text(el, "ram:TypeCode", acc.TradeAccountTypeCode)
		}
	}
}

func (a *version21Adapter) Decode(root *etree.Element) (*model.InvoiceDescriptor, error) {
	d := a.decoder()
	c, err := profile.ForURN(model.Version21, a.Identify(root))
	if err != nil {
		return nil, err
	}

	desc := &model.InvoiceDescriptor{Version: model.Version21, Profile: c.Profile}

	ctx := d.find(root, "rsm:ExchangedDocumentContext")
	desc.IsTest = d.indicator(ctx, "ram:TestIndicator")
	desc.BusinessProcess = d.text(ctx, "ram:BusinessProcessSpecifiedDocumentContextParameter/ram:ID")

	header := d.find(root, "rsm:ExchangedDocument")
	if header == nil {
		return nil, model.NewParseError(model.Version21, elementPath(root), "missing rsm:ExchangedDocument", nil)
	}
	d.require(header, "ram:ID", "ram:TypeCode", "ram:IssueDateTime/udt:DateTimeString")
	desc.InvoiceNo = d.text(header, "ram:ID")
	desc.Name = d.text(header, "ram:Name")
	desc.Type = model.InvoiceType(d.text(header, "ram:TypeCode"))
	if t := d.dateTime(header, "ram:IssueDateTime"); t != nil {
		desc.InvoiceDate = *t
	}
	desc.Notes = d.notes(header)

	tx := d.find(root, "rsm:SupplyChainTradeTransaction")
	if tx == nil {
		return nil, model.NewParseError(model.Version21, elementPath(root), "missing rsm:SupplyChainTradeTransaction", nil)
	}
	d.require(tx, "ram:ApplicableHeaderTradeSettlement")
	settlement := d.find(tx, "ram:ApplicableHeaderTradeSettlement")
	d.require(settlement, "ram:InvoiceCurrencyCode", "ram:SpecifiedTradeSettlementHeaderMonetarySummation", "ram:SpecifiedTradeSettlementHeaderMonetarySummation/ram:GrandTotalAmount")
	desc.Currency = d.text(settlement, "ram:InvoiceCurrencyCode")

	a.decodeAgreement(d, d.find(tx, "ram:ApplicableHeaderTradeAgreement"), desc)
	a.decodeDelivery(d, d.find(tx, "ram:ApplicableHeaderTradeDelivery"), desc)
	a.decodeSettlement(d, settlement, desc)

	for _, el := range d.findAll(tx, "ram:IncludedSupplyChainTradeLineItem") {
		desc.TradeLineItems = append(desc.TradeLineItems, a.decodeLineItem(d, el, desc.Currency))
	}

	if d.err != nil {
		return nil, d.err
	}
	return desc, nil
}

func (a *version21Adapter) readReference(d *decoder, el *etree.Element) model.ReferencedDocument {
	return model.ReferencedDocument{
		ID:            d.text(el, "ram:IssuerAssignedID"),
		IssueDateTime: d.formattedDateTime(el, "ram:FormattedIssueDateTime"),
	}
}

func (a *version21Adapter) readAdditionalReference(d *decoder, el *etree.Element) model.AdditionalReferencedDocument {
	doc := model.AdditionalReferencedDocument{
		ReferencedDocument: a.readReference(d, el),
		TypeCode:           model.AdditionalReferencedDocumentTypeCode(d.text(el, "ram:TypeCode")),
		ReferenceTypeCode:  model.ReferenceTypeCode(d.text(el, "ram:ReferenceTypeCode")),
		Name:               d.text(el, "ram:Name"),
		URIID:              d.text(el, "ram:URIID"),
	}
	d.attachment(el, &doc)
	return doc
}

func (a *version21Adapter) decodeAgreement(d *decoder, agreement *etree.Element, desc *model.InvoiceDescriptor) {
	if agreement == nil {
		return
	}
	desc.ReferenceOrderNo = d.text(agreement, "ram:BuyerReference")

	seller := d.find(agreement, "ram:SellerTradeParty")
	desc.Seller = d.party(seller)
	desc.SellerContact = d.contact(seller)
	desc.SellerTaxRegistration = d.taxRegistrations(seller)

	buyer := d.find(agreement, "ram:BuyerTradeParty")
	desc.Buyer = d.party(buyer)
	desc.BuyerContact = d.contact(buyer)
	desc.BuyerTaxRegistration = d.taxRegistrations(buyer)

	if el := d.find(agreement, "ram:SellerOrderReferencedDocument"); el != nil {
		desc.SellerOrderReferencedDocument = &model.SellerOrderReferencedDocument{ReferencedDocument: a.readReference(d, el)}
	}
	if el := d.find(agreement, "ram:BuyerOrderReferencedDocument"); el != nil {
		ref := a.readReference(d, el)
		desc.OrderNo = ref.ID
		desc.OrderDate = ref.IssueDateTime
	}
	if el := d.find(agreement, "ram:ContractReferencedDocument"); el != nil {
		desc.ContractReferencedDocument = &model.ContractReferencedDocument{ReferencedDocument: a.readReference(d, el)}
	}
	for _, el := range d.findAll(agreement, "ram:AdditionalReferencedDocument") {
		desc.AdditionalReferencedDocuments = append(desc.AdditionalReferencedDocuments, a.readAdditionalReference(d, el))
	}
	if el := d.find(agreement, "ram:SpecifiedProcuringProject"); el != nil {
		desc.SpecifiedProcuringProject = &model.ProcuringProject{
			ID:   d.text(el, "ram:ID"),
			Name: d.text(el, "ram:Name"),
		}
	}
}

func (a *version21Adapter) decodeDelivery(d *decoder, delivery *etree.Element, desc *model.InvoiceDescriptor) {
	if delivery == nil {
		return
	}
	desc.ShipTo = d.party(d.find(delivery, "ram:ShipToTradeParty"))
	desc.ShipFrom = d.party(d.find(delivery, "ram:ShipFromTradeParty"))
	desc.ActualDeliveryDate = d.dateTime(delivery, "ram:ActualDeliverySupplyChainEvent/ram:OccurrenceDateTime")
	if el := d.find(delivery, "ram:DeliveryNoteReferencedDocument"); el != nil {
		desc.DeliveryNoteReferencedDocument = &model.DeliveryNoteReferencedDocument{ReferencedDocument: a.readReference(d, el)}
	}
}

func (a *version21Adapter) decodeSettlement(d *decoder, settlement *etree.Element, desc *model.InvoiceDescriptor) {
	if settlement == nil {
		return
	}
	desc.PaymentReference = d.text(settlement, "ram:PaymentReference")
	desc.Invoicee = d.party(d.find(settlement, "ram:InvoiceeTradeParty"))
	desc.Payee = d.party(d.find(settlement, "ram:PayeeTradeParty"))

	pm := &model.PaymentMeans{
		SEPACreditorIdentifier: d.text(settlement, "ram:CreditorReferenceID"),
		SEPAMandateReference:   d.text(settlement, "ram:SpecifiedTradePaymentTerms/ram:DirectDebitMandateID"),
	}
	for i, el := range d.findAll(settlement, "ram:SpecifiedTradeSettlementPaymentMeans") {
		if i == 0 {
			pm.TypeCode = model.PaymentMeansTypeCode(d.text(el, "ram:TypeCode"))
			pm.Information = d.text(el, "ram:Information")
		}
		if card := d.find(el, "ram:ApplicableTradeSettlementFinancialCard"); card != nil && pm.FinancialCard == nil {
			pm.FinancialCard = &model.FinancialCard{
				ID:             d.text(card, "ram:ID"),
				CardholderName: d.text(card, "ram:CardholderName"),
			}
		}
		if iban := d.text(el, "ram:PayerPartyDebtorFinancialAccount/ram:IBANID"); iban != "" {
			// 2.1 has no debtor institution, so a debitor BIC exists in 1.0 only
			desc.DebitorBankAccounts = append(desc.DebitorBankAccounts, model.BankAccount{IBAN: iban})
		}
		if account := d.find(el, "ram:PayeePartyCreditorFinancialAccount"); account != nil {
			desc.CreditorBankAccounts = append(desc.CreditorBankAccounts, model.BankAccount{
				IBAN: d.text(account, "ram:IBANID"),
				Name: d.text(account, "ram:AccountName"),
				ID:   d.text(account, "ram:ProprietaryID"),
				BIC:  d.text(el, "ram:PayeeSpecifiedCreditorFinancialInstitution/ram:BICID"),
			})
		}
	}
	if pm.TypeCode != "" || pm.Information != "" || pm.FinancialCard != nil || pm.SEPACreditorIdentifier != "" || pm.SEPAMandateReference != "" {
		desc.PaymentMeans = pm
	}

	for _, el := range d.findAll(settlement, "ram:ApplicableTradeTax") {
		desc.Taxes = append(desc.Taxes, model.Tax{
			TaxClassification:   d.taxClassification(el),
			BasisAmount:         d.decimal(el, "ram:BasisAmount"),
			TaxAmount:           d.decimal(el, "ram:CalculatedAmount"),
			ExemptionReason:     d.text(el, "ram:ExemptionReason"),
			ExemptionReasonCode: d.text(el, "ram:ExemptionReasonCode"),
		})
	}

	desc.BillingPeriodStart = d.dateTime(settlement, "ram:BillingSpecifiedPeriod/ram:StartDateTime")
	desc.BillingPeriodEnd = d.dateTime(settlement, "ram:BillingSpecifiedPeriod/ram:EndDateTime")

	for _, el := range d.findAll(settlement, "ram:SpecifiedTradeAllowanceCharge") {
		ac := a.readAllowanceCharge(d, el, desc.Currency)
		ac.Tax = d.taxClassification(d.find(el, "ram:CategoryTradeTax"))
		desc.TradeAllowanceCharges = append(desc.TradeAllowanceCharges, ac)
	}

	for _, el := range d.findAll(settlement, "ram:SpecifiedLogisticsServiceCharge") {
		desc.ServiceCharges = append(desc.ServiceCharges, model.ServiceCharge{
			Description: d.text(el, "ram:Description"),
			Amount:      d.decimal(el, "ram:AppliedAmount"),
			Tax:         d.taxClassification(d.find(el, "ram:AppliedTradeTax")),
		})
	}

	if el := d.find(settlement, "ram:SpecifiedTradePaymentTerms"); el != nil {
		terms := &model.PaymentTerms{
			Description: d.text(el, "ram:Description"),
			DueDate:     d.dateTime(el, "ram:DueDateDateTime"),
		}
		if terms.Description != "" || terms.DueDate != nil {
			desc.PaymentTerms = terms
		}
	}

	if sum := d.find(settlement, "ram:SpecifiedTradeSettlementHeaderMonetarySummation"); sum != nil {
		desc.Totals = model.Totals{
			LineTotalAmount:      d.decimal(sum, "ram:LineTotalAmount"),
			ChargeTotalAmount:    d.decimal(sum, "ram:ChargeTotalAmount"),
			AllowanceTotalAmount: d.decimal(sum, "ram:AllowanceTotalAmount"),
			TaxBasisAmount:       d.decimal(sum, "ram:TaxBasisTotalAmount"),
			TaxTotalAmount:       d.decimal(sum, "ram:TaxTotalAmount"),
			RoundingAmount:       d.decimal(sum, "ram:RoundingAmount"),
			GrandTotalAmount:     d.decimal(sum, "ram:GrandTotalAmount"),
			TotalPrepaidAmount:   d.decimal(sum, "ram:TotalPrepaidAmount"),
			DuePayableAmount:     d.decimal(sum, "ram:DuePayableAmount"),
		}
	}

	if el := d.find(settlement, "ram:InvoiceReferencedDocument"); el != nil {
		desc.InvoiceReferencedDocument = &model.InvoiceReferencedDocument{ReferencedDocument: a.readReference(d, el)}
	}
}

func (a *version21Adapter) readAllowanceCharge(d *decoder, el *etree.Element, currency string) model.AllowanceCharge {
	ac := model.AllowanceCharge{
		ChargeIndicator: d.indicator(el, "ram:ChargeIndicator"),
		BasisAmount:     d.optDecimal(el, "ram:BasisAmount"),
		ActualAmount:    d.decimal(el, "ram:ActualAmount"),
		Currency:        d.attr(el, "ram:ActualAmount", "currencyID"),
		Reason:          d.text(el, "ram:Reason"),
	}
	if ac.Currency == "" {
		ac.Currency = currency
	}
	return ac
}

func (a *version21Adapter) decodeLineItem(d *decoder, el *etree.Element, currency string) *model.TradeLineItem {
	lineDoc := d.find(el, "ram:AssociatedDocumentLineDocument")
	li := &model.TradeLineItem{
		LineID: d.text(lineDoc, "ram:LineID"),
		Notes:  d.notes(lineDoc),
	}

	if product := d.find(el, "ram:SpecifiedTradeProduct"); product != nil {
		if gid := d.find(product, "ram:GlobalID"); gid != nil {
			li.GlobalID = &model.GlobalID{
				SchemeID: model.GlobalIDSchemeID(gid.SelectAttrValue("schemeID", "")),
				ID:       gid.Text(),
			}
		}
		li.SellerAssignedID = d.text(product, "ram:SellerAssignedID")
		li.BuyerAssignedID = d.text(product, "ram:BuyerAssignedID")
		li.Name = d.text(product, "ram:Name")
		li.Description = d.text(product, "ram:Description")
		for _, pc := range d.findAll(product, "ram:ApplicableProductCharacteristic") {
			li.ApplicableProductCharacteristics = append(li.ApplicableProductCharacteristics, model.ProductCharacteristic{
				Description: d.text(pc, "ram:Description"),
				Value:       d.text(pc, "ram:Value"),
			})
		}
	}

	if agreement := d.find(el, "ram:SpecifiedLineTradeAgreement"); agreement != nil {
		if ref := d.find(agreement, "ram:BuyerOrderReferencedDocument"); ref != nil {
			li.BuyerOrderReferencedDocument = &model.BuyerOrderReferencedDocument{
				ReferencedDocument: a.readReference(d, ref),
				LineID:             d.text(ref, "ram:LineID"),
			}
		}
		if ref := d.find(agreement, "ram:ContractReferencedDocument"); ref != nil {
			li.ContractReferencedDocument = &model.ContractReferencedDocument{ReferencedDocument: a.readReference(d, ref)}
		}
		for _, ref := range d.findAll(agreement, "ram:AdditionalReferencedDocument") {
			li.AdditionalReferencedDocuments = append(li.AdditionalReferencedDocuments, a.readAdditionalReference(d, ref))
		}

		gross := d.find(agreement, "ram:GrossPriceProductTradePrice")
		li.GrossUnitPrice = d.optDecimal(gross, "ram:ChargeAmount")
		li.UnitQuantity = d.optDecimal(gross, "ram:BasisQuantity")
		for _, ac := range d.findAll(gross, "ram:AppliedTradeAllowanceCharge") {
			li.TradeAllowanceCharges = append(li.TradeAllowanceCharges, a.readAllowanceCharge(d, ac, currency))
		}

		net := d.find(agreement, "ram:NetPriceProductTradePrice")
		li.NetUnitPrice = d.optDecimal(net, "ram:ChargeAmount")
		if li.UnitQuantity == nil {
			li.UnitQuantity = d.optDecimal(net, "ram:BasisQuantity")
		}
		if li.UnitCode == "" {
			li.UnitCode = model.QuantityCode(d.attr(net, "ram:BasisQuantity", "unitCode"))
		}
	}

	if delivery := d.find(el, "ram:SpecifiedLineTradeDelivery"); delivery != nil {
		li.BilledQuantity = d.decimal(delivery, "ram:BilledQuantity")
		if unit := d.attr(delivery, "ram:BilledQuantity", "unitCode"); unit != "" {
			li.UnitCode = model.QuantityCode(unit)
		}
		li.ActualDeliveryDate = d.dateTime(delivery, "ram:ActualDeliverySupplyChainEvent/ram:OccurrenceDateTime")
		if ref := d.find(delivery, "ram:DeliveryNoteReferencedDocument"); ref != nil {
			li.DeliveryNoteReferencedDocument = &model.DeliveryNoteReferencedDocument{ReferencedDocument: a.readReference(d, ref)}
		}
	}

	if settlement := d.find(el, "ram:SpecifiedLineTradeSettlement"); settlement != nil {
		li.Tax = d.taxClassification(d.find(settlement, "ram:ApplicableTradeTax"))
		li.BillingPeriodStart = d.dateTime(settlement, "ram:BillingSpecifiedPeriod/ram:StartDateTime")
		li.BillingPeriodEnd = d.dateTime(settlement, "ram:BillingSpecifiedPeriod/ram:EndDateTime")
		li.LineTotalAmount = d.optDecimal(settlement, "ram:SpecifiedTradeSettlementLineMonetarySummation/ram:LineTotalAmount")
		for _, acc := range d.findAll(settlement, "ram:ReceivableSpecifiedTradeAccountingAccount") {
			li.ReceivableSpecifiedTradeAccountingAccounts = append(li.ReceivableSpecifiedTradeAccountingAccounts, model.AccountingAccount{
				TradeAccountID:       d.text(acc, "ram:ID"),
				TradeAccountTypeCode: d.text(acc, "ram:TypeCode"),
			})
		}
	}

	return li
}
