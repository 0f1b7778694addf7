package codec

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

const version1Root = "CrossIndustryDocument"

// version1Adapter handles the legacy ZUGFeRD 1.0 CrossIndustryDocument layout.
// Line items come last, amounts repeat the currency and referenced documents carry plain ISO dates.
type version1Adapter struct{}

func newVersion1Adapter() *version1Adapter {
	return &version1Adapter{}
}

func (a *version1Adapter) Version() model.Version {
	return model.Version1
}

func (a *version1Adapter) CanDecode(root *etree.Element) bool {
	return root.Tag == version1Root && root.NamespaceURI() == version1Namespaces.uri("rsm")
}

func (a *version1Adapter) Identify(root *etree.Element) string {
	d := a.decoder()
	return d.text(root, "rsm:SpecifiedExchangedDocumentContext/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID")
}

func (a *version1Adapter) decoder() *decoder {
	return &decoder{version: model.Version1, ns: version1Namespaces, percentTag: "ram:ApplicablePercent"}
}

// reference is a 1.0 referenced document in element order
type reference struct {
	issued   *time.Time
	lineID   string
	typeCode string
	id       string
	refType  string
}

func (a *version1Adapter) writeReference(e *encoder, parent *etree.Element, tag string, ref reference) {
	el := parent.CreateElement(tag)
	if ref.issued != nil {
		el.CreateElement("ram:IssueDateTime").SetText(formatISODate(*ref.issued))
	}
	e.text(el, "ram:LineID", ref.lineID)
	e.text(el, "ram:TypeCode", ref.typeCode)
	e.text(el, "ram:ID", ref.id)
	e.text(el, "ram:ReferenceTypeCode", ref.refType)
}

func (a *version1Adapter) Encode(d *model.InvoiceDescriptor, c profile.Capability, onCoerce CoerceFunc) (*etree.Document, error) {
	e := &encoder{desc: d, cap: c, onCoerce: onCoerce, percentTag: "ram:ApplicablePercent", amountCurrency: true}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("rsm:" + version1Root)
	version1Namespaces.declare(root)

	ctx := root.CreateElement("rsm:SpecifiedExchangedDocumentContext")
	if d.IsTest && e.allowed(profile.GroupTestIndicator) {
		e.indicator(ctx, "ram:TestIndicator", true)
	}
	if d.BusinessProcess != "" && e.allowed(profile.GroupBusinessProcess) {
		e.text(ctx.CreateElement("ram:BusinessProcessSpecifiedDocumentContextParameter"), "ram:ID", d.BusinessProcess)
	}
	e.text(ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter"), "ram:ID", c.URN)

	header := root.CreateElement("rsm:HeaderExchangedDocument")
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

	tx := root.CreateElement("rsm:SpecifiedSupplyChainTradeTransaction")
	a.encodeAgreement(e, tx)
	a.encodeDelivery(e, tx)
	a.encodeSettlement(e, tx)
	if e.allowed(profile.GroupLineItems) {
		for i, li := range d.TradeLineItems {
			a.encodeLineItem(e, tx, i, li)
		}
	}

	return doc, nil
}

func (a *version1Adapter) encodeAgreement(e *encoder, tx *etree.Element) {
	d := e.desc
	agreement := tx.CreateElement("ram:ApplicableSupplyChainTradeAgreement")

	if e.allowed(profile.GroupBuyerReference) {
		e.text(agreement, "ram:BuyerReference", d.ReferenceOrderNo)
	}
	e.party(agreement, "ram:SellerTradeParty", d.Seller, e.sellerContact(), e.taxRegistrations(d.SellerTaxRegistration), true)
	e.party(agreement, "ram:BuyerTradeParty", d.Buyer, e.buyerContact(), e.taxRegistrations(d.BuyerTaxRegistration), true)

	if d.OrderNo != "" && e.allowed(profile.GroupBuyerOrderReference) {
		ref := reference{id: d.OrderNo}
		if e.allowed(profile.GroupOrderIssueDate) {
			ref.issued = d.OrderDate
		}
		a.writeReference(e, agreement, "ram:BuyerOrderReferencedDocument", ref)
	}
	if c := d.ContractReferencedDocument; c != nil && e.allowed(profile.GroupContractReference) {
		ref := reference{id: c.ID}
		if e.allowed(profile.GroupContractIssueDate) {
			ref.issued = c.IssueDateTime
		}
		a.writeReference(e, agreement, "ram:ContractReferencedDocument", ref)
	}
	if e.allowed(profile.GroupAdditionalReferencedDocuments) {
		for _, doc := range d.AdditionalReferencedDocuments {
			a.writeReference(e, agreement, "ram:AdditionalReferencedDocument", reference{
				issued:   doc.IssueDateTime,
				typeCode: string(doc.TypeCode),
				id:       doc.ID,
				refType:  string(doc.ReferenceTypeCode),
			})
		}
	}
}

func (a *version1Adapter) encodeDelivery(e *encoder, tx *etree.Element) {
	d := e.desc
	delivery := tx.CreateElement("ram:ApplicableSupplyChainTradeDelivery")

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
		a.writeReference(e, delivery, "ram:DeliveryNoteReferencedDocument", reference{issued: ref.IssueDateTime, id: ref.ID})
	}
}

func (a *version1Adapter) encodeSettlement(e *encoder, tx *etree.Element) {
	d := e.desc
	settlement := tx.CreateElement("ram:ApplicableSupplyChainTradeSettlement")

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
			e.percent(tax, t.Percent)
		}
	}

	if e.allowed(profile.GroupBillingPeriod) {
		e.period(settlement, d.BillingPeriodStart, d.BillingPeriodEnd)
	}

	if e.allowed(profile.GroupTradeAllowanceCharges) {
		for i, ac := range d.TradeAllowanceCharges {
			el := a.allowanceCharge(e, settlement, "ram:SpecifiedTradeAllowanceCharge", ac)
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

	if terms := d.PaymentTerms; terms != nil && e.allowed(profile.GroupPaymentTerms) {
		el := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
		e.text(el, "ram:Description", terms.Description)
		if terms.DueDate != nil {
			e.dateTime(el, "ram:DueDateDateTime", *terms.DueDate)
		}
	}

	t := d.Totals
	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementMonetarySummation")
	lineTotals := e.allowed(profile.GroupLineTotals)
	if lineTotals {
		e.amount(sum, "ram:LineTotalAmount", t.LineTotalAmount)
		e.amount(sum, "ram:ChargeTotalAmount", t.ChargeTotalAmount)
		e.amount(sum, "ram:AllowanceTotalAmount", t.AllowanceTotalAmount)
	}
	e.amount(sum, "ram:TaxBasisTotalAmount", t.TaxBasisAmount)
	e.amount(sum, "ram:TaxTotalAmount", t.TaxTotalAmount)
	e.amount(sum, "ram:GrandTotalAmount", t.GrandTotalAmount)
	if lineTotals {
		e.amount(sum, "ram:TotalPrepaidAmount", t.TotalPrepaidAmount)
	}
	e.amount(sum, "ram:DuePayableAmount", t.DuePayableAmount)
}

func (a *version1Adapter) allowanceCharge(e *encoder, parent *etree.Element, tag string, ac model.AllowanceCharge) *etree.Element {
	el := parent.CreateElement(tag)
	e.indicator(el, "ram:ChargeIndicator", ac.ChargeIndicator)
	if ac.BasisAmount != nil {
		e.amountIn(el, "ram:BasisAmount", *ac.BasisAmount, ac.Currency)
	}
	e.amountIn(el, "ram:ActualAmount", ac.ActualAmount, ac.Currency)
	e.text(el, "ram:Reason", ac.Reason)
	return el
}

// encodePaymentMeans writes one element per bank account. The SEPA mandate goes
// into ram:ID with the creditor identifier as scheme agency.
func (a *version1Adapter) encodePaymentMeans(e *encoder, settlement *etree.Element) {
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
	sepa := pm.IsSEPADirectDebit() && e.allowed(profile.GroupSEPADirectDebit)

	written := false
	means := func() *etree.Element {
		written = true
		el := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		if pm == nil {
			return el
		}
		e.text(el, "ram:TypeCode", string(pm.TypeCode))
		e.text(el, "ram:Information", pm.Information)
		if sepa && (pm.SEPAMandateReference != "" || pm.SEPACreditorIdentifier != "") {
			id := el.CreateElement("ram:ID")
			if pm.SEPACreditorIdentifier != "" {
				id.CreateAttr("schemeAgencyID", pm.SEPACreditorIdentifier)
			}
			id.SetText(pm.SEPAMandateReference)
		}
		return el
	}

	for _, acc := range debitors {
		el := means()
		e.text(el.CreateElement("ram:PayerPartyDebtorFinancialAccount"), "ram:IBANID", acc.IBAN)
		if acc.BIC != "" {
			e.text(el.CreateElement("ram:PayerSpecifiedDebtorFinancialInstitution"), "ram:BICID", acc.BIC)
		}
	}
	for _, acc := range creditors {
		el := means()
		account := el.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		e.text(account, "ram:IBANID", acc.IBAN)
		e.text(account, "ram:AccountName", acc.Name)
		e.text(account, "ram:ProprietaryID", acc.ID)
		if acc.BIC != "" || acc.BankName != "" {
			inst := el.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
			e.text(inst, "ram:BICID", acc.BIC)
			e.text(inst, "ram:Name", acc.BankName)
		}
	}
	if !written {
		means()
	}
}

func (a *version1Adapter) encodeLineItem(e *encoder, tx *etree.Element, index int, li *model.TradeLineItem) {
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

	agreement := item.CreateElement("ram:SpecifiedSupplyChainTradeAgreement")
	if ref := li.BuyerOrderReferencedDocument; ref != nil && e.allowed(profile.GroupLineOrderReference) {
		r := reference{lineID: ref.LineID, id: ref.ID}
		if e.allowed(profile.GroupLineReferencedDocuments) {
			r.issued = ref.IssueDateTime
		}
		a.writeReference(e, agreement, "ram:BuyerOrderReferencedDocument", r)
	}
	if e.allowed(profile.GroupLineReferencedDocuments) {
		if ref := li.ContractReferencedDocument; ref != nil {
			a.writeReference(e, agreement, "ram:ContractReferencedDocument", reference{issued: ref.IssueDateTime, id: ref.ID})
		}
		for _, doc := range li.AdditionalReferencedDocuments {
			a.writeReference(e, agreement, "ram:AdditionalReferencedDocument", reference{
				issued:   doc.IssueDateTime,
				typeCode: string(doc.TypeCode),
				id:       doc.ID,
				refType:  string(doc.ReferenceTypeCode),
			})
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
				a.allowanceCharge(e, gross, "ram:AppliedTradeAllowanceCharge", ac)
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

	delivery := item.CreateElement("ram:SpecifiedSupplyChainTradeDelivery")
	e.quantity(delivery, "ram:BilledQuantity", li.BilledQuantity, li.UnitCode)
	if li.ActualDeliveryDate != nil && e.allowed(profile.GroupLineActualDeliveryDate) {
		e.dateTime(delivery.CreateElement("ram:ActualDeliverySupplyChainEvent"), "ram:OccurrenceDateTime", *li.ActualDeliveryDate)
	}
	if ref := li.DeliveryNoteReferencedDocument; ref != nil && e.allowed(profile.GroupLineReferencedDocuments) {
		a.writeReference(e, delivery, "ram:DeliveryNoteReferencedDocument", reference{issued: ref.IssueDateTime, id: ref.ID})
	}

	settlement := item.CreateElement("ram:SpecifiedSupplyChainTradeSettlement")
	if !li.Tax.IsZero() {
		e.tradeTax(settlement.CreateElement("ram:ApplicableTradeTax"), li.Tax, fmt.Sprintf("TradeLineItems[%d].Tax.TypeCode", index))
	}
	if e.allowed(profile.GroupTradeLineSettlementPeriod) {
		e.period(settlement, li.BillingPeriodStart, li.BillingPeriodEnd)
	}
	if e.allowed(profile.GroupLineAccountingAccounts) {
		for _, acc := range li.ReceivableSpecifiedTradeAccountingAccounts {
			e.text(settlement.CreateElement("ram:SpecifiedTradeAccountingAccount"), "ram:ID", acc.TradeAccountID)
		}
	}
	if li.LineTotalAmount != nil {
		e.amount(settlement.CreateElement("ram:SpecifiedTradeSettlementMonetarySummation"), "ram:LineTotalAmount", *li.LineTotalAmount)
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
}

func (a *version1Adapter) Decode(root *etree.Element) (*model.InvoiceDescriptor, error) {
	d := a.decoder()
	c, err := profile.ForURN(model.Version1, a.Identify(root))
	if err != nil {
		return nil, err
	}

	desc := &model.InvoiceDescriptor{Version: model.Version1, Profile: c.Profile}

	ctx := d.find(root, "rsm:SpecifiedExchangedDocumentContext")
	desc.IsTest = d.indicator(ctx, "ram:TestIndicator")
	desc.BusinessProcess = d.text(ctx, "ram:BusinessProcessSpecifiedDocumentContextParameter/ram:ID")

	header := d.find(root, "rsm:HeaderExchangedDocument")
	if header == nil {
		return nil, model.NewParseError(model.Version1, elementPath(root), "missing rsm:HeaderExchangedDocument", nil)
	}
	d.require(header, "ram:ID", "ram:TypeCode", "ram:IssueDateTime/udt:DateTimeString")
	desc.InvoiceNo = d.text(header, "ram:ID")
	desc.Name = d.text(header, "ram:Name")
	desc.Type = model.InvoiceType(d.text(header, "ram:TypeCode"))
	if t := d.dateTime(header, "ram:IssueDateTime"); t != nil {
		desc.InvoiceDate = *t
	}
	desc.Notes = d.notes(header)

	tx := d.find(root, "rsm:SpecifiedSupplyChainTradeTransaction")
	if tx == nil {
		return nil, model.NewParseError(model.Version1, elementPath(root), "missing rsm:SpecifiedSupplyChainTradeTransaction", nil)
	}
	d.require(tx, "ram:ApplicableSupplyChainTradeSettlement")
	settlement := d.find(tx, "ram:ApplicableSupplyChainTradeSettlement")
	d.require(settlement, "ram:InvoiceCurrencyCode", "ram:SpecifiedTradeSettlementMonetarySummation", "ram:SpecifiedTradeSettlementMonetarySummation/ram:GrandTotalAmount")
	desc.Currency = d.text(settlement, "ram:InvoiceCurrencyCode")

	a.decodeAgreement(d, d.find(tx, "ram:ApplicableSupplyChainTradeAgreement"), desc)
	a.decodeDelivery(d, d.find(tx, "ram:ApplicableSupplyChainTradeDelivery"), desc)
	a.decodeSettlement(d, settlement, desc)

	for _, el := range d.findAll(tx, "ram:IncludedSupplyChainTradeLineItem") {
		desc.TradeLineItems = append(desc.TradeLineItems, a.decodeLineItem(d, el, desc.Currency))
	}

	if d.err != nil {
		return nil, d.err
	}
	return desc, nil
}

func (a *version1Adapter) readReference(d *decoder, el *etree.Element) model.ReferencedDocument {
	return model.ReferencedDocument{
		ID:            d.text(el, "ram:ID"),
		IssueDateTime: d.isoDate(el, "ram:IssueDateTime"),
	}
}

func (a *version1Adapter) readAdditionalReference(d *decoder, el *etree.Element) model.AdditionalReferencedDocument {
	return model.AdditionalReferencedDocument{
		ReferencedDocument: a.readReference(d, el),
		TypeCode:           model.AdditionalReferencedDocumentTypeCode(d.text(el, "ram:TypeCode")),
		ReferenceTypeCode:  model.ReferenceTypeCode(d.text(el, "ram:ReferenceTypeCode")),
	}
}

func (a *version1Adapter) decodeAgreement(d *decoder, agreement *etree.Element, desc *model.InvoiceDescriptor) {
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
}

func (a *version1Adapter) decodeDelivery(d *decoder, delivery *etree.Element, desc *model.InvoiceDescriptor) {
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

func (a *version1Adapter) decodeSettlement(d *decoder, settlement *etree.Element, desc *model.InvoiceDescriptor) {
	if settlement == nil {
		return
	}
	desc.PaymentReference = d.text(settlement, "ram:PaymentReference")
	desc.Invoicee = d.party(d.find(settlement, "ram:InvoiceeTradeParty"))
	desc.Payee = d.party(d.find(settlement, "ram:PayeeTradeParty"))

	pm := &model.PaymentMeans{}
	for i, el := range d.findAll(settlement, "ram:SpecifiedTradeSettlementPaymentMeans") {
		if i == 0 {
			pm.TypeCode = model.PaymentMeansTypeCode(d.text(el, "ram:TypeCode"))
			pm.Information = d.text(el, "ram:Information")
		}
		if id := d.find(el, "ram:ID"); id != nil && pm.SEPAMandateReference == "" {
			pm.SEPAMandateReference = id.Text()
			pm.SEPACreditorIdentifier = id.SelectAttrValue("schemeAgencyID", "")
		}
		if iban := d.text(el, "ram:PayerPartyDebtorFinancialAccount/ram:IBANID"); iban != "" {
			desc.DebitorBankAccounts = append(desc.DebitorBankAccounts, model.BankAccount{
				IBAN: iban,
				BIC:  d.text(el, "ram:PayerSpecifiedDebtorFinancialInstitution/ram:BICID"),
			})
		}
		if account := d.find(el, "ram:PayeePartyCreditorFinancialAccount"); account != nil {
			desc.CreditorBankAccounts = append(desc.CreditorBankAccounts, model.BankAccount{
				IBAN:     d.text(account, "ram:IBANID"),
				Name:     d.text(account, "ram:AccountName"),
				ID:       d.text(account, "ram:ProprietaryID"),
				BIC:      d.text(el, "ram:PayeeSpecifiedCreditorFinancialInstitution/ram:BICID"),
				BankName: d.text(el, "ram:PayeeSpecifiedCreditorFinancialInstitution/ram:Name"),
			})
		}
	}
	if pm.TypeCode != "" || pm.Information != "" || pm.SEPAMandateReference != "" || pm.SEPACreditorIdentifier != "" {
		desc.PaymentMeans = pm
	}

	for _, el := range d.findAll(settlement, "ram:ApplicableTradeTax") {
		desc.Taxes = append(desc.Taxes, model.Tax{
			TaxClassification: d.taxClassification(el),
			BasisAmount:       d.decimal(el, "ram:BasisAmount"),
			TaxAmount:         d.decimal(el, "ram:CalculatedAmount"),
			ExemptionReason:   d.text(el, "ram:ExemptionReason"),
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
		desc.PaymentTerms = &model.PaymentTerms{
			Description: d.text(el, "ram:Description"),
			DueDate:     d.dateTime(el, "ram:DueDateDateTime"),
		}
	}

	if sum := d.find(settlement, "ram:SpecifiedTradeSettlementMonetarySummation"); sum != nil {
		desc.Totals = model.Totals{
			LineTotalAmount:      d.decimal(sum, "ram:LineTotalAmount"),
			ChargeTotalAmount:    d.decimal(sum, "ram:ChargeTotalAmount"),
			AllowanceTotalAmount: d.decimal(sum, "ram:AllowanceTotalAmount"),
			TaxBasisAmount:       d.decimal(sum, "ram:TaxBasisTotalAmount"),
			TaxTotalAmount:       d.decimal(sum, "ram:TaxTotalAmount"),
			GrandTotalAmount:     d.decimal(sum, "ram:GrandTotalAmount"),
			TotalPrepaidAmount:   d.decimal(sum, "ram:TotalPrepaidAmount"),
			DuePayableAmount:     d.decimal(sum, "ram:DuePayableAmount"),
		}
	}
}

func (a *version1Adapter) readAllowanceCharge(d *decoder, el *etree.Element, currency string) model.AllowanceCharge {
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

func (a *version1Adapter) decodeLineItem(d *decoder, el *etree.Element, currency string) *model.TradeLineItem {
	lineDoc := d.find(el, "ram:AssociatedDocumentLineDocument")
	li := &model.TradeLineItem{
		LineID: d.text(lineDoc, "ram:LineID"),
		Notes:  d.notes(lineDoc),
	}

	if agreement := d.find(el, "ram:SpecifiedSupplyChainTradeAgreement"); agreement != nil {
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
		li.UnitCode = model.QuantityCode(d.attr(net, "ram:BasisQuantity", "unitCode"))
	}

	if delivery := d.find(el, "ram:SpecifiedSupplyChainTradeDelivery"); delivery != nil {
		li.BilledQuantity = d.decimal(delivery, "ram:BilledQuantity")
		if unit := d.attr(delivery, "ram:BilledQuantity", "unitCode"); unit != "" {
			li.UnitCode = model.QuantityCode(unit)
		}
		li.ActualDeliveryDate = d.dateTime(delivery, "ram:ActualDeliverySupplyChainEvent/ram:OccurrenceDateTime")
		if ref := d.find(delivery, "ram:DeliveryNoteReferencedDocument"); ref != nil {
			li.DeliveryNoteReferencedDocument = &model.DeliveryNoteReferencedDocument{ReferencedDocument: a.readReference(d, ref)}
		}
	}

	if settlement := d.find(el, "ram:SpecifiedSupplyChainTradeSettlement"); settlement != nil {
		li.Tax = d.taxClassification(d.find(settlement, "ram:ApplicableTradeTax"))
		li.BillingPeriodStart = d.dateTime(settlement, "ram:BillingSpecifiedPeriod/ram:StartDateTime")
		li.BillingPeriodEnd = d.dateTime(settlement, "ram:BillingSpecifiedPeriod/ram:EndDateTime")
		li.LineTotalAmount = d.optDecimal(settlement, "ram:SpecifiedTradeSettlementMonetarySummation/ram:LineTotalAmount")
		for _, acc := range d.findAll(settlement, "ram:SpecifiedTradeAccountingAccount") {
			li.ReceivableSpecifiedTradeAccountingAccounts = append(li.ReceivableSpecifiedTradeAccountingAccounts, model.AccountingAccount{
				TradeAccountID: d.text(acc, "ram:ID"),
			})
		}
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

	return li
}
