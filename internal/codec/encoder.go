package codec

import (
	"encoding/base64"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/zugferd/internal/decimal"
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

// encoder carries what every element writer needs. The layouts differ in a few
// element names and in whether amounts repeat the currency.
type encoder struct {
	desc     *model.InvoiceDescriptor
	cap      profile.Capability
	onCoerce CoerceFunc

	percentTag     string
	amountCurrency bool
}

func (e *encoder) allowed(g profile.FieldGroup) bool {
	return e.cap.IsGroupAllowed(g)
}

// text writes parent/tag only for a non-empty value
func (e *encoder) text(parent *etree.Element, tag, value string) *etree.Element {
	if value == "" {
		return nil
	}
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func (e *encoder) amount(parent *etree.Element, tag string, v decimal.Decimal) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(dec.FormatAmount(v))
	if e.amountCurrency && e.desc.Currency != "" {
		el.CreateAttr("currencyID", e.desc.Currency)
	}
	return el
}

func (e *encoder) amountIn(parent *etree.Element, tag string, v decimal.Decimal, currency string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(dec.FormatAmount(v))
	if !e.amountCurrency {
		return el
	}
	if currency == "" {
		currency = e.desc.Currency
	}
	if currency != "" {
		el.CreateAttr("currencyID", currency)
	}
	return el
}

func (e *encoder) price(parent *etree.Element, tag string, v decimal.Decimal) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(dec.FormatPrice(v))
	if e.amountCurrency && e.desc.Currency != "" {
		el.CreateAttr("currencyID", e.desc.Currency)
	}
	return el
}

func (e *encoder) quantity(parent *etree.Element, tag string, v decimal.Decimal, unit model.QuantityCode) *etree.Element {
	el := parent.CreateElement(tag)
	if unit != "" {
		el.CreateAttr("unitCode", string(unit))
	}
	el.SetText(dec.FormatQuantity(v))
	return el
}

func (e *encoder) indicator(parent *etree.Element, tag string, v bool) {
	el := parent.CreateElement(tag).CreateElement("udt:Indicator")
	if v {
		el.SetText("true")
	} else {
		el.SetText("false")
	}
}

// dateTime writes parent/tag/udt:DateTimeString with format 102
func (e *encoder) dateTime(parent *etree.Element, tag string, t time.Time) {
	dts := parent.CreateElement(tag).CreateElement("udt:DateTimeString")
	dts.CreateAttr("format", dateFormatDay)
	dts.SetText(formatDate(t))
}

// taxType applies the tax type policy. The validator has already rejected
// disallowed codes under the strict policy, so anything left here is coerced.
func (e *encoder) taxType(field string, t model.TaxType) model.TaxType {
	if t == "" || e.cap.IsTaxTypeAllowed(t) {
		return t
	}
	if e.onCoerce != nil {
		e.onCoerce(field, t)
	}
	return model.TaxTypeVAT
}

// tradeTax writes the type, category and rate of a classification into parent
func (e *encoder) tradeTax(parent *etree.Element, c model.TaxClassification, field string) {
	e.text(parent, "ram:TypeCode", string(e.taxType(field, c.TypeCode)))
	e.text(parent, "ram:CategoryCode", string(c.CategoryCode))
	e.percent(parent, c.Percent)
}

func (e *encoder) percent(parent *etree.Element, v *decimal.Decimal) {
	if v != nil {
		parent.CreateElement(e.percentTag).SetText(dec.FormatPercent(*v))
	}
}

// period writes ram:BillingSpecifiedPeriod when either end is set
func (e *encoder) period(parent *etree.Element, start, end *time.Time) {
	if start == nil && end == nil {
		return
	}
	el := parent.CreateElement("ram:BillingSpecifiedPeriod")
	if start != nil {
		e.dateTime(el, "ram:StartDateTime", *start)
	}
	if end != nil {
		e.dateTime(el, "ram:EndDateTime", *end)
	}
}

func (e *encoder) note(parent *etree.Element, n model.Note) {
	if n.Content == "" {
		return
	}
	el := parent.CreateElement("ram:IncludedNote")
	e.text(el, "ram:Content", n.Content)
	e.text(el, "ram:SubjectCode", string(n.SubjectCode))
}

// party writes a trade party. Address, contact and registrations are written only
// when the caller passes them.
func (e *encoder) party(parent *etree.Element, tag string, p *model.Party, contact *model.Contact, regs []model.TaxRegistration, withAddress bool) {
	if p == nil {
		return
	}
	el := parent.CreateElement(tag)
	e.text(el, "ram:ID", p.ID)
	if p.GlobalID != nil && p.GlobalID.ID != "" {
		gid := el.CreateElement("ram:GlobalID")
		if p.GlobalID.SchemeID != "" {
			gid.CreateAttr("schemeID", string(p.GlobalID.SchemeID))
		}
		gid.SetText(p.GlobalID.ID)
	}
	e.text(el, "ram:Name", p.Name)

	if contact != nil {
		e.contact(el, contact)
	}

	if withAddress && p.HasAddress() {
		addr := el.CreateElement("ram:PostalTradeAddress")
		e.text(addr, "ram:PostcodeCode", p.Postcode)
		if p.ContactName != "" {
			e.text(addr, "ram:LineOne", p.ContactName)
			e.text(addr, "ram:LineTwo", p.Street)
		} else {
			e.text(addr, "ram:LineOne", p.Street)
		}
		e.text(addr, "ram:LineThree", p.AddressLine3)
		e.text(addr, "ram:CityName", p.City)
		e.text(addr, "ram:CountryID", p.Country)
		e.text(addr, "ram:CountrySubDivisionName", p.CountrySubdivisionName)
	}

	for _, reg := range regs {
		if reg.No == "" {
			continue
		}
		id := el.CreateElement("ram:SpecifiedTaxRegistration").CreateElement("ram:ID")
		id.CreateAttr("schemeID", string(reg.SchemeID))
		id.SetText(reg.No)
	}
}

func (e *encoder) contact(parent *etree.Element, c *model.Contact) {
	if *c == (model.Contact{}) {
		return
	}
	el := parent.CreateElement("ram:DefinedTradeContact")
	e.text(el, "ram:PersonName", c.Name)
	e.text(el, "ram:DepartmentName", c.OrgUnit)
	if c.PhoneNo != "" {
		e.text(el.CreateElement("ram:TelephoneUniversalCommunication"), "ram:CompleteNumber", c.PhoneNo)
	}
	if c.FaxNo != "" {
		e.text(el.CreateElement("ram:FaxUniversalCommunication"), "ram:CompleteNumber", c.FaxNo)
	}
	if c.EmailAddress != "" {
		e.text(el.CreateElement("ram:EmailURIUniversalCommunication"), "ram:URIID", c.EmailAddress)
	}
}

func (e *encoder) sellerContact() *model.Contact {
	if e.allowed(profile.GroupSellerContact) {
		return e.desc.SellerContact
	}
	return nil
}

func (e *encoder) buyerContact() *model.Contact {
	if e.allowed(profile.GroupBuyerContact) {
		return e.desc.BuyerContact
	}
	return nil
}

func (e *encoder) taxRegistrations(regs []model.TaxRegistration) []model.TaxRegistration {
	if e.allowed(profile.GroupTaxRegistrations) {
		return regs
	}
	return nil
}

func (e *encoder) attachment(parent *etree.Element, doc model.AdditionalReferencedDocument) {
	if !doc.HasAttachment() || !e.allowed(profile.GroupAttachments) {
		return
	}
	mime := doc.MimeType
	if mime == "" {
		mime = model.MimeTypeFromFilename(doc.Filename)
	}
	el := parent.CreateElement("ram:AttachmentBinaryObject")
	el.CreateAttr("mimeCode", mime)
	if doc.Filename != "" {
		el.CreateAttr("filename", doc.Filename)
	}
	el.SetText(base64.StdEncoding.EncodeToString(doc.AttachmentBinaryObject))
}
