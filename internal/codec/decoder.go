package codec

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/zugferd/internal/decimal"
	"github.com/rezonia/zugferd/internal/model"
)

// decoder navigates a document by namespace URI. The first malformed value is kept
// in err and reported once decoding finishes.
type decoder struct {
	version    model.Version
	ns         namespaceSet
	percentTag string
	err        error
}

func (d *decoder) fail(e *etree.Element, message string, cause error) {
	if d.err == nil {
		d.err = model.NewParseError(d.version, elementPath(e), message, cause)
	}
}

// require records a ParseError for the first path that is absent below e. An element
// counts as absent when it has neither text nor child elements.
func (d *decoder) require(e *etree.Element, paths ...string) {
	for _, path := range paths {
		el := d.find(e, path)
		if el != nil && (strings.TrimSpace(el.Text()) != "" || len(el.ChildElements()) > 0) {
			continue
		}
		if d.err == nil {
			d.err = model.NewParseError(d.version, elementPath(e)+"/"+path, "missing mandatory element", nil)
		}
		return
	}
}

// find returns the first element below e matching path, or nil
func (d *decoder) find(e *etree.Element, path string) *etree.Element {
	if e == nil {
		return nil
	}
	cur := e
	for _, st := range d.ns.compile(path) {
		var next *etree.Element
		for _, child := range cur.ChildElements() {
			if st.matches(child) {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// findAll returns every element below e matching path, in document order
func (d *decoder) findAll(e *etree.Element, path string) []*etree.Element {
	if e == nil {
		return nil
	}
	current := []*etree.Element{e}
	for _, st := range d.ns.compile(path) {
		var next []*etree.Element
		for _, el := range current {
			for _, child := range el.ChildElements() {
				if st.matches(child) {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

func (d *decoder) text(e *etree.Element, path string) string {
	if el := d.find(e, path); el != nil {
		return el.Text()
	}
	return ""
}

func (d *decoder) attr(e *etree.Element, path, name string) string {
	if el := d.find(e, path); el != nil {
		return el.SelectAttrValue(name, "")
	}
	return ""
}

// decimal returns zero when the element is absent
func (d *decoder) decimal(e *etree.Element, path string) decimal.Decimal {
	if v := d.optDecimal(e, path); v != nil {
		return *v
	}
	return dec.Zero
}

func (d *decoder) optDecimal(e *etree.Element, path string) *decimal.Decimal {
	el := d.find(e, path)
	if el == nil {
		return nil
	}
	v, err := dec.Parse(el.Text())
	if err != nil {
		d.fail(el, "invalid number", err)
		return nil
	}
	return &v
}

func (d *decoder) indicator(e *etree.Element, path string) bool {
	el := d.find(e, path+"/udt:Indicator")
	if el == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(el.Text())) {
	case "true", "1":
		return true
	case "false", "0", "":
		return false
	}
	d.fail(el, "invalid indicator", nil)
	return false
}

// dateTime reads path/udt:DateTimeString
func (d *decoder) dateTime(e *etree.Element, path string) *time.Time {
	return d.dateTimeString(d.find(e, path+"/udt:DateTimeString"))
}

// formattedDateTime reads path/qdt:DateTimeString
func (d *decoder) formattedDateTime(e *etree.Element, path string) *time.Time {
	return d.dateTimeString(d.find(e, path+"/qdt:DateTimeString"))
}

func (d *decoder) dateTimeString(el *etree.Element) *time.Time {
	if el == nil || strings.TrimSpace(el.Text()) == "" {
		return nil
	}
	t, err := parseDateTimeString(el.SelectAttrValue("format", ""), el.Text())
	if err != nil {
		d.fail(el, "invalid date", err)
		return nil
	}
	t = model.CalendarDate(t)
	return &t
}

// isoDate reads a plain ISO 8601 date as used by the 1.0 referenced documents
func (d *decoder) isoDate(e *etree.Element, path string) *time.Time {
	el := d.find(e, path)
	if el == nil || strings.TrimSpace(el.Text()) == "" {
		return nil
	}
	t, err := parseISODate(el.Text())
	if err != nil {
		d.fail(el, "invalid date", err)
		return nil
	}
	t = model.CalendarDate(t)
	return &t
}

func (d *decoder) taxClassification(e *etree.Element) model.TaxClassification {
	if e == nil {
		return model.TaxClassification{}
	}
	return model.TaxClassification{
		TypeCode:     model.TaxType(d.text(e, "ram:TypeCode")),
		CategoryCode: model.TaxCategoryCode(d.text(e, "ram:CategoryCode")),
		Percent:      d.optDecimal(e, d.percentTag),
	}
}

func (d *decoder) notes(e *etree.Element) []model.Note {
	var out []model.Note
	for _, n := range d.findAll(e, "ram:IncludedNote") {
		out = append(out, model.Note{
			Content:     d.text(n, "ram:Content"),
			SubjectCode: model.SubjectCode(d.text(n, "ram:SubjectCode")),
		})
	}
	return out
}

// party reads a trade party, nil when the element is absent
func (d *decoder) party(e *etree.Element) *model.Party {
	if e == nil {
		return nil
	}
	p := &model.Party{
		ID:   d.text(e, "ram:ID"),
		Name: d.text(e, "ram:Name"),
	}
	if gid := d.find(e, "ram:GlobalID"); gid != nil {
		p.GlobalID = &model.GlobalID{
			SchemeID: model.GlobalIDSchemeID(gid.SelectAttrValue("schemeID", "")),
			ID:       gid.Text(),
		}
	}
	if addr := d.find(e, "ram:PostalTradeAddress"); addr != nil {
		p.Postcode = d.text(addr, "ram:PostcodeCode")
		if lineTwo := d.text(addr, "ram:LineTwo"); lineTwo != "" {
			p.ContactName = d.text(addr, "ram:LineOne")
			p.Street = lineTwo
		} else {
			p.Street = d.text(addr, "ram:LineOne")
		}
		p.AddressLine3 = d.text(addr, "ram:LineThree")
		p.City = d.text(addr, "ram:CityName")
		p.Country = d.text(addr, "ram:CountryID")
		p.CountrySubdivisionName = d.text(addr, "ram:CountrySubDivisionName")
	}
	return p
}

func (d *decoder) contact(e *etree.Element) *model.Contact {
	el := d.find(e, "ram:DefinedTradeContact")
	if el == nil {
		return nil
	}
	return &model.Contact{
		Name:         d.text(el, "ram:PersonName"),
		OrgUnit:      d.text(el, "ram:DepartmentName"),
		PhoneNo:      d.text(el, "ram:TelephoneUniversalCommunication/ram:CompleteNumber"),
		FaxNo:        d.text(el, "ram:FaxUniversalCommunication/ram:CompleteNumber"),
		EmailAddress: d.text(el, "ram:EmailURIUniversalCommunication/ram:URIID"),
	}
}

func (d *decoder) taxRegistrations(e *etree.Element) []model.TaxRegistration {
	var out []model.TaxRegistration
	for _, id := range d.findAll(e, "ram:SpecifiedTaxRegistration/ram:ID") {
		out = append(out, model.TaxRegistration{
			SchemeID: model.TaxRegistrationSchemeID(id.SelectAttrValue("schemeID", "")),
			No:       id.Text(),
		})
	}
	return out
}

func (d *decoder) attachment(e *etree.Element, doc *model.AdditionalReferencedDocument) {
	el := d.find(e, "ram:AttachmentBinaryObject")
	if el == nil {
		return
	}
	payload := strings.Join(strings.Fields(el.Text()), "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		d.fail(el, "invalid attachment encoding", err)
		return
	}
	doc.AttachmentBinaryObject = data
	doc.MimeType = el.SelectAttrValue("mimeCode", "")
	doc.Filename = el.SelectAttrValue("filename", "")
}
