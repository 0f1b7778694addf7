// Package profile holds the capability matrix: which field groups and tax types each
// (version, profile) pair may carry, and the URN identifying it in a document.
package profile

import (
	"sort"
	"strings"
	"sync"

	"github.com/rezonia/zugferd/internal/model"
)

// FieldGroup is a set of related optional fields that is allowed or dropped as a whole
type FieldGroup string

const (
	// Minimum
	GroupBusinessProcess     FieldGroup = "BusinessProcess"
	GroupBuyerReference      FieldGroup = "BuyerReference"
	GroupBuyerOrderReference FieldGroup = "BuyerOrderReference"
	GroupTaxRegistrations    FieldGroup = "TaxRegistrations"

	// BasicWL
	GroupLineTotals                FieldGroup = "LineTotals"
	GroupNotes                     FieldGroup = "Notes"
	GroupShipTo                    FieldGroup = "ShipTo"
	GroupPayee                     FieldGroup = "Payee"
	GroupContractReference         FieldGroup = "ContractReference"
	GroupContractIssueDate         FieldGroup = "ContractIssueDate"
	GroupInvoiceReferencedDocument FieldGroup = "InvoiceReferencedDocument"
	GroupActualDeliveryDate        FieldGroup = "ActualDeliveryDate"
	GroupBillingPeriod             FieldGroup = "BillingPeriod"
	GroupTradeAllowanceCharges     FieldGroup = "TradeAllowanceCharges"
	GroupPaymentMeans              FieldGroup = "PaymentMeans"
	GroupSEPADirectDebit           FieldGroup = "SEPADirectDebit"
	GroupCreditorBankAccounts      FieldGroup = "CreditorBankAccounts"
	GroupDebitorBankAccounts       FieldGroup = "DebitorBankAccounts"
	GroupPaymentTerms              FieldGroup = "PaymentTerms"
	GroupTaxBreakdown              FieldGroup = "TaxBreakdown"
	GroupTaxExemptionReason        FieldGroup = "TaxExemptionReason"

	// Basic
	GroupLineItems                 FieldGroup = "LineItems"
	GroupGrossPrice                FieldGroup = "GrossPrice"
	GroupLineAllowanceCharges      FieldGroup = "LineAllowanceCharges"
	GroupTradeLineSettlementPeriod FieldGroup = "TradeLineSettlementPeriod"
	GroupProductCharacteristics    FieldGroup = "ProductCharacteristics"
	GroupProductGlobalID           FieldGroup = "ProductGlobalID"
	GroupLineNotes                 FieldGroup = "LineNotes"

	// Comfort
	GroupRoundingAmount                FieldGroup = "RoundingAmount"
	GroupAdditionalReferencedDocuments FieldGroup = "AdditionalReferencedDocuments"
	GroupAttachments                   FieldGroup = "Attachments"
	GroupSellerOrderReference          FieldGroup = "SellerOrderReference"
	GroupProcuringProject              FieldGroup = "ProcuringProject"
	GroupSellerContact                 FieldGroup = "SellerContact"
	GroupBuyerContact                  FieldGroup = "BuyerContact"
	GroupFinancialCard                 FieldGroup = "FinancialCard"
	GroupLineDescription               FieldGroup = "LineDescription"
	GroupLineBuyerAssignedID           FieldGroup = "LineBuyerAssignedID"
	GroupLineAccountingAccounts        FieldGroup = "LineAccountingAccounts"
	GroupLineOrderReference            FieldGroup = "LineOrderReference"

	// Extended
	GroupInvoicee                FieldGroup = "Invoicee"
	GroupPayeeDetail             FieldGroup = "PayeeDetail"
	GroupShipFrom                FieldGroup = "ShipFrom"
	GroupServiceCharges          FieldGroup = "ServiceCharges"
	GroupDeliveryNote            FieldGroup = "DeliveryNote"
	GroupDocumentName            FieldGroup = "DocumentName"
	GroupOrderIssueDate          FieldGroup = "OrderIssueDate"
	GroupTestIndicator           FieldGroup = "TestIndicator"
	GroupLineReferencedDocuments FieldGroup = "LineReferencedDocuments"
	GroupLineActualDeliveryDate  FieldGroup = "LineActualDeliveryDate"
)

var (
	minimumGroups = []FieldGroup{
		GroupBusinessProcess, GroupBuyerReference, GroupBuyerOrderReference, GroupTaxRegistrations,
	}
	basicWLGroups = []FieldGroup{
		GroupLineTotals, GroupNotes, GroupShipTo, GroupPayee, GroupContractReference,
		GroupContractIssueDate, GroupInvoiceReferencedDocument, GroupActualDeliveryDate,
		GroupBillingPeriod, GroupTradeAllowanceCharges, GroupPaymentMeans, GroupSEPADirectDebit,
		GroupCreditorBankAccounts, GroupDebitorBankAccounts, GroupPaymentTerms, GroupTaxBreakdown,
		GroupTaxExemptionReason,
	}
	basicGroups = []FieldGroup{
		GroupLineItems, GroupGrossPrice, GroupLineAllowanceCharges, GroupTradeLineSettlementPeriod,
		GroupProductCharacteristics, GroupProductGlobalID, GroupLineNotes,
	}
	comfortGroups = []FieldGroup{
		GroupRoundingAmount, GroupAdditionalReferencedDocuments, GroupAttachments,
		GroupSellerOrderReference, GroupProcuringProject, GroupSellerContact, GroupBuyerContact,
		GroupFinancialCard, GroupLineDescription, GroupLineBuyerAssignedID,
		GroupLineAccountingAccounts, GroupLineOrderReference,
	}
	extendedGroups = []FieldGroup{
		GroupInvoicee, GroupPayeeDetail, GroupShipFrom, GroupServiceCharges, GroupDeliveryNote,
		GroupDocumentName, GroupOrderIssueDate, GroupTestIndicator, GroupLineReferencedDocuments,
		GroupLineActualDeliveryDate,
	}

	// no place for these in the 1.0 layout
	version1Excluded = []FieldGroup{
		GroupRoundingAmount, GroupAttachments, GroupProcuringProject, GroupFinancialCard,
		GroupSellerOrderReference, GroupInvoiceReferencedDocument,
	}
)

// Capability describes what one (version, profile) pair may carry
type Capability struct {
	Version      model.Version `json:"version"`
	Profile      model.Profile `json:"profile"`
	URN          string        `json:"urn"`
	AcceptedURNs []string      `json:"acceptedUrns,omitempty"`

	groups   map[FieldGroup]struct{}
	taxTypes map[model.TaxType]struct{}
}

// IsGroupAllowed reports whether the field group may appear
func (c Capability) IsGroupAllowed(g FieldGroup) bool {
	_, ok := c.groups[g]
	return ok
}

// IsTaxTypeAllowed reports whether the tax type code may appear
func (c Capability) IsTaxTypeAllowed(t model.TaxType) bool {
	_, ok := c.taxTypes[t]
	return ok
}

// AllowedGroups returns the allowed field groups, sorted
func (c Capability) AllowedGroups() []FieldGroup {
	out := make([]FieldGroup, 0, len(c.groups))
	for g := range c.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllowedTaxTypes returns the allowed tax type codes, sorted
func (c Capability) AllowedTaxTypes() []model.TaxType {
	out := make([]model.TaxType, 0, len(c.taxTypes))
	for t := range c.taxTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// matches reports whether urn identifies this capability
func (c Capability) matches(urn string) bool {
	if urn == c.URN {
		return true
	}
	for _, alt := range c.AcceptedURNs {
		if urn == alt {
			return true
		}
	}
	return false
}

type key struct {
	version model.Version
	profile model.Profile
}

type table struct {
	entries map[key]Capability
	order   []key
}

var capabilities = sync.OnceValue(buildTable)

func buildTable() *table {
	t := &table{entries: make(map[key]Capability)}

	minimum := minimumGroups
	basicWL := concat(minimum, basicWLGroups)
	basic := concat(basicWL, basicGroups)
	comfort := concat(basic, comfortGroups)
	extended := concat(comfort, extendedGroups)
	xrechnung := without(comfort, []FieldGroup{GroupContractIssueDate})

	vatOnly := []model.TaxType{model.TaxTypeVAT}
	all := model.AllTaxTypes()

	const en16931 = "urn:cen.eu:en16931:2017"

	t.add(model.Version21, model.ProfileMinimum, "urn:factur-x.eu:1p0:minimum", minimum, vatOnly,
		"urn:zugferd.de:2p0:minimum")
	t.add(model.Version21, model.ProfileBasicWL, "urn:factur-x.eu:1p0:basicwl", basicWL, vatOnly,
		"urn:zugferd.de:2p0:basicwl")
	t.add(model.Version21, model.ProfileBasic, en16931+"#compliant#urn:factur-x.eu:1p0:basic", basic, vatOnly,
		"urn:cen.eu:en16931:2017:compliant:factur-x.eu:1p0:basic",
		en16931+"#compliant#urn:zugferd.de:2p0:basic")
	t.add(model.Version21, model.ProfileComfort, en16931, comfort, vatOnly,
		"urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:en16931")
	t.add(model.Version21, model.ProfileExtended, en16931+"#conformant#urn:factur-x.eu:1p0:extended", extended, all,
		"urn:cen.eu:en16931:2017:conformant:factur-x.eu:1p0:extended",
		en16931+"#conformant#urn:zugferd.de:2p0:extended")
	t.add(model.Version21, model.ProfileXRechnung1, en16931+"#compliant#urn:xoev-de:kosit:standard:xrechnung_1.2", xrechnung, vatOnly)
	t.add(model.Version21, model.ProfileXRechnung, en16931+"#compliant#urn:xoev-de:kosit:standard:xrechnung_2.0", xrechnung, vatOnly,
		en16931+"#compliant#urn:xoev-de:kosit:standard:xrechnung_2.1",
		en16931+"#compliant#urn:xoev-de:kosit:standard:xrechnung_2.2",
		en16931+"#compliant#urn:xoev-de:kosit:standard:xrechnung_2.3",
		en16931+"#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0")

	t.add(model.Version1, model.ProfileBasic, "urn:ferd:CrossIndustryDocument:invoice:1p0:basic",
		without(basic, version1Excluded), vatOnly)
	t.add(model.Version1, model.ProfileComfort, "urn:ferd:CrossIndustryDocument:invoice:1p0:comfort",
		without(comfort, version1Excluded), vatOnly)
	t.add(model.Version1, model.ProfileExtended, "urn:ferd:CrossIndustryDocument:invoice:1p0:extended",
		without(extended, version1Excluded), all)

	return t
}

func (t *table) add(v model.Version, p model.Profile, urn string, groups []FieldGroup, taxTypes []model.TaxType, accepted ...string) {
	c := Capability{
		Version:      v,
		Profile:      p,
		URN:          urn,
		AcceptedURNs: accepted,
		groups:       make(map[FieldGroup]struct{}, len(groups)),
		taxTypes:     make(map[model.TaxType]struct{}, len(taxTypes)),
	}
	for _, g := range groups {
		c.groups[g] = struct{}{}
	}
	for _, tt := range taxTypes {
		c.taxTypes[tt] = struct{}{}
	}
	k := key{v, p}
	t.entries[k] = c
	t.order = append(t.order, k)
}

func concat(base, extra []FieldGroup) []FieldGroup {
	out := make([]FieldGroup, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

func without(base, drop []FieldGroup) []FieldGroup {
	skip := make(map[FieldGroup]struct{}, len(drop))
	for _, g := range drop {
		skip[g] = struct{}{}
	}
	out := make([]FieldGroup, 0, len(base))
	for _, g := range base {
		if _, ok := skip[g]; !ok {
			out = append(out, g)
		}
	}
	return out
}

// Lookup returns the capability of a (version, profile) pair
func Lookup(version model.Version, profile model.Profile) (Capability, error) {
	c, ok := capabilities().entries[key{version, profile}]
	if !ok {
		return Capability{}, model.NewUnknownProfileError(version, profile, "")
	}
	return c, nil
}

// ForURN resolves the profile identifier found in a document of the given version
func ForURN(version model.Version, urn string) (Capability, error) {
	urn = strings.TrimSpace(urn)
	if urn == "" {
		return Capability{}, model.NewUnknownProfileError(version, model.ProfileUnknown, "")
	}
	t := capabilities()
	for _, k := range t.order {
		if k.version != version {
			continue
		}
		if c := t.entries[k]; c.matches(urn) {
			return c, nil
		}
	}
	return Capability{}, model.NewUnknownProfileError(version, model.ProfileUnknown, urn)
}

// Default is the profile used when the caller does not name one
func Default(version model.Version) model.Profile {
	return model.ProfileBasic
}

// Profiles lists the profiles defined for a version, from the smallest tier up
func Profiles(version model.Version) []model.Profile {
	var out []model.Profile
	for _, k := range capabilities().order {
		if k.version == version {
			out = append(out, k.profile)
		}
	}
	return out
}

// Versions lists the supported document versions
func Versions() []model.Version {
	return []model.Version{model.Version1, model.Version21}
}

// All returns every capability in table order
func All() []Capability {
	t := capabilities()
	out := make([]Capability, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.entries[k])
	}
	return out
}
