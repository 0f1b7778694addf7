package model

import "strings"

// Version is a generation of the CII document schema
type Version string

const (
	// Version1 is the legacy ZUGFeRD 1.0 CrossIndustryDocument layout
	Version1 Version = "1.0"
	// Version21 is the ZUGFeRD 2.1 / Factur-X CrossIndustryInvoice layout
	Version21 Version = "2.1"
)

// ParseVersion accepts "1", "1.0", "2", "2.1" and friends
func ParseVersion(s string) (Version, bool) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v") {
	case "1", "1.0", "10":
		return Version1, true
	case "2", "2.1", "21", "2.0", "20":
		return Version21, true
	}
	return "", false
}

// Profile is a conformance tier restricting which fields may appear
type Profile string

const (
	ProfileUnknown    Profile = ""
	ProfileMinimum    Profile = "MINIMUM"
	ProfileBasicWL    Profile = "BASICWL"
	ProfileBasic      Profile = "BASIC"
	ProfileComfort    Profile = "COMFORT"
	ProfileExtended   Profile = "EXTENDED"
	ProfileXRechnung1 Profile = "XRECHNUNG1"
	ProfileXRechnung  Profile = "XRECHNUNG"
)

// ParseProfile matches a profile name case-insensitively. EN16931 is an alias for Comfort.
func ParseProfile(s string) (Profile, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MINIMUM":
		return ProfileMinimum, true
	case "BASICWL", "BASIC-WL", "BASIC_WL":
		return ProfileBasicWL, true
	case "BASIC":
		return ProfileBasic, true
	case "COMFORT", "EN16931":
		return ProfileComfort, true
	case "EXTENDED":
		return ProfileExtended, true
	case "XRECHNUNG1":
		return ProfileXRechnung1, true
	case "XRECHNUNG", "XRECHNUNG2":
		return ProfileXRechnung, true
	}
	return ProfileUnknown, false
}

// InvoiceType is the UNTDID 1001 document type code
type InvoiceType string

const (
	InvoiceTypeInvoice           InvoiceType = "380"
	InvoiceTypeCreditNote        InvoiceType = "381"
	InvoiceTypeDebitNote         InvoiceType = "383"
	InvoiceTypeCorrection        InvoiceType = "384"
	InvoiceTypeSelfBilledInvoice InvoiceType = "389"
	InvoiceTypePartialInvoice    InvoiceType = "326"
	InvoiceTypePrepayment        InvoiceType = "386"
	InvoiceTypeCorrectedInvoice  InvoiceType = "1380"
)

// TaxType is the UNTDID 5153 duty/tax/fee type code
type TaxType string

// TaxTypeVAT is the only code accepted outside the Extended profile
const TaxTypeVAT TaxType = "VAT"

const (
	TaxTypePetroleumTax               TaxType = "AAA"
	TaxTypeProvisionalCountervailing  TaxType = "AAB"
	TaxTypeDefinitiveCountervailing   TaxType = "AAC"
	TaxTypeTobaccoTax                 TaxType = "AAD"
	TaxTypeEnergyFee                  TaxType = "AAE"
	TaxTypeCoffeeTax                  TaxType = "AAF"
	TaxTypeHarmonisedSalesTax         TaxType = "AAG"
	TaxTypeMarketingBoardLevy         TaxType = "AAH"
	TaxTypeGoodsAndServicesTax        TaxType = "AAI"
	TaxTypeAntiDumpingDuty            TaxType = "ADD"
	TaxTypeStampDuty                  TaxType = "BOL"
	TaxTypeAgriculturalLevy           TaxType = "CAP"
	TaxTypeCarTax                     TaxType = "CAR"
	TaxTypePaperConsortiumTax         TaxType = "COC"
	TaxTypeCommodityTax               TaxType = "CST"
	TaxTypeCustomsDuties              TaxType = "CUD"
	TaxTypeCountervailingDuty         TaxType = "CVD"
	TaxTypeEnvironmentalTax           TaxType = "ENV"
	TaxTypeExciseDuty                 TaxType = "EXC"
	TaxTypeAgriculturalExportRebate   TaxType = "EXP"
	TaxTypeFederalExciseTax           TaxType = "FET"
	TaxTypeFreeTax                    TaxType = "FRE"
	TaxTypeGeneralConstructionTax     TaxType = "GCN"
	TaxTypeGoodsAndServicesTaxGST     TaxType = "GST"
	TaxTypeIlluminantsTax             TaxType = "ILL"
	TaxTypeImportTax                  TaxType = "IMP"
	TaxTypeIndividualTax              TaxType = "IND"
	TaxTypeBusinessLicenseFee         TaxType = "LAC"
	TaxTypeLocalConstructionTax       TaxType = "LCN"
	TaxTypeLightDues                  TaxType = "LDP"
	TaxTypeLocalSalesTax              TaxType = "LOC"
	TaxTypeLustTax                    TaxType = "LST"
	TaxTypeMonetaryCompensatoryAmount TaxType = "MCA"
	TaxTypeMiscellaneousCashDeposit   TaxType = "MCD"
	TaxTypeOtherTaxes                 TaxType = "OTH"
	TaxTypeProvisionalDuty            TaxType = "PDB"
	TaxTypeProvisionalDutyCommunity   TaxType = "PDC"
	TaxTypePreferenceDuty             TaxType = "PRF"
	TaxTypeSpecialConstructionTax     TaxType = "SCN"
	TaxTypeShiftedSocialSecurities    TaxType = "SSS"
	TaxTypeStatisticalAndOtherTax     TaxType = "STT"
	TaxTypeSuspendedDuty              TaxType = "SUP"
	TaxTypeSurtax                     TaxType = "SUR"
	TaxTypeShiftedWageTax             TaxType = "SWT"
	TaxTypeAlcoholMarkTax             TaxType = "TAC"
	TaxTypeTotal                      TaxType = "TOT"
	TaxTypeTurnoverTax                TaxType = "TOX"
	TaxTypeTonnageTaxes               TaxType = "TTA"
	TaxTypeValuationDeposit           TaxType = "VAD"
)

// AllTaxTypes lists every tax type code known to the codec, VAT first
func AllTaxTypes() []TaxType {
	return []TaxType{
		TaxTypeVAT,
		TaxTypePetroleumTax, TaxTypeProvisionalCountervailing, TaxTypeDefinitiveCountervailing,
		TaxTypeTobaccoTax, TaxTypeEnergyFee, TaxTypeCoffeeTax, TaxTypeHarmonisedSalesTax,
		TaxTypeMarketingBoardLevy, TaxTypeGoodsAndServicesTax, TaxTypeAntiDumpingDuty,
		TaxTypeStampDuty, TaxTypeAgriculturalLevy, TaxTypeCarTax, TaxTypePaperConsortiumTax,
		TaxTypeCommodityTax, TaxTypeCustomsDuties, TaxTypeCountervailingDuty,
		TaxTypeEnvironmentalTax, TaxTypeExciseDuty, TaxTypeAgriculturalExportRebate,
		TaxTypeFederalExciseTax, TaxTypeFreeTax, TaxTypeGeneralConstructionTax,
		TaxTypeGoodsAndServicesTaxGST, TaxTypeIlluminantsTax, TaxTypeImportTax,
		TaxTypeIndividualTax, TaxTypeBusinessLicenseFee, TaxTypeLocalConstructionTax,
		TaxTypeLightDues, TaxTypeLocalSalesTax, TaxTypeLustTax, TaxTypeMonetaryCompensatoryAmount,
		TaxTypeMiscellaneousCashDeposit, TaxTypeOtherTaxes, TaxTypeProvisionalDuty,
		TaxTypeProvisionalDutyCommunity, TaxTypePreferenceDuty, TaxTypeSpecialConstructionTax,
		TaxTypeShiftedSocialSecurities, TaxTypeStatisticalAndOtherTax, TaxTypeSuspendedDuty,
		TaxTypeSurtax, TaxTypeShiftedWageTax, TaxTypeAlcoholMarkTax, TaxTypeTotal,
		TaxTypeTurnoverTax, TaxTypeTonnageTaxes, TaxTypeValuationDeposit,
	}
}

// TaxCategoryCode is the UNTDID 5305 duty/tax/fee category
type TaxCategoryCode string

const (
	TaxCategoryStandardRate       TaxCategoryCode = "S"
	TaxCategoryZeroRated          TaxCategoryCode = "Z"
	TaxCategoryExempt             TaxCategoryCode = "E"
	TaxCategoryReverseCharge      TaxCategoryCode = "AE"
	TaxCategoryIntraCommunity     TaxCategoryCode = "K"
	TaxCategoryExport             TaxCategoryCode = "G"
	TaxCategoryNotSubject         TaxCategoryCode = "O"
	TaxCategoryCanaryIslands      TaxCategoryCode = "L"
	TaxCategoryCeutaMelilla       TaxCategoryCode = "M"
	TaxCategoryMixedTaxRate       TaxCategoryCode = "A"
	TaxCategoryLowerRate          TaxCategoryCode = "AA"
	TaxCategoryExemptForResale    TaxCategoryCode = "AB"
	TaxCategoryVATNotNowDue       TaxCategoryCode = "AC"
	TaxCategoryVATDueFromPrevious TaxCategoryCode = "AD"
	TaxCategoryTransferredVAT     TaxCategoryCode = "B"
	TaxCategoryDutyPaidBySupplier TaxCategoryCode = "C"
	TaxCategoryHigherRate         TaxCategoryCode = "H"
)

// PaymentMeansTypeCode is the UNTDID 4461 payment means code
type PaymentMeansTypeCode string

const (
	PaymentMeansNotDefined              PaymentMeansTypeCode = "1"
	PaymentMeansInCash                  PaymentMeansTypeCode = "10"
	PaymentMeansCheque                  PaymentMeansTypeCode = "20"
	PaymentMeansCreditTransfer          PaymentMeansTypeCode = "30"
	PaymentMeansDebitTransfer           PaymentMeansTypeCode = "31"
	PaymentMeansPaymentToBankAccount    PaymentMeansTypeCode = "42"
	PaymentMeansBankCard                PaymentMeansTypeCode = "48"
	PaymentMeansDirectDebit             PaymentMeansTypeCode = "49"
	PaymentMeansStandingAgreement       PaymentMeansTypeCode = "57"
	PaymentMeansSEPACreditTransfer      PaymentMeansTypeCode = "58"
	PaymentMeansSEPADirectDebit         PaymentMeansTypeCode = "59"
	PaymentMeansClearingBetweenPartners PaymentMeansTypeCode = "97"
)

// QuantityCode is a UN/ECE recommendation 20 unit code
type QuantityCode string

const (
	QuantityOne          QuantityCode = "C62"
	QuantityPiece        QuantityCode = "H87"
	QuantityKilogram     QuantityCode = "KGM"
	QuantityMetre        QuantityCode = "MTR"
	QuantityLitre        QuantityCode = "LTR"
	QuantityHour         QuantityCode = "HUR"
	QuantityDay          QuantityCode = "DAY"
	QuantityMonth        QuantityCode = "MON"
	QuantitySquareMetre  QuantityCode = "MTK"
	QuantityCubicMetre   QuantityCode = "MTQ"
	QuantitySet          QuantityCode = "SET"
	QuantityLumpSum      QuantityCode = "LS"
	QuantityTonne        QuantityCode = "TNE"
	QuantityKilowattHour QuantityCode = "KWH"
)

// GlobalIDSchemeID is the ISO 6523 identifier scheme of a global ID
type GlobalIDSchemeID string

const (
	GlobalIDSchemeDUNS      GlobalIDSchemeID = "0060"
	GlobalIDSchemeGLN       GlobalIDSchemeID = "0088"
	GlobalIDSchemeODETTE    GlobalIDSchemeID = "0177"
	GlobalIDSchemeGTIN      GlobalIDSchemeID = "0160"
	GlobalIDSchemeLeitwegID GlobalIDSchemeID = "0204"
)

// TaxRegistrationSchemeID is FC (fiscal number) or VA (VAT ID)
type TaxRegistrationSchemeID string

const (
	TaxRegistrationFiscalNumber TaxRegistrationSchemeID = "FC"
	TaxRegistrationVATID        TaxRegistrationSchemeID = "VA"
)

// AdditionalReferencedDocumentTypeCode is the UNTDID 1001 subset used for additional documents
type AdditionalReferencedDocumentTypeCode string

const (
	AdditionalDocumentValidation    AdditionalReferencedDocumentTypeCode = "50"
	AdditionalDocumentInvoicingData AdditionalReferencedDocumentTypeCode = "130"
	AdditionalDocumentReference     AdditionalReferencedDocumentTypeCode = "916"
)

// ReferenceTypeCode is the UNTDID 1153 reference qualifier
type ReferenceTypeCode string

const (
	ReferenceTypeOrderAcknowledgement ReferenceTypeCode = "AAA"
	ReferenceTypePriceList            ReferenceTypeCode = "AAB"
	ReferenceTypeObjectIdentifier     ReferenceTypeCode = "AAG"
	ReferenceTypeDeliveryNote         ReferenceTypeCode = "AAJ"
	ReferenceTypeContractNumber       ReferenceTypeCode = "CT"
	ReferenceTypeInvoiceNumber        ReferenceTypeCode = "IV"
	ReferenceTypeOrderNumber          ReferenceTypeCode = "ON"
	ReferenceTypeProjectNumber        ReferenceTypeCode = "PP"
)

// SubjectCode is the UNTDID 4451 text subject qualifier of a note
type SubjectCode string

const (
	SubjectGeneralInformation    SubjectCode = "AAI"
	SubjectAdditionalConditions  SubjectCode = "AAJ"
	SubjectPriceConditions       SubjectCode = "AAK"
	SubjectRegulatoryInformation SubjectCode = "REG"
	SubjectPaymentInformation    SubjectCode = "PMT"
	SubjectSupplierRemarks       SubjectCode = "SUR"
	SubjectTaxDeclaration        SubjectCode = "TXD"
	SubjectDisclosure            SubjectCode = "ABL"
)
