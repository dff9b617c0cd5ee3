package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentReason is the recognized category of a settlement line.
type PaymentReason int

const (
	ReasonUnknown PaymentReason = iota
	ReasonReturn
	ReasonLogistics
	ReasonSale
	ReasonWithholding
	ReasonStorage
	ReasonPenalty
)

// DocumentTypeSale marks a settlement line that documents a realized sale.
// Exports in the marketplace's own language use DocumentTypeSaleLocal.
const (
	DocumentTypeSale      = "Sale"
	DocumentTypeSaleLocal = "Продажа"
)

var reasonLabels = map[PaymentReason]string{
	ReasonReturn:      "Return",
	ReasonLogistics:   "Logistics",
	ReasonSale:        "Sale",
	ReasonWithholding: "Withholding",
	ReasonStorage:     "Storage",
	ReasonPenalty:     "Penalty",
}

// localLabels are the labels used by the marketplace's native export.
var localLabels = map[string]PaymentReason{
	"Возврат":   ReasonReturn,
	"Логистика": ReasonLogistics,
	"Продажа":   ReasonSale,
	"Удержание": ReasonWithholding,
	"Хранение":  ReasonStorage,
	"Штраф":     ReasonPenalty,
}

var reasonsByLabel = func() map[string]PaymentReason {
	m := make(map[string]PaymentReason, len(reasonLabels)+len(localLabels))
	for reason, label := range reasonLabels {
		m[label] = reason
	}
	for label, reason := range localLabels {
		m[label] = reason
	}
	return m
}()

// ParsePaymentReason maps a report label, canonical or native, to its reason.
// Labels are matched exactly.
func ParsePaymentReason(label string) (PaymentReason, bool) {
	reason, ok := reasonsByLabel[label]
	return reason, ok
}

// String returns the label printed in reports.
func (r PaymentReason) String() string {
	if label, ok := reasonLabels[r]; ok {
		return label
	}
	return ""
}

// MarshalText encodes the reason as its report label.
func (r PaymentReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Cell is a raw workbook or form value: nil, a number or a string.
type Cell any

// RawRow is one retained settlement line as read from the report.
type RawRow struct {
	Barcode            string
	SupplierArticle    string
	PaymentReason      PaymentReason
	PayoutAmount       Cell
	DeliveryServiceFee Cell
	DocumentType       string
}

// IsBareLogistics reports whether the row is a logistics charge without a document type.
func (r RawRow) IsBareLogistics() bool {
	return r.PaymentReason == ReasonLogistics && r.DocumentType == ""
}

// IsSale reports whether the row documents a realized sale.
func (r RawRow) IsSale() bool {
	return r.PaymentReason == ReasonSale &&
		(r.DocumentType == DocumentTypeSale || r.DocumentType == DocumentTypeSaleLocal)
}

// ReconciledEntry is a settlement event after logistics charges were attributed to it.
type ReconciledEntry struct {
	Barcode            string
	SupplierArticle    string
	PaymentReason      PaymentReason
	PayoutAmount       Cell
	DeliveryServiceFee decimal.Decimal
	DocumentType       string
}

// ReportRow holds the computed figures for one reconciled entry. Values are unrounded.
type ReportRow struct {
	Barcode         string
	SupplierArticle string
	PaymentReason   PaymentReason
	Payout          decimal.Decimal
	LogisticsFee    decimal.Decimal
	ExtraCosts      decimal.Decimal
	PurchasePrice   decimal.Decimal
	Profit          decimal.Decimal
	ProfitPercent   decimal.Decimal
}

// PricingInput is one seller-supplied price list line, before parsing.
type PricingInput struct {
	SKU           string `json:"sku" yaml:"sku"`
	PurchasePrice Cell   `json:"purchase_price" yaml:"purchase_price"`
	ExtraCosts    Cell   `json:"extra_costs" yaml:"extra_costs"`
}

// Blank reports whether the line has no usable sku.
func (p PricingInput) Blank() bool {
	return strings.TrimSpace(p.SKU) == ""
}

// PriceEntry is the parsed cost basis of a barcode.
type PriceEntry struct {
	Barcode       string
	PurchasePrice decimal.Decimal
	ExtraCosts    decimal.Decimal
}

// Product is a distinct barcode with its display names, shown to the seller for pricing.
type Product struct {
	Barcode       string `json:"sku"`
	NamePrimary   string `json:"name_primary"`
	NameSecondary string `json:"name_secondary"`
}
