package usecase

import (
	"github.com/shopspring/decimal"

	"settlement-profit/internal/domain"
)

// Totals titles, in the order they appear in the report.
const (
	TotalPayout        = "TotalPayout"
	TotalLogisticsFee  = "TotalLogisticsFee"
	TotalExtraCosts    = "TotalExtraCosts"
	TotalPurchasePrice = "TotalPurchasePrice"
	TotalProfit        = "TotalProfit"
	TotalProfitPercent = "TotalProfitPercent"
)

var (
	hundred     = decimal.NewFromInt(100)
	totalTitles = []string{TotalPayout, TotalLogisticsFee, TotalExtraCosts, TotalPurchasePrice, TotalProfit, TotalProfitPercent}
)

// ProfitCalculator turns reconciled entries into report rows and keeps running totals.
type ProfitCalculator struct {
	pricing PricingIndex

	payout    decimal.Decimal
	logistics decimal.Decimal
	extra     decimal.Decimal
	purchase  decimal.Decimal
}

// NewProfitCalculator returns a calculator with zero totals.
func NewProfitCalculator(pricing PricingIndex) *ProfitCalculator {
	return &ProfitCalculator{
		pricing:   pricing,
		payout:    decimal.Zero,
		logistics: decimal.Zero,
		extra:     decimal.Zero,
		purchase:  decimal.Zero,
	}
}

// Compute derives payout, cost basis, profit and margin for entry and adds it to the totals.
// Cost basis is only attributed to sales; returns always carry a non-positive payout.
func (c *ProfitCalculator) Compute(entry domain.ReconciledEntry) domain.ReportRow {
	payout := domain.Amount(entry.PayoutAmount)
	if entry.PaymentReason == domain.ReasonReturn && payout.IsPositive() {
		payout = payout.Neg()
	}

	purchase, extra := decimal.Zero, decimal.Zero
	if entry.PaymentReason == domain.ReasonSale {
		if price, ok := c.pricing.Lookup(entry.Barcode); ok {
			purchase = price.PurchasePrice
			extra = price.ExtraCosts
		}
	}

	logistics := entry.DeliveryServiceFee
	profit := netProfit(payout, logistics, extra, purchase)

	c.payout = c.payout.Add(payout)
	c.logistics = c.logistics.Add(logistics)
	c.extra = c.extra.Add(extra)
	c.purchase = c.purchase.Add(purchase)

	return domain.ReportRow{
		Barcode:         entry.Barcode,
		SupplierArticle: entry.SupplierArticle,
		PaymentReason:   entry.PaymentReason,
		Payout:          payout,
		LogisticsFee:    logistics,
		ExtraCosts:      extra,
		PurchasePrice:   purchase,
		Profit:          profit,
		ProfitPercent:   profitPercent(profit, extra.Add(purchase)),
	}
}

// Totals returns the unrounded aggregate block. Profit and margin are derived from the
// summed columns, never from per-row values.
func (c *ProfitCalculator) Totals() domain.TotalsBlock {
	profit := netProfit(c.payout, c.logistics, c.extra, c.purchase)
	return domain.TotalsBlock{
		Titles: append([]string(nil), totalTitles...),
		Values: []decimal.Decimal{
			c.payout,
			c.logistics,
			c.extra,
			c.purchase,
			profit,
			profitPercent(profit, c.extra.Add(c.purchase)),
		},
	}
}

func netProfit(payout, logistics, extra, purchase decimal.Decimal) decimal.Decimal {
	return payout.Sub(logistics).Sub(extra).Sub(purchase)
}

// profitPercent is zero when there is no positive cost basis.
func profitPercent(profit, basis decimal.Decimal) decimal.Decimal {
	if !basis.IsPositive() {
		return decimal.Zero
	}
	return profit.Mul(hundred).Div(basis)
}
