package usecase

import (
	"github.com/shopspring/decimal"

	"settlement-profit/internal/domain"
)

// ReportHeader is the fixed column header of the output workbook.
var ReportHeader = []string{
	"Barcode",
	"SupplierArticle",
	"PaymentReason",
	"Payout",
	"LogisticsFee",
	"ExtraCosts",
	"PurchasePrice",
	"Profit",
	"ProfitPercent",
}

const presentationPlaces = 2

// BuildReport lays out the output sheet: header, one row per report row, a blank
// separator, the totals titles and the totals values. Money is rounded here and
// nowhere else.
func BuildReport(rows []domain.ReportRow, totals domain.TotalsBlock) [][]interface{} {
	out := make([][]interface{}, 0, len(rows)+4)

	header := make([]interface{}, len(ReportHeader))
	for i, title := range ReportHeader {
		header[i] = title
	}
	out = append(out, header)

	for _, row := range rows {
		out = append(out, []interface{}{
			row.Barcode,
			row.SupplierArticle,
			row.PaymentReason.String(),
			present(row.Payout),
			present(row.LogisticsFee),
			present(row.ExtraCosts),
			present(row.PurchasePrice),
			present(row.Profit),
			present(row.ProfitPercent),
		})
	}

	out = append(out, []interface{}{})

	titles := make([]interface{}, len(totals.Titles))
	for i, title := range totals.Titles {
		titles[i] = title
	}
	values := make([]interface{}, len(totals.Values))
	for i, v := range totals.Values {
		values[i] = present(v)
	}
	return append(out, titles, values)
}

func present(d decimal.Decimal) float64 {
	return d.Round(presentationPlaces).InexactFloat64()
}
