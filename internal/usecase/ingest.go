package usecase

import (
	"settlement-profit/internal/domain"
)

// ExtractRow pulls the settlement fields out of one data row. It returns false for
// rows without a barcode or with an unrecognized payment reason.
func ExtractRow(cells []string, layout domain.ColumnLayout) (domain.RawRow, bool) {
	barcode := domain.Text(domain.CellAt(cells, layout.Barcode))
	if barcode == "" {
		return domain.RawRow{}, false
	}
	reason, ok := domain.ParsePaymentReason(domain.Text(domain.CellAt(cells, layout.PaymentReason)))
	if !ok {
		return domain.RawRow{}, false
	}
	return domain.RawRow{
		Barcode:            barcode,
		SupplierArticle:    domain.Text(domain.CellAt(cells, layout.SupplierArticle)),
		PaymentReason:      reason,
		PayoutAmount:       domain.CellAt(cells, layout.Payout),
		DeliveryServiceFee: domain.CellAt(cells, layout.DeliveryFee),
		DocumentType:       domain.Text(domain.CellAt(cells, layout.DocumentType)),
	}, true
}
