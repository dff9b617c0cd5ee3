package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"settlement-profit/internal/domain"
)

const reportWidth = 40

func headerRow() []string {
	header := make([]string, reportWidth)
	for i := range header {
		header[i] = "col"
	}
	for idx, label := range domain.DefaultLayout.Headers {
		header[idx] = label
	}
	return header
}

func settlementRow(barcode, article, reason, docType, payout, fee string) []string {
	row := make([]string, reportWidth)
	l := domain.DefaultLayout
	row[l.Barcode] = barcode
	row[l.SupplierArticle] = article
	row[l.PaymentReason] = reason
	row[l.DocumentType] = docType
	row[l.Payout] = payout
	row[l.DeliveryFee] = fee
	return row
}

func rawRow(barcode, reason, docType string, payout, fee domain.Cell) domain.RawRow {
	r, ok := domain.ParsePaymentReason(reason)
	if !ok {
		panic("unknown reason " + reason)
	}
	return domain.RawRow{
		Barcode:            barcode,
		PaymentReason:      r,
		PayoutAmount:       payout,
		DeliveryServiceFee: fee,
		DocumentType:       docType,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
