package domain

import (
	"fmt"
	"strings"
)

// ColumnLayout fixes the zero-based column positions of the settlement report.
// Positions are tied to an upstream format version and are validated against the
// header row before any positional extraction.
type ColumnLayout struct {
	Version         string
	Barcode         int
	SupplierArticle int
	PaymentReason   int
	DocumentType    int
	Payout          int
	DeliveryFee     int
	// ProductName and ProductAltName are only read by the product catalogue.
	ProductName    int
	ProductAltName int
	// Headers holds the expected header label per column, checked in strict mode.
	Headers map[int]string
}

// DefaultLayout is the layout of the current detailed settlement export.
var DefaultLayout = ColumnLayout{
	Version:         "v3",
	Barcode:         8,
	SupplierArticle: 5,
	PaymentReason:   10,
	DocumentType:    9,
	Payout:          33,
	DeliveryFee:     36,
	ProductName:     5,
	ProductAltName:  6,
	Headers: map[int]string{
		5:  "Артикул поставщика",
		8:  "Баркод",
		9:  "Тип документа",
		10: "Обоснование для оплаты",
		33: "К перечислению Продавцу за реализованный Товар",
		36: "Услуги по доставке товара покупателю",
	},
}

func (l ColumnLayout) maxIndex() int {
	highest := 0
	for _, idx := range []int{l.Barcode, l.SupplierArticle, l.PaymentReason, l.DocumentType, l.Payout, l.DeliveryFee} {
		if idx > highest {
			highest = idx
		}
	}
	return highest
}

// Validate checks that header can carry the layout. In strict mode every known
// header label must match the corresponding header cell.
func (l ColumnLayout) Validate(header []string, strict bool) error {
	if len(header) == 0 {
		return fmt.Errorf("%w: empty header row", ErrUnsupportedLayout)
	}
	if len(header) <= l.maxIndex() {
		return fmt.Errorf("%w: layout %s needs %d columns, header has %d", ErrUnsupportedLayout, l.Version, l.maxIndex()+1, len(header))
	}
	if !strict {
		return nil
	}
	for idx, want := range l.Headers {
		got := Text(header[idx])
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("%w: layout %s expects %q in column %d, got %q", ErrUnsupportedLayout, l.Version, want, idx, got)
		}
	}
	return nil
}

// CellAt returns the value at idx or nil when the row is shorter.
func CellAt(cells []string, idx int) Cell {
	if idx < 0 || idx >= len(cells) {
		return nil
	}
	if cells[idx] == "" {
		return nil
	}
	return cells[idx]
}
