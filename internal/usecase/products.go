package usecase

import (
	"context"
	"fmt"

	"settlement-profit/internal/domain"
)

// ProductCatalog lists the distinct products of an uploaded settlement report.
type ProductCatalog struct {
	source WorkbookSource
	layout domain.ColumnLayout
}

// NewProductCatalog creates a catalog reading with the given layout.
func NewProductCatalog(source WorkbookSource, layout domain.ColumnLayout) *ProductCatalog {
	return &ProductCatalog{source: source, layout: layout}
}

// Extract returns one product per barcode, first occurrence wins, in sheet order.
// Rows without a barcode are ignored.
func (pc *ProductCatalog) Extract(ctx context.Context, path string) ([]domain.Product, error) {
	seen := make(map[string]bool)
	products := make([]domain.Product, 0)
	header := true

	err := pc.source.Rows(ctx, path, func(cells []string) error {
		if header {
			header = false
			return nil
		}
		barcode := domain.Text(domain.CellAt(cells, pc.layout.Barcode))
		if barcode == "" || seen[barcode] {
			return nil
		}
		seen[barcode] = true
		products = append(products, domain.Product{
			Barcode:       barcode,
			NamePrimary:   domain.Text(domain.CellAt(cells, pc.layout.ProductName)),
			NameSecondary: domain.Text(domain.CellAt(cells, pc.layout.ProductAltName)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not extract products from %s: %w", path, err)
	}
	return products, nil
}
