package usecase

import (
	"errors"
	"fmt"
	"strings"

	"settlement-profit/internal/domain"
)

// PricingIndex maps a barcode to its cost basis.
type PricingIndex map[string]domain.PriceEntry

// BuildPricingIndex indexes the price list by sku. A later entry for the same sku
// overwrites an earlier one. Entries whose prices cannot be parsed are left out and
// reported in skipped.
func BuildPricingIndex(entries []domain.PricingInput) (PricingIndex, []error) {
	index := make(PricingIndex, len(entries))
	var skipped []error
	for i, in := range entries {
		entry, err := parsePriceEntry(in)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("pricing entry %d (sku %q): %w", i, in.SKU, err))
			continue
		}
		index[entry.Barcode] = entry
	}
	return index, skipped
}

func parsePriceEntry(in domain.PricingInput) (domain.PriceEntry, error) {
	barcode := strings.TrimSpace(in.SKU)
	if barcode == "" {
		return domain.PriceEntry{}, errors.New("empty sku")
	}
	purchase, err := domain.ParseAmount(in.PurchasePrice)
	if err != nil {
		return domain.PriceEntry{}, fmt.Errorf("purchase price: %w", err)
	}
	extra, err := domain.ParseAmount(in.ExtraCosts)
	if err != nil {
		return domain.PriceEntry{}, fmt.Errorf("extra costs: %w", err)
	}
	return domain.PriceEntry{Barcode: barcode, PurchasePrice: purchase, ExtraCosts: extra}, nil
}

// Lookup returns the cost basis for barcode.
func (p PricingIndex) Lookup(barcode string) (domain.PriceEntry, bool) {
	entry, ok := p[barcode]
	return entry, ok
}
