package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlement-profit/internal/domain"
	"settlement-profit/internal/usecase"
)

func TestBuildPricingIndex(t *testing.T) {
	tests := []struct {
		name         string
		entries      []domain.PricingInput
		barcode      string
		wantFound    bool
		wantPurchase string
		wantExtra    string
		wantSkipped  int
	}{
		{
			name:         "numeric values",
			entries:      []domain.PricingInput{{SKU: "123", PurchasePrice: 200.0, ExtraCosts: 50}},
			barcode:      "123",
			wantFound:    true,
			wantPurchase: "200",
			wantExtra:    "50",
		},
		{
			name:         "strings with comma decimals and space thousands",
			entries:      []domain.PricingInput{{SKU: "123", PurchasePrice: "1 250,75", ExtraCosts: "12,5"}},
			barcode:      "123",
			wantFound:    true,
			wantPurchase: "1250.75",
			wantExtra:    "12.5",
		},
		{
			name:         "non-breaking space thousands separator",
			entries:      []domain.PricingInput{{SKU: "123", PurchasePrice: "2\u00a0000", ExtraCosts: nil}},
			barcode:      "123",
			wantFound:    true,
			wantPurchase: "2000",
			wantExtra:    "0",
		},
		{
			name: "later duplicate overwrites earlier",
			entries: []domain.PricingInput{
				{SKU: "123", PurchasePrice: "100", ExtraCosts: "10"},
				{SKU: "123", PurchasePrice: "300", ExtraCosts: "30"},
			},
			barcode:      "123",
			wantFound:    true,
			wantPurchase: "300",
			wantExtra:    "30",
		},
		{
			name: "unparsable entry is skipped without aborting the index",
			entries: []domain.PricingInput{
				{SKU: "123", PurchasePrice: "abc", ExtraCosts: "10"},
				{SKU: "456", PurchasePrice: "5", ExtraCosts: "1"},
			},
			barcode:     "123",
			wantFound:   false,
			wantSkipped: 1,
		},
		{
			name:         "sku is trimmed",
			entries:      []domain.PricingInput{{SKU: " 789 ", PurchasePrice: "7", ExtraCosts: "0"}},
			barcode:      "789",
			wantFound:    true,
			wantPurchase: "7",
			wantExtra:    "0",
		},
		{
			name:        "blank sku is skipped",
			entries:     []domain.PricingInput{{SKU: "  ", PurchasePrice: "7"}},
			barcode:     "",
			wantSkipped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, skipped := usecase.BuildPricingIndex(tt.entries)
			assert.Len(t, skipped, tt.wantSkipped)

			entry, found := index.Lookup(tt.barcode)
			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assertDecimal(t, tt.wantPurchase, entry.PurchasePrice)
				assertDecimal(t, tt.wantExtra, entry.ExtraCosts)
			}
		})
	}
}
