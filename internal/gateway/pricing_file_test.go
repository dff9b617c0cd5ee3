package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"settlement-profit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPricingFile(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected []domain.PricingInput
		wantErr  bool
	}{
		{
			name: "yaml list",
			file: "pricing.yaml",
			content: `
- sku: "4600000000017"
  purchase_price: 300
  extra_costs: 12.5
- sku: "4600000000024"
  purchase_price: "1 250,75"
`,
			expected: []domain.PricingInput{
				{SKU: "4600000000017", PurchasePrice: 300, ExtraCosts: 12.5},
				{SKU: "4600000000024", PurchasePrice: "1 250,75"},
			},
		},
		{
			name: "yaml products mapping drops blank sku",
			file: "pricing.yml",
			content: `
products:
  - sku: "4600000000017"
    purchase_price: 300
    extra_costs: 100
  - sku: "  "
    purchase_price: 1
`,
			expected: []domain.PricingInput{
				{SKU: "4600000000017", PurchasePrice: 300, ExtraCosts: 100},
			},
		},
		{
			name:    "json list",
			file:    "pricing.json",
			content: `[{"sku": "4600000000017", "purchase_price": "300", "extra_costs": ""}]`,
			expected: []domain.PricingInput{
				{SKU: "4600000000017", PurchasePrice: "300", ExtraCosts: ""},
			},
		},
		{
			name:     "empty document",
			file:     "pricing.yaml",
			content:  "",
			expected: nil,
		},
		{
			name:    "scalar document",
			file:    "pricing.yaml",
			content: "just a string",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "pricing.yaml",
			content: "- sku: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			got, err := LoadPricingFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadPricingFile_Missing(t *testing.T) {
	_, err := LoadPricingFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
