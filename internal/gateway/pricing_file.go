package gateway

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"settlement-profit/internal/domain"
)

type pricingDocument struct {
	Products []domain.PricingInput `yaml:"products"`
}

// LoadPricingFile reads a price list from a YAML or JSON file. The document is either
// a list of {sku, purchase_price, extra_costs} entries or a mapping with a "products" list.
// Entries with a blank sku are dropped.
func LoadPricingFile(path string) ([]domain.PricingInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing file %s: %w", path, err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse pricing file %s: %w", path, err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var entries []domain.PricingInput
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&entries)
	case yaml.MappingNode:
		var doc pricingDocument
		err = root.Decode(&doc)
		entries = doc.Products
	default:
		err = fmt.Errorf("unexpected document kind %d", root.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode pricing file %s: %w", path, err)
	}

	result := make([]domain.PricingInput, 0, len(entries))
	for _, entry := range entries {
		if entry.Blank() {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}
