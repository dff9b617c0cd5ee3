package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// ParseAmount converts a raw value to an exact decimal.
// Missing values and blank strings are zero. Strings may use spaces (including
// non-breaking ones) as thousands separators and a comma as the decimal separator.
func ParseAmount(v Cell) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, nil
		}
		return *x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("amount %v is not finite", x)
		}
		return decimal.NewFromFloat(x), nil
	case float32:
		return ParseAmount(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint:
		return decimal.NewFromUint64(uint64(x)), nil
	case uint64:
		return decimal.NewFromUint64(x), nil
	case json.Number:
		return parseAmountString(string(x))
	case string:
		return parseAmountString(x)
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}

// Amount is ParseAmount with every failure degraded to zero.
func Amount(v Cell) decimal.Decimal {
	d, err := ParseAmount(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseAmountString(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		if r == ',' {
			return '.'
		}
		return r
	}, s)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not parse amount '%s': %w", s, err)
	}
	return d, nil
}

// Text converts a raw value to a trimmed, NFC-normalized string.
func Text(v Cell) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	return strings.TrimSpace(norm.NFC.String(s))
}
