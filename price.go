package pricetracker

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// numberFormat is the accepted format for user entered prices and quantities:
// digits with an optional decimal part, using either ',' or '.'.
var numberFormat = regexp.MustCompile(`^[0-9]+([.,][0-9]+)?$`)

// unitFormat splits a free text unit like "1,5 kg" into quantity and label.
var unitFormat = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)\s*(.*)$`)

// ParsePrice converts v into a decimal price. v can be a decimal, any Go
// number, a json.Number or a string using ',' or '.' as decimal separator.
//
// ParsePrice is lenient: anything it cannot read yields zero. Use
// ValidatePrice for user input.
func ParsePrice(v any) decimal.Decimal {
	switch v := v.(type) {
	case decimal.Decimal:
		return v
	case decimal.NullDecimal:
		if v.Valid {
			return v.Decimal
		}
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return decimal.NewFromFloat(v)
		}
	case float32:
		return ParsePrice(float64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	case json.Number:
		return ParsePrice(string(v))
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), " ", "")
		if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// ValidatePrice parses a user entered price like "3,50" or "3.50".
// Anything else is rejected with ErrInvalidInput.
func ValidatePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !numberFormat.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: price %q must be a number using ',' or '.' as decimal separator", ErrInvalidInput, s)
	}
	return ParsePrice(s), nil
}

// ValidateQuantity parses an optional user entered unit quantity. An empty
// string is no quantity; otherwise it must be a positive number.
func ValidateQuantity(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	if !numberFormat.MatchString(s) {
		return decimal.NullDecimal{}, fmt.Errorf("%w: quantity %q must be a number using ',' or '.' as decimal separator", ErrInvalidInput, s)
	}
	q := ParsePrice(s)
	if !q.IsPositive() {
		return decimal.NullDecimal{}, fmt.Errorf("%w: quantity %q must be positive", ErrInvalidInput, s)
	}
	return decimal.NewNullDecimal(q), nil
}

// PricePerUnit returns price/qty, or null when qty is missing, zero or negative.
func PricePerUnit(price decimal.Decimal, qty decimal.NullDecimal) decimal.NullDecimal {
	if !qty.Valid || !qty.Decimal.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(price.Div(qty.Decimal))
}

// ParseUnit splits a free text unit like "1,5 kg", "500g" or "6 u" into a
// quantity and a label. A unit without a leading positive number has no
// quantity and is returned, trimmed, as the label.
func ParseUnit(s string) (qty decimal.NullDecimal, label string) {
	s = strings.TrimSpace(s)
	m := unitFormat.FindStringSubmatch(s)
	if m == nil {
		return decimal.NullDecimal{}, s
	}
	q := ParsePrice(m[1])
	if !q.IsPositive() {
		return decimal.NullDecimal{}, s
	}
	return decimal.NewNullDecimal(q), strings.TrimSpace(m[2])
}
