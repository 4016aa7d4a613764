// Package renderer renders price reports as markdown.
package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats a price in currency 'cur', rounded to the currency fraction.
func Money(value decimal.Decimal, cur string) string {
	// to get a never nil currency I need to call the Money constructor
	c := money.New(0, cur).Currency()
	return c.Formatter().Format(value.Shift(int32(c.Fraction)).Round(0).IntPart())
}

// UnitMoney formats a price per unit, e.g. "$2.50/kg".
func UnitMoney(value decimal.Decimal, cur, label string) string {
	if label == "" {
		return Money(value, cur)
	}
	return Money(value, cur) + "/" + label
}
