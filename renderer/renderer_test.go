package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/pricetracker"
	"github.com/etnz/pricetracker/date"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMoney(t *testing.T) {
	testCases := []struct {
		value string
		cur   string
		want  string
	}{
		{"3.5", "USD", "$3.50"},
		{"1234.5", "USD", "$1,234.50"},
		{"0.125", "USD", "$0.13"},
		{"0", "USD", "$0.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.value+tc.cur, func(t *testing.T) {
			if got := Money(dec(tc.value), tc.cur); got != tc.want {
				t.Errorf("Money(%s, %s) = %q want %q", tc.value, tc.cur, got, tc.want)
			}
		})
	}
	if got := UnitMoney(dec("2.5"), "USD", "kg"); got != "$2.50/kg" {
		t.Errorf("UnitMoney() = %q want %q", got, "$2.50/kg")
	}
}

func TestComparisonMarkdown(t *testing.T) {
	records := []pricetracker.Record{
		{ID: 1, ProductName: "Milk", StoreName: "Corner shop", Price: dec("1.20"), DateAdded: "3/1/2026"},
		{ID: 2, ProductName: "Whole milk", ProductNameNorm: "whole milk", StoreName: "Market", Price: dec("2.50"),
			UnitQty: decimal.NewNullDecimal(dec("2")), UnitLabel: "L", PricePerUnit: decimal.NewNullDecimal(dec("1.25"))},
		{ID: 3, ProductName: "milk", StoreName: "Discounter", Price: dec("0.99"), DateAdded: "4/1/2026"},
	}
	got := ComparisonMarkdown(pricetracker.GroupAndSort(records, pricetracker.ByPrice, date.DefaultLocale), pricetracker.ByPrice, "USD")

	for _, want := range []string{
		"# Price comparison",
		"2 products, ranked by price.",
		"## Milk",
		"## Whole milk",
		"**Discounter**",
		"**$0.99**",
		"$1.25/L",
		"2 L",
		"Cheapest at Discounter.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ComparisonMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	// The discounter is listed before the corner shop.
	if strings.Index(got, "Discounter") > strings.Index(got, "Corner shop") {
		t.Errorf("ComparisonMarkdown() is not ranked by price:\n%s", got)
	}
	// A single record is not highlighted.
	if strings.Contains(got, "**Market**") {
		t.Errorf("ComparisonMarkdown() highlights a product with a single record:\n%s", got)
	}
}

func TestComparisonMarkdownEmpty(t *testing.T) {
	got := ComparisonMarkdown(nil, pricetracker.ByPricePerUnit, "USD")
	if !strings.Contains(got, "No product recorded yet.") {
		t.Errorf("ComparisonMarkdown(nil) = %q", got)
	}
}

func TestHistoryMarkdown(t *testing.T) {
	at := func(day int) time.Time { return time.Date(2026, 1, day, 12, 0, 0, 0, time.Local) }
	rec := pricetracker.Record{
		ID: 7, ProductName: "Bread", StoreName: "Bakery", Price: dec("1.10"),
		History: []pricetracker.PriceEntry{
			{Date: at(1), Price: dec("1.00")},
			{Date: at(5), Price: dec("1.10")},
			{Date: at(9), Price: dec("0.99")},
		},
	}
	got := HistoryMarkdown(rec, "USD")
	for _, want := range []string{
		"# Price history of Bread at Bakery",
		"2026-01-01 12:00",
		"$1.00",
		"+10.0%",
		"-10.0%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HistoryMarkdown() does not contain %q:\n%s", want, got)
		}
	}

	rec.History = nil
	if got := HistoryMarkdown(rec, "USD"); !strings.Contains(got, "No price change recorded.") {
		t.Errorf("HistoryMarkdown(no history) = %q", got)
	}
}

func TestRecordMarkdown(t *testing.T) {
	rec := pricetracker.Record{
		ID: 3, ProductName: "Rice", StoreName: "Market", Price: dec("2.50"),
		UnitQty: decimal.NewNullDecimal(dec("5")), UnitLabel: "kg", PricePerUnit: decimal.NewNullDecimal(dec("0.5")),
		DateAdded: "18/10/2026",
	}
	got := RecordMarkdown(rec, nil, "USD")
	for _, want := range []string{"# Rice at Market", "Id: 3", "Price: $2.50", "Quantity: 5 kg", "Price per unit: $0.50/kg", "Added: 18/10/2026"} {
		if !strings.Contains(got, want) {
			t.Errorf("RecordMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Other stores") {
		t.Errorf("RecordMarkdown(no other store) = %q", got)
	}

	others := []pricetracker.Record{
		{ID: 4, ProductName: "rice", StoreName: "Discounter", Price: dec("1.80"),
			UnitQty: decimal.NewNullDecimal(dec("4")), UnitLabel: "kg", PricePerUnit: decimal.NewNullDecimal(dec("0.45"))},
		{ID: 5, ProductName: "RICE", StoreName: "Corner shop", Price: dec("0.60")},
	}
	got = RecordMarkdown(rec, others, "USD")
	for _, want := range []string{"## Other stores", "Discounter", "$0.45/kg", "-10.0%", "Corner shop", "+20.0%"} {
		if !strings.Contains(got, want) {
			t.Errorf("RecordMarkdown() does not contain %q:\n%s", want, got)
		}
	}
}
