package pricetracker

import (
	"errors"
	"testing"

	"github.com/etnz/pricetracker/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// ids returns the record ids of each group.
func ids(groups []Group) map[string][]int64 {
	got := make(map[string][]int64)
	for _, g := range groups {
		for _, rec := range g.Records {
			got[g.Key] = append(got[g.Key], rec.ID)
		}
	}
	return got
}

func TestGroupAndSort(t *testing.T) {
	records := []Record{
		{ID: 1, ProductName: "Milk", StoreName: "A", Price: dec("1.20"), DateAdded: "3/1/2026"},
		{ID: 2, ProductName: "Bread", StoreName: "A", Price: dec("2"), DateAdded: "1/1/2026"},
		{ID: 3, ProductName: "milk ", ProductNameNorm: "milk", StoreName: "B", Price: dec("0.99"), DateAdded: "2/1/2026"},
		{ID: 4, ProductName: "Leche Entera", StoreName: "C", Price: dec("1.00"), DateAdded: "1/1/2026"},
	}

	testCases := []struct {
		by   SortKey
		want map[string][]int64
	}{
		{ByPrice, map[string][]int64{"milk": {3, 1}, "bread": {2}, "leche entera": {4}}},
		{ByPricePerUnit, map[string][]int64{"milk": {3, 1}, "bread": {2}, "leche entera": {4}}},
		{ByDate, map[string][]int64{"milk": {3, 1}, "bread": {2}, "leche entera": {4}}},
	}
	for _, tc := range testCases {
		t.Run(tc.by.String(), func(t *testing.T) {
			groups := GroupAndSort(records, tc.by, date.DefaultLocale)
			if diff := cmp.Diff(tc.want, ids(groups)); diff != "" {
				t.Errorf("GroupAndSort() mismatch (-want +got):\n%s", diff)
			}
			var keys []string
			for _, g := range groups {
				keys = append(keys, g.Key)
			}
			if diff := cmp.Diff([]string{"milk", "bread", "leche entera"}, keys); diff != "" {
				t.Errorf("GroupAndSort() group order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroupAndSortByPricePerUnit(t *testing.T) {
	qty := func(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }
	records := []Record{
		// Cheaper package, more expensive per kg.
		{ID: 1, ProductName: "Arroz", Price: dec("0.80"), UnitQty: qty("1"), PricePerUnit: qty("0.80")},
		{ID: 2, ProductName: "Arroz", Price: dec("2.50"), UnitQty: qty("5"), PricePerUnit: qty("0.50")},
		// Legacy record: computed from its quantity.
		{ID: 3, ProductName: "arroz", Price: dec("1.40"), UnitQty: qty("2")},
		// No quantity: ranked on its price.
		{ID: 4, ProductName: "ARROZ", Price: dec("0.60")},
	}
	groups := GroupAndSort(records, ByPricePerUnit, date.DefaultLocale)
	if len(groups) != 1 {
		t.Fatalf("GroupAndSort() = %d groups want 1", len(groups))
	}
	if diff := cmp.Diff(map[string][]int64{"arroz": {2, 4, 3, 1}}, ids(groups)); diff != "" {
		t.Errorf("GroupAndSort() mismatch (-want +got):\n%s", diff)
	}
	if got := groups[0].Cheapest().ID; got != 2 {
		t.Errorf("Cheapest() = %d want 2", got)
	}

	groups = GroupAndSort(records, ByPrice, date.DefaultLocale)
	if diff := cmp.Diff(map[string][]int64{"arroz": {4, 1, 3, 2}}, ids(groups)); diff != "" {
		t.Errorf("GroupAndSort(ByPrice) mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupAndSortByDate(t *testing.T) {
	records := []Record{
		{ID: 1, ProductName: "Pan", DateAdded: "10/2/2026"},
		{ID: 2, ProductName: "Pan", DateAdded: "not a date"},
		{ID: 3, ProductName: "Pan", DateAdded: "9/2/2026"},
		{ID: 4, ProductName: "Pan", DateAdded: "2025-12-31"},
		{ID: 5, ProductName: "Pan", DateAdded: ""},
	}
	groups := GroupAndSort(records, ByDate, date.DefaultLocale)
	if diff := cmp.Diff(map[string][]int64{"pan": {4, 3, 1, 2, 5}}, ids(groups)); diff != "" {
		t.Errorf("GroupAndSort(ByDate) mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupAndSortByDateLocale(t *testing.T) {
	testCases := []struct {
		loc     date.Locale
		records []Record
		want    []int64
	}{
		{date.English, []Record{
			{ID: 1, ProductName: "Pan", DateAdded: "4/3/2026"},
			{ID: 2, ProductName: "Pan", DateAdded: "3/4/2026"},
		}, []int64{2, 1}},
		{date.Spanish, []Record{
			{ID: 1, ProductName: "Pan", DateAdded: "4/3/2026"},
			{ID: 2, ProductName: "Pan", DateAdded: "3/4/2026"},
		}, []int64{1, 2}},
		{date.German, []Record{
			{ID: 1, ProductName: "Pan", DateAdded: "18.10.2026"},
			{ID: 2, ProductName: "Pan", DateAdded: "2.1.2026"},
			{ID: 3, ProductName: "Pan", DateAdded: "2/1/2026"},
			{ID: 4, ProductName: "Pan", DateAdded: "9.10.2026"},
		}, []int64{2, 4, 1, 3}},
	}
	for _, tc := range testCases {
		t.Run(tc.loc.Tag, func(t *testing.T) {
			groups := GroupAndSort(tc.records, ByDate, tc.loc)
			if diff := cmp.Diff(map[string][]int64{"pan": tc.want}, ids(groups)); diff != "" {
				t.Errorf("GroupAndSort(ByDate, %s) mismatch (-want +got):\n%s", tc.loc.Tag, diff)
			}
		})
	}
}

func TestGroupAndSortStable(t *testing.T) {
	records := []Record{
		{ID: 1, ProductName: "Sal", StoreName: "A", Price: dec("0.5")},
		{ID: 2, ProductName: "Sal", StoreName: "B", Price: dec("0.50")},
		{ID: 3, ProductName: "Sal", StoreName: "C", Price: dec("0.5")},
	}
	groups := GroupAndSort(records, ByPrice, date.DefaultLocale)
	if diff := cmp.Diff(map[string][]int64{"sal": {1, 2, 3}}, ids(groups)); diff != "" {
		t.Errorf("GroupAndSort() did not keep the input order of equal records (-want +got):\n%s", diff)
	}
}

func TestDisplayName(t *testing.T) {
	records := []Record{
		{ID: 1, ProductName: "Cafe"},
		{ID: 2, ProductName: "Café molido  "},
		{ID: 3, ProductName: "cafe molido"},
		{ID: 4, ProductName: "CAFE"},
	}
	groups := GroupAndSort(records, ByPrice, date.DefaultLocale)
	if len(groups) != 2 {
		t.Fatalf("GroupAndSort() = %d groups want 2", len(groups))
	}
	if got := groups[0].DisplayName; got != "Cafe" {
		t.Errorf("DisplayName = %q want the first of equally long names %q", got, "Cafe")
	}
	// "Café molido" and "cafe molido" have as many letters.
	if got := groups[1].DisplayName; got != "Café molido" {
		t.Errorf("DisplayName = %q want %q", got, "Café molido")
	}
}

func TestGroupAndSortDoesNotModifyInput(t *testing.T) {
	records := []Record{
		{ID: 1, ProductName: "Milk", Price: dec("2"), History: []PriceEntry{{Price: dec("2")}}},
		{ID: 2, ProductName: "Milk", Price: dec("1"), History: []PriceEntry{{Price: dec("1")}}},
	}
	before := []Record{records[0].clone(), records[1].clone()}

	groups := GroupAndSort(records, ByPrice, date.DefaultLocale)
	groups[0].Records[0].History[0].Price = dec("100")

	if diff := cmp.Diff(before, records); diff != "" {
		t.Errorf("GroupAndSort() modified its input (-want +got):\n%s", diff)
	}
}

func TestGroupAndSortEmpty(t *testing.T) {
	if got := GroupAndSort(nil, ByPrice, date.DefaultLocale); len(got) != 0 {
		t.Errorf("GroupAndSort(nil) = %v want no group", got)
	}
}

func TestParseSortKey(t *testing.T) {
	testCases := []struct {
		s    string
		want SortKey
	}{
		{"", ByPricePerUnit},
		{"pricePerUnit", ByPricePerUnit},
		{"PPU", ByPricePerUnit},
		{"price", ByPrice},
		{" Date ", ByDate},
	}
	for _, tc := range testCases {
		got, err := ParseSortKey(tc.s)
		if err != nil || got != tc.want {
			t.Errorf("ParseSortKey(%q) = %v, %v want %v", tc.s, got, err, tc.want)
		}
	}
	if _, err := ParseSortKey("store"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseSortKey(\"store\") error = %v want ErrInvalidInput", err)
	}
	for _, k := range []SortKey{ByPricePerUnit, ByPrice, ByDate} {
		if got, err := ParseSortKey(k.String()); err != nil || got != k {
			t.Errorf("ParseSortKey(%q) = %v, %v want %v", k.String(), got, err, k)
		}
	}
}
