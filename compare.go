package pricetracker

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/etnz/pricetracker/date"
)

// SortKey selects how records are ranked inside a group.
type SortKey int

const (
	ByPricePerUnit SortKey = iota // default
	ByPrice
	ByDate
)

func (k SortKey) String() string {
	switch k {
	case ByPrice:
		return "price"
	case ByDate:
		return "date"
	default:
		return "pricePerUnit"
	}
}

// ParseSortKey parses "pricePerUnit", "price" or "date". The empty string is
// the default ByPricePerUnit.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "priceperunit", "ppu", "unit":
		return ByPricePerUnit, nil
	case "price":
		return ByPrice, nil
	case "date":
		return ByDate, nil
	}
	return ByPricePerUnit, fmt.Errorf("%w: unknown sort key %q want pricePerUnit, price or date", ErrInvalidInput, s)
}

// Group is a set of records of the same product, ranked from cheapest.
type Group struct {
	Key         string // normalized product name
	DisplayName string // longest product name among the records
	Records     []Record
}

// Cheapest returns the first ranked record.
func (g Group) Cheapest() Record { return g.Records[0] }

// GroupAndSort groups records by normalized product name and ranks each
// group in ascending order of 'by'. Groups are returned in the order their
// product first appears in 'records'. Creation dates are read in 'loc', the
// locale they were written in.
//
// Equal records keep their input order. 'records' is not modified.
func GroupAndSort(records []Record, by SortKey, loc date.Locale) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, rec := range records {
		key := rec.NameKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		g := &groups[i]
		// The longest name is usually the most informative one.
		if name := strings.TrimSpace(rec.ProductName); utf8.RuneCountInString(name) > utf8.RuneCountInString(g.DisplayName) {
			g.DisplayName = name
		}
		g.Records = append(g.Records, rec.clone())
	}

	compare := comparator(by, loc)
	for i := range groups {
		slices.SortStableFunc(groups[i].Records, compare)
	}
	return groups
}

func comparator(by SortKey, loc date.Locale) func(a, b Record) int {
	switch by {
	case ByPrice:
		return func(a, b Record) int { return a.Price.Cmp(b.Price) }
	case ByDate:
		return func(a, b Record) int {
			da, erra := date.ParseIn(a.DateAdded, loc)
			db, errb := date.ParseIn(b.DateAdded, loc)
			switch {
			case erra != nil && errb != nil:
				return 0
			case erra != nil: // unreadable dates last
				return 1
			case errb != nil:
				return -1
			}
			return da.Compare(db)
		}
	default:
		return func(a, b Record) int { return a.UnitPrice().Cmp(b.UnitPrice()) }
	}
}
