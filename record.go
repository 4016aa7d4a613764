package pricetracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one product price observed in a store.
type Record struct {
	ID              int64
	ProductName     string
	ProductNameNorm string // NormalizeName(ProductName), may be empty on legacy records
	StoreName       string
	Price           decimal.Decimal
	UnitQty         decimal.NullDecimal
	UnitLabel       string
	PricePerUnit    decimal.NullDecimal
	DateAdded       string // locale formatted creation date
	History         []PriceEntry
}

// PriceEntry is a price recorded at a point in time.
type PriceEntry struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// Input is a record as entered by the user. Numbers are kept as typed, with
// ',' or '.' as decimal separator.
type Input struct {
	ProductName string
	StoreName   string
	Price       string
	UnitQty     string // optional
	UnitLabel   string // optional
}

// NameKey returns the normalized product name, computing it when the record
// does not carry one.
func (r Record) NameKey() string {
	if r.ProductNameNorm != "" {
		return r.ProductNameNorm
	}
	return NormalizeName(r.ProductName)
}

// UnitPrice returns the price used to compare records: the stored price per
// unit, else the one computed from the unit quantity, else the raw price.
func (r Record) UnitPrice() decimal.Decimal {
	if r.PricePerUnit.Valid {
		return r.PricePerUnit.Decimal
	}
	if ppu := PricePerUnit(r.Price, r.UnitQty); ppu.Valid {
		return ppu.Decimal
	}
	return r.Price
}

// LastChange returns the latest history entry, or false on an empty history.
func (r Record) LastChange() (PriceEntry, bool) {
	if len(r.History) == 0 {
		return PriceEntry{}, false
	}
	return r.History[len(r.History)-1], true
}

// Input returns the input that recreates r.
func (r Record) Input() Input {
	in := Input{
		ProductName: r.ProductName,
		StoreName:   r.StoreName,
		Price:       r.Price.String(),
		UnitLabel:   r.UnitLabel,
	}
	if r.UnitQty.Valid {
		in.UnitQty = r.UnitQty.Decimal.String()
	}
	return in
}

// clone returns a copy of r that shares no slice with it.
func (r Record) clone() Record {
	r.History = slices.Clone(r.History)
	return r
}

// MarshalJSON writes the record in its persisted shape, with a stable field order.
func (r Record) MarshalJSON() ([]byte, error) {
	history := r.History
	if history == nil {
		history = []PriceEntry{}
	}
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("productName", r.ProductName)
	w.Append("productNameNorm", r.ProductNameNorm)
	w.Append("storeName", r.StoreName)
	w.Append("price", r.Price)
	w.Append("unitQty", r.UnitQty)
	w.Nullable("unitLabel", r.UnitLabel)
	w.Append("pricePerUnit", r.PricePerUnit)
	w.Append("dateAdded", r.DateAdded)
	w.Append("history", history)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a record. Records written by the first version of the
// schema are upgraded on the fly: their price was a string, their unit a free
// text, and they had no normalized name nor history.
func (r *Record) UnmarshalJSON(data []byte) error {
	var j struct {
		ID              int64           `json:"id"`
		ProductName     string          `json:"productName"`
		ProductNameNorm string          `json:"productNameNorm"`
		StoreName       string          `json:"storeName"`
		Price           json.RawMessage `json:"price"`
		UnitQty         json.RawMessage `json:"unitQty"`
		UnitLabel       *string         `json:"unitLabel"`
		PricePerUnit    json.RawMessage `json:"pricePerUnit"`
		DateAdded       string          `json:"dateAdded"`
		History         []PriceEntry    `json:"history"`
		Unit            string          `json:"unit"` // first schema version
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	price, err := rawNumber(j.Price)
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	qty, err := rawNumber(j.UnitQty)
	if err != nil {
		return fmt.Errorf("invalid unitQty: %w", err)
	}
	ppu, err := rawNumber(j.PricePerUnit)
	if err != nil {
		return fmt.Errorf("invalid pricePerUnit: %w", err)
	}

	*r = Record{
		ID:              j.ID,
		ProductName:     j.ProductName,
		ProductNameNorm: j.ProductNameNorm,
		StoreName:       j.StoreName,
		Price:           price.Decimal,
		UnitQty:         qty,
		PricePerUnit:    ppu,
		DateAdded:       j.DateAdded,
		History:         j.History,
	}
	if j.UnitLabel != nil {
		r.UnitLabel = *j.UnitLabel
	}
	if j.Unit != "" && !r.UnitQty.Valid && r.UnitLabel == "" {
		r.UnitQty, r.UnitLabel = ParseUnit(j.Unit)
	}
	return nil
}

// rawNumber reads a JSON number, a JSON string holding a number (first
// schema version) or null.
func rawNumber(raw json.RawMessage) (decimal.NullDecimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.NullDecimal{}, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(ParsePrice(s)), nil
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
