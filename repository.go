package pricetracker

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/etnz/pricetracker/date"
	"github.com/etnz/pricetracker/store"
	"github.com/rs/zerolog"
)

// Repository reads and writes records. It is the only writer of the store.
//
// Every method is a single store transaction: a failed call leaves the store
// unchanged.
type Repository struct {
	db     *store.DB
	owned  bool // db was opened by Open and is closed by Close
	now    func() time.Time
	locale date.Locale
	log    zerolog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the clock used to date records and history entries.
func WithClock(now func() time.Time) Option { return func(r *Repository) { r.now = now } }

// WithLocale sets the locale used to format the creation date of records.
func WithLocale(loc date.Locale) Option { return func(r *Repository) { r.locale = loc } }

// WithLogger sets the repository logger.
func WithLogger(l zerolog.Logger) Option { return func(r *Repository) { r.log = l } }

// NewRepository returns a repository over an open store. The store must have
// been opened with Schema.
func NewRepository(db *store.DB, opts ...Option) *Repository {
	r := &Repository{
		db:     db,
		now:    time.Now,
		locale: date.DefaultLocale,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open opens the record store at path, migrating it if needed, and returns
// a repository owning it.
func Open(ctx context.Context, path string, opts ...Option) (*Repository, error) {
	r := NewRepository(nil, opts...)
	db, err := store.Open(ctx, path, Schema, store.WithLogger(r.log))
	if err != nil {
		return nil, err
	}
	r.db, r.owned = db, true
	return r, nil
}

// Close closes the store if the repository owns it.
func (r *Repository) Close() error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}

// build validates 'in' and returns the record fields it defines.
func build(in Input) (Record, error) {
	name := strings.TrimSpace(in.ProductName)
	if NormalizeName(name) == "" {
		return Record{}, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	storeName := strings.TrimSpace(in.StoreName)
	if storeName == "" {
		return Record{}, fmt.Errorf("%w: store name is required", ErrInvalidInput)
	}
	price, err := ValidatePrice(in.Price)
	if err != nil {
		return Record{}, err
	}
	qty, err := ValidateQuantity(in.UnitQty)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ProductName:     name,
		ProductNameNorm: NormalizeName(name),
		StoreName:       storeName,
		Price:           price,
		UnitQty:         qty,
		UnitLabel:       strings.TrimSpace(in.UnitLabel),
		PricePerUnit:    PricePerUnit(price, qty),
	}, nil
}

func decode(o store.Object) (Record, error) {
	var rec Record
	if err := json.Unmarshal(o.Doc, &rec); err != nil {
		return Record{}, fmt.Errorf("cannot decode record %d: %w", o.ID, err)
	}
	rec.ID = o.ID
	return rec, nil
}

func decodeAll(objects []store.Object) ([]Record, error) {
	records := make([]Record, 0, len(objects))
	for _, o := range objects {
		rec, err := decode(o)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Create validates and stores a new record and returns its id. The record is
// dated today and its history starts with its price.
func (r *Repository) Create(ctx context.Context, in Input) (int64, error) {
	rec, err := build(in)
	if err != nil {
		return 0, err
	}
	now := r.now()
	rec.DateAdded = date.Of(now).In(r.locale)
	rec.History = []PriceEntry{{Date: now.UTC(), Price: rec.Price}}

	doc, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("cannot marshal record %q: %w", rec.ProductName, err)
	}
	var id int64
	err = r.db.Update(ctx, func(tx *store.Tx) (err error) {
		id, err = tx.Add(doc)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("cannot create record %q: %w", rec.ProductName, err)
	}
	r.log.Debug().Int64("id", id).Str("product", rec.ProductName).Str("store", rec.StoreName).Stringer("price", rec.Price).Msg("record created")
	return id, nil
}

// All returns every record, in no particular order.
func (r *Repository) All(ctx context.Context) (records []Record, err error) {
	err = r.db.View(ctx, func(tx *store.Tx) error {
		objects, err := tx.All()
		if err != nil {
			return err
		}
		records, err = decodeAll(objects)
		return err
	})
	return records, err
}

// Get returns the record 'id'. A missing record is not an error: ok is false.
func (r *Repository) Get(ctx context.Context, id int64) (rec Record, ok bool, err error) {
	err = r.db.View(ctx, func(tx *store.Tx) error {
		var o store.Object
		o, ok, err = tx.Get(id)
		if err != nil || !ok {
			return err
		}
		rec, err = decode(o)
		return err
	})
	return rec, ok, err
}

// Update replaces the record 'id' with 'in'. The id and creation date are
// kept. When the price changes a new entry is appended to the history.
//
// It returns ErrNotFound if there is no such record.
func (r *Repository) Update(ctx context.Context, id int64, in Input) error {
	rec, err := build(in)
	if err != nil {
		return err
	}
	now := r.now().UTC()

	return r.db.Update(ctx, func(tx *store.Tx) error {
		o, ok, err := tx.Get(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		old, err := decode(o)
		if err != nil {
			return err
		}

		rec.ID = old.ID
		rec.DateAdded = old.DateAdded
		rec.History = old.clone().History
		if len(rec.History) == 0 {
			// Records from the first schema version have no history yet: it
			// starts with their stored price.
			rec.History = []PriceEntry{{Date: r.addedAt(old, now), Price: old.Price}}
		}
		if last := rec.History[len(rec.History)-1]; !old.Price.Equal(rec.Price) {
			at := now
			if at.Before(last.Date) {
				at = last.Date
			}
			rec.History = append(rec.History, PriceEntry{Date: at, Price: rec.Price})
			r.log.Debug().Int64("id", id).Stringer("from", old.Price).Stringer("to", rec.Price).Msg("price changed")
		}

		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("cannot marshal record %d: %w", id, err)
		}
		return tx.Put(id, doc)
	})
}

// addedAt returns the creation day of 'rec' at midnight UTC, or 'now' if its
// creation date cannot be read or is in the future.
func (r *Repository) addedAt(rec Record, now time.Time) time.Time {
	d, err := date.ParseIn(rec.DateAdded, r.locale)
	if err != nil {
		r.log.Debug().Int64("id", rec.ID).Str("dateAdded", rec.DateAdded).Msg("unreadable creation date")
		return now
	}
	if at := d.Time(); !at.After(now) {
		return at
	}
	return now
}

// Delete removes the record 'id'. Deleting a missing record is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.Update(ctx, func(tx *store.Tx) error { return tx.Delete(id) })
}

// Count returns the number of records.
func (r *Repository) Count(ctx context.Context) (n int, err error) {
	err = r.db.View(ctx, func(tx *store.Tx) error {
		n, err = tx.Count()
		return err
	})
	return n, err
}

// Search returns the records whose normalized name contains the normalized
// query, in product name order. An empty query returns every record.
func (r *Repository) Search(ctx context.Context, query string) (records []Record, err error) {
	q := NormalizeName(query)
	err = r.db.View(ctx, func(tx *store.Tx) error {
		idx, err := tx.Index("productName")
		if err != nil {
			return err
		}
		objects, err := idx.GetAll()
		if err != nil {
			return err
		}
		all, err := decodeAll(objects)
		if err != nil {
			return err
		}
		for _, rec := range all {
			// NameKey computes the key of records written before it existed.
			if strings.Contains(rec.NameKey(), q) {
				records = append(records, rec)
			}
		}
		return nil
	})
	return records, err
}

// Lookup returns every record of the product 'name', whatever the store, in
// id order.
func (r *Repository) Lookup(ctx context.Context, name string) (records []Record, err error) {
	key := NormalizeName(name)
	if key == "" {
		return nil, nil
	}
	err = r.db.View(ctx, func(tx *store.Tx) error {
		idx, err := tx.Index("productNameNorm")
		if err != nil {
			return err
		}
		objects, err := idx.Get(key)
		if err != nil {
			return err
		}
		if records, err = decodeAll(objects); err != nil {
			return err
		}
		// Records written before the index existed have no key. They sort
		// first in the index.
		all, err := idx.GetAll()
		if err != nil {
			return err
		}
		for _, o := range all {
			rec, err := decode(o)
			if err != nil {
				return err
			}
			if rec.ProductNameNorm != "" {
				break
			}
			if rec.NameKey() == key {
				records = append(records, rec)
			}
		}
		slices.SortFunc(records, func(a, b Record) int { return cmp.Compare(a.ID, b.ID) })
		return nil
	})
	return records, err
}
