package pricetracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// this file contains functions to handle the backup format.
// It is a single, human readable JSON document holding every record.

// BackupFilename is the default name of an exported document.
const BackupFilename = "price-tracker-backup.json"

// productsPath locates the records in a backup document.
const productsPath = "$.products"

// Document is the backup format.
type Document struct {
	Products   []Record  `json:"products"`
	ExportDate time.Time `json:"exportDate"`
}

// ExportAll returns every record in a Document dated now.
func (r *Repository) ExportAll(ctx context.Context) (Document, error) {
	records, err := r.All(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("cannot export records: %w", err)
	}
	return Document{Products: records, ExportDate: r.now().UTC()}, nil
}

// Export writes every record to 'w' as an indented JSON Document.
func (r *Repository) Export(ctx context.Context, w io.Writer) error {
	doc, err := r.ExportAll(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("cannot write backup document: %w", err)
	}
	r.log.Info().Int("records", len(doc.Products)).Msg("records exported")
	return nil
}

// ImportAll creates a new record for each record in 'doc'. Identities and
// histories are not kept: every record starts a new history at its price.
//
// Records are created one by one; on error the records already created stay
// and their count is returned with the error.
func (r *Repository) ImportAll(ctx context.Context, doc Document) (int, error) {
	inputs := make([]Input, 0, len(doc.Products))
	for _, rec := range doc.Products {
		inputs = append(inputs, rec.Input())
	}
	return r.createAll(ctx, inputs)
}

func (r *Repository) createAll(ctx context.Context, inputs []Input) (int, error) {
	for i, in := range inputs {
		if _, err := r.Create(ctx, in); err != nil {
			return i, fmt.Errorf("cannot import product #%d %q: %w", i, in.ProductName, err)
		}
	}
	return len(inputs), nil
}

// Import reads a backup document from 'rd' and imports its products (see
// ImportAll). A document that is not JSON fails with ErrImportParse before
// anything is created. A document without a list of products imports
// nothing.
//
// Prices are validated like user input: a product whose price is missing or
// unreadable fails with ErrInvalidInput.
func (r *Repository) Import(ctx context.Context, rd io.Reader) (int, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot read document: %w", ErrImportParse, err)
	}
	var jdoc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&jdoc); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrImportParse, err)
	}
	if dec.More() {
		return 0, fmt.Errorf("%w: unexpected content after the document", ErrImportParse)
	}

	var inputs []Input
	for i, p := range products(jdoc) {
		in, err := importInput(p)
		if err != nil {
			return 0, fmt.Errorf("%w: product #%d: %w", ErrImportParse, i, err)
		}
		inputs = append(inputs, in)
	}
	n, err := r.createAll(ctx, inputs)
	r.log.Info().Int("records", n).Err(err).Msg("records imported")
	return n, err
}

// importInput returns the input recreating the product 'p' of a parsed
// document. Products are decoded one by one, so that one odd product does
// not prevent the others from being read.
func importInput(p any) (Input, error) {
	obj, ok := p.(map[string]any)
	if !ok {
		return Input{}, fmt.Errorf("want an object got %T", p)
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return Input{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Input{}, err
	}
	in := rec.Input()
	// Record decoding reads prices leniently; the text is checked by Create.
	switch price := obj["price"].(type) {
	case string:
		in.Price = price
	case nil:
		in.Price = ""
	}
	return in, nil
}

// products returns the list of products in a parsed document, or nothing
// if there is none.
func products(jdoc any) []any {
	jval, err := jsonpath.Get(productsPath, jdoc)
	if err != nil {
		return nil
	}
	list, _ := jval.([]any)
	return list
}
