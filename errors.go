package pricetracker

import (
	"errors"

	"github.com/etnz/pricetracker/store"
)

var (
	// ErrInvalidInput is returned when a record input is rejected before persistence.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when updating a record that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrImportParse is returned when an import document is not well-formed JSON.
	ErrImportParse = errors.New("import document is not valid")

	// ErrStoreUnavailable is returned when the record store cannot be opened.
	ErrStoreUnavailable = store.ErrUnavailable
	// ErrTransaction is returned when the record store rejects an operation.
	ErrTransaction = store.ErrTransaction
)
