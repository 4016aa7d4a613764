// Package pricetracker records the price of products in stores and compares
// them. It is designed to be local-first: every record lives in a single
// database file on the user's machine.
//
// The core functionalities include:
//   - Records: a Repository creates, reads, updates and deletes the price of a
//     product in a store, and keeps the history of its price changes.
//   - Normalization: product names are compared regardless of case, accents
//     and spacing (see NormalizeName), and prices accept ',' or '.' as decimal
//     separator (see ValidatePrice).
//   - Comparison: GroupAndSort groups the records of a same product and ranks
//     them by price per unit, price or date.
//   - Backup: Export and Import transfer every record through a human readable
//     JSON document.
//
// This package serves as the foundational logic for the `pricetracker`
// command-line tool.
package pricetracker
