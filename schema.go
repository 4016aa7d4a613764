package pricetracker

import "github.com/etnz/pricetracker/store"

// Schema is the layout of the record store.
//
// Version 1 stored records with a string price and a free text unit, indexed
// by name and creation date. Version 2 adds the normalized name index; records
// written by version 1 are upgraded when read (see Record.UnmarshalJSON).
var Schema = store.Schema{
	Collection: "products",
	KeyPath:    "id",
	Migrations: []store.Migration{
		{Version: 1, Indexes: []store.Index{
			{Name: "productName", KeyPath: "productName"},
			{Name: "dateAdded", KeyPath: "dateAdded"},
		}},
		{Version: 2, Indexes: []store.Index{
			{Name: "productNameNorm", KeyPath: "productNameNorm"},
		}},
	},
}
