package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/pricetracker"
	md "github.com/nao1215/markdown"
)

// ComparisonMarkdown renders one table per product, cheapest first. The
// cheapest record of each product is in bold.
func ComparisonMarkdown(groups []pricetracker.Group, by pricetracker.SortKey, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Price comparison")

	if len(groups) == 0 {
		doc.PlainText("No product recorded yet.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("%d products, ranked by %s.", len(groups), by))

	for _, g := range groups {
		doc.H2(g.DisplayName)
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignRight,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignLeft,
			},
			Header: []string{"Id", "Store", "Price", "Quantity", "Price per unit", "Added"},
			Rows:   [][]string{},
		}
		for i, rec := range g.Records {
			row := []string{
				strconv.FormatInt(rec.ID, 10),
				rec.StoreName,
				Money(rec.Price, cur),
				quantity(rec),
				UnitMoney(rec.UnitPrice(), cur, unitOf(rec)),
				rec.DateAdded,
			}
			if i == 0 && len(g.Records) > 1 {
				for j := 1; j < len(row); j++ {
					row[j] = md.Bold(row[j])
				}
			}
			table.Rows = append(table.Rows, row)
		}
		doc.Table(table)
		if len(g.Records) > 1 {
			best := g.Cheapest()
			doc.PlainText(fmt.Sprintf("Cheapest at %s.", best.StoreName))
		}
	}
	return doc.String()
}

// quantity returns the unit quantity and label of rec, e.g. "500 g".
func quantity(rec pricetracker.Record) string {
	switch {
	case rec.UnitQty.Valid && rec.UnitLabel != "":
		return rec.UnitQty.Decimal.String() + " " + rec.UnitLabel
	case rec.UnitQty.Valid:
		return rec.UnitQty.Decimal.String()
	default:
		return rec.UnitLabel
	}
}

// unitOf returns the unit label a per unit price refers to.
func unitOf(rec pricetracker.Record) string {
	if !rec.PricePerUnit.Valid && !rec.UnitQty.Valid {
		return "" // raw price
	}
	return rec.UnitLabel
}
