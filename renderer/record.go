package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/pricetracker"
	md "github.com/nao1215/markdown"
)

// RecordMarkdown renders the details of one record, followed by 'others',
// the records of the same product in other stores.
func RecordMarkdown(rec pricetracker.Record, others []pricetracker.Record, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("%s at %s", rec.ProductName, rec.StoreName))

	items := []string{
		fmt.Sprintf("Id: %d", rec.ID),
		"Price: " + Money(rec.Price, cur),
	}
	if q := quantity(rec); q != "" {
		items = append(items, "Quantity: "+q)
	}
	if rec.PricePerUnit.Valid {
		items = append(items, "Price per unit: "+UnitMoney(rec.PricePerUnit.Decimal, cur, rec.UnitLabel))
	}
	items = append(items, "Added: "+rec.DateAdded)
	if last, ok := rec.LastChange(); ok {
		items = append(items, fmt.Sprintf("Last price change: %s (%d recorded)", last.Date.Local().Format("2006-01-02 15:04"), len(rec.History)))
	}
	doc.BulletList(items...)

	if len(others) == 0 {
		return doc.String()
	}
	doc.H2("Other stores")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Id", "Store", "Price", "Price per unit", "Change"},
		Rows:   [][]string{},
	}
	mine := rec.UnitPrice()
	for _, o := range others {
		change := ""
		if !mine.IsZero() {
			change = o.UnitPrice().Sub(mine).Div(mine).Shift(2).StringFixed(1) + "%"
			if o.UnitPrice().GreaterThan(mine) {
				change = "+" + change
			}
		}
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(o.ID, 10),
			o.StoreName,
			Money(o.Price, cur),
			UnitMoney(o.UnitPrice(), cur, unitOf(o)),
			change,
		})
	}
	doc.Table(table)
	return doc.String()
}

// HistoryMarkdown renders the price history of a record, oldest first, with
// the change from the previous price.
func HistoryMarkdown(rec pricetracker.Record, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Price history of %s at %s", rec.ProductName, rec.StoreName))

	if len(rec.History) == 0 {
		doc.PlainText("No price change recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Price", "Change"},
		Rows:   [][]string{},
	}
	for i, e := range rec.History {
		change := ""
		if i > 0 {
			prev := rec.History[i-1].Price
			if !prev.IsZero() {
				change = e.Price.Sub(prev).Div(prev).Shift(2).StringFixed(1) + "%"
				if e.Price.GreaterThan(prev) {
					change = "+" + change
				}
			}
		}
		table.Rows = append(table.Rows, []string{
			e.Date.Local().Format("2006-01-02 15:04"),
			Money(e.Price, cur),
			change,
		})
	}
	doc.Table(table)
	return doc.String()
}
