package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pricetracker"
	"github.com/etnz/pricetracker/renderer"
	"github.com/google/subcommands"
)

type listCmd struct {
	sort  string
	query string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "compare prices across stores" }
func (*listCmd) Usage() string {
	return `list [-sort pricePerUnit|price|date] [-q <query>]

  Lists the recorded prices grouped by product, whatever the case or the
  accents of the product names, cheapest first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "pricePerUnit", "Rank products by pricePerUnit, price or date")
	f.StringVar(&c.query, "q", "", "Only list products whose name contains the query")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	by, err := pricetracker.ParseSortKey(c.sort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cur, err := currencyCode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	loc, err := dateLocale()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	repo, err := OpenRepository(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	records, err := repo.Search(ctx, c.query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading records: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ComparisonMarkdown(pricetracker.GroupAndSort(records, by, loc), by, cur))
	return subcommands.ExitSuccess
}
