package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/pricetracker"
	"github.com/etnz/pricetracker/renderer"
	"github.com/google/subcommands"
)

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display a recorded price" }
func (*showCmd) Usage() string {
	return `show <id>

  Displays the record <id>, and the prices of the same product in the other
  stores, cheapest per unit first.
`
}

func (*showCmd) SetFlags(f *flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loc, err := dateLocale()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	repo, rec, cur, status := readRecord(ctx, f)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer repo.Close()

	same, err := repo.Lookup(ctx, rec.ProductName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading the other stores: %v\n", err)
		return subcommands.ExitFailure
	}
	others := slices.DeleteFunc(same, func(r pricetracker.Record) bool { return r.ID == rec.ID })
	if groups := pricetracker.GroupAndSort(others, pricetracker.ByPricePerUnit, loc); len(groups) > 0 {
		others = groups[0].Records
	}
	printMarkdown(renderer.RecordMarkdown(rec, others, cur))
	return subcommands.ExitSuccess
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the price history of a record" }
func (*historyCmd) Usage() string {
	return `history <id>

  Displays every price recorded for the record <id>, oldest first.
`
}

func (*historyCmd) SetFlags(f *flag.FlagSet) {}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, rec, cur, status := readRecord(ctx, f)
	if status != subcommands.ExitSuccess {
		return status
	}
	repo.Close()
	printMarkdown(renderer.HistoryMarkdown(rec, cur))
	return subcommands.ExitSuccess
}

// readRecord reads the record whose id is the single argument of 'f', and the
// app currency. On success the caller must close the returned repository.
func readRecord(ctx context.Context, f *flag.FlagSet) (*pricetracker.Repository, pricetracker.Record, string, subcommands.ExitStatus) {
	id, err := recordID(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, pricetracker.Record{}, "", subcommands.ExitUsageError
	}
	cur, err := currencyCode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, pricetracker.Record{}, "", subcommands.ExitUsageError
	}

	repo, err := OpenRepository(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price database: %v\n", err)
		return nil, pricetracker.Record{}, "", subcommands.ExitFailure
	}

	rec, ok, err := repo.Get(ctx, id)
	if err != nil {
		repo.Close()
		fmt.Fprintf(os.Stderr, "Error reading record %d: %v\n", id, err)
		return nil, pricetracker.Record{}, "", subcommands.ExitFailure
	}
	if !ok {
		repo.Close()
		fmt.Fprintf(os.Stderr, "Error: there is no record %d\n", id)
		return nil, pricetracker.Record{}, "", subcommands.ExitFailure
	}
	return repo, rec, cur, subcommands.ExitSuccess
}
