package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
)

type editCmd struct {
	inputFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a recorded price" }
func (*editCmd) Usage() string {
	return `edit [-product <name>] [-store <store>] [-price <price>] [-qty <quantity>] [-unit <label>] <id>

  Changes the record <id>. Fields without a flag keep their value. A new price
  is added to the record price history.
`
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := recordID(f)
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

	rec, ok, err := repo.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading record %d: %v\n", id, err)
		return subcommands.ExitFailure
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: there is no record %d\n", id)
		return subcommands.ExitFailure
	}

	in := rec.Input()
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "product":
			in.ProductName = c.in.ProductName
		case "store":
			in.StoreName = c.in.StoreName
		case "price":
			in.Price = c.in.Price
		case "qty":
			in.UnitQty = c.in.UnitQty
		case "unit":
			in.UnitLabel = c.in.UnitLabel
		}
	})

	if err := repo.Update(ctx, id, in); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating record %d: %v\n", id, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully updated record %d\n", id)
	return subcommands.ExitSuccess
}

// recordID reads the record id, the single argument of 'f'.
func recordID(f *flag.FlagSet) (int64, error) {
	if f.NArg() != 1 {
		return 0, fmt.Errorf("a single record id is required")
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", f.Arg(0))
	}
	return id, nil
}
