package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pricetracker"
	"github.com/google/subcommands"
)

// inputFlags declares the flags of a record.
type inputFlags struct {
	in pricetracker.Input
}

func (c *inputFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in.ProductName, "product", "", "Product name (required)")
	f.StringVar(&c.in.StoreName, "store", "", "Store name (required)")
	f.StringVar(&c.in.Price, "price", "", "Price, with ',' or '.' as decimal separator (required)")
	f.StringVar(&c.in.UnitQty, "qty", "", "Quantity the price is for, in units, e.g. 0,5")
	f.StringVar(&c.in.UnitLabel, "unit", "", "Unit label, e.g. kg, L")
}

type addCmd struct {
	inputFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a product price in a store" }
func (*addCmd) Usage() string {
	return `add -product <name> -store <store> -price <price> [-qty <quantity> -unit <label>]

  Records the price of a product in a store. With a quantity, the price per
  unit is computed and used to compare the product across stores.
`
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, err := OpenRepository(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	id, err := repo.Create(ctx, c.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding price: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully added %q at %q with id %d\n", c.in.ProductName, c.in.StoreName, id)
	return subcommands.ExitSuccess
}
