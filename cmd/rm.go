package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a recorded price" }
func (*rmCmd) Usage() string {
	return `rm <id>

  Deletes the record <id>. Deleting a record that does not exist is not an error.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if err := repo.Delete(ctx, id); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting record %d: %v\n", id, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Record %d deleted\n", id)
	return subcommands.ExitSuccess
}
