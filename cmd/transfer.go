package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/pricetracker"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "save every record in a backup file" }
func (*exportCmd) Usage() string {
	return `export [-o <file>]

  Writes every record into a JSON backup document. Use "-o -" to write to
  the standard output.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", pricetracker.BackupFilename, "Output file, or - for the standard output")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, err := OpenRepository(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	if c.output == "-" {
		if err := repo.Export(ctx, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting records: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	file, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating file %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	defer file.Close()
	if err := repo.Export(ctx, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting records: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully exported records to %s\n", c.output)
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "add the records of a backup file" }
func (*importCmd) Usage() string {
	return `import <file>

  Adds every product of a JSON backup document as a new record. Use "-" to
  read from the standard input. Existing records are kept.
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: a single backup file is required")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	var rd io.Reader = os.Stdin
	if name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening file %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		rd = file
	}

	repo, err := OpenRepository(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	n, err := repo.Import(ctx, rd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q after %d records: %v\n", name, n, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully imported %d records\n", n)
	return subcommands.ExitSuccess
}
