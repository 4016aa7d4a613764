// Package cmd implements the CLI application to track and compare prices.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/pricetracker"
	"github.com/etnz/pricetracker/date"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Commands lists the subcommands, the main package registers them.
var Commands = []subcommands.Command{
	&addCmd{},
	&editCmd{},
	&rmCmd{},
	&showCmd{},
	&listCmd{},
	&historyCmd{},
	&exportCmd{},
	&importCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dbFile = flag.String("db", "", "Path to the price database. Defaults to $PRICETRACKER_DB, or pricetracker.db")
var currency = flag.String("currency", "", "Currency of the prices, 3-letter code. Defaults to $PRICETRACKER_CURRENCY, or EUR")
var locale = flag.String("locale", date.DefaultLocale.Tag, "Locale of the creation dates (es-ES, fr-FR, de-DE, en-US or iso)")
var verbose = flag.Bool("v", false, "Print debug logs")

// LoadEnv loads 'filenames' (defaults to .env in the working directory) into
// the environment. Missing files are not an error.
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load environment: %w", err)
	}
	return nil
}

// logger returns the console logger on stderr.
func logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func dbPath() string {
	if *dbFile != "" {
		return *dbFile
	}
	if p := os.Getenv("PRICETRACKER_DB"); p != "" {
		return p
	}
	return "pricetracker.db"
}

// currencyCode returns the configured currency, or an error if it is unknown.
func currencyCode() (string, error) {
	cur := *currency
	if cur == "" {
		cur = os.Getenv("PRICETRACKER_CURRENCY")
	}
	if cur == "" {
		cur = "EUR"
	}
	cur = strings.ToUpper(cur)
	if money.GetCurrency(cur) == nil {
		return "", fmt.Errorf("unknown currency %q", cur)
	}
	return cur, nil
}

// dateLocale returns the configured locale of the creation dates.
func dateLocale() (date.Locale, error) { return date.LookupLocale(*locale) }

// OpenRepository opens the app price database.
func OpenRepository(ctx context.Context) (*pricetracker.Repository, error) {
	loc, err := dateLocale()
	if err != nil {
		return nil, err
	}
	return pricetracker.Open(ctx, dbPath(), pricetracker.WithLocale(loc), pricetracker.WithLogger(logger()))
}

// printMarkdown prints md rendered for the terminal, or as is if it cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
