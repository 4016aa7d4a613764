package date

import (
	"fmt"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// Time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// Of returns the calendar day of t in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int { return d.Time().Compare(x.Time()) }

// String format the date in its standard format.
func (d Date) String() string { return d.Time().Format(DateFormat) }

// In formats the date the way 'loc' displays short dates.
func (d Date) In(loc Locale) string { return d.Time().Format(loc.Layout) }

// Locale describes how a locale writes a short date.
type Locale struct {
	Tag    string // BCP 47 tag, e.g. "es-ES"
	Layout string // time layout, e.g. "2/1/2006"
}

// Known locales. Spanish is the default because records are displayed with
// day-first dates ("18/10/2026").
var (
	Spanish = Locale{Tag: "es-ES", Layout: "2/1/2006"}
	French  = Locale{Tag: "fr-FR", Layout: "02/01/2006"}
	German  = Locale{Tag: "de-DE", Layout: "2.1.2006"}
	English = Locale{Tag: "en-US", Layout: "1/2/2006"}
	ISO     = Locale{Tag: "iso", Layout: DateFormat}

	DefaultLocale = Spanish
)

var locales = []Locale{Spanish, French, German, English, ISO}

// LookupLocale returns the locale registered for tag (case insensitive).
func LookupLocale(tag string) (Locale, error) {
	for _, loc := range locales {
		if strings.EqualFold(loc.Tag, tag) {
			return loc, nil
		}
	}
	return Locale{}, fmt.Errorf("unknown locale %q", tag)
}

// ParseIn parses a Date written either in ISO format or in 'loc' short date format.
func ParseIn(str string, loc Locale) (Date, error) {
	str = strings.TrimSpace(str)
	if on, err := time.Parse(readDateFormat, str); err == nil {
		return Of(on), nil
	}
	on, err := time.Parse(loc.Layout, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q or %q: %w", str, readDateFormat, loc.Layout, err)
	}
	return Of(on), nil
}
