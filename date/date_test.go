package date

import (
	"testing"
	"time"
)

// TestTime assert that Time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := Of(time.Date(2025, 7, 31, 23, 30, 0, 0, time.UTC))

	if d1.Time() != d2.Time() {
		t.Errorf("invalid Time() function same day gives two different time")
	}
	if got, want := d1.Time(), time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Time() = %v want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	if got, want := New(2025, 2, 30), New(2025, 3, 2); got != want {
		t.Errorf("New(2025, 2, 30) = %v want %v", got, want)
	}
}

func TestIn(t *testing.T) {
	d := New(2026, 10, 8)
	testCases := []struct {
		loc  Locale
		want string
	}{
		{Spanish, "8/10/2026"},
		{French, "08/10/2026"},
		{German, "8.10.2026"},
		{English, "10/8/2026"},
		{ISO, "2026-10-08"},
	}
	for _, tc := range testCases {
		t.Run(tc.loc.Tag, func(t *testing.T) {
			if got := d.In(tc.loc); got != tc.want {
				t.Errorf("In(%s) = %q want %q", tc.loc.Tag, got, tc.want)
			}
		})
	}
}

func TestParseIn(t *testing.T) {
	testCases := []struct {
		str     string
		loc     Locale
		want    Date
		wantErr bool
	}{
		{str: "2025-7-1", loc: Spanish, want: New(2025, 7, 1)},
		{str: "2025-07-01", loc: English, want: New(2025, 7, 1)},
		{str: "1/7/2025", loc: Spanish, want: New(2025, 7, 1)},
		{str: "7/1/2025", loc: English, want: New(2025, 7, 1)},
		{str: " 18/10/2026 ", loc: Spanish, want: New(2026, 10, 18)},
		{str: "1.7.2025", loc: German, want: New(2025, 7, 1)},
		{str: "18/10/2026", loc: English, wantErr: true},
		{str: "yesterday", loc: Spanish, wantErr: true},
		{str: "", loc: Spanish, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			got, err := ParseIn(tc.str, tc.loc)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseIn(%q, %s) error = %v, wantErr %v", tc.str, tc.loc.Tag, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseIn(%q, %s) = %v want %v", tc.str, tc.loc.Tag, got, tc.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	d := Of(time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC))
	for _, loc := range locales {
		got, err := ParseIn(d.In(loc), loc)
		if err != nil {
			t.Fatalf("ParseIn(%q, %s) unexpected error: %v", d.In(loc), loc.Tag, err)
		}
		if got != d {
			t.Errorf("ParseIn(In(%s)) = %v want %v", loc.Tag, got, d)
		}
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2025, 1, 10), New(2025, 1, 11)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare(%v, %v) is not consistent", a, b)
	}
}

func TestLookupLocale(t *testing.T) {
	if loc, err := LookupLocale("ES-es"); err != nil || loc != Spanish {
		t.Errorf("LookupLocale(\"ES-es\") = %v, %v want %v", loc, err, Spanish)
	}
	if _, err := LookupLocale("xx-XX"); err == nil {
		t.Errorf("LookupLocale(\"xx-XX\") expected an error")
	}
}
