package seed

import (
	"strings"
	"testing"
	"unicode/utf8"

	"seeder/internal/records"
)

func TestFirstString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  records.Record
		want string
		ok   bool
	}{
		{"primary key wins", records.Record{"Brand": "Dior", "brand": "shadowed"}, "Dior", true},
		{"falls through empties", records.Record{"Brand": "", "manufacturer": "Gucci"}, "Gucci", true},
		{"lowercase alias", records.Record{"brand": "Zara"}, "Zara", true},
		{"absent", records.Record{"Color": "red"}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := firstString(tc.rec, brandKeys)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("firstString = %q, %v; want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestFirstFloat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  records.Record
		want float64
		ok   bool
	}{
		{"string price", records.Record{"Price": "89.90"}, 89.90, true},
		{"numeric price", records.Record{"price": 42.0}, 42, true},
		{"unparseable falls through", records.Record{"Price": "n/a", "price": "15"}, 15, true},
		{"absent", records.Record{}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := firstFloat(tc.rec, priceKeys)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("firstFloat = %v, %v; want %v, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := clamp("short", 100); got != "short" {
		t.Fatalf("clamp = %q", got)
	}
	if got := clamp("abcdef", 3); got != "abc" {
		t.Fatalf("clamp = %q, want abc", got)
	}

	// The cut counts characters, not bytes: a multi-byte rune at the limit
	// must survive intact instead of being split into invalid UTF-8.
	in := strings.Repeat("x", 99) + "é perfume"
	got := clamp(in, 100)
	if want := strings.Repeat("x", 99) + "é"; got != want {
		t.Fatalf("clamp = %q, want %q", got, want)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("clamp produced invalid UTF-8: %q", got)
	}
}
