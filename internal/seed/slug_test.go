package seed

import "testing"

func TestSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Chloé", "chloe"},
		{"Jean Paul Gaultier", "jeanpaulgaultier"},
		{"Yves Saint-Laurent", "yvessaintlaurent"},
		{"Acqua di Parma", "acquadiparma"},
		{"4711", "4711"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := slug(tc.in); got != tc.want {
			t.Fatalf("slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
