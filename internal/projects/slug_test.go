package projects

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Cool App", "my-cool-app"},
		{"Hello, World!", "hello-world"},
		{"  spaced   out  ", "spaced-out"},
		{"Already-Slugged", "already-slugged"},
		{"Café Résumé", "cafe-resume"},
		{"C++ & Go (2024)", "c-go-2024"},
		{"---", ""},
		{"", ""},
		{"   ", ""},
		{"!!!", ""},
		{"v2.0.1", "v2-0-1"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyOutputShape(t *testing.T) {
	inputs := []string{
		"My Cool App", "ALL CAPS TITLE", "trailing dash -", "- leading dash",
		"Ünïcödé Tîtle", "numbers 123 456", "snake_case_title", "dots.and.dots",
	}
	for _, in := range inputs {
		got := Slugify(in)
		if got != strings.ToLower(got) {
			t.Fatalf("Slugify(%q) = %q is not lowercase", in, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Fatalf("Slugify(%q) = %q has a leading/trailing hyphen", in, got)
		}
		if strings.Contains(got, "--") {
			t.Fatalf("Slugify(%q) = %q contains a collapsed-run violation", in, got)
		}
		for _, r := range got {
			if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
				t.Fatalf("Slugify(%q) = %q contains invalid rune %q", in, got, r)
			}
		}
	}
}
