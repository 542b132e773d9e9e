package vpath

import (
	"errors"
	"testing"

	"jon/internal/kerr"
)

func TestParseSplitsSchemeAndSub(t *testing.T) {
	cases := []struct {
		path, scheme, sub string
	}{
		{"pipe:q", "pipe", "q"},
		{"vga:0", "vga", "0"},
		{"serial:", "serial", ""},
		{"proc:7", "proc", "7"},
	}
	for _, c := range cases {
		scheme, sub, err := Parse(c.path)
		if err != nil {
			t.Fatalf("Parse(%q) returned error %v", c.path, err)
		}
		if scheme != c.scheme || sub != c.sub {
			t.Fatalf("Parse(%q) = (%q, %q), want (%q, %q)", c.path, scheme, sub, c.scheme, c.sub)
		}
	}
}

func TestParseRejectsMissingOrEmptyScheme(t *testing.T) {
	for _, path := range []string{"noscheme", ":sub", ""} {
		_, _, err := Parse(path)
		if !errors.Is(err, kerr.ErrUnknownPath) {
			t.Fatalf("Parse(%q) error = %v, want ErrUnknownPath", path, err)
		}
	}
}
