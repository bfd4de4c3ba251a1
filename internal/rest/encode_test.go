package rest

import (
	"errors"
	"net/url"
	"testing"

	"github.com/desertthunder/playx/internal/shared"
)

func TestQueryString(t *testing.T) {
	t.Run("Sorted And Escaped", func(t *testing.T) {
		got, err := QueryString(map[string]string{"u": "0", "hl": "en_US", "q": "a b&c"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "hl=en_US&q=a+b%26c&u=0"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		params := map[string]string{
			"songid":  "8c0d-é",
			"xt":      "AM-WbXh=/+",
			"u":       "0",
			"a key":   "value with spaces",
			"unicode": "日本",
		}

		qs, err := QueryString(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		parsed, err := url.ParseQuery(qs)
		if err != nil {
			t.Fatalf("failed to parse query: %v", err)
		}

		if len(parsed) != len(params) {
			t.Fatalf("expected %d keys, got %d", len(params), len(parsed))
		}
		for k, v := range params {
			if parsed.Get(k) != v {
				t.Errorf("key %q: expected %q, got %q", k, v, parsed.Get(k))
			}
		}
	})

	t.Run("Empty", func(t *testing.T) {
		for _, params := range []map[string]string{nil, {}} {
			if _, err := QueryString(params); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		}
	})
}

func TestCookieHeader(t *testing.T) {
	t.Run("Sorted", func(t *testing.T) {
		got, err := CookieHeader(map[string]string{"xt": "xtVal", "sjsaid": "sjVal"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != "sjsaid=sjVal; xt=xtVal" {
			t.Errorf("unexpected cookie header %q", got)
		}
	})

	t.Run("Single", func(t *testing.T) {
		got, err := CookieHeader(map[string]string{"xt": "abc"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "xt=abc" {
			t.Errorf("unexpected cookie header %q", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if _, err := CookieHeader(nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Rejects Header Splitting", func(t *testing.T) {
		tc := map[string]map[string]string{
			"semicolon in value": {"xt": "a; injected=1"},
			"comma in value":     {"xt": "a,b"},
			"space in value":     {"xt": "a b"},
			"newline in value":   {"xt": "a\r\nX-Evil: 1"},
			"quote in value":     {"xt": `a"b`},
			"equals in name":     {"x=t": "a"},
			"space in name":      {"x t": "a"},
			"empty name":         {"": "a"},
		}

		for name, cookies := range tc {
			t.Run(name, func(t *testing.T) {
				got, err := CookieHeader(cookies)
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v (header %q)", err, got)
				}
			})
		}
	})

	t.Run("Allows Empty Value", func(t *testing.T) {
		got, err := CookieHeader(map[string]string{"xt": ""})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "xt=" {
			t.Errorf("unexpected cookie header %q", got)
		}
	})
}
