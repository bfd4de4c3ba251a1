package filter

import (
	"errors"
	"testing"

	"github.com/desertthunder/playx/internal/shared"
)

const library = `[
	{"id":"s1","title":"Waterloo","artist":"ABBA","year":1974},
	{"id":"s2","title":"SOS","artist":"ABBA","year":1975},
	{"id":"s3","title":"Heroes","artist":"David Bowie","year":1977}
]`

func TestApply(t *testing.T) {
	tc := []struct {
		name       string
		expression string
		want       string
	}{
		{name: "projection", expression: "[].title", want: `["Waterloo","SOS","Heroes"]`},
		{name: "filter", expression: "[?artist=='ABBA'].id", want: `["s1","s2"]`},
		{name: "length", expression: "length(@)", want: `3`},
		{name: "missing field", expression: "[0].genre", want: `null`},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply([]byte(library), tt.expression, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("empty expression", func(t *testing.T) {
		got, err := Apply([]byte(library), "", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != library {
			t.Error("expected body to be returned unchanged")
		}
	})

	t.Run("invalid expression", func(t *testing.T) {
		if _, err := Apply([]byte(library), "[?", false); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := Apply([]byte("{nope"), "a", false); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
	})
}

func TestIsValid(t *testing.T) {
	if !IsValid("results.songs[].title") {
		t.Error("expected expression to be valid")
	}
	if IsValid("results.[") {
		t.Error("expected expression to be invalid")
	}
}
