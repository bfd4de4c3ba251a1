package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestParseLevel(t *testing.T) {
	tc := []struct {
		input string
		want  log.Level
	}{
		{input: "", want: log.InfoLevel},
		{input: "debug", want: log.DebugLevel},
		{input: "WARN", want: log.WarnLevel},
		{input: "error", want: log.ErrorLevel},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseLevel("chatty"); err == nil {
			t.Error("expected error for unknown level")
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "rest")
		logger.Info("hello")

		out := buf.String()
		if !strings.Contains(out, "component=rest") {
			t.Errorf("expected key-value pair in output, got %q", out)
		}
	})

	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected info line to be filtered, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "playx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		if logger == nil {
			t.Fatal("expected logger")
		}
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("expected distinct ids")
	}
}

func TestMask(t *testing.T) {
	tc := []struct {
		name   string
		secret string
		want   string
	}{
		{name: "empty", secret: "", want: ""},
		{name: "short", secret: "abc", want: "***"},
		{name: "long", secret: "abc123token", want: "*******oken"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mask(tt.secret); got != tt.want {
				t.Errorf("Mask(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	t.Run("MarshalJSON compact", func(t *testing.T) {
		data, err := MarshalJSON(map[string]string{"q": "abba"}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"q":"abba"}` {
			t.Errorf("expected compact output, got %s", data)
		}
	})

	t.Run("MarshalJSON pretty", func(t *testing.T) {
		data, err := MarshalJSON(map[string]string{"q": "abba"}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "\n  \"q\"") {
			t.Errorf("expected indented output, got %s", data)
		}
	})

	t.Run("MarshalJSON nil", func(t *testing.T) {
		if _, err := MarshalJSON(nil, false); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("UnmarshalJSON", func(t *testing.T) {
		var v struct {
			URL string `json:"url"`
		}
		if err := UnmarshalJSON(`{"url":"http://x/y"}`, &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.URL != "http://x/y" {
			t.Errorf("expected url http://x/y, got %s", v.URL)
		}
	})

	t.Run("UnmarshalJSON errors", func(t *testing.T) {
		var v map[string]any
		for _, body := range []string{"", "   ", "{not json"} {
			if err := UnmarshalJSON(body, &v); !errors.Is(err, ErrDecode) {
				t.Errorf("body %q: expected ErrDecode, got %v", body, err)
			}
		}
	})
}

func TestStatusError(t *testing.T) {
	err := &StatusError{StatusCode: 500, Body: "oops"}

	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Error("expected StatusError to unwrap to ErrUnexpectedStatus")
	}

	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "oops") {
		t.Errorf("expected status and body in message, got %q", err.Error())
	}
}
