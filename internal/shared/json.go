package shared

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON encodes v as a single-line JSON document, or indented with two spaces when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nothing to marshal", ErrInvalidInput)
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes a response body into v.
//
// Empty bodies and malformed documents are reported as [ErrDecode].
func UnmarshalJSON(body string, v any) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: empty body", ErrDecode)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
