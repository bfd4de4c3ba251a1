// package filter narrows JSON command output with JMESPath expressions
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/playx/internal/shared"
	"github.com/jmespath/go-jmespath"
)

// Apply evaluates expression against the JSON document body and returns the result as JSON.
//
// An empty expression returns body unchanged. A null result is rendered as "null".
func Apply(body []byte, expression string, pretty bool) ([]byte, error) {
	if expression == "" {
		return body, nil
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JMESPath expression %q: %v", shared.ErrInvalidArgument, expression, err)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return []byte("null"), nil
	}

	return shared.MarshalJSON(result, pretty)
}

// IsValid reports whether expression compiles.
func IsValid(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
