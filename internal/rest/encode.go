package rest

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/desertthunder/playx/internal/shared"
)

// QueryString encodes params as "name1=value1&name2=value2" with names and values URL-escaped.
//
// Entries are emitted in sorted key order.
func QueryString(params map[string]string) (string, error) {
	if len(params) == 0 {
		return "", fmt.Errorf("%w: query parameters are empty", shared.ErrInvalidInput)
	}

	pairs := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}
	return strings.Join(pairs, "&"), nil
}

// CookieHeader encodes cookies as a single Cookie header value: "name1=value1; name2=value2".
//
// Names and values are sent verbatim, so any that could split or end the header are rejected.
func CookieHeader(cookies map[string]string) (string, error) {
	if len(cookies) == 0 {
		return "", fmt.Errorf("%w: cookies are empty", shared.ErrInvalidInput)
	}

	pairs := make([]string, 0, len(cookies))
	for _, k := range sortedKeys(cookies) {
		v := cookies[k]
		if k == "" || !validCookieText(k) || strings.Contains(k, "=") {
			return "", fmt.Errorf("%w: invalid cookie name %q", shared.ErrInvalidInput, k)
		}
		if !validCookieText(v) {
			return "", fmt.Errorf("%w: invalid value for cookie %q", shared.ErrInvalidInput, k)
		}
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, "; "), nil
}

// validCookieText reports whether s holds only printable ASCII other than space, '"', ',', ';'
// and '\\'.
func validCookieText(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b <= ' ' || b >= 0x7f || b == '"' || b == ',' || b == ';' || b == '\\' {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
