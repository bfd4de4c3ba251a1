package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/playx/internal/shared"
)

// Request describes a single call. Host and Path are mandatory, Path starts with "/" and Form is
// only valid for POST.
type Request struct {
	Secure  bool
	Host    string
	Path    string
	Query   map[string]string
	Headers map[string]string
	Cookies map[string]string
	Form    map[string]string
}

// Scheme returns "https" for secure requests and "http" otherwise.
func (r Request) Scheme() string {
	if r.Secure {
		return "https"
	}
	return "http"
}

// URL builds scheme://host/path?query.
func (r Request) URL() (string, error) {
	u := r.Scheme() + "://" + r.Host + r.Path
	if len(r.Query) == 0 {
		return u, nil
	}

	qs, err := QueryString(r.Query)
	if err != nil {
		return "", err
	}
	return u + "?" + qs, nil
}

// Validate checks the descriptor for the given method.
func (r Request) Validate(method string) error {
	switch {
	case r.Host == "":
		return fmt.Errorf("%w: host is empty", shared.ErrInvalidInput)
	case r.Path == "":
		return fmt.Errorf("%w: path is empty", shared.ErrInvalidInput)
	case !strings.HasPrefix(r.Path, "/"):
		return fmt.Errorf("%w: path %q must start with /", shared.ErrInvalidInput, r.Path)
	case strings.ContainsAny(r.Host, "/?#@"):
		return fmt.Errorf("%w: host %q is not a bare host", shared.ErrInvalidInput, r.Host)
	case method != http.MethodGet && method != http.MethodPost:
		return fmt.Errorf("%w: unsupported method %s", shared.ErrInvalidInput, method)
	case method == http.MethodGet && len(r.Form) > 0:
		return fmt.Errorf("%w: form fields are not allowed on GET", shared.ErrInvalidInput)
	}

	for name, value := range r.Form {
		if value == "" {
			return fmt.Errorf("%w: form field %q is empty", shared.ErrInvalidInput, name)
		}
	}
	return nil
}
