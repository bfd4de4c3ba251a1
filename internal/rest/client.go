package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/shared"
)

const maxRedirects = 10

// HTTPOptions configures the pooled client built by [NewHTTPClient].
type HTTPOptions struct {
	Timeout             time.Duration
	MaxIdleConnsPerHost int
}

// NewHTTPClient builds the process-wide, connection-pooled [http.Client].
func NewHTTPClient(opts HTTPOptions) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = opts.MaxIdleConnsPerHost
	}
	return &http.Client{Transport: transport, Timeout: opts.Timeout}
}

// Client executes [Request] descriptors over a shared [http.Client].
//
// A Client holds no mutable state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient wraps httpClient, which defaults to a pooled client with no timeout.
//
// The wrapped client is copied without its cookie jar, and redirects are only followed for GET and HEAD.
func NewClient(httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(HTTPOptions{})
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	hc := *httpClient
	hc.Jar = nil
	hc.CheckRedirect = redirectPolicy(httpClient.CheckRedirect)

	return &Client{httpClient: &hc, logger: logger}
}

func redirectPolicy(next func(*http.Request, []*http.Request) error) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if m := via[0].Method; m != http.MethodGet && m != http.MethodHead {
			return http.ErrUseLastResponse
		}
		if next != nil {
			return next(req, via)
		}
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}
}

// Get executes r as a GET request.
func (c *Client) Get(ctx context.Context, r Request) (*Response, error) {
	return c.Do(ctx, http.MethodGet, r)
}

// Post executes r as a POST request. Form fields are sent as multipart/form-data.
func (c *Client) Post(ctx context.Context, r Request) (*Response, error) {
	return c.Do(ctx, http.MethodPost, r)
}

// Do validates r, executes it with method and normalizes the result.
//
// Any status code is a successful exchange; only I/O failures return [shared.ErrTransport].
func (c *Client) Do(ctx context.Context, method string, r Request) (*Response, error) {
	if err := r.Validate(method); err != nil {
		return nil, err
	}

	target, err := r.URL()
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeForm(r.Form)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrTransport, err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if len(r.Cookies) > 0 {
		cookie, err := CookieHeader(r.Cookies)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Cookie", cookie)
	}

	c.logger.Debug("sending request", "method", method, "url", r.Scheme()+"://"+r.Host+r.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}

	c.logger.Debug("received response", "method", method, "path", r.Path, "status", resp.StatusCode)

	return newResponse(resp.StatusCode, flattenHeaders(resp.Header), responseCookies(resp), string(data)), nil
}

// encodeForm writes one text part per field in sorted order. A nil reader means no body.
func encodeForm(form map[string]string) (io.Reader, string, error) {
	if len(form) == 0 {
		return nil, "", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range sortedKeys(form) {
		if err := w.WriteField(name, form[name]); err != nil {
			return nil, "", fmt.Errorf("%w: failed to encode form field %q: %v", shared.ErrInvalidInput, name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: failed to encode form: %v", shared.ErrInvalidInput, err)
	}

	return &buf, w.FormDataContentType(), nil
}

// flattenHeaders joins multi-valued headers with ", ".
func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		headers[k] = strings.Join(v, ", ")
	}
	return headers
}

func responseCookies(resp *http.Response) map[string]string {
	cookies := make(map[string]string)
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c.Value
	}
	return cookies
}
