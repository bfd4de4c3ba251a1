package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/rest"
	"github.com/desertthunder/playx/internal/shared"
)

// call records one request seen by fakeSender.
type call struct {
	method string
	req    rest.Request
}

// fakeSender replays scripted responses in order and records every call.
type fakeSender struct {
	responses []*rest.Response
	err       error
	calls     []call
}

func (f *fakeSender) next(method string, r rest.Request) (*rest.Response, error) {
	f.calls = append(f.calls, call{method: method, req: r})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &rest.Response{StatusCode: http.StatusInternalServerError}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeSender) Get(_ context.Context, r rest.Request) (*rest.Response, error) {
	return f.next(http.MethodGet, r)
}

func (f *fakeSender) Post(_ context.Context, r rest.Request) (*rest.Response, error) {
	return f.next(http.MethodPost, r)
}

func reply(status int, body string, cookies map[string]string) *rest.Response {
	return &rest.Response{StatusCode: status, Body: body, Cookies: cookies, Headers: map[string]string{}}
}

func testConfig() shared.ServiceConfig {
	return shared.DefaultConfig().Service
}

func newTestService(sender Sender) *PlayService {
	return NewPlayService(sender, testConfig(), shared.NewLogger(io.Discard))
}

func mustSession(t *testing.T) *models.Session {
	t.Helper()
	s, err := models.NewSession("xtVal", "sjVal", "abc123")
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	return s
}

// newServiceServer starts a server and a PlayService pointed at it for both hosts.
func newServiceServer(t *testing.T, handler http.Handler) *PlayService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}

	cfg := testConfig()
	cfg.Secure = false
	cfg.IdentityHost = u.Host
	cfg.AppHost = u.Host

	logger := shared.NewLogger(io.Discard)
	return NewPlayService(rest.NewClient(server.Client(), logger), cfg, logger)
}
