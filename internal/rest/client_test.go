package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/playx/internal/shared"
	tu "github.com/desertthunder/playx/internal/testing"
)

func newTestClient(hc *http.Client) *Client {
	return NewClient(hc, shared.NewLogger(io.Discard))
}

func hostOf(t *testing.T, server *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}
	return u.Host
}

func TestClient(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		t.Run("Sends Query Headers And Cookies", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/music/play" {
					t.Errorf("expected path /music/play, got %s", r.URL.Path)
				}
				if r.URL.RawQuery != "pt=e&songid=abc&u=0" {
					t.Errorf("unexpected query %q", r.URL.RawQuery)
				}
				if got := r.Header.Get("Authorization"); got != "GoogleLogin auth=tok" {
					t.Errorf("unexpected Authorization header %q", got)
				}
				if got := r.Header.Get("Cookie"); got != "sjsaid=sj; xt=x" {
					t.Errorf("unexpected Cookie header %q", got)
				}

				w.Header().Add("X-Multi", "a")
				w.Header().Add("X-Multi", "b")
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{"url":"http://stream/1"}`)
			}))
			defer server.Close()

			resp, err := newTestClient(nil).Get(context.Background(), Request{
				Host:    hostOf(t, server),
				Path:    "/music/play",
				Query:   map[string]string{"u": "0", "pt": "e", "songid": "abc"},
				Headers: map[string]string{"Authorization": "GoogleLogin auth=tok"},
				Cookies: map[string]string{"xt": "x", "sjsaid": "sj"},
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if resp.Body != `{"url":"http://stream/1"}` {
				t.Errorf("unexpected body %q", resp.Body)
			}
			if resp.Headers["X-Multi"] != "a, b" {
				t.Errorf("expected joined header, got %q", resp.Headers["X-Multi"])
			}
		})

		t.Run("No Headers Or Cookies When Absent", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Cookie") != "" {
					t.Errorf("expected no Cookie header, got %q", r.Header.Get("Cookie"))
				}
				if r.Header.Get("Authorization") != "" {
					t.Errorf("expected no Authorization header")
				}
				if r.URL.RawQuery != "" {
					t.Errorf("expected no query, got %q", r.URL.RawQuery)
				}
			}))
			defer server.Close()

			if _, err := newTestClient(nil).Get(context.Background(), Request{Host: hostOf(t, server), Path: "/"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Follows Redirects", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/new", http.StatusFound)
			})
			mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "moved")
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			resp, err := newTestClient(nil).Get(context.Background(), Request{Host: hostOf(t, server), Path: "/old"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK || resp.Body != "moved" {
				t.Errorf("expected redirect to be followed, got %d %q", resp.StatusCode, resp.Body)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		t.Run("Multipart Form And Cookies", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
					t.Errorf("expected multipart body, got %q", r.Header.Get("Content-Type"))
				}
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					t.Errorf("failed to parse multipart form: %v", err)
					return
				}
				for k, want := range map[string]string{"service": "sj", "Email": "user@example.com", "Passwd": "secret"} {
					if got := r.FormValue(k); got != want {
						t.Errorf("field %s: expected %q, got %q", k, want, got)
					}
				}

				http.SetCookie(w, &http.Cookie{Name: "xt", Value: "xtVal"})
				http.SetCookie(w, &http.Cookie{Name: "sjsaid", Value: "sjVal"})
				io.WriteString(w, "ok")
			}))
			defer server.Close()

			resp, err := newTestClient(nil).Post(context.Background(), Request{
				Host: hostOf(t, server),
				Path: "/accounts/ClientLogin",
				Form: map[string]string{"service": "sj", "Email": "user@example.com", "Passwd": "secret"},
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if resp.Cookies["xt"] != "xtVal" || resp.Cookies["sjsaid"] != "sjVal" {
				t.Errorf("unexpected cookies %v", resp.Cookies)
			}
		})

		t.Run("Does Not Follow Redirects", func(t *testing.T) {
			var hits atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
				http.SetCookie(w, &http.Cookie{Name: "xt", Value: "fromRedirect"})
				http.Redirect(w, r, "/landing", http.StatusFound)
			})
			mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			resp, err := newTestClient(nil).Post(context.Background(), Request{Host: hostOf(t, server), Path: "/login"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if resp.StatusCode != http.StatusFound {
				t.Errorf("expected status 302, got %d", resp.StatusCode)
			}
			if resp.Cookies["xt"] != "fromRedirect" {
				t.Errorf("expected redirect cookie to be kept, got %v", resp.Cookies)
			}
			if hits.Load() != 0 {
				t.Error("redirect target should not be requested")
			}
		})
	})

	t.Run("Ignores Cookie Jar", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Cookie"); got != "" {
				t.Errorf("expected jar cookies to be ignored, got %q", got)
			}
			http.SetCookie(w, &http.Cookie{Name: "fresh", Value: "1"})
		}))
		defer server.Close()

		jar, err := cookiejar.New(nil)
		if err != nil {
			t.Fatalf("failed to create jar: %v", err)
		}
		u, _ := url.Parse(server.URL)
		jar.SetCookies(u, []*http.Cookie{{Name: "stale", Value: "x"}})

		hc := &http.Client{Jar: jar}
		resp, err := newTestClient(hc).Get(context.Background(), Request{Host: u.Host, Path: "/"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if resp.Cookies["fresh"] != "1" {
			t.Errorf("expected response cookie, got %v", resp.Cookies)
		}
		if cookies := jar.Cookies(u); len(cookies) != 1 || cookies[0].Name != "stale" {
			t.Errorf("jar should be untouched, got %v", cookies)
		}
		if hc.Jar == nil {
			t.Error("caller's client should keep its jar")
		}
	})

	t.Run("Non-200 Is Not An Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, "Error=BadAuthentication")
		}))
		defer server.Close()

		resp, err := newTestClient(nil).Post(context.Background(), Request{Host: hostOf(t, server), Path: "/"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", resp.StatusCode)
		}
		if resp.Body != "Error=BadAuthentication" {
			t.Errorf("unexpected body %q", resp.Body)
		}
	})

	t.Run("Invalid Descriptor Makes No Request", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		client := newTestClient(nil)
		host := hostOf(t, server)

		_, err := client.Post(context.Background(), Request{Host: host, Path: "/", Form: map[string]string{"Passwd": ""}})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		_, err = client.Get(context.Background(), Request{Host: host, Path: "/", Form: map[string]string{"json": "{}"}})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		_, err = client.Get(context.Background(), Request{Path: "/"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		if hits.Load() != 0 {
			t.Errorf("expected no requests, got %d", hits.Load())
		}
	})

	t.Run("Transport Errors", func(t *testing.T) {
		t.Run("Connection Refused", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			host := hostOf(t, server)
			server.Close()

			_, err := newTestClient(nil).Get(context.Background(), Request{Host: host, Path: "/"})
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Malformed URI", func(t *testing.T) {
			_, err := newTestClient(nil).Get(context.Background(), Request{Host: "bad host%zz", Path: "/"})
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			hc := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Header:     http.Header{},
					Body:       &tu.FCloser{},
				}, nil),
			}

			_, err := newTestClient(hc).Get(context.Background(), Request{Host: "example.com", Path: "/"})
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Canceled Context", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := newTestClient(nil).Get(ctx, Request{Host: "example.com", Path: "/"})
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})
	})
}

func TestNewHTTPClient(t *testing.T) {
	hc := NewHTTPClient(HTTPOptions{MaxIdleConnsPerHost: 7})

	transport, ok := hc.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", hc.Transport)
	}
	if transport.MaxIdleConnsPerHost != 7 {
		t.Errorf("expected 7 idle conns per host, got %d", transport.MaxIdleConnsPerHost)
	}
}
