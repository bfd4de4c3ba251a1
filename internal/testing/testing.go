// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/playx/internal/models"
)

// MockLibrary is a test double for services.Library.
//
// Each operation returns the matching field, or Err when set. Calls are recorded by operation name.
type MockLibrary struct {
	Outcome   *models.LoginOutcome
	Results   *models.SearchResults
	StreamURL string
	Songs     []models.Song
	Playlists []models.Playlist
	Err       error

	mu    sync.Mutex
	calls []string
}

func (m *MockLibrary) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the operation names invoked so far.
func (m *MockLibrary) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockLibrary) Login(ctx context.Context, email, password string) (*models.LoginOutcome, error) {
	m.record("Login")
	return m.Outcome, m.Err
}

func (m *MockLibrary) Search(ctx context.Context, query string, session *models.Session) (*models.SearchResults, error) {
	m.record("Search")
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Results == nil {
		return &models.SearchResults{}, nil
	}
	return m.Results, nil
}

func (m *MockLibrary) PlayURL(ctx context.Context, songID string, session *models.Session) (*url.URL, error) {
	m.record("PlayURL")
	if m.Err != nil {
		return nil, m.Err
	}
	return url.Parse(m.StreamURL)
}

func (m *MockLibrary) LoadAllTracks(ctx context.Context, session *models.Session) ([]models.Song, error) {
	m.record("LoadAllTracks")
	return m.Songs, m.Err
}

func (m *MockLibrary) LoadAllPlaylists(ctx context.Context, session *models.Session) ([]models.Playlist, error) {
	m.record("LoadAllPlaylists")
	return m.Playlists, m.Err
}

// MustSession builds a [models.Session] or fails the test.
func MustSession(t *testing.T) *models.Session {
	t.Helper()
	s, err := models.NewSession("xtVal", "sjVal", "abc123")
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	return s
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
