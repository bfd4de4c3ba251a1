package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playx/internal/models"
	tu "github.com/desertthunder/playx/internal/testing"
)

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	quitKey  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	downKey  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
)

func newTestLibrary() *tu.MockLibrary {
	return &tu.MockLibrary{
		StreamURL: "http://stream.example.com/s1",
		Songs: []models.Song{
			{ID: "s1", Title: "Waterloo", Artist: "ABBA"},
			{ID: "s2", Title: "SOS", Artist: "ABBA"},
			{ID: "s3", Title: "Heroes", Artist: "David Bowie"},
		},
		Playlists: []models.Playlist{
			{PlaylistID: "p1", Title: "Road Trip", Songs: []models.Song{{ID: "s3", Title: "Heroes", Artist: "David Bowie"}}},
		},
	}
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func startedModel(t *testing.T, lib *tu.MockLibrary) *Model {
	t.Helper()
	m := NewModel(context.Background(), lib, tu.MustSession(t))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	run(t, m, m.Init())
	return m
}

func TestModel(t *testing.T) {
	t.Run("Init Loads Playlists", func(t *testing.T) {
		m := startedModel(t, newTestLibrary())

		if m.view != PlaylistListView {
			t.Errorf("expected playlist view, got %d", m.view)
		}
		if got := len(m.playlistList.Items()); got != 2 {
			t.Errorf("expected library entry plus 1 playlist, got %d", got)
		}
		if !strings.Contains(m.View(), "All Tracks") {
			t.Error("expected library entry to be rendered")
		}
	})

	t.Run("Library Entry Loads All Tracks", func(t *testing.T) {
		lib := newTestLibrary()
		m := startedModel(t, lib)

		_, cmd := m.Update(enterKey)
		run(t, m, cmd)

		if m.view != TrackListView {
			t.Fatalf("expected track view, got %d", m.view)
		}
		if got := len(m.trackList.Items()); got != 3 {
			t.Errorf("expected 3 tracks, got %d", got)
		}

		calls := lib.Calls()
		if calls[len(calls)-1] != "LoadAllTracks" {
			t.Errorf("expected LoadAllTracks call, got %v", calls)
		}
	})

	t.Run("Playlist Shows Its Songs Without A Fetch", func(t *testing.T) {
		lib := newTestLibrary()
		m := startedModel(t, lib)
		before := len(lib.Calls())

		m.Update(downKey)
		_, cmd := m.Update(enterKey)

		if cmd != nil {
			t.Error("expected no command for a playlist with embedded songs")
		}
		if m.view != TrackListView || len(m.trackList.Items()) != 1 {
			t.Errorf("expected 1 track in track view, got view %d", m.view)
		}
		if len(lib.Calls()) != before {
			t.Error("expected no library calls")
		}
	})

	t.Run("Enter Resolves Stream URL", func(t *testing.T) {
		m := startedModel(t, newTestLibrary())

		_, cmd := m.Update(enterKey)
		run(t, m, cmd)

		_, cmd = m.Update(enterKey)
		run(t, m, cmd)

		if m.view != StreamView {
			t.Fatalf("expected stream view, got %d", m.view)
		}
		if !strings.Contains(m.View(), "http://stream.example.com/s1") {
			t.Errorf("expected stream URL in view, got:\n%s", m.View())
		}

		m.Update(escKey)
		if m.view != TrackListView {
			t.Errorf("expected esc to return to track view, got %d", m.view)
		}

		m.Update(escKey)
		if m.view != PlaylistListView {
			t.Errorf("expected esc to return to playlist view, got %d", m.view)
		}
	})

	t.Run("Errors Are Rendered", func(t *testing.T) {
		lib := newTestLibrary()
		lib.Err = errors.New("session expired")
		m := startedModel(t, lib)

		if !strings.Contains(m.View(), "session expired") {
			t.Errorf("expected error in view, got:\n%s", m.View())
		}

		m.Update(escKey)
		if m.err != nil {
			t.Error("expected esc to dismiss the error")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m := startedModel(t, newTestLibrary())

		_, cmd := m.Update(quitKey)
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}
