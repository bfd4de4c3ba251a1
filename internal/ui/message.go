package ui

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgTracksFetched
	MsgURLResolved
)

type playlistsResult struct {
	playlists []models.Playlist
	err       error
}

type tracksResult struct {
	playlist *models.Playlist
	err      error
}

type urlResult struct {
	song models.Song
	url  *url.URL
	err  error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsResult{playlists, err}}
}

// tracksFetchedMsg is the constructor for [MsgTracksFetched]
func tracksFetchedMsg(playlist *models.Playlist, err error) Msg {
	return Msg{kind: MsgTracksFetched, data: tracksResult{playlist, err}}
}

// urlResolvedMsg is the constructor for [MsgURLResolved]
func urlResolvedMsg(song models.Song, u *url.URL, err error) Msg {
	return Msg{kind: MsgURLResolved, data: urlResult{song, u, err}}
}
