package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/playx/internal/formatter"
	"github.com/desertthunder/playx/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
//
// The library entry has no songs of its own; selecting it loads every track.
type playlistItem struct {
	playlist models.Playlist
	library  bool
}

func libraryItem() playlistItem {
	return playlistItem{playlist: models.Playlist{PlaylistID: "library", Title: formatter.LibraryTitle}, library: true}
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string       { return i.playlist.Title }
func (i playlistItem) Description() string {
	if i.library {
		return "Every song in your library"
	}
	return fmt.Sprintf("%d tracks", len(i.playlist.Songs))
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title + " " + i.song.Artist }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	return fmt.Sprintf("%s • %s", desc, i.song.Duration())
}
