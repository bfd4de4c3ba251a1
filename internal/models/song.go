package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/playx/internal/shared"
)

// Song is a track as returned by the library, search and playlist endpoints.
type Song struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Artist         string `json:"artist"`
	Album          string `json:"album"`
	AlbumArtist    string `json:"albumArtist"`
	Genre          string `json:"genre"`
	Composer       string `json:"composer"`
	DurationMillis int64  `json:"durationMillis"`
	Track          int    `json:"track"`
	Disc           int    `json:"disc"`
	Year           int    `json:"year"`
	PlayCount      int    `json:"playCount"`
	Rating         int    `json:"rating"`
	AlbumArtURL    string `json:"albumArtUrl"`
}

// Duration formats DurationMillis as m:ss.
func (s Song) Duration() string {
	secs := s.DurationMillis / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Playlist is a user playlist with its songs.
type Playlist struct {
	PlaylistID string `json:"playlistId"`
	Title      string `json:"title"`
	Songs      []Song `json:"playlist"`
}

// SearchResults groups search matches by kind. Every entry is a Song.
type SearchResults struct {
	Artists []Song `json:"artists"`
	Albums  []Song `json:"albums"`
	Songs   []Song `json:"songs"`
}

// Total returns the number of matches across all kinds.
func (r SearchResults) Total() int {
	return len(r.Artists) + len(r.Albums) + len(r.Songs)
}

// SearchRequest is the JSON payload sent as the search form's json field.
type SearchRequest struct {
	Query string `json:"q"`
}

// NewSearchRequest rejects blank queries.
func NewSearchRequest(q string) (*SearchRequest, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidInput)
	}
	return &SearchRequest{Query: q}, nil
}

// StreamingURL is the play endpoint's response.
type StreamingURL struct {
	URL string `json:"url"`
}
