package services

import (
	"context"
	"net/url"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/rest"
)

// Library is the set of operations offered by the music service.
type Library interface {
	// Login exchanges credentials for a session. Rejected logins are outcomes, not errors.
	Login(ctx context.Context, email, password string) (*models.LoginOutcome, error)

	// Search finds artists, albums and songs matching query.
	Search(ctx context.Context, query string, session *models.Session) (*models.SearchResults, error)

	// PlayURL resolves a song id to a streamable URL.
	PlayURL(ctx context.Context, songID string, session *models.Session) (*url.URL, error)

	// LoadAllTracks returns every song in the user's library, following continuation pages.
	LoadAllTracks(ctx context.Context, session *models.Session) ([]models.Song, error)

	// LoadAllPlaylists returns the user's playlists with their songs.
	LoadAllPlaylists(ctx context.Context, session *models.Session) ([]models.Playlist, error)
}

// Sender executes request descriptors.
type Sender interface {
	Get(ctx context.Context, r rest.Request) (*rest.Response, error)
	Post(ctx context.Context, r rest.Request) (*rest.Response, error)
}

var (
	_ Library = (*PlayService)(nil)
	_ Sender  = (*rest.Client)(nil)
)
