package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/rest"
	"github.com/desertthunder/playx/internal/shared"
)

const (
	searchPath        = "/music/services/search"
	playPath          = "/music/play"
	loadAllTracksPath = "/music/services/loadalltracks"
	loadPlaylistPath  = "/music/services/loadplaylist"
	emptyPayload      = "{}"
)

type searchResponse struct {
	Results models.SearchResults `json:"results"`
}

type tracksPage struct {
	Playlist          []models.Song `json:"playlist"`
	ContinuationToken string        `json:"continuationToken"`
}

type tracksPageRequest struct {
	ContinuationToken string `json:"continuationToken"`
}

type playlistsResponse struct {
	Playlists []models.Playlist `json:"playlists"`
}

// Search finds artists, albums and songs matching query.
func (s *PlayService) Search(ctx context.Context, query string, session *models.Session) (*models.SearchResults, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	payload, err := models.NewSearchRequest(query)
	if err != nil {
		return nil, err
	}

	data, err := shared.MarshalJSON(payload, false)
	if err != nil {
		return nil, err
	}

	req, err := s.serviceRequest(searchPath, session, string(data), false)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := s.doRequest(ctx, http.MethodPost, req, &resp); err != nil {
		return nil, err
	}

	s.logger.Debug("search completed", "matches", resp.Results.Total())
	return &resp.Results, nil
}

// PlayURL resolves songID to the URL its audio can be streamed from.
func (s *PlayService) PlayURL(ctx context.Context, songID string, session *models.Session) (*url.URL, error) {
	if songID == "" {
		return nil, fmt.Errorf("%w: song id is empty", shared.ErrInvalidInput)
	}
	if err := requireSession(session); err != nil {
		return nil, err
	}

	header, err := AuthHeaderValue(session.AuthToken())
	if err != nil {
		return nil, err
	}

	req := rest.Request{
		Secure:  s.config.Secure,
		Host:    s.config.AppHost,
		Path:    playPath,
		Query:   map[string]string{"u": "0", "pt": "e", "songid": songID},
		Headers: map[string]string{"Authorization": header},
		Cookies: session.Cookies(),
	}

	var resp models.StreamingURL
	if err := s.doRequest(ctx, http.MethodGet, req, &resp); err != nil {
		return nil, err
	}

	if resp.URL == "" {
		return nil, fmt.Errorf("%w: response has no url", shared.ErrDecode)
	}

	u, err := url.Parse(resp.URL)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: invalid stream url %q", shared.ErrDecode, resp.URL)
	}

	return u, nil
}

// LoadAllTracks returns every song in the library, requesting pages until the server stops
// sending a continuation token.
func (s *PlayService) LoadAllTracks(ctx context.Context, session *models.Session) ([]models.Song, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	var (
		songs []models.Song
		token string
		seen  = make(map[string]bool)
	)

	for {
		payload := emptyPayload
		if token != "" {
			data, err := shared.MarshalJSON(tracksPageRequest{ContinuationToken: token}, false)
			if err != nil {
				return nil, err
			}
			payload = string(data)
		}

		req, err := s.serviceRequest(loadAllTracksPath, session, payload, true)
		if err != nil {
			return nil, err
		}

		var page tracksPage
		if err := s.doRequest(ctx, http.MethodPost, req, &page); err != nil {
			return nil, err
		}

		songs = append(songs, page.Playlist...)
		s.logger.Debug("loaded tracks page", "songs", len(page.Playlist), "total", len(songs))

		if page.ContinuationToken == "" {
			break
		}
		if seen[page.ContinuationToken] {
			return nil, fmt.Errorf("%w: continuation token %q repeated", shared.ErrDecode, page.ContinuationToken)
		}
		seen[page.ContinuationToken] = true
		token = page.ContinuationToken
	}

	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

// LoadAllPlaylists returns the user's playlists with their songs.
func (s *PlayService) LoadAllPlaylists(ctx context.Context, session *models.Session) ([]models.Playlist, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	req, err := s.serviceRequest(loadPlaylistPath, session, emptyPayload, true)
	if err != nil {
		return nil, err
	}

	var resp playlistsResponse
	if err := s.doRequest(ctx, http.MethodPost, req, &resp); err != nil {
		return nil, err
	}

	if resp.Playlists == nil {
		resp.Playlists = []models.Playlist{}
	}
	return resp.Playlists, nil
}

// serviceRequest builds a POST to one of the /music/services endpoints with the payload in the json form field.
func (s *PlayService) serviceRequest(path string, session *models.Session, payload string, withCookies bool) (rest.Request, error) {
	header, err := AuthHeaderValue(session.AuthToken())
	if err != nil {
		return rest.Request{}, err
	}

	req := rest.Request{
		Secure:  s.config.Secure,
		Host:    s.config.AppHost,
		Path:    path,
		Query:   map[string]string{"u": "0", "xt": session.XT()},
		Headers: map[string]string{"Authorization": header},
		Form:    map[string]string{"json": payload},
	}
	if withCookies {
		req.Cookies = session.Cookies()
	}
	return req, nil
}

// doRequest sends req, requires status 200 and decodes the JSON body into result.
func (s *PlayService) doRequest(ctx context.Context, method string, req rest.Request, result any) error {
	var (
		resp *rest.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = s.sender.Get(ctx, req)
	default:
		resp, err = s.sender.Post(ctx, req)
	}
	if err != nil {
		return err
	}

	if !resp.OK() {
		s.logger.Warn("unexpected status", "path", req.Path, "status", resp.StatusCode)
		return &shared.StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	return shared.UnmarshalJSON(resp.Body, result)
}

func requireSession(session *models.Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", shared.ErrInvalidInput)
	}
	return nil
}
