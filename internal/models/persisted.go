package models

import (
	"fmt"
	"net/mail"

	"github.com/desertthunder/playx/internal/shared"
)

// StoredSession is a [Session] saved for the account it was issued to.
type StoredSession struct {
	record
	email   string
	session *Session
}

// NewStoredSession wraps session for persistence.
func NewStoredSession(sequence int, email string, session *Session) *StoredSession {
	return &StoredSession{record: newRecord(sequence), email: email, session: session}
}

func (s *StoredSession) Email() string     { return s.email }
func (s *StoredSession) Session() *Session { return s.session }

// Validate implements [Model].
func (s *StoredSession) Validate() error {
	if s.id == "" {
		return fmt.Errorf("%w: stored session id is empty", shared.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(s.email); err != nil {
		return fmt.Errorf("%w: invalid email %q", shared.ErrInvalidInput, s.email)
	}
	if s.session == nil {
		return fmt.Errorf("%w: stored session has no session", shared.ErrInvalidInput)
	}
	return nil
}

// CachedSong is a [Song] kept in the local track cache, keyed by its remote id.
type CachedSong struct {
	record
	song Song
}

// NewCachedSong wraps song for persistence.
func NewCachedSong(sequence int, song Song) *CachedSong {
	return &CachedSong{record: newRecord(sequence), song: song}
}

func (c *CachedSong) Song() Song     { return c.song }
func (c *CachedSong) SongID() string { return c.song.ID }
func (c *CachedSong) SetSong(s Song) { c.song = s }

// Validate implements [Model].
func (c *CachedSong) Validate() error {
	switch {
	case c.id == "":
		return fmt.Errorf("%w: cached song id is empty", shared.ErrInvalidInput)
	case c.song.ID == "":
		return fmt.Errorf("%w: song id is empty", shared.ErrInvalidInput)
	case c.song.Title == "":
		return fmt.Errorf("%w: song title is empty", shared.ErrInvalidInput)
	}
	return nil
}
