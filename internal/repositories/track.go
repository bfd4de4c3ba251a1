package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

const trackInsertColumns = `id, sequence, song_id, title, artist, album, album_artist, genre, composer,
	duration_millis, track_number, disc_number, year, play_count, rating, album_art_url, created_at, updated_at`

const trackColumns = trackInsertColumns + ", deleted_at"

// TrackRepository implements models.Repository[*models.CachedSong] for the local track cache.
//
// At most one live row exists per remote song id.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.CachedSong] into the database with generated ID and sequence
func (r *TrackRepository) Create(c *models.CachedSong) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	c.SetID(shared.GenerateID())
	c.SetSequence(sequence)

	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s := c.Song()
	_, err = r.db.Exec(`
		INSERT INTO tracks (`+trackInsertColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID(), c.Sequence(), s.ID, s.Title, s.Artist, s.Album, s.AlbumArtist, s.Genre, s.Composer,
		s.DurationMillis, s.Track, s.Disc, s.Year, s.PlayCount, s.Rating, s.AlbumArtURL, c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.CachedSong, error) {
	return r.scan(r.db.QueryRow("SELECT "+trackColumns+" FROM tracks WHERE id = ? AND deleted_at IS NULL", id))
}

// GetBySongID retrieves a track by its remote song id
func (r *TrackRepository) GetBySongID(songID string) (*models.CachedSong, error) {
	return r.scan(r.db.QueryRow("SELECT "+trackColumns+" FROM tracks WHERE song_id = ? AND deleted_at IS NULL", songID))
}

// Update modifies the cached metadata of an existing track
func (r *TrackRepository) Update(c *models.CachedSong) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	c.SetUpdatedAt(now)

	s := c.Song()
	result, err := r.db.Exec(`
		UPDATE tracks
		SET title = ?, artist = ?, album = ?, album_artist = ?, genre = ?, composer = ?, duration_millis = ?,
			track_number = ?, disc_number = ?, year = ?, play_count = ?, rating = ?, album_art_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		s.Title, s.Artist, s.Album, s.AlbumArtist, s.Genre, s.Composer, s.DurationMillis,
		s.Track, s.Disc, s.Year, s.PlayCount, s.Rating, s.AlbumArtURL, now, c.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	return requireRow(result, "tracks", c.ID())
}

// Upsert caches song, refreshing the existing row for its song id when there is one.
func (r *TrackRepository) Upsert(song models.Song) (*models.CachedSong, error) {
	cached, err := r.GetBySongID(song.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		cached = models.NewCachedSong(0, song)
		if err := r.Create(cached); err != nil {
			return nil, err
		}
		return cached, nil
	case err != nil:
		return nil, err
	}

	cached.SetSong(song)
	if err := r.Update(cached); err != nil {
		return nil, err
	}
	return cached, nil
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	return softDelete(r.db, "tracks", id)
}

// List retrieves cached tracks in insertion order, optionally filtered by "artist" or "album"
func (r *TrackRepository) List(criteria map[string]any) ([]*models.CachedSong, error) {
	query := "SELECT " + trackColumns + " FROM tracks WHERE deleted_at IS NULL"
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if album, ok := criteria["album"].(string); ok && album != "" {
		query += " AND album = ?"
		args = append(args, album)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.CachedSong
	for rows.Next() {
		track, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

func (r *TrackRepository) scan(row scanner) (*models.CachedSong, error) {
	var (
		id                   string
		sequence             int
		s                    models.Song
		createdAt, updatedAt time.Time
		deletedAt            sql.NullTime
	)

	err := row.Scan(&id, &sequence, &s.ID, &s.Title, &s.Artist, &s.Album, &s.AlbumArtist, &s.Genre, &s.Composer,
		&s.DurationMillis, &s.Track, &s.Disc, &s.Year, &s.PlayCount, &s.Rating, &s.AlbumArtURL,
		&createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: track", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track := models.NewCachedSong(sequence, s)
	track.SetID(id)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}
