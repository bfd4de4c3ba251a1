package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/services"
	"github.com/desertthunder/playx/internal/shared"
)

// TrackCacher persists songs locally. Implemented by repositories.TrackRepository.
type TrackCacher interface {
	Upsert(song models.Song) (*models.CachedSong, error)
}

// CacheResult summarizes a library caching run.
type CacheResult struct {
	Songs  []models.Song // Every song returned by the service
	Cached int           // Songs written to the cache
}

// LibraryEngine runs multi-step library operations with progress reporting.
type LibraryEngine struct {
	library services.Library
	cache   TrackCacher
}

// NewLibraryEngine creates a LibraryEngine. cache may be nil when only exports are needed.
func NewLibraryEngine(library services.Library, cache TrackCacher) *LibraryEngine {
	return &LibraryEngine{library: library, cache: cache}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// CacheLibrary loads every track in the library and upserts each one into the cache.
//
// Stops at the first cache failure, returning what was cached so far.
func (e *LibraryEngine) CacheLibrary(ctx context.Context, progress chan<- ProgressUpdate, session *models.Session) (*CacheResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library not initialized", shared.ErrInvalidInput)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: track cache not initialized", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, fetchTracksUpdate())

	songs, err := e.library.LoadAllTracks(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	e.sendProgress(progress, fetchedTracksUpdate(len(songs)))

	result := &CacheResult{Songs: songs}
	for i, song := range songs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if _, err := e.cache.Upsert(song); err != nil {
			return result, fmt.Errorf("failed to cache track %s: %w", song.ID, err)
		}
		result.Cached++
		e.sendProgress(progress, cacheTrackUpdate(i+1, len(songs), song))
	}

	return result, nil
}
