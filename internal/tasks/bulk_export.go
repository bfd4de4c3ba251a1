package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/playx/internal/formatter"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	manifestName   = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format         formatter.Format // Export format
	OutputDir      string           // Base output directory (default: playx_export_{epoch})
	NumWorkers     int              // Concurrent file writers (default: 4)
	IncludeLibrary bool             // Also export every track as the "All Tracks" playlist
}

// PlaylistExportResult is the outcome of writing one playlist.
type PlaylistExportResult struct {
	PlaylistID string `json:"playlistId"`
	Title      string `json:"title"`
	Tracks     int    `json:"tracks"`
	File       string `json:"file,omitempty"`
	Error      error  `json:"-"`
	Message    string `json:"error,omitempty"`
}

// Success reports whether the playlist was written.
func (r PlaylistExportResult) Success() bool { return r.Error == nil }

// BulkExportResult summarizes a bulk export and is written as the export manifest.
type BulkExportResult struct {
	Format            formatter.Format       `json:"format"`
	OutputDirectory   string                 `json:"outputDirectory"`
	TotalPlaylists    int                    `json:"totalPlaylists"`
	SuccessfulExports int                    `json:"successfulExports"`
	FailedExports     int                    `json:"failedExports"`
	Results           []PlaylistExportResult `json:"results"`
	ManifestPath      string                 `json:"-"`
}

// BulkExport loads every playlist and writes each one to OutputDir with a pool of workers.
//
// Individual write failures are recorded in the result; the returned error covers fetching and
// the manifest.
func (e *LibraryEngine) BulkExport(ctx context.Context, progress chan<- ProgressUpdate, session *models.Session, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library not initialized", shared.ErrInvalidInput)
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playx_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	e.sendProgress(progress, fetchPlaylistsUpdate())

	playlists, err := e.library.LoadAllPlaylists(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlists: %w", err)
	}

	if opts.IncludeLibrary {
		songs, err := e.library.LoadAllTracks(ctx, session)
		if err != nil {
			return nil, fmt.Errorf("failed to load tracks: %w", err)
		}
		playlists = append(playlists, *formatter.LibraryPlaylist(songs))
	}

	e.sendProgress(progress, fetchedPlaylistsUpdate(len(playlists)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		TotalPlaylists:  len(playlists),
		Results:         make([]PlaylistExportResult, 0, len(playlists)),
	}

	jobs := make(chan exportJob, len(playlists))
	results := make(chan PlaylistExportResult, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	for i, name := range uniqueFilenames(playlists, opts.Format) {
		jobs <- exportJob{playlist: &playlists[i], filename: name}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Success() {
			result.SuccessfulExports++
			e.sendProgress(progress, exportCompletedUpdate(completed, len(playlists), res))
		} else {
			result.FailedExports++
			res.Message = res.Error.Error()
			e.sendProgress(progress, exportFailedUpdate(completed, len(playlists), res))
		}
		result.Results = append(result.Results, res)
	}

	sort.Slice(result.Results, func(i, j int) bool {
		a, b := result.Results[i], result.Results[j]
		if a.PlaylistID != b.PlaylistID {
			return a.PlaylistID < b.PlaylistID
		}
		return a.File < b.File
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}

// exportWorker writes playlists from jobs until the channel closes or ctx is done.
func (e *LibraryEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- exportSinglePlaylist(job, opts)
	}
}

// exportJob pairs a playlist with the file name reserved for it in the output directory.
type exportJob struct {
	playlist *models.Playlist
	filename string
}

// uniqueFilenames reserves one export file name per playlist, in order. Repeated stems get a
// numeric suffix; names are compared case-insensitively.
func uniqueFilenames(playlists []models.Playlist, format formatter.Format) []string {
	used := make(map[string]bool, len(playlists))
	names := make([]string, len(playlists))

	for i := range playlists {
		stem := formatter.FileStem(&playlists[i])
		name := formatter.Filename(stem, format)
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = formatter.Filename(fmt.Sprintf("%s_%d", stem, n), format)
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}

	return names
}

func exportSinglePlaylist(job exportJob, opts BulkExportOpts) PlaylistExportResult {
	playlist := job.playlist
	res := PlaylistExportResult{
		PlaylistID: playlist.PlaylistID,
		Title:      playlist.Title,
		Tracks:     len(playlist.Songs),
	}

	path := filepath.Join(opts.OutputDir, job.filename)
	written, err := formatter.WriteExport(playlist, opts.Format, path)
	if err != nil {
		res.Error = err
		return res
	}

	res.File = written
	return res
}
