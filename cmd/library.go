package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/playx/internal/formatter"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/repositories"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/desertthunder/playx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search queries the service and prints matches grouped by kind.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	session, err := r.session()
	if err != nil {
		return err
	}

	r.logger.Debug("searching", "query", query)

	results, err := r.library.Search(ctx, query, session)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if wantsJSON(cmd) {
		return r.writeJSON(results, cmd.Bool("pretty"), cmd.String("query"))
	}

	r.writePlainHeader(fmt.Sprintf("Search: %s (%d matches)", query, results.Total()))
	r.writeSongs("Artists", results.Artists)
	r.writeSongs("Albums", results.Albums)
	r.writeSongs("Songs", results.Songs)
	return nil
}

// URL resolves a song id to its streaming URL.
func (r *Runner) URL(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.Args().First()
	if songID == "" {
		return fmt.Errorf("%w: song id is required", shared.ErrMissingArgument)
	}

	session, err := r.session()
	if err != nil {
		return err
	}

	u, err := r.library.PlayURL(ctx, songID, session)
	if err != nil {
		return fmt.Errorf("failed to resolve stream URL: %w", err)
	}

	if wantsJSON(cmd) {
		return r.writeJSON(models.StreamingURL{URL: u.String()}, cmd.Bool("pretty"), cmd.String("query"))
	}
	return r.writePlain("%s\n", u.String())
}

// Tracks loads the whole library, optionally caching it locally or exporting it to a file.
//
// With --offline the cache is read instead of the service. --artist and --album narrow either
// source; caching always stores the full library.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	var (
		songs []models.Song
		err   error
	)

	artist, album := cmd.String("artist"), cmd.String("album")
	if cmd.Bool("offline") {
		songs, err = r.cachedSongs(artist, album)
	} else {
		songs, err = r.loadTracks(ctx, cmd.Bool("cache"))
		songs = filterSongs(songs, artist, album)
	}
	if err != nil {
		return err
	}

	playlist := formatter.LibraryPlaylist(songs)

	if cmd.IsSet("format") || cmd.IsSet("output") {
		return r.export(playlist, cmd.String("format"), cmd.String("output"))
	}

	if wantsJSON(cmd) {
		return r.writeJSON(songs, cmd.Bool("pretty"), cmd.String("query"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d)", formatter.LibraryTitle, len(songs)))
	r.writeSongs("", songs)
	return nil
}

func (r *Runner) loadTracks(ctx context.Context, cache bool) ([]models.Song, error) {
	session, err := r.session()
	if err != nil {
		return nil, err
	}

	if cache {
		return r.cacheTracks(ctx, session)
	}

	songs, err := r.library.LoadAllTracks(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	r.logger.Info("loaded library", "tracks", len(songs))

	return songs, nil
}

// cacheTracks loads the library through the engine, upserting every song into the track cache.
func (r *Runner) cacheTracks(ctx context.Context, session *models.Session) ([]models.Song, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	engine := tasks.NewLibraryEngine(r.library, repositories.NewTrackRepository(db))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchTracks:
				r.logger.Info(update.Message)
			case tasks.CacheTracks:
				r.logger.Debug(update.Message)
			}
		}
	}()

	result, err := engine.CacheLibrary(ctx, progressCh, session)
	close(progressCh)
	<-done

	if err != nil {
		return nil, err
	}

	r.logger.Info("cached library", "tracks", result.Cached)
	return result.Songs, nil
}

// filterSongs keeps songs whose artist and album equal the given values. Empty values match all.
func filterSongs(songs []models.Song, artist, album string) []models.Song {
	if artist == "" && album == "" {
		return songs
	}

	filtered := make([]models.Song, 0, len(songs))
	for _, s := range songs {
		if (artist == "" || s.Artist == artist) && (album == "" || s.Album == album) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func (r *Runner) cachedSongs(artist, album string) ([]models.Song, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	cached, err := repositories.NewTrackRepository(db).List(map[string]any{"artist": artist, "album": album})
	if err != nil {
		return nil, fmt.Errorf("failed to read track cache: %w", err)
	}

	songs := make([]models.Song, 0, len(cached))
	for _, c := range cached {
		songs = append(songs, c.Song())
	}
	return songs, nil
}

// PlaylistsList prints the user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.loadPlaylists(ctx)
	if err != nil {
		return err
	}

	if wantsJSON(cmd) {
		return r.writeJSON(playlists, cmd.Bool("pretty"), cmd.String("query"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		r.writePlain("%-24s %s (%d tracks)\n", p.PlaylistID, p.Title, len(p.Songs))
	}
	return nil
}

// PlaylistsExport writes one playlist to a file. The id "library" exports every track.
//
// With --all every playlist is written to --dir along with a manifest.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		return r.bulkExport(ctx, cmd)
	}

	id := cmd.String("id")
	if id == "" {
		return fmt.Errorf("%w: --id or --all is required", shared.ErrMissingArgument)
	}

	var playlist *models.Playlist
	if id == formatter.LibraryPlaylist(nil).PlaylistID {
		songs, err := r.loadTracks(ctx, false)
		if err != nil {
			return err
		}
		playlist = formatter.LibraryPlaylist(songs)
	} else {
		playlists, err := r.loadPlaylists(ctx)
		if err != nil {
			return err
		}
		for i := range playlists {
			if playlists[i].PlaylistID == id {
				playlist = &playlists[i]
				break
			}
		}
		if playlist == nil {
			return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
		}
	}

	return r.export(playlist, cmd.String("format"), cmd.String("output"))
}

func (r *Runner) bulkExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	session, err := r.session()
	if err != nil {
		return err
	}

	engine := tasks.NewLibraryEngine(r.library, nil)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.BulkExport(ctx, progressCh, session, tasks.BulkExportOpts{
		Format:         format,
		OutputDir:      cmd.String("dir"),
		NumWorkers:     int(cmd.Int("workers")),
		IncludeLibrary: cmd.Bool("include-library"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported:  %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	r.writePlain("Manifest:  %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		return fmt.Errorf("%d of %d playlists failed to export", result.FailedExports, result.TotalPlaylists)
	}
	return nil
}

func (r *Runner) loadPlaylists(ctx context.Context) ([]models.Playlist, error) {
	session, err := r.session()
	if err != nil {
		return nil, err
	}

	playlists, err := r.library.LoadAllPlaylists(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlists: %w", err)
	}
	return playlists, nil
}

func (r *Runner) export(playlist *models.Playlist, format, output string) error {
	f, err := formatter.ParseFormat(format)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(playlist, f, output)
	if err != nil {
		return err
	}

	r.logger.Info("exported playlist", "title", playlist.Title, "format", f, "path", path)
	return r.writePlain("✓ Exported %d tracks to %s\n", len(playlist.Songs), path)
}

func (r *Runner) writeSongs(heading string, songs []models.Song) {
	if len(songs) == 0 {
		return
	}
	if heading != "" {
		r.writePlainln("%s:", heading)
	}
	for _, s := range songs {
		r.writePlain("  %-36s %s - %s (%s)\n", s.ID, s.Title, s.Artist, s.Duration())
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog for artists, albums and songs",
		ArgsUsage: "<query>",
		Flags:     jsonFlags(),
		Action:    r.Search,
	}
}

func urlCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "url",
		Aliases:   []string{"stream"},
		Usage:     "Resolve a song id to a streaming URL",
		ArgsUsage: "<song-id>",
		Flags:     jsonFlags(),
		Action:    r.URL,
	}
}

func tracksCommand(r *Runner) *cli.Command {
	flags := append(jsonFlags(),
		&cli.BoolFlag{
			Name:  "cache",
			Usage: "Store the fetched tracks in the local database",
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "Read tracks from the local cache instead of the service",
		},
		&cli.StringFlag{
			Name:  "artist",
			Usage: "Only tracks by this artist",
		},
		&cli.StringFlag{
			Name:  "album",
			Usage: "Only tracks from this album",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format: csv, md, txt or json",
			Value:   "txt",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Export file path (default: library_tracks.<format>)",
		},
	)

	return &cli.Command{
		Name:   "tracks",
		Usage:  "List every track in the library",
		Flags:  flags,
		Action: r.Tracks,
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  jsonFlags(),
				Action: r.PlaylistsList,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Playlist ID to export (\"library\" for all tracks)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every playlist into --dir",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Output directory for --all (default: playx_export_<epoch>)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file writers for --all",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "include-library",
						Usage: "With --all, also export every track as library_tracks.<format>",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md, txt or json",
						Value:   "txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: <id>_tracks.<format>)",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}
