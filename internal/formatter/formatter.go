// package formatter renders playlists to CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// LibraryTitle is the title given to the synthetic playlist holding the whole library.
const LibraryTitle = "All Tracks"

// ParseFormat accepts a format name or common alias, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, md, txt or json)", shared.ErrInvalidArgument, name)
	}
}

// LibraryPlaylist wraps the full library in a playlist so it can be exported like any other.
func LibraryPlaylist(songs []models.Song) *models.Playlist {
	return &models.Playlist{PlaylistID: "library", Title: LibraryTitle, Songs: songs}
}

// Export renders playlist in the given format.
func Export(playlist *models.Playlist, format Format) ([]byte, error) {
	if playlist == nil {
		return nil, fmt.Errorf("%w: playlist is nil", shared.ErrInvalidInput)
	}

	switch format {
	case FormatCSV:
		return ExportToCSV(playlist)
	case FormatMarkdown:
		return ExportToMarkdown(playlist)
	case FormatText:
		return ExportToText(playlist)
	case FormatJSON:
		return shared.MarshalJSON(playlist, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts a Playlist to CSV with columns: ID, Title, Artist, Album, Duration, Year, Plays
func ExportToCSV(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "Year", "Plays"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range playlist.Songs {
		record := []string{
			song.ID,
			song.Title,
			song.Artist,
			song.Album,
			song.Duration(),
			strconv.Itoa(song.Year),
			strconv.Itoa(song.PlayCount),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Playlist to Markdown, using the first song's album art as the cover
func ExportToMarkdown(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", playlist.Title)

	for _, song := range playlist.Songs {
		if song.AlbumArtURL != "" {
			fmt.Fprintf(&buf, "![Cover](%s)\n\n", song.AlbumArtURL)
			break
		}
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(playlist.Songs))

	buf.WriteString("## Tracks\n\n")
	for i, song := range playlist.Songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, song.Artist, song.Title, albumPart, song.Duration())
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Playlist to plain text
func ExportToText(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", playlist.Title)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(playlist.Songs))

	for i, song := range playlist.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, song.Artist, song.Title)
	}

	return buf.Bytes(), nil
}

// DefaultFilename returns {stem}_tracks.{format}, where stem is [FileStem].
func DefaultFilename(playlist *models.Playlist, format Format) string {
	return Filename(FileStem(playlist), format)
}

// Filename returns {stem}_tracks.{format}.
func Filename(stem string, format Format) string {
	return fmt.Sprintf("%s_tracks.%s", stem, format)
}

// FileStem names playlist for the file system: the sanitized id, else the sanitized title,
// else "playlist". The result never contains a path separator or a leading dot.
func FileStem(playlist *models.Playlist) string {
	for _, candidate := range []string{playlist.PlaylistID, playlist.Title} {
		if stem := sanitizeStem(candidate); stem != "" {
			return stem
		}
	}
	return "playlist"
}

func sanitizeStem(name string) string {
	stem := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
	return strings.Trim(stem, "._")
}

// WriteExport renders playlist and writes it to path, defaulting to [DefaultFilename].
//
// Returns the path written.
func WriteExport(playlist *models.Playlist, format Format, path string) (string, error) {
	data, err := Export(playlist, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if path == "" {
		path = DefaultFilename(playlist, format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
