// package formatter renders the collection, reconciliation outcomes and run history
// as console tables and exports (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

// Format is an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat accepts a format name or a common alias (md, txt).
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, name)
	}
}

// Extension returns the file extension of the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Export renders songs in format f. cardBase is the QR payload prefix of each card.
func Export(f Format, songs []models.Song, cardBase string) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(songs, cardBase)
	case FormatMarkdown:
		return ExportToMarkdown(songs, cardBase)
	case FormatText:
		return ExportToText(songs, cardBase)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts songs to CSV with columns: ID, Artist, Title, Date, Video, Card URL
func ExportToCSV(songs []models.Song, cardBase string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Artist", "Title", "Date", "Video", "Card URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		video := ""
		if song.HasVideo() {
			video = song.VideoID
		}
		record := []string{
			strconv.Itoa(song.ID),
			song.Artist,
			song.Title,
			song.Date,
			video,
			song.CardURL(cardBase),
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

// ExportToMarkdown converts songs to a Markdown table linking each video
func ExportToMarkdown(songs []models.Song, cardBase string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Songs\n\n")
	buf.WriteString(fmt.Sprintf("**Cards**: %d\n\n", len(songs)))
	buf.WriteString("| ID | Artist | Title | Date | Video | Card |\n")
	buf.WriteString("|---:|---|---|---|---|---|\n")

	for _, song := range songs {
		video := "-"
		if song.HasVideo() {
			video = fmt.Sprintf("[%s](%s)", song.VideoID, shared.VideoURL(song.VideoID))
		}
		date := song.Date
		if date == "" {
			date = "-"
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | [link](%s) |\n",
			song.ID, escapeCell(song.Artist), escapeCell(song.Title), date, video, song.CardURL(cardBase)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts songs to plain text format
func ExportToText(songs []models.Song, cardBase string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Cards: %d\n\n", len(songs)))
	for _, song := range songs {
		date := song.Date
		if date == "" {
			date = "??.????"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s] %s\n", song.ID, song.Artist, song.Title, date, song.CardURL(cardBase)))
	}

	return buf.Bytes(), nil
}

// WriteExport writes the export to path, or to stdout when path is empty or "-".
func WriteExport(f Format, songs []models.Song, cardBase, path string) error {
	data, err := Export(f, songs, cardBase)
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
