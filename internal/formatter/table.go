package formatter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/desertthunder/songdeck/internal/tasks"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// ShouldColorize reports whether w is a terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func statusColors(s tasks.Status) text.Colors {
	switch {
	case s.Changed():
		return text.Colors{text.FgGreen}
	case s == tasks.Failed:
		return text.Colors{text.FgRed}
	case s == tasks.Deferred:
		return text.Colors{text.FgYellow}
	case s.Problem():
		return text.Colors{text.FgHiYellow}
	default:
		return text.Colors{text.FgHiBlack}
	}
}

// StatusLabel returns the outcome label, colored when colorize is set.
func StatusLabel(s tasks.Status, colorize bool) string {
	if !colorize {
		return s.Label()
	}
	return statusColors(s).Sprint(s.Label())
}

// StatusLine formats one outcome as a running status line.
func StatusLine(o tasks.Outcome, colorize bool) string {
	return fmt.Sprintf("%-14s %5d  %s - %s  %s",
		StatusLabel(o.Status, colorize), o.SongID, shared.Truncate(o.Artist, 24), shared.Truncate(o.Title, 32), o.Detail())
}

// OutcomeTable renders the outcomes of a pass.
//
// Unless all is set, outcomes that changed nothing and need no attention are left out.
func OutcomeTable(outcomes []tasks.Outcome, all, colorize bool) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		if !all && (o.Status == tasks.Matched || o.Status == tasks.Valid) {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(o.SongID),
			shared.Truncate(o.Artist, 24),
			shared.Truncate(o.Title, 32),
			StatusLabel(o.Status, colorize),
			shared.Truncate(o.Detail(), 48),
		})
	}
	if len(rows) == 0 {
		return ""
	}
	return renderTable([]string{"ID", "Artist", "Title", "Status", "Detail"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft})
}

// SummaryText renders the end-of-run report: counts, search budget and the error list.
func SummaryText(s *tasks.Summary) string {
	var b strings.Builder

	switch s.Kind {
	case models.RunDates:
		fmt.Fprintf(&b, "Songs checked: %d/%d\n", len(s.Outcomes), s.Total)
		fmt.Fprintf(&b, "Dates updated: %d, matched: %d, no date: %d, not found: %d, errors: %d\n",
			s.Count(tasks.Updated), s.Count(tasks.Matched), s.Count(tasks.NoReleaseDate), s.Count(tasks.NotFound), s.Count(tasks.Failed))
	case models.RunVideos:
		fmt.Fprintf(&b, "Songs checked: %d/%d (%d references confirmed)\n", len(s.Outcomes), s.Total, s.ValidatedCount)
		fmt.Fprintf(&b, "Videos replaced: %d, no replacement: %d, errors: %d, skipped: %d\n",
			s.Count(tasks.Replaced), s.Count(tasks.Unresolved), s.Count(tasks.Failed), s.Deferred())
		fmt.Fprintf(&b, "Searches performed: %d/%d\n", s.SearchesUsed, s.SearchBudget)
		if s.Deferred() > 0 {
			fmt.Fprintf(&b, "%d songs skipped to protect quota; run again later\n", s.Deferred())
		}
		if s.ValidationErr != nil {
			fmt.Fprintf(&b, "Validation stopped early: %v\n", s.ValidationErr)
		}
	}

	if errs := s.Errors(); len(errs) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(errs))
		for _, line := range errs {
			fmt.Fprintf(&b, "  - %s\n", line)
		}
	}

	if s.Err != nil {
		fmt.Fprintf(&b, "\nInterrupted: %v\n", s.Err)
	}

	return b.String()
}

// SongsTable renders the collection.
func SongsTable(songs []models.Song) string {
	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		video := "-"
		if s.HasVideo() {
			video = s.VideoID
		}
		rows = append(rows, []string{strconv.Itoa(s.ID), shared.Truncate(s.Artist, 28), shared.Truncate(s.Title, 36), s.Date, video})
	}
	return renderTable([]string{"ID", "Artist", "Title", "Date", "Video"}, rows,
		[]columnAlignment{alignRight})
}

// HistoryTable renders a list of runs.
func HistoryTable(runs []*models.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		searches := "-"
		if r.Kind() == models.RunVideos {
			searches = fmt.Sprintf("%d/%d", r.SearchesUsed(), r.SearchBudget())
		}
		duration := "-"
		if f := r.FinishedAt(); f != nil {
			duration = f.Sub(r.StartedAt()).Round(time.Second).String()
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Sequence()),
			string(r.Kind()),
			string(r.Status()),
			r.StartedAt().Local().Format("2006-01-02 15:04"),
			duration,
			strconv.Itoa(r.Total()),
			strconv.Itoa(r.Updated()),
			strconv.Itoa(r.Failed()),
			strconv.Itoa(r.Deferred()),
			searches,
		})
	}
	return renderTable(
		[]string{"#", "Kind", "Status", "Started", "Took", "Songs", "Changed", "Problems", "Skipped", "Searches"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

// EntriesTable renders the recorded entries of a run.
func EntriesTable(entries []*models.RunEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		label := e.Outcome
		if s, ok := tasks.ParseStatus(e.Outcome); ok {
			label = s.Label()
		}
		rows = append(rows, []string{
			strconv.Itoa(e.SongID),
			shared.Truncate(e.Artist, 24),
			shared.Truncate(e.Title, 32),
			label,
			shared.Truncate(e.Detail, 48),
		})
	}
	return renderTable([]string{"ID", "Artist", "Title", "Status", "Detail"}, rows, []columnAlignment{alignRight})
}
