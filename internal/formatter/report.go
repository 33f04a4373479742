package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/songdeck/internal/models"
)

// YearReport is the number of songs per release year.
type YearReport struct {
	Counts  map[int]int
	MinYear int
	MaxYear int
	Dated   int
	Invalid []models.Song // songs whose date is missing or unparseable
}

// BuildYearReport counts songs per year across the collection.
func BuildYearReport(songs []models.Song) *YearReport {
	r := &YearReport{Counts: make(map[int]int)}
	for _, s := range songs {
		d, err := models.ParseDate(s.Date)
		if err != nil {
			r.Invalid = append(r.Invalid, s)
			continue
		}
		if r.Dated == 0 || d.Year < r.MinYear {
			r.MinYear = d.Year
		}
		if r.Dated == 0 || d.Year > r.MaxYear {
			r.MaxYear = d.Year
		}
		r.Counts[d.Year]++
		r.Dated++
	}
	return r
}

// Years returns every year from MinYear to MaxYear, including empty ones.
func (r *YearReport) Years() []int {
	if r.Dated == 0 {
		return nil
	}
	years := make([]int, 0, r.MaxYear-r.MinYear+1)
	for y := r.MinYear; y <= r.MaxYear; y++ {
		years = append(years, y)
	}
	return years
}

// RenderYearReport renders the histogram followed by warnings for undated songs.
func RenderYearReport(r *YearReport) string {
	var b strings.Builder

	if r.Dated == 0 {
		b.WriteString("No dated songs.\n")
	} else {
		peak := 0
		for _, n := range r.Counts {
			peak = max(peak, n)
		}

		rows := make([][]string, 0, len(r.Counts))
		for _, y := range r.Years() {
			n := r.Counts[y]
			rows = append(rows, []string{strconv.Itoa(y), strconv.Itoa(n), bar(n, peak, 40)})
		}
		b.WriteString(renderTable([]string{"Year", "Songs", ""}, rows, []columnAlignment{alignLeft, alignRight}))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d songs from %d to %d\n", r.Dated, r.MinYear, r.MaxYear)
	}

	if len(r.Invalid) > 0 {
		fmt.Fprintf(&b, "\nWarning: %d songs without a valid date:\n", len(r.Invalid))
		for _, s := range r.Invalid {
			date := s.Date
			if date == "" {
				date = "missing"
			}
			fmt.Fprintf(&b, "  - ID %d - %s - %s (%s)\n", s.ID, s.Artist, s.Title, date)
		}
	}

	return b.String()
}

func bar(n, peak, width int) string {
	if peak == 0 || n == 0 {
		return ""
	}
	return strings.Repeat("█", max(1, n*width/peak))
}
