package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NoVideo is the sentinel video reference meaning "no known video".
const NoVideo = "NONE"

// dateLayout is the [time] layout of a stored release date.
const dateLayout = "01.2006"

// Song is a single card of the game as stored in the collection file.
//
// Field order matches the persisted layout.
type Song struct {
	ID      int    `json:"id"`
	Artist  string `json:"artist"`
	Title   string `json:"song"`
	Date    string `json:"date,omitempty"`
	VideoID string `json:"vidId,omitempty"`
}

// HasVideo reports whether the song carries a real video reference (not empty, not [NoVideo]).
func (s Song) HasVideo() bool {
	v := strings.TrimSpace(s.VideoID)
	return v != "" && v != NoVideo
}

// CardURL returns the payload encoded in the card's QR code.
func (s Song) CardURL(base string) string {
	return base + strconv.Itoa(s.ID)
}

// Date is a parsed release date with month precision.
type Date struct {
	Month int
	Year  int
}

// String formats the date as MM.YYYY.
func (d Date) String() string {
	return fmt.Sprintf("%02d.%04d", d.Month, d.Year)
}

// ParseDate parses a stored MM.YYYY date. The month must be 1-12 and the year must have four digits.
func ParseDate(s string) (Date, error) {
	month, year, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Date{}, fmt.Errorf("date %q: missing separator", s)
	}
	if len(year) != 4 {
		return Date{}, fmt.Errorf("date %q: year must have 4 digits", s)
	}

	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return Date{}, fmt.Errorf("date %q: invalid month", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 0 {
		return Date{}, fmt.Errorf("date %q: invalid year", s)
	}

	return Date{Month: m, Year: y}, nil
}

// FormatDate formats an instant as a stored MM.YYYY date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// IDs returns the song identifiers in collection order.
func IDs(songs []Song) []int {
	ids := make([]int, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	return ids
}

// FindByID returns the song with the given identifier.
func FindByID(songs []Song, id int) (*Song, bool) {
	for i := range songs {
		if songs[i].ID == id {
			return &songs[i], true
		}
	}
	return nil, false
}
