package tasks

import (
	"fmt"

	"github.com/desertthunder/songdeck/internal/models"
)

// Status is the terminal state of one song in a reconciliation pass.
type Status int

const (
	// Date pass
	Updated Status = iota
	Matched
	NoReleaseDate
	NotFound

	// Video pass
	Valid
	Replaced
	Unresolved
	Deferred

	// Either pass
	Failed
)

func (s Status) String() string {
	switch s {
	case Updated:
		return "updated"
	case Matched:
		return "matched"
	case NoReleaseDate:
		return "no_date"
	case NotFound:
		return "not_found"
	case Valid:
		return "valid"
	case Replaced:
		return "replaced"
	case Unresolved:
		return "unresolved"
	case Deferred:
		return "deferred"
	case Failed:
		return "error"
	default:
		return ""
	}
}

// Label is the console label of the status.
func (s Status) Label() string {
	switch s {
	case Updated:
		return "UPDATED"
	case Matched:
		return "MATCH"
	case NoReleaseDate:
		return "NO DATE"
	case NotFound:
		return "NOT FOUND"
	case Valid:
		return "VALID"
	case Replaced:
		return "REPLACED"
	case Unresolved:
		return "NO REPLACEMENT"
	case Deferred:
		return "SKIPPED"
	case Failed:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus maps a stored status name back to a [Status].
func ParseStatus(name string) (Status, bool) {
	for s := Updated; s <= Failed; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// Changed reports whether the status mutated the song.
func (s Status) Changed() bool {
	return s == Updated || s == Replaced
}

// Problem reports whether the status belongs in the end-of-run error list.
//
// Deferred is not a problem: it is reported separately as skipped.
func (s Status) Problem() bool {
	switch s {
	case NoReleaseDate, NotFound, Unresolved, Failed:
		return true
	default:
		return false
	}
}

// Outcome is the explicit result of processing one song.
type Outcome struct {
	Status Status
	SongID int
	Artist string
	Title  string
	Old    string // value before the pass (date or video reference)
	New    string // value after the pass, equal to Old unless Status.Changed()
	Err    error  // set for Failed, and for Unresolved when the search itself failed
}

func newOutcome(status Status, song *models.Song, old string) Outcome {
	return Outcome{Status: status, SongID: song.ID, Artist: song.Artist, Title: song.Title, Old: old, New: old}
}

// Detail describes the outcome for status lines and the error summary.
func (o Outcome) Detail() string {
	switch o.Status {
	case Updated, Replaced:
		return fmt.Sprintf("%s -> %s", display(o.Old), o.New)
	case Matched, Valid:
		return o.New
	case NoReleaseDate:
		return "catalog entries carry no release date"
	case NotFound:
		return "no catalog results"
	case Deferred:
		return "skipped to protect quota"
	case Unresolved:
		if o.Err != nil {
			return o.Err.Error()
		}
		return "no replacement found"
	case Failed:
		if o.Err != nil {
			return o.Err.Error()
		}
		return "unknown error"
	default:
		return ""
	}
}

// SummaryLine formats the outcome as an entry of the error list.
func (o Outcome) SummaryLine() string {
	return fmt.Sprintf("ID %d - %s: %s (%s)", o.SongID, o.Artist, o.Status.Label(), o.Detail())
}

func display(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
