package models

import (
	"fmt"
	"time"
)

// RunKind names the pass a [Run] performed.
type RunKind string

const (
	RunDates  RunKind = "dates"
	RunVideos RunKind = "videos"
)

// RunStatus is the lifecycle state of a [Run].
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one reconciliation pass over the collection.
type Run struct {
	id           string
	sequence     int
	kind         RunKind
	status       RunStatus
	collection   string
	total        int
	updated      int
	failed       int
	deferred     int
	searchesUsed int
	searchBudget int
	errorMessage string
	startedAt    time.Time
	finishedAt   *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewRun creates a running [Run] for the given pass and collection path.
func NewRun(sequence int, kind RunKind, collection string, total int) *Run {
	now := time.Now()
	return &Run{
		sequence:   sequence,
		kind:       kind,
		status:     RunRunning,
		collection: collection,
		total:      total,
		startedAt:  now,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (r *Run) ID() string             { return r.id }
func (r *Run) Sequence() int          { return r.sequence }
func (r *Run) Kind() RunKind          { return r.kind }
func (r *Run) Status() RunStatus      { return r.status }
func (r *Run) Collection() string     { return r.collection }
func (r *Run) Total() int             { return r.total }
func (r *Run) Updated() int           { return r.updated }
func (r *Run) Failed() int            { return r.failed }
func (r *Run) Deferred() int          { return r.deferred }
func (r *Run) SearchesUsed() int      { return r.searchesUsed }
func (r *Run) SearchBudget() int      { return r.searchBudget }
func (r *Run) ErrorMessage() string   { return r.errorMessage }
func (r *Run) StartedAt() time.Time   { return r.startedAt }
func (r *Run) FinishedAt() *time.Time { return r.finishedAt }
func (r *Run) CreatedAt() time.Time   { return r.createdAt }
func (r *Run) UpdatedAt() time.Time   { return r.updatedAt }

func (r *Run) SetID(id string)                { r.id = id }
func (r *Run) SetSequence(seq int)            { r.sequence = seq }
func (r *Run) SetStartedAt(t time.Time)       { r.startedAt = t }
func (r *Run) SetCreatedAt(t time.Time)       { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time)       { r.updatedAt = t }
func (r *Run) SetErrorMessage(message string) { r.errorMessage = message }

// SetCounts records the outcome counters of the pass.
func (r *Run) SetCounts(updated, failed, deferred int) {
	r.updated = updated
	r.failed = failed
	r.deferred = deferred
}

// SetSearches records search budget consumption.
func (r *Run) SetSearches(used, budget int) {
	r.searchesUsed = used
	r.searchBudget = budget
}

// Finish marks the run completed (or failed when an error message is set).
func (r *Run) Finish(at time.Time) {
	r.finishedAt = &at
	r.updatedAt = at
	if r.errorMessage != "" {
		r.status = RunFailed
	} else {
		r.status = RunCompleted
	}
}

// Restore sets the fields that are only known when loading from storage.
func (r *Run) Restore(status RunStatus, finishedAt *time.Time) {
	r.status = status
	r.finishedAt = finishedAt
}

// Validate checks the run's required fields.
func (r *Run) Validate() error {
	switch r.kind {
	case RunDates, RunVideos:
	default:
		return fmt.Errorf("invalid run kind: %q", r.kind)
	}
	if r.collection == "" {
		return fmt.Errorf("collection path is required")
	}
	if r.total < 0 {
		return fmt.Errorf("total must not be negative")
	}
	return nil
}

// RunEntry is a single per-song outcome recorded for a [Run].
type RunEntry struct {
	ID        string
	RunID     string
	Position  int
	SongID    int
	Artist    string
	Title     string
	Outcome   string
	OldValue  string
	NewValue  string
	Detail    string
	CreatedAt time.Time
}
