package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/tasks"
)

// HistoryRecorder implements [tasks.Recorder] on top of the run and entry repositories.
//
// Outcomes that left a song as it was and needed no attention (matched dates, valid
// references) are counted on the run but not stored as entries.
type HistoryRecorder struct {
	Runs    *RunRepository
	Entries *EntryRepository
}

// NewHistoryRecorder creates a recorder writing to db.
func NewHistoryRecorder(db *sql.DB) *HistoryRecorder {
	return &HistoryRecorder{Runs: NewRunRepository(db), Entries: NewEntryRepository(db)}
}

// Record stores the run and its notable entries.
func (h *HistoryRecorder) Record(ctx context.Context, s *tasks.Summary) error {
	run := RunFromSummary(s)
	if err := h.Runs.Create(run); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	var entries []*models.RunEntry
	for i, o := range s.Outcomes {
		if o.Status == tasks.Matched || o.Status == tasks.Valid {
			continue
		}
		entries = append(entries, &models.RunEntry{
			Position:  i,
			SongID:    o.SongID,
			Artist:    o.Artist,
			Title:     o.Title,
			Outcome:   o.Status.String(),
			OldValue:  o.Old,
			NewValue:  o.New,
			Detail:    o.Detail(),
			CreatedAt: s.FinishedAt,
		})
	}

	if err := h.Entries.CreateBatch(run.ID(), entries); err != nil {
		return fmt.Errorf("failed to record entries: %w", err)
	}
	return nil
}

// RunFromSummary converts a finished pass into a [models.Run].
func RunFromSummary(s *tasks.Summary) *models.Run {
	run := models.NewRun(0, s.Kind, s.Collection, s.Total)
	run.SetStartedAt(s.StartedAt)
	run.SetCounts(s.Changed(), len(s.Problems()), s.Deferred())
	if s.Kind == models.RunVideos {
		run.SetSearches(s.SearchesUsed, s.SearchBudget)
	}
	if s.Err != nil {
		run.SetErrorMessage(s.Err.Error())
	}
	run.Finish(s.FinishedAt)

	// a partial validation still completes the run
	if s.Err == nil && s.ValidationErr != nil {
		run.SetErrorMessage("validation stopped early: " + s.ValidationErr.Error())
	}
	return run
}
