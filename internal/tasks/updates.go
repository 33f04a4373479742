package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveDates Phase = iota
	ValidateVideos
	ResolveVideos
	Finished
)

func (p Phase) String() string {
	switch p {
	case ResolveDates:
		return "resolve_dates"
	case ValidateVideos:
		return "validate_videos"
	case ResolveVideos:
		return "resolve_videos"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func outcomeUpdate(phase Phase, step, total int, o Outcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s: %s", step, total, o.Artist, o.Title, o.Status.Label()),
		Data:    o,
	}
}

func validateBatchUpdate(step, total, ids int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Checking %d references...", ids),
	}
}

func finishedUpdate(s *Summary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Step:    s.Total,
		Total:   s.Total,
		Message: fmt.Sprintf("Done: %d changed, %d problems, %d skipped", s.Changed(), len(s.Problems()), s.Deferred()),
		Data:    s,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
