package tasks

import (
	"time"

	"github.com/desertthunder/songdeck/internal/models"
)

// Summary is the run-scoped log of one reconciliation pass.
type Summary struct {
	Kind       models.RunKind
	Collection string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Outcomes   []Outcome // in collection order

	SearchesUsed   int
	SearchBudget   int
	ValidationErr  error // set when batch validation stopped early
	Err            error // set when the pass was interrupted
	ValidatedCount int   // distinct references confirmed valid
}

// Count returns the number of outcomes with status s.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Changed returns the number of songs mutated by the pass.
func (s *Summary) Changed() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status.Changed() {
			n++
		}
	}
	return n
}

// Problems returns the outcomes that belong in the error list.
func (s *Summary) Problems() []Outcome {
	var problems []Outcome
	for _, o := range s.Outcomes {
		if o.Status.Problem() {
			problems = append(problems, o)
		}
	}
	return problems
}

// Errors returns the itemized error list, one line per problem.
func (s *Summary) Errors() []string {
	problems := s.Problems()
	lines := make([]string, 0, len(problems))
	for _, o := range problems {
		lines = append(lines, o.SummaryLine())
	}
	return lines
}

// Deferred returns the number of songs skipped because the search budget ran out.
func (s *Summary) Deferred() int {
	return s.Count(Deferred)
}

// Completed reports whether the pass visited every song.
func (s *Summary) Completed() bool {
	return s.Err == nil
}

// Duration is the wall time of the pass.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
