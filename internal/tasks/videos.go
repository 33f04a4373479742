package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/services"
	"github.com/desertthunder/songdeck/internal/shared"
)

// Budget counts the quota-limited searches of one run.
//
// A Budget is owned by a single pass and is not safe for concurrent use.
type Budget struct {
	limit int
	used  int
}

// NewBudget creates a budget allowing limit searches. A negative limit allows none.
func NewBudget(limit int) *Budget {
	if limit < 0 {
		limit = 0
	}
	return &Budget{limit: limit}
}

// TryConsume takes one unit and reports whether one was available.
func (b *Budget) TryConsume() bool {
	if b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

func (b *Budget) Used() int      { return b.used }
func (b *Budget) Limit() int     { return b.limit }
func (b *Budget) Remaining() int { return b.limit - b.used }

// Exhausted reports whether no searches are left.
func (b *Budget) Exhausted() bool { return b.used >= b.limit }

// VideoValidator checks video references against the catalog in batches.
type VideoValidator struct {
	catalog           services.VideoCatalog
	batchSize         int
	requireEmbeddable bool
}

// NewVideoValidator creates a validator. batchSize is capped at [services.MaxStatusBatch].
func NewVideoValidator(catalog services.VideoCatalog, batchSize int, requireEmbeddable bool) *VideoValidator {
	if batchSize <= 0 || batchSize > services.MaxStatusBatch {
		batchSize = services.MaxStatusBatch
	}
	return &VideoValidator{catalog: catalog, batchSize: batchSize, requireEmbeddable: requireEmbeddable}
}

// Batches returns the distinct real references of ids, split into query batches.
//
// The sentinel and empty values are dropped. Order of first appearance is kept.
func (v *VideoValidator) Batches(ids []string) [][]string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == models.NoVideo || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	var batches [][]string
	for start := 0; start < len(unique); start += v.batchSize {
		end := min(start+v.batchSize, len(unique))
		batches = append(batches, unique[start:end])
	}
	return batches
}

// ValidateBatch returns the subset of ids confirmed valid.
//
// A failing batch stops validation. The ids confirmed by earlier batches are still
// returned together with the error; ids of the failed and remaining batches are absent
// from the set and therefore count as invalid.
func (v *VideoValidator) ValidateBatch(ctx context.Context, ids []string) (map[string]bool, error) {
	valid := make(map[string]bool)
	batches := v.Batches(ids)

	for i, batch := range batches {
		statuses, err := v.catalog.Statuses(ctx, batch)
		if err != nil {
			return valid, fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err)
		}
		for _, s := range statuses {
			if s.Valid(v.requireEmbeddable) {
				valid[s.ID] = true
			}
		}
	}
	return valid, nil
}

// VideoResolver searches a replacement for an invalid video reference.
type VideoResolver struct {
	catalog services.VideoCatalog
	suffix  string
}

// NewVideoResolver creates a resolver appending suffix (e.g. "lyrics") to every query.
func NewVideoResolver(catalog services.VideoCatalog, suffix string) *VideoResolver {
	return &VideoResolver{catalog: catalog, suffix: suffix}
}

// Query returns the search query for song.
func (r *VideoResolver) Query(song *models.Song) string {
	return shared.NormalizeQuery(song.Artist, song.Title, r.suffix)
}

// Resolve spends one unit of budget on a search for song and applies the top match.
//
// An exhausted budget yields [Deferred] without calling the catalog. The unit is
// consumed whether or not the search succeeds.
func (r *VideoResolver) Resolve(ctx context.Context, song *models.Song, budget *Budget) Outcome {
	old := song.VideoID
	if !budget.TryConsume() {
		return newOutcome(Deferred, song, old)
	}

	id, err := r.catalog.Search(ctx, r.Query(song))
	switch {
	case errors.Is(err, shared.ErrNoResults):
		return newOutcome(Unresolved, song, old)
	case err != nil:
		o := newOutcome(Failed, song, old)
		o.Err = err
		return o
	case id == strings.TrimSpace(old):
		o := newOutcome(Unresolved, song, old)
		o.Err = fmt.Errorf("top match is the current reference %s", id)
		return o
	}

	song.VideoID = id
	o := newOutcome(Replaced, song, old)
	o.New = id
	return o
}
