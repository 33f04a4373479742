package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/services"
	"github.com/desertthunder/songdeck/internal/shared"
)

// DefaultResultLimit is the number of candidates requested per song.
const DefaultResultLimit = 10

// DateResolver resolves a song's release date against a music catalog.
type DateResolver struct {
	catalog services.MusicCatalog
	limit   int
}

// NewDateResolver creates a resolver requesting up to limit candidates per query.
func NewDateResolver(catalog services.MusicCatalog, limit int) *DateResolver {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	return &DateResolver{catalog: catalog, limit: limit}
}

// Resolve queries the catalog for song and picks the earliest release timestamp among the candidates.
//
// On [Updated] the song's Date is replaced. Every failure is returned as a [Failed] outcome.
func (r *DateResolver) Resolve(ctx context.Context, song *models.Song) Outcome {
	old := song.Date

	candidates, err := r.catalog.Search(ctx, shared.NormalizeQuery(song.Artist, song.Title), r.limit)
	if err != nil {
		o := newOutcome(Failed, song, old)
		o.Err = err
		return o
	}
	if len(candidates) == 0 {
		return newOutcome(NotFound, song, old)
	}

	earliest, ok, err := EarliestRelease(candidates)
	if err != nil {
		o := newOutcome(Failed, song, old)
		o.Err = err
		return o
	}
	if !ok {
		return newOutcome(NoReleaseDate, song, old)
	}

	date := models.FormatDate(earliest)
	if date == old {
		return newOutcome(Matched, song, old)
	}

	song.Date = date
	o := newOutcome(Updated, song, old)
	o.New = date
	return o
}

// EarliestRelease returns the earliest release timestamp among candidates.
//
// Candidates without a timestamp are ignored. Ties keep the first one encountered.
// ok is false when no candidate carries a timestamp.
func EarliestRelease(candidates []services.Candidate) (earliest time.Time, ok bool, err error) {
	for _, c := range candidates {
		if !c.HasReleaseDate() {
			continue
		}
		t, err := time.Parse(time.RFC3339, c.ReleaseDate)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: %q: %v", shared.ErrInvalidDate, c.ReleaseDate, err)
		}
		t = t.UTC()
		if !ok || t.Before(earliest) {
			earliest, ok = t, true
		}
	}
	return earliest, ok, nil
}
