package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

// Recorder persists the summary of a finished pass.
type Recorder interface {
	Record(ctx context.Context, s *Summary) error
}

// Reconciler drives one pass over the collection, strictly in collection order and one
// external call at a time.
//
// Per-song failures are contained in the returned [Summary]; only an interrupted context
// or a missing catalog stops a pass.
type Reconciler struct {
	logger *log.Logger

	dates     *DateResolver
	datePacer *Pacer

	validator   *VideoValidator
	videos      *VideoResolver
	videoPacer  *Pacer
	maxSearches int

	recorder Recorder
	clock    func() time.Time
}

// NewReconciler creates a reconciler with no catalogs configured.
func NewReconciler(logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Reconciler{logger: logger, clock: time.Now}
}

// WithDates configures the date pass.
func (r *Reconciler) WithDates(resolver *DateResolver, pacer *Pacer) *Reconciler {
	r.dates = resolver
	r.datePacer = pacer
	return r
}

// WithVideos configures the video pass. maxSearches is the per-run search budget.
func (r *Reconciler) WithVideos(validator *VideoValidator, resolver *VideoResolver, pacer *Pacer, maxSearches int) *Reconciler {
	r.validator = validator
	r.videos = resolver
	r.videoPacer = pacer
	r.maxSearches = maxSearches
	return r
}

// SetRecorder sets an optional recorder called once per finished pass.
//
// Recording errors are logged and never fail the pass.
func (r *Reconciler) SetRecorder(rec Recorder) {
	r.recorder = rec
}

func (r *Reconciler) begin(kind models.RunKind, collection string, total int) *Summary {
	return &Summary{Kind: kind, Collection: collection, Total: total, StartedAt: r.clock()}
}

func (r *Reconciler) finish(ctx context.Context, s *Summary, progress chan<- ProgressUpdate) {
	s.FinishedAt = r.clock()

	if r.recorder != nil {
		if err := r.recorder.Record(context.WithoutCancel(ctx), s); err != nil {
			r.logger.Warn("failed to record run", "kind", s.Kind, "error", err)
		}
	}

	sendProgress(progress, finishedUpdate(s))
}

func (r *Reconciler) log(o Outcome) {
	kv := []any{"id", o.SongID, "artist", o.Artist, "title", o.Title, "outcome", o.Status}
	switch o.Status {
	case Updated, Replaced:
		r.logger.Info(o.Status.Label(), append(kv, "old", o.Old, "new", o.New)...)
	case Matched, Valid:
		r.logger.Debug(o.Status.Label(), kv...)
	case Failed:
		r.logger.Error(o.Status.Label(), append(kv, "error", o.Err)...)
	default:
		r.logger.Warn(o.Status.Label(), append(kv, "detail", o.Detail())...)
	}
}

// Dates resolves the release date of every song in songs, mutating them in place.
func (r *Reconciler) Dates(ctx context.Context, collection string, songs []models.Song, progress chan<- ProgressUpdate) (*Summary, error) {
	if r.dates == nil {
		return nil, fmt.Errorf("%w: music catalog not configured", shared.ErrServiceUnavailable)
	}

	summary := r.begin(models.RunDates, collection, len(songs))
	summary.Outcomes = make([]Outcome, 0, len(songs))

	for i := range songs {
		if err := r.datePacer.Wait(ctx); err != nil {
			summary.Err = err
			break
		}

		o := r.dates.Resolve(ctx, &songs[i])
		r.datePacer.Done()
		if o.Status == Failed && ctx.Err() != nil {
			summary.Err = ctx.Err()
			break
		}

		summary.Outcomes = append(summary.Outcomes, o)
		r.log(o)
		sendProgress(progress, outcomeUpdate(ResolveDates, i+1, len(songs), o))
	}

	r.finish(ctx, summary, progress)
	return summary, summary.Err
}

// Videos validates every video reference in one batched check, then searches a
// replacement for each song whose reference is missing or invalid while the search
// budget lasts. Songs past the budget are [Deferred].
func (r *Reconciler) Videos(ctx context.Context, collection string, songs []models.Song, progress chan<- ProgressUpdate) (*Summary, error) {
	if r.validator == nil || r.videos == nil {
		return nil, fmt.Errorf("%w: video catalog not configured", shared.ErrServiceUnavailable)
	}

	summary := r.begin(models.RunVideos, collection, len(songs))
	summary.Outcomes = make([]Outcome, 0, len(songs))

	ids := make([]string, 0, len(songs))
	for _, s := range songs {
		ids = append(ids, s.VideoID)
	}

	sendProgress(progress, validateBatchUpdate(0, len(songs), len(ids)))
	valid, err := r.validator.ValidateBatch(ctx, ids)
	if err != nil {
		if ctx.Err() != nil {
			summary.Err = ctx.Err()
			r.finish(ctx, summary, progress)
			return summary, summary.Err
		}
		summary.ValidationErr = err
		r.logger.Error("validation stopped early, unchecked references count as invalid", "error", err, "confirmed", len(valid))
	}
	summary.ValidatedCount = len(valid)

	budget := NewBudget(r.maxSearches)
	for i := range songs {
		song := &songs[i]

		var o Outcome
		switch {
		case song.HasVideo() && valid[strings.TrimSpace(song.VideoID)]:
			o = newOutcome(Valid, song, song.VideoID)
		case budget.Exhausted():
			o = r.videos.Resolve(ctx, song, budget)
		default:
			if err := r.videoPacer.Wait(ctx); err != nil {
				summary.Err = err
			} else {
				o = r.videos.Resolve(ctx, song, budget)
				r.videoPacer.Done()
				if o.Status == Failed && ctx.Err() != nil {
					summary.Err = ctx.Err()
				}
			}
		}
		if summary.Err != nil {
			break
		}

		summary.Outcomes = append(summary.Outcomes, o)
		r.log(o)
		sendProgress(progress, outcomeUpdate(ResolveVideos, i+1, len(songs), o))
	}

	summary.SearchesUsed = budget.Used()
	summary.SearchBudget = budget.Limit()

	r.finish(ctx, summary, progress)
	return summary, summary.Err
}
