package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songdeck/internal/formatter"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/repositories"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/desertthunder/songdeck/internal/store"
	"github.com/desertthunder/songdeck/internal/tasks"
	"github.com/urfave/cli/v3"
)

// passFunc is one of the [tasks.Reconciler] passes.
type passFunc func(ctx context.Context, collection string, songs []models.Song, progress chan<- tasks.ProgressUpdate) (*tasks.Summary, error)

// Dates resolves every song's release date and saves the collection when something changed.
func (r *Runner) Dates(ctx context.Context, cmd *cli.Command) error {
	c := r.config.Dates
	reconciler := tasks.NewReconciler(shared.WithLogger(r.logger, "pass", "dates")).
		WithDates(tasks.NewDateResolver(r.musicCatalog(), c.ResultLimit), tasks.NewPacer(c.SongDelay))

	return r.reconcile(ctx, cmd, "Resolving release dates", reconciler, reconciler.Dates)
}

// Videos validates every video reference and searches replacements within the run's budget.
//
// The API key is checked before the collection is touched.
func (r *Runner) Videos(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.videoCatalog()
	if err != nil {
		return err
	}

	c := r.config.Videos
	budget := c.MaxSearchesPerRun
	if cmd.IsSet("max-searches") {
		budget = cmd.Int("max-searches")
	}

	reconciler := tasks.NewReconciler(shared.WithLogger(r.logger, "pass", "videos")).WithVideos(
		tasks.NewVideoValidator(catalog, c.BatchSize, c.RequireEmbeddable),
		tasks.NewVideoResolver(catalog, c.SearchSuffix),
		tasks.NewPacer(c.ItemDelay),
		budget,
	)

	return r.reconcile(ctx, cmd, "Checking video references", reconciler, reconciler.Videos)
}

// reconcile runs one pass over the locked collection, prints the per-song status lines
// and the summary, records the run and saves the result.
//
// Nothing is saved when the pass was interrupted or with --dry-run.
func (r *Runner) reconcile(ctx context.Context, cmd *cli.Command, title string, reconciler *tasks.Reconciler, pass passFunc) error {
	path := r.config.Collection.Path
	output := cmd.String("output")
	if output == "" {
		output = path
	}
	dryRun := cmd.Bool("dry-run")

	unlock, err := r.lockCollection()
	if err != nil {
		return err
	}
	defer r.closeQuietly("collection lock", unlock)

	songs, err := r.loadCollection()
	if err != nil {
		return err
	}

	if !dryRun {
		if db := r.openHistory(); db != nil {
			defer r.closeQuietly("history database", db.Close)
			reconciler.SetRecorder(repositories.NewHistoryRecorder(db))
		}
	}

	r.writePlainHeader(title)
	r.writePlain("Collection: %s (%d songs)\n\n", path, len(songs))

	progress := make(chan tasks.ProgressUpdate, len(songs)+4)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		r.printProgress(progress, cmd.Bool("all"))
	}()

	summary, err := pass(ctx, path, songs, progress)
	close(progress)
	<-printed

	if summary == nil {
		return err
	}

	r.writePlainln("%s", formatter.SummaryText(summary))
	if err != nil {
		return fmt.Errorf("pass interrupted, %s left unchanged: %w", output, err)
	}

	switch {
	case dryRun:
		r.writePlain("Dry run: %d changes not saved\n", summary.Changed())
	case summary.Changed() == 0 && output == path:
		r.writePlain("No changes\n")
	default:
		if err := store.Save(output, songs); err != nil {
			return err
		}
		r.logger.Info("collection saved", "path", output, "changed", summary.Changed())
		r.writePlain("✓ Saved %d changes to %s\n", summary.Changed(), output)
	}

	return nil
}

// printProgress writes a status line for each per-song outcome until progress is closed.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate, all bool) {
	colorize := formatter.ShouldColorize(r.output)
	for update := range progress {
		switch update.Phase {
		case tasks.ValidateVideos:
			r.writePlain("%s\n", update.Message)
		case tasks.ResolveDates, tasks.ResolveVideos:
			o, ok := update.Data.(tasks.Outcome)
			if !ok {
				continue
			}
			if !all && (o.Status == tasks.Matched || o.Status == tasks.Valid) {
				continue
			}
			r.writePlain("%s\n", formatter.StatusLine(o, colorize))
		}
	}
}
