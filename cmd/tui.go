package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/repositories"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/desertthunder/songdeck/internal/store"
	"github.com/desertthunder/songdeck/internal/tasks"
	"github.com/desertthunder/songdeck/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI over the collection.
//
// The video pass is only offered when the API key is set.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/songdeck-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.logger = fileLogger

	unlock, err := r.lockCollection()
	if err != nil {
		return err
	}
	defer r.closeQuietly("collection lock", unlock)

	songs, err := r.loadCollection()
	if err != nil {
		return err
	}

	reconciler := tasks.NewReconciler(r.logger).WithDates(
		tasks.NewDateResolver(r.musicCatalog(), r.config.Dates.ResultLimit),
		tasks.NewPacer(r.config.Dates.SongDelay),
	)
	if catalog, err := r.videoCatalog(); err == nil {
		c := r.config.Videos
		reconciler.WithVideos(
			tasks.NewVideoValidator(catalog, c.BatchSize, c.RequireEmbeddable),
			tasks.NewVideoResolver(catalog, c.SearchSuffix),
			tasks.NewPacer(c.ItemDelay),
			c.MaxSearchesPerRun,
		)
	} else {
		r.logger.Warn("video pass disabled", "error", err)
	}

	if db := r.openHistory(); db != nil {
		defer r.closeQuietly("history database", db.Close)
		reconciler.SetRecorder(repositories.NewHistoryRecorder(db))
	}

	path := r.config.Collection.Path
	model := ui.NewModel(ctx, songs, ui.Options{
		Collection: path,
		CardBase:   r.config.Cards.BaseURL,
		Reconciler: reconciler,
		Save:       func(songs []models.Song) error { return store.Save(path, songs) },
	})
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
