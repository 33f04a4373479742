package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/songdeck/internal/formatter"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/repositories"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists recorded runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	kind := models.RunKind(cmd.String("kind"))
	if kind != "" && kind != models.RunDates && kind != models.RunVideos {
		return fmt.Errorf("%w: kind must be dates or videos, got %q", shared.ErrInvalidFlag, kind)
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return err
	}
	defer r.closeQuietly("history database", db.Close)

	runs, err := repositories.NewRunRepository(db).List(map[string]any{"kind": kind, "limit": cmd.Int("limit")})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded\n")
	}
	return r.writePlain("%s\n", formatter.HistoryTable(runs))
}

// HistoryShow prints one run and its recorded outcomes. The run is identified by its sequence number.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("run")
	seq, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: run must be a sequence number, got %q", shared.ErrInvalidArgument, raw)
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return err
	}
	defer r.closeQuietly("history database", db.Close)

	recorder := repositories.NewHistoryRecorder(db)
	run, err := recorder.Runs.GetBySequence(seq)
	if err != nil {
		return err
	}
	entries, err := recorder.Entries.ListByRun(run.ID())
	if err != nil {
		return err
	}

	r.writePlain("%s\n", formatter.HistoryTable([]*models.Run{run}))
	if run.ErrorMessage() != "" {
		r.writePlain("Error: %s\n", run.ErrorMessage())
	}
	if len(entries) == 0 {
		return r.writePlainln("No notable outcomes")
	}
	return r.writePlainln("%s", formatter.EntriesTable(entries))
}

// HistorySong prints every recorded outcome of one song across runs.
func (r *Runner) HistorySong(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: song id must be a number, got %q", shared.ErrInvalidArgument, raw)
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return err
	}
	defer r.closeQuietly("history database", db.Close)

	entries, err := repositories.NewEntryRepository(db).ListBySong(id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return r.writePlain("No outcomes recorded for song %d\n", id)
	}
	return r.writePlain("%s\n", formatter.EntriesTable(entries))
}
