package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/songdeck/internal/formatter"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

var openBrowser = shared.OpenBrowser

// Report prints how many songs were released in each year, with undated songs as warnings.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.loadCollection()
	if err != nil {
		return err
	}

	report := formatter.BuildYearReport(songs)
	r.writePlainHeader(fmt.Sprintf("Release years (%d songs)", len(songs)))
	return r.writePlain("%s", formatter.RenderYearReport(report))
}

// Export writes the collection with card URLs in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	songs, err := r.loadCollection()
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" || output == "-" {
		data, err := formatter.Export(format, songs, r.config.Cards.BaseURL)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	if err := formatter.WriteExport(format, songs, r.config.Cards.BaseURL, output); err != nil {
		return err
	}
	r.logger.Info("collection exported", "format", format, "path", output, "songs", len(songs))
	return nil
}

// Open opens the video of the song with the given id in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	song, err := r.findSong(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if !song.HasVideo() {
		return fmt.Errorf("%w: song %d has no video", shared.ErrNoResults, song.ID)
	}

	url := shared.VideoURL(song.VideoID)
	if cmd.Bool("print") {
		return r.writePlain("%s\n", url)
	}

	r.logger.Info("opening video", "id", song.ID, "url", url)
	return openBrowser(url)
}

func (r *Runner) findSong(rawID string) (*models.Song, error) {
	if rawID == "" {
		return nil, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: song id must be a number, got %q", shared.ErrInvalidArgument, rawID)
	}

	songs, err := r.loadCollection()
	if err != nil {
		return nil, err
	}

	song, ok := models.FindByID(songs, id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}
	return song, nil
}
