package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/services"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/desertthunder/songdeck/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	httpClient *http.Client
	sleep      services.SleepFunc
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	HTTPClient *http.Client
	Sleep      services.SleepFunc // backoff sleep of the catalog clients; nil sleeps for real
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		httpClient: opts.HTTPClient,
		sleep:      opts.Sleep,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		datesCommand, videosCommand, reportCommand, exportCommand, historyCommand,
		serveCommand, openCommand, tuiCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure is the root Before hook: it applies --verbose, loads the config file
// when it exists and applies --collection.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	r.configPath = cmd.String("config")
	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("config loaded", "path", r.configPath)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	if path := cmd.String("collection"); path != "" {
		r.config.Collection.Path = path
	}
	return ctx, nil
}

// loadCollection reads the configured collection.
func (r *Runner) loadCollection() ([]models.Song, error) {
	songs, err := store.Load(r.config.Collection.Path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("collection loaded", "path", r.config.Collection.Path, "songs", len(songs))
	return songs, nil
}

// lockCollection takes the collection lock when collection.lock is set. The returned
// release func is never nil.
func (r *Runner) lockCollection() (func() error, error) {
	if !r.config.Collection.Lock {
		return func() error { return nil }, nil
	}
	return store.Lock(r.config.Collection.Path)
}

// openHistory opens the run history database. A nil database disables recording.
func (r *Runner) openHistory() *sql.DB {
	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		r.logger.Warn("run history unavailable, this run will not be recorded", "path", r.config.Database.Path, "error", err)
		return nil
	}
	return db
}

func (r *Runner) newClient(timeout time.Duration, maxRetries int, backoff time.Duration) *services.Client {
	opts := []services.ClientOption{
		services.WithHTTPClient(r.httpClient),
		services.WithLogger(r.logger),
	}
	if r.sleep != nil {
		opts = append(opts, services.WithSleep(r.sleep))
	}
	return services.NewClient(timeout, maxRetries, backoff, opts...)
}

// musicCatalog builds the release date catalog from the [dates] section.
func (r *Runner) musicCatalog() *services.ITunesService {
	c := r.config.Dates
	return services.NewITunesService(c.BaseURL, r.newClient(c.Timeout, c.MaxRetries, c.RateLimitBackoff))
}

// videoCatalog builds the video catalog from the [videos] section. The API key is required.
func (r *Runner) videoCatalog() (*services.YouTubeService, error) {
	key, err := r.config.APIKey()
	if err != nil {
		return nil, err
	}
	c := r.config.Videos
	return services.NewYouTubeService(c.BaseURL, key, r.newClient(c.Timeout, c.MaxRetries, c.RateLimitBackoff)), nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// closeQuietly closes c and logs a failure.
func (r *Runner) closeQuietly(what string, c func() error) {
	if err := c(); err != nil && !errors.Is(err, os.ErrClosed) {
		r.logger.Warn("failed to close", "what", what, "error", err)
	}
}
