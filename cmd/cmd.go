// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func passFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the reconciled collection here instead of in place",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Run the pass without saving the collection",
		},
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Print a status line for every song, including unchanged ones",
		},
	}
}

// datesCommand resolves release dates against the music catalog
func datesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "dates",
		Usage:  "Resolve each song's release date (MM.YYYY) from the music catalog",
		Flags:  passFlags(),
		Action: r.Dates,
	}
}

// videosCommand validates and replaces video references
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "videos",
		Usage: "Validate video references in batches and search replacements within the quota budget",
		Flags: append(passFlags(),
			&cli.IntFlag{
				Name:  "max-searches",
				Usage: "Search budget for this run (overrides videos.max_searches_per_run)",
			},
		),
		Action: r.Videos,
	}
}

// reportCommand prints the release year histogram
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "report",
		Usage:  "Show how many songs were released in each year",
		Action: r.Report,
	}
}

// exportCommand renders the collection with card URLs
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the collection with card URLs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"F"},
				Usage:   "Output format: csv, markdown or text",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
		},
		Action: r.Export,
	}
}

// historyCommand lists recorded reconciliation runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded reconciliation runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Only show runs of this kind (dates or videos)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
		},
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the recorded outcomes of one run",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "run"},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "song",
				Usage: "Show every recorded outcome of one song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.HistorySong,
			},
		},
	}
}

// serveCommand runs the card scanner backend
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the collection to the card scanner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "origin",
				Usage: "Allowed CORS origin",
				Value: "*",
			},
		},
		Action: r.Serve,
	}
}

// openCommand opens a song's video in the browser
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open a song's video in the browser",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "print",
				Usage: "Print the URL instead of opening it",
			},
		},
		Action: r.Open,
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml with the default settings",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the run history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing the collection.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for the collection",
		Action:  r.TUI,
	}
}
