// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand starts the web front-end
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the torrent overview and submission form over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to bind (overrides server.host)",
				Value: "127.0.0.1",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
				Value:   5000,
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the index page in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// torrentsCommand handles torrent listing and submission
func torrentsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "torrents",
		Aliases: []string{"t"},
		Usage:   "List and add torrents",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List torrents split into in progress and completed",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Also write the list to a CSV file",
					},
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "qBittorrent state filter (all, downloading, completed, paused, active, ...)",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only torrents in this category",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort by this torrent field",
					},
					&cli.BoolFlag{
						Name:  "reverse",
						Usage: "Reverse the sort order",
					},
				},
				Action: r.TorrentsList,
			},
			{
				Name:      "add",
				Usage:     "Submit one or more magnet links or torrent URLs",
				ArgsUsage: "<url> [url...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category for the new torrents",
					},
					&cli.StringFlag{
						Name:  "savepath",
						Usage: "Download folder",
					},
					&cli.BoolFlag{
						Name:  "paused",
						Usage: "Add in the paused state",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent submissions when several URLs are given (1-10)",
						Value: 3,
					},
				},
				Action: r.TorrentsAdd,
			},
			{
				Name:      "show",
				Usage:     "Show the properties and files of one torrent",
				ArgsUsage: "<hash>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "hash",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TorrentsShow,
			},
		},
	}
}

// authCommand handles authentication checks
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Check the configured qBittorrent credentials",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Log in and report the qBittorrent version",
				Action: r.AuthStatus,
			},
		},
	}
}

// apiCommand handles direct calls to the qBittorrent Web API
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the qBittorrent Web API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Authenticated GET, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// historyCommand reads the submission history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Submission history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show recent submissions, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of submissions to show",
						Value:   20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "accepted",
						Usage: "Only submissions qBittorrent accepted",
					},
					&cli.BoolFlag{
						Name:  "rejected",
						Usage: "Only submissions qBittorrent refused",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:      "retry",
				Usage:     "Submit a recorded URL again and update its outcome",
				ArgsUsage: "<#>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "sequence",
					},
				},
				Action: r.HistoryRetry,
			},
			{
				Name:      "delete",
				Usage:     "Remove a submission from the history",
				ArgsUsage: "<#>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "sequence",
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the history database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recently applied migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive torrent dashboard",
		Action:  r.TUI,
	}
}
