package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "ecohabit"
	app.Usage = "Track eco-friendly habits"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a TOML config file",
			EnvVars: []string{"ECOHABIT_CONFIG"},
		},
	}
	app.Before = s.prepare
	app.After = s.close
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the store over HTTP, exposes /metrics and runs the reminder and periodic sync jobs.`,
		},
		{
			Action:    s.logAction,
			Name:      "log",
			Usage:     "Log an eco-action",
			ArgsUsage: "[name]",
			Category:  "Store",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "preset", Usage: "Key of a preset action, such as bike"},
				&cli.IntFlag{Name: "points", Usage: "Points of a custom action"},
				&cli.StringFlag{Name: "category", Value: "transportation", Usage: "Category of a custom action"},
				&cli.StringFlag{Name: "description", Usage: "Description of a custom action"},
				&cli.Float64Flag{Name: "carbon", Usage: "Carbon saved by a custom action, in kg"},
			},
			Description: `Logs a preset action with --preset, or a custom one named by the argument.`,
		},
		{
			Action:   s.showStatus,
			Name:     "status",
			Usage:    "Show the user, the impact and the sync status",
			Category: "Store",
		},
		{
			Action:   s.sync,
			Name:     "sync",
			Usage:    "Synchronize the local store with the remote backend",
			Category: "Store",
		},
		{
			Action:   s.signIn,
			Name:     "signin",
			Usage:    "Sign in with email and password",
			Category: "Identity",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", Required: true},
			},
		},
		{
			Action:   s.signUp,
			Name:     "signup",
			Usage:    "Create an account",
			Category: "Identity",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "username", Required: true},
				&cli.StringFlag{Name: "password", Required: true},
				&cli.StringFlag{Name: "confirm-password", Usage: "Defaults to --password"},
			},
		},
		{
			Action:   s.signOut,
			Name:     "signout",
			Usage:    "Sign out and clear the local store",
			Category: "Identity",
		},
	}

	s.app = app
}
