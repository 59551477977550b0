package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AdamBeresnev/rec-tournaments/internal/config"
	"github.com/AdamBeresnev/rec-tournaments/internal/db"
	"github.com/AdamBeresnev/rec-tournaments/internal/metrics"
	"github.com/AdamBeresnev/rec-tournaments/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

type app struct {
	out      io.Writer
	logger   *slog.Logger
	database *sqlx.DB
	services *service.Services
}

func main() {
	a := &app{out: os.Stdout}

	cliApp := &cli.App{
		Name:  "bracket",
		Usage: "run recreational league tournaments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				EnvVars: []string{"METRICS_FILE"},
				Usage:   "write Prometheus metrics to this file after the command, for the node exporter textfile collector",
			},
		},
		Before: a.setup,
		After:  a.teardown,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(a.out, "Database is up to date")
					return nil
				},
			},
			a.teamCommand(),
			a.tournamentCommand(),
			a.scoreCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setup loads config, opens the database and brings the schema up to date
// before any command runs.
func (a *app) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a.logger = cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(a.logger)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	if err := db.RunMigrations(database.DB); err != nil {
		database.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a.database = database
	a.services = service.New(database, nil, a.logger, metrics.NewRecorder(prometheus.DefaultRegisterer))
	return nil
}

func (a *app) teardown(c *cli.Context) error {
	if path := c.String("metrics-file"); path != "" {
		if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
			slog.Error("failed to write metrics", "path", path, "error", err)
		}
	}

	if a.database == nil {
		return nil
	}
	return a.database.Close()
}
