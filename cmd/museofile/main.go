package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Skotchmaster/museofile/internal/app"
	"github.com/Skotchmaster/museofile/internal/config"
	"github.com/Skotchmaster/museofile/pkg/db"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

func newCLI() *cli.App {
	return &cli.App{
		Name:  "museofile",
		Usage: "Museum search API with accounts and favorites",
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			purgeSessionsCmd(),
		},
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		log.Fatalf("museofile: %v", err)
	}
}

func loadConfig(load func() (*config.Config, error)) (*config.Config, *slog.Logger, error) {
	cfg, err := load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Migrate the database and start the HTTP server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "listen port, overrides SERVER_PORT",
				EnvVars: []string{"SERVER_PORT"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(config.Load)
			if err != nil {
				return err
			}
			if c.IsSet("port") {
				cfg.ServerPort = c.Int("port")
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			a, err := app.New(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			logger.Info("server_starting", "addr", cfg.Addr(), "token_strategy", cfg.TokenStrategy, "db_driver", cfg.DatabaseDriver)
			if err := a.Run(c.Context); err != nil {
				return err
			}
			logger.Info("server_stopped")
			return nil
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema and exit",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(config.LoadDatabase)
			if err != nil {
				return err
			}
			gdb, err := app.OpenDB(c.Context, cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			logger.Info("migrations_applied", "db_driver", cfg.DatabaseDriver)
			return nil
		},
	}
}

func purgeSessionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "purge-sessions",
		Usage: "Delete expired opaque token sessions from the database and exit",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(config.LoadDatabase)
			if err != nil {
				return err
			}
			gdb, err := app.OpenDB(c.Context, cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			n, err := app.PurgeSessions(c.Context, gdb, time.Now())
			if err != nil {
				return err
			}
			logger.Info("sessions_purged", "count", n)
			return nil
		},
	}
}
