package main

import (
	"fmt"
	"time"

	"zakatportal/internal/db"
	"zakatportal/internal/store"

	"github.com/urfave/cli/v2"
)

var sessionsCommand = &cli.Command{
	Name:  "sessions",
	Usage: "Manage server-side applicant sessions",
	Subcommands: []*cli.Command{
		{
			Name:  "prune",
			Usage: "Delete expired sessions from the database",
			Action: func(c *cli.Context) error {
				config, err := loadConfig(c)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}

				logger := newLogger(config)

				pool, err := db.Connect(c.Context, config, logger)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer pool.Close()

				removed, err := store.NewSessionRepository(pool).DeleteExpired(c.Context, time.Now())
				if err != nil {
					return err
				}

				logger.WithField("removed", removed).Info("expired sessions pruned")
				return nil
			},
		},
	},
}
