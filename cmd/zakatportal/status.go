package main

import (
	"fmt"
	"time"

	"zakatportal/internal/application"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "Log in as an applicant and print their applications",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "Applicant username",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Applicant password",
			EnvVars: []string{"ZAKAT_STATUS_PASSWORD"},
		},
	},
	Action: func(c *cli.Context) error {
		config, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		password := c.String("password")
		if password == "" {
			return fmt.Errorf("set --password or ZAKAT_STATUS_PASSWORD")
		}

		logger := newLogger(config)
		client := newBackendClient(config, logger)

		login, err := client.Login(c.Context, c.String("username"), password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		sess := login.Session()
		if sess.Username == "" {
			sess.Username = c.String("username")
		}

		tracker := application.NewTracker(client.WithSession(sess), time.Duration(config.UploadCloseDelaySec)*time.Second)
		listing := tracker.Load(c.Context)
		if listing.Err != nil {
			return fmt.Errorf("%s: %w", listing.Error, listing.Err)
		}

		fmt.Printf("%s has %d application(s)\n", sess.Greeting(), len(listing.Applications))
		for _, app := range listing.Applications {
			pp.Println(app)
		}

		return nil
	},
}
