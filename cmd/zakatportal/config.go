package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"zakatportal/internal/api"
	"zakatportal/pkg/types"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func loadConfig(cCtx *cli.Context) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(cCtx.String("env-prefix"), c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if strings.TrimSpace(c.BackendURL) == "" {
		return nil, fmt.Errorf("set BACKEND_URL")
	}

	switch c.SessionStore {
	case types.SessionStoreCookie:
	case types.SessionStorePostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("set DATABASE_URL when SESSION_STORE is %s", types.SessionStorePostgres)
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.DocumentRows <= 0 {
		c.DocumentRows = 1
	}

	return c, nil
}

func newLogger(config *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func newBackendClient(config *types.Config, logger logrus.FieldLogger) *api.Client {
	httpClient := &http.Client{
		Timeout: time.Duration(config.BackendTimeoutSec) * time.Second,
	}

	return api.New(config.BackendURL, httpClient, logger)
}
