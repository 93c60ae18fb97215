// Package db opens the Postgres pool behind the server-side session store.
package db

import (
	"context"
	"fmt"
	"time"

	"zakatportal/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/sirupsen/logrus"
)

const defaultSearchPath = "portal"

func Connect(ctx context.Context, config *types.Config, logger logrus.FieldLogger) (*pgxpool.Pool, error) {
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL to use the %s session store", types.SessionStorePostgres)
	}

	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	params := poolConfig.ConnConfig.RuntimeParams
	if _, ok := params["search_path"]; !ok {
		params["search_path"] = defaultSearchPath
	}
	params["application_name"] = "zakatportal"

	if config.DatabaseMaxConns > 0 {
		poolConfig.MaxConns = config.DatabaseMaxConns
	}
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.MaxConnLifetime = 45 * time.Minute
	poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   queryLogger(logger),
		LogLevel: tracelog.LogLevelDebug,
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// queryLogger forwards pgx trace events to logrus. Query text is logged,
// arguments are not: they carry applicant credentials.
func queryLogger(logger logrus.FieldLogger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		fields := logrus.Fields{"component": "pgx"}
		for k, v := range data {
			if k == "args" {
				continue
			}
			fields[k] = v
		}

		entry := logger.WithFields(fields)
		switch level {
		case tracelog.LogLevelError:
			entry.Error(msg)
		case tracelog.LogLevelWarn:
			entry.Warn(msg)
		case tracelog.LogLevelInfo:
			entry.Info(msg)
		default:
			entry.Debug(msg)
		}
	})
}
