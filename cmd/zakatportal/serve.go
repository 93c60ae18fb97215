package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zakatportal/internal/auth"
	"zakatportal/internal/db"
	"zakatportal/internal/server"
	"zakatportal/internal/session"
	"zakatportal/internal/store"
	"zakatportal/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger := newLogger(config)
	client := newBackendClient(config, logger)

	inspector, err := newInspector(ctx, config)
	if err != nil {
		return err
	}

	codec, err := session.NewCodec(config, logger)
	if err != nil {
		return err
	}

	sessionStore, closeStore, err := newSessionStore(ctx, config, codec, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := session.NewManager(sessionStore, inspector, time.Duration(config.SessionMaxAgeSec)*time.Second, logger)

	srv, err := server.New(config, logger, client, sessions, codec)
	if err != nil {
		return err
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":          config.ServerPort,
			"backend":       config.BackendURL,
			"session_store": config.SessionStore,
		}).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

// newInspector returns an inspector that only reads token expiry unless a
// JWKS endpoint is configured.
func newInspector(ctx context.Context, config *types.Config) (*auth.Inspector, error) {
	if config.JWKSURL == "" {
		return auth.NewInspector(nil, ""), nil
	}

	jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	if err := jwkCache.Register(ctx, config.JWKSURL); err != nil {
		return nil, fmt.Errorf("failed to register jwks url with cache: %w", err)
	}

	return auth.NewInspector(jwkCache, config.JWKSURL), nil
}

func newSessionStore(ctx context.Context, config *types.Config, codec *securecookie.SecureCookie, logger logrus.FieldLogger) (session.Store, func(), error) {
	opts := session.CookieOptions{Name: config.CookieName, Secure: config.CookieSecure}

	if config.SessionStore != types.SessionStorePostgres {
		return session.NewCookieStore(codec, opts), func() {}, nil
	}

	pool, err := db.Connect(ctx, config, logger)
	if err != nil {
		return nil, nil, err
	}

	repo := store.NewSessionRepository(pool)
	return session.NewDatabaseStore(repo, codec, opts), pool.Close, nil
}
