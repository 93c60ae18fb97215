package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"zakatportal/internal/api"
	"zakatportal/internal/session"
	"zakatportal/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	api      *api.Client
	sessions *session.Manager
	cookie   *securecookie.SecureCookie

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	client *api.Client,
	sessions *session.Manager,
	cookie *securecookie.SecureCookie,
) (*Service, error) {
	mux := flow.New()

	s := &Service{
		logger:   logger,
		config:   config,
		api:      client,
		sessions: sessions,
		cookie:   cookie,
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	handler, err := s.protect(mux)
	if err != nil {
		return nil, err
	}
	s.handler = handler

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           handler,
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// protect wraps h with CSRF checks on every unsafe request when a CSRF key
// is configured.
func (s *Service) protect(h http.Handler) (http.Handler, error) {
	if s.config.CSRFKey == "" {
		s.logger.Warn("CSRF_KEY not set, CSRF protection disabled")
		return s.limitRequestBody(h), nil
	}

	key, err := base64.StdEncoding.DecodeString(s.config.CSRFKey)
	if err != nil {
		return nil, fmt.Errorf("decode CSRF_KEY: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("CSRF_KEY must decode to 32 bytes, got %d", len(key))
	}

	protected := csrf.Protect(
		key,
		csrf.Secure(s.config.CookieSecure),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.ErrorHandler(http.HandlerFunc(s.handleCSRFFailure)),
	)(h)

	if s.config.CookieSecure {
		return s.limitRequestBody(protected), nil
	}

	return s.limitRequestBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})), nil
}

// limitRequestBody caps every request body at MAX_UPLOAD_MB. It runs
// outside the CSRF check, which reads the form before any handler does.
func (s *Service) limitRequestBody(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
		}
		h.ServeHTTP(w, r)
	})
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(s.redirectToLogin)

	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/applicant/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/applicant/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/applicant/register", s.handleGetRegister, http.MethodGet)
	r.HandleFunc("/applicant/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/applicant/register/details", s.handleGetRegisterDetails, http.MethodGet)
	r.HandleFunc("/applicant/register/details", s.handlePostRegisterDetails, http.MethodPost)
	r.HandleFunc("/applicant/logout", s.handleLogout, http.MethodGet, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/applicant", s.handleDashboard, http.MethodGet)
		r.HandleFunc("/applicant/dashboard", s.handleDashboard, http.MethodGet)

		r.HandleFunc("/applicant/apply", s.handleGetApply, http.MethodGet)
		r.HandleFunc("/applicant/apply", s.handlePostApply, http.MethodPost)

		r.HandleFunc("/applicant/my-application", s.handleGetApplications, http.MethodGet)
		r.HandleFunc("/applicant/my-application/:applicationID", s.handleGetApplication, http.MethodGet)
		r.HandleFunc("/applicant/my-application/:applicationID/documents", s.handlePostApplicationDocument, http.MethodPost)

		r.HandleFunc("/applicant/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/applicant/profile", s.handlePostProfile, http.MethodPost)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

var markdown = goldmark.New()

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		// markdown renders staff-authored text. Raw HTML in the source is
		// dropped by goldmark's default renderer.
		"markdown": func(src string) template.HTML {
			var buf bytes.Buffer
			if err := markdown.Convert([]byte(src), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(src))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int {
			return a + b
		},
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
		"orNA": func(v string) string {
			if strings.TrimSpace(v) == "" {
				return "N/A"
			}
			return v
		},
		"date": func(v string) string {
			v = strings.TrimSpace(v)
			if v == "" {
				return "N/A"
			}
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, v); err == nil {
					return t.Format("02/01/2006")
				}
			}
			return v
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
