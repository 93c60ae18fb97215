package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"zakatportal/internal"
	"zakatportal/internal/api"
	"zakatportal/internal/session"
	"zakatportal/internal/utils"
	"zakatportal/pkg/types"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	contextKeySession   contextKey = "session"
	contextKeyRequestID contextKey = "request_id"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		requestID := utils.RequestID()
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)

		next.ServeHTTP(rw, r.WithContext(ctx))

		s.logger.WithFields(logrus.Fields{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth puts the current session in the request context, or sends the
// visitor to login and remembers where they were going.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessions.Current(r)
		if !ok {
			s.requestLogger(r).WithField("path", r.URL.Path).Debug("no session, redirecting to login")

			if r.Method == http.MethodGet {
				s.setRedirectCookie(w, r.URL.RequestURI(), time.Minute*5)
			}

			s.redirectToLogin(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeySession, sess)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func sessionFromContext(ctx context.Context) (*types.Session, bool) {
	sess, ok := ctx.Value(contextKeySession).(*types.Session)
	return sess, ok && sess.Authenticated()
}

// client returns the backend client bound to the request's session.
func (s *Service) client(r *http.Request) *api.Client {
	sess, _ := sessionFromContext(r.Context())
	return s.api.WithSession(sess)
}

func (s *Service) requestLogger(r *http.Request) *logrus.Entry {
	entry := logrus.NewEntry(s.logger)
	if id, ok := r.Context().Value(contextKeyRequestID).(string); ok {
		entry = entry.WithField("request_id", id)
	}
	if sess, ok := sessionFromContext(r.Context()); ok {
		entry = entry.WithField("username", sess.Username)
	}
	return entry
}

// expireOnUnauthorized ends the local session when the backend no longer
// accepts its credential. It reports whether it wrote a response.
func (s *Service) expireOnUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}

	s.requestLogger(r).WithError(err).Info("backend rejected session credential, signing out")

	if err := s.sessions.Logout(w, r); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to clear rejected session")
	}

	s.redirectToLogin(w, r)
	return true
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	session.SetCookie(w, internal.COOKIE_REDIRECT_NAME, path, age, s.config.CookieSecure)
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	session.ClearCookie(w, internal.COOKIE_REDIRECT_NAME, s.config.CookieSecure)
}
