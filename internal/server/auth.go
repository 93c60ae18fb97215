package server

import (
	"net/http"
	"strings"
	"time"

	"zakatportal/internal"
	"zakatportal/internal/api"
	"zakatportal/pkg/types"
)

const (
	msgLoginMissing = "Please enter both username and password."
	msgLoginFailed  = "Invalid credentials or server error."
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.Current(r); ok {
		s.logger.Debug("applicant is already logged in, redirecting to dashboard")
		http.Redirect(w, r, "/applicant/dashboard", http.StatusSeeOther)
		return
	}

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Applicant Login", Notice: notice(r)},
	}

	s.render(w, r, "page.login", data)
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Applicant Login"},
		Username:     username,
	}

	if username == "" || password == "" {
		data.Error = msgLoginMissing
		s.render(w, r, "page.login", data)
		return
	}

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.requestLogger(r).WithError(err).WithField("username", username).Info("login failed")

		data.Error = api.Message(err, msgLoginFailed)
		s.render(w, r, "page.login", data)
		return
	}

	sess := resp.Session()
	if sess.Username == "" {
		sess.Username = username
	}

	if err := s.sessions.Login(w, r, sess); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to persist session")

		data.Error = msgLoginFailed
		s.render(w, r, "page.login", data)
		return
	}

	s.requestLogger(r).WithField("username", sess.Username).Info("applicant logged in")

	// Check to see if this login attempt was the result of an unauthed redirect
	if redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME); err == nil {
		s.clearRedirectCookie(w)
		if path, ok := localPath(redirectCookie.Value); ok {
			http.Redirect(w, r, path, http.StatusSeeOther)
			return
		}
	}

	http.Redirect(w, r, "/applicant/dashboard", http.StatusSeeOther)
}

// handleLogout drops the session at once and shows a short farewell before
// sending the browser to login.
func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(w, r); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to clear session on logout")
	}
	s.clearRedirectCookie(w)
	s.clearRegistrationDraft(w)

	delay := time.Duration(s.config.LogoutDelayMS) * time.Millisecond

	data := &types.RedirectPageData{
		BasePageData: types.BasePageData{
			Title:          "Logging out",
			RefreshURL:     "/applicant/login",
			RefreshSeconds: delay.Seconds(),
		},
		Message: "Logging out...",
	}

	s.render(w, r, "page.redirect", data)
}
