package server

import (
	"net/http"

	"zakatportal/pkg/types"

	"github.com/gorilla/csrf"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	if setter, ok := data.(types.PageDataSetter); ok {
		navbar := types.NavbarData{}
		if sess, ok := sessionFromContext(r.Context()); ok {
			navbar.IsAuthenticated = true
			navbar.Username = sess.Username
			navbar.Greeting = sess.Greeting()
		}
		navbar.Active = r.URL.Path

		setter.SetNavbarData(navbar)
		setter.SetCSRFField(csrf.TemplateField(r))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, templateName, data)
}

func (s *Service) render(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	if err := s.renderTemplate(w, r, templateName, data); err != nil {
		s.requestLogger(r).WithError(err).WithField("template", templateName).Error("failed to render template")
		s.internalServerError(w)
	}
}
