package server

import (
	"net/http"
	"strings"

	"zakatportal/internal/application"
	"zakatportal/internal/registration"
	"zakatportal/pkg/types"

	"github.com/gorilla/csrf"
)

type RegisterDetailsPageData struct {
	types.BasePageData
	Identity        registration.Identity
	Details         registration.Details
	MaritalStatuses []types.MaritalStatus
	Banks           []string
	FieldErrors     map[string]string
}

type ApplyPageData struct {
	types.BasePageData
	Draft              *application.Draft
	Categories         []types.AsnafCategory
	EmploymentStatuses []string
	SpouseStatuses     []string
	DocumentTypes      []types.DocumentTypeOption
	DocumentRows       int
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	// An oversize body is cut off before the token field can be read.
	if limit := s.maxUploadBytes(); r.ContentLength > limit {
		s.requestLogger(r).WithField("content_length", r.ContentLength).Info("request body over upload limit")
		http.Error(w, s.uploadFormMessage(&http.MaxBytesError{Limit: limit}), http.StatusRequestEntityTooLarge)
		return
	}

	s.requestLogger(r).WithError(csrf.FailureReason(r)).Warn("csrf check failed")
	http.Error(w, "Forbidden - the form has expired, please go back and try again.", http.StatusForbidden)
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func notice(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("notice"))
}
