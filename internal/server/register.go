package server

import (
	"errors"
	"net/http"
	"time"

	"zakatportal/internal"
	"zakatportal/internal/api"
	"zakatportal/internal/registration"
	"zakatportal/internal/session"
	"zakatportal/pkg/types"
)

const registrationDraftAge = 30 * time.Minute

func (s *Service) handleGetRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.Current(r); ok {
		http.Redirect(w, r, "/applicant/dashboard", http.StatusSeeOther)
		return
	}

	data := &types.RegisterPageData{
		BasePageData: types.BasePageData{Title: "Register"},
	}

	if flow, ok := s.registrationDraft(r); ok {
		data.FullName = flow.Identity.FullName
		data.NRIC = flow.Identity.NRIC
	}

	s.render(w, r, "page.register", data)
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var identity registration.Identity
	if err := decoder.Decode(&identity, r.PostForm); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to decode identity form")
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	data := &types.RegisterPageData{
		BasePageData: types.BasePageData{Title: "Register"},
		FullName:     identity.FullName,
		NRIC:         identity.NRIC,
	}

	flow := registration.New()
	_, err := flow.Verify(ctx, s.api, identity)
	if err != nil {
		var verr *registration.ValidationError
		if errors.As(err, &verr) {
			data.Error = verr.Message
			data.FieldErrors = map[string]string{verr.Field: verr.Message}
		} else {
			s.requestLogger(r).WithError(err).Info("identity verification rejected")
			data.Error = api.Message(err, registration.MsgVerifyFailed)
		}

		s.render(w, r, "page.register", data)
		return
	}

	if err := s.saveRegistrationDraft(w, flow); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to save registration draft")
		s.internalServerError(w)
		return
	}

	http.Redirect(w, r, "/applicant/register/details", http.StatusSeeOther)
}

func (s *Service) handleGetRegisterDetails(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.registrationDraft(r)
	if !ok || flow.State != registration.StateDetails {
		http.Redirect(w, r, "/applicant/register", http.StatusSeeOther)
		return
	}

	s.renderRegisterDetails(w, r, flow, registration.Details{}, nil)
}

func (s *Service) handlePostRegisterDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flow, ok := s.registrationDraft(r)
	if !ok || flow.State != registration.StateDetails {
		http.Redirect(w, r, "/applicant/register", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var details registration.Details
	if err := decoder.Decode(&details, r.PostForm); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to decode registration form")
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	err := flow.Submit(ctx, s.api, details)
	if err != nil {
		s.requestLogger(r).WithError(err).Info("registration not completed")
		s.renderRegisterDetails(w, r, flow, details, err)
		return
	}

	s.clearRegistrationDraft(w)
	s.requestLogger(r).WithField("username", details.Username).Info("applicant registered")

	delay := time.Duration(s.config.RegisterRedirectDelaySec) * time.Second

	data := &types.RedirectPageData{
		BasePageData: types.BasePageData{
			Title:          "Registration Complete",
			RefreshURL:     "/applicant/login",
			RefreshSeconds: delay.Seconds(),
		},
		Message: registration.MsgRegistered,
	}

	s.render(w, r, "page.redirect", data)
}

func (s *Service) renderRegisterDetails(w http.ResponseWriter, r *http.Request, flow *registration.Flow, details registration.Details, submitErr error) {
	details.Password = ""
	details.ConfirmPassword = ""

	data := &RegisterDetailsPageData{
		BasePageData: types.BasePageData{Title: "Complete Registration"},
		Identity:     flow.Identity,
		Details:      details,
		Banks:        types.Banks,
	}

	if submitErr != nil {
		var verr *registration.ValidationError
		if errors.As(submitErr, &verr) {
			data.Error = verr.Message
			data.FieldErrors = map[string]string{verr.Field: verr.Message}
		} else {
			data.Error = api.Message(submitErr, registration.MsgRegisterFailed)
		}
	}

	statuses, err := s.api.MaritalStatuses(r.Context())
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to fetch marital statuses")
		if data.Error == "" {
			data.Error = registration.MsgFormDataFailed
		}
	}
	data.MaritalStatuses = statuses

	s.render(w, r, "page.register.details", data)
}

func (s *Service) registrationDraft(r *http.Request) (*registration.Flow, bool) {
	cookie, err := r.Cookie(internal.COOKIE_REGISTRATION_NAME)
	if err != nil {
		return nil, false
	}

	var flow registration.Flow
	if err := s.cookie.Decode(internal.COOKIE_REGISTRATION_NAME, cookie.Value, &flow); err != nil {
		s.requestLogger(r).WithError(err).Warn("failed to decode registration draft")
		return nil, false
	}

	return &flow, true
}

func (s *Service) saveRegistrationDraft(w http.ResponseWriter, flow *registration.Flow) error {
	encoded, err := s.cookie.Encode(internal.COOKIE_REGISTRATION_NAME, flow)
	if err != nil {
		return err
	}

	session.SetCookie(w, internal.COOKIE_REGISTRATION_NAME, encoded, registrationDraftAge, s.config.CookieSecure)
	return nil
}

func (s *Service) clearRegistrationDraft(w http.ResponseWriter) {
	session.ClearCookie(w, internal.COOKIE_REGISTRATION_NAME, s.config.CookieSecure)
}
