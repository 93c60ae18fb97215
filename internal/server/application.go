package server

import (
	"net/http"
	"strings"
	"time"

	"zakatportal/internal/application"
	"zakatportal/pkg/types"
)

func (s *Service) tracker(r *http.Request) *application.Tracker {
	return application.NewTracker(s.client(r), time.Duration(s.config.UploadCloseDelaySec)*time.Second)
}

func (s *Service) handleGetApplications(w http.ResponseWriter, r *http.Request) {
	listing := s.tracker(r).Load(r.Context())
	if listing.Err != nil {
		if s.expireOnUnauthorized(w, r, listing.Err) {
			return
		}
		s.requestLogger(r).WithError(listing.Err).Error("failed to load applications")
	}

	data := &types.ApplicationsPageData{
		BasePageData: types.BasePageData{
			Title:  "My Application",
			Notice: notice(r),
			Error:  listing.Error,
		},
		Applications: listing.Applications,
	}

	if s.config.StatusPollSec > 0 {
		data.RefreshURL = r.URL.Path
		data.RefreshSeconds = float64(s.config.StatusPollSec)
	}

	s.render(w, r, "page.applications", data)
}

// loadApplication refetches the listing and picks one entry from it. It
// reports false once it has written a response.
func (s *Service) loadApplication(w http.ResponseWriter, r *http.Request, tracker *application.Tracker) (*types.Application, bool) {
	id := strings.TrimSpace(r.PathValue("applicationID"))

	listing := tracker.Load(r.Context())
	if listing.Err != nil {
		if s.expireOnUnauthorized(w, r, listing.Err) {
			return nil, false
		}
		s.requestLogger(r).WithError(listing.Err).Error("failed to load applications")
	}

	app, ok := application.Find(listing.Applications, id)
	if !ok {
		s.requestLogger(r).WithField("application_id", id).Info("application not found for applicant")
		http.Redirect(w, r, "/applicant/my-application", http.StatusSeeOther)
		return nil, false
	}

	return app, true
}

func (s *Service) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.loadApplication(w, r, s.tracker(r))
	if !ok {
		return
	}

	data := &types.ApplicationPageData{
		BasePageData: types.BasePageData{Title: "Application Details"},
		Application:  app,
		CanUpload:    application.CanUpload(app),
	}

	s.render(w, r, "page.application", data)
}

func (s *Service) handlePostApplicationDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracker := s.tracker(r)

	parseErr := s.parseUploadForm(w, r)
	if parseErr != nil {
		s.requestLogger(r).WithError(parseErr).Info("failed to parse upload form")
	} else {
		defer r.MultipartForm.RemoveAll()
	}

	app, ok := s.loadApplication(w, r, tracker)
	if !ok {
		return
	}

	data := &types.ApplicationPageData{
		BasePageData: types.BasePageData{Title: "Application Details"},
		Application:  app,
		CanUpload:    application.CanUpload(app),
	}

	if parseErr != nil {
		data.Error = s.uploadFormMessage(parseErr)
		s.render(w, r, "page.application", data)
		return
	}

	var attachment *types.Attachment
	file, header, err := r.FormFile("document")
	if err == nil {
		defer file.Close()
		attachment = &types.Attachment{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	}

	result := tracker.Upload(ctx, app, attachment)
	if result.Err != nil {
		if s.expireOnUnauthorized(w, r, result.Err) {
			return
		}
		s.requestLogger(r).WithError(result.Err).WithField("application_id", app.ApplicationID).Error("follow-up upload failed")
	}

	if result.OK() {
		s.requestLogger(r).WithField("application_id", app.ApplicationID).Info("follow-up document uploaded")

		data.Notice = result.Message
		data.UploadDone = true
		data.RefreshURL = "/applicant/my-application"
		data.RefreshSeconds = result.CloseAfter.Seconds()
	} else {
		data.Error = result.Error
	}

	s.render(w, r, "page.application", data)
}
