package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"zakatportal/internal/api"
	"zakatportal/internal/application"
	"zakatportal/pkg/types"
)

const (
	maxDocumentRows    = 20
	defaultMaxUploadMB = 32

	msgApplicationSubmitted = "Application submitted successfully!"
	msgUploadUnreadable     = "The upload could not be read. Please try again."
	msgReenterApplication   = "Please fill in the form again."
)

func (s *Service) handleGetApply(w http.ResponseWriter, r *http.Request) {
	s.renderApply(w, r, &application.Draft{}, s.config.DocumentRows, "")
}

func (s *Service) handlePostApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.parseUploadForm(w, r); err != nil {
		s.requestLogger(r).WithError(err).Info("failed to parse application form")
		s.renderApply(w, r, &application.Draft{}, s.config.DocumentRows, s.uploadFormMessage(err)+" "+msgReenterApplication)
		return
	}
	defer r.MultipartForm.RemoveAll()

	draft := new(application.Draft)
	if err := decoder.Decode(draft, url.Values(r.MultipartForm.Value)); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to decode application form")
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	rows := documentRows(r.FormValue("document_rows"), s.config.DocumentRows)

	// Dependent and document row edits re-render the form without calling
	// the backend.
	if v := r.FormValue("remove_dependent"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			draft.RemoveDependent(i)
		}
		s.renderApply(w, r, draft, rows, "")
		return
	}

	switch r.FormValue("action") {
	case "add_dependent":
		draft.AddDependent()
		s.renderApply(w, r, draft, rows, "")
		return
	case "add_document":
		s.renderApply(w, r, draft, min(rows+1, maxDocumentRows), "")
		return
	}

	files, err := attachDocuments(r.MultipartForm, draft, rows)
	defer closeAll(files)
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to open uploaded document")
		s.renderApply(w, r, draft, rows, application.MsgUnknown)
		return
	}

	result, err := application.Submit(ctx, s.client(r), draft)
	if err != nil {
		var verr *application.ValidationError
		if errors.As(err, &verr) {
			s.renderApply(w, r, draft, rows, verr.Message)
			return
		}

		if s.expireOnUnauthorized(w, r, err) {
			return
		}

		s.requestLogger(r).WithError(err).Error("application submission failed")
		s.renderApply(w, r, draft, rows, api.Message(err, application.MsgUnknown))
		return
	}

	msg := msgApplicationSubmitted
	if result != nil && result.Message != "" {
		msg = result.Message
	}

	s.requestLogger(r).WithField("application_id", result.ApplicationID).Info("application submitted")
	s.redirectWithNotice(w, r, "/applicant/my-application", msg)
}

func (s *Service) renderApply(w http.ResponseWriter, r *http.Request, draft *application.Draft, rows int, errMsg string) {
	data := &ApplyPageData{
		BasePageData:       types.BasePageData{Title: "Apply for Aid", Error: errMsg},
		Draft:              draft,
		EmploymentStatuses: types.EmploymentStatuses,
		SpouseStatuses:     types.SpouseEmploymentStatuses,
		DocumentTypes:      types.DocumentTypes,
		DocumentRows:       rows,
	}

	categories, err := s.api.AsnafCategories(r.Context())
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to fetch asnaf categories")
	}
	data.Categories = categories

	s.render(w, r, "page.apply", data)
}

func (s *Service) maxUploadBytes() int64 {
	mb := s.config.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return mb << 20
}

// parseUploadForm caps the request body at MAX_UPLOAD_MB and parses it as
// multipart. Files beyond the in-memory share spill to temp files, which
// the caller removes with MultipartForm.RemoveAll.
func (s *Service) parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	limit := s.maxUploadBytes()
	if r.ContentLength > limit {
		return &http.MaxBytesError{Limit: limit}
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	return r.ParseMultipartForm(limit)
}

func (s *Service) uploadFormMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("The uploaded files are too large. The limit is %d MB.", tooLarge.Limit>>20)
	}
	return msgUploadUnreadable
}

func documentRows(v string, fallback int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		n = fallback
	}
	if n < 1 {
		n = 1
	}
	return min(n, maxDocumentRows)
}

// attachDocuments pairs each row's file with the category picked in the
// same row. Rows without a file are skipped.
func attachDocuments(form *multipart.Form, draft *application.Draft, rows int) ([]multipart.File, error) {
	var opened []multipart.File

	for i := 0; i < rows; i++ {
		headers := form.File[fmt.Sprintf("document_%d", i)]
		if len(headers) == 0 || headers[0].Filename == "" {
			continue
		}

		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return opened, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		opened = append(opened, f)

		draft.Documents = append(draft.Documents, types.DocumentPart{
			File: types.Attachment{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Body:        f,
			},
			Category: draft.DocumentType(i),
		})
	}

	return opened, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
