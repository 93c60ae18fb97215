package application

import (
	"context"
	"time"

	"zakatportal/internal/api"
	"zakatportal/pkg/types"
)

const (
	MsgLoadFailed    = "Failed to load application status."
	MsgSelectFile    = "Please select a file to upload."
	MsgUploaded      = "Document uploaded successfully!"
	MsgUploadFailed  = "Failed to upload document."
	MsgUploadNotOpen = "This application is not waiting for documents."
)

type Backend interface {
	MyApplications(ctx context.Context) ([]types.Application, error)
	UploadDocument(ctx context.Context, applicationID string, file types.Attachment) (*types.UploadResult, error)
}

// Tracker reads application state from the backend on every call. It
// never caches and never moves a status itself.
type Tracker struct {
	backend    Backend
	closeAfter time.Duration
}

func NewTracker(backend Backend, closeAfter time.Duration) *Tracker {
	return &Tracker{backend: backend, closeAfter: closeAfter}
}

type Listing struct {
	Applications []types.Application
	Error        string
	Err          error
}

// Load fetches the applicant's applications. A 404 means none yet.
func (t *Tracker) Load(ctx context.Context) Listing {
	apps, err := t.backend.MyApplications(ctx)
	if err != nil {
		if api.IsNotFound(err) {
			return Listing{Applications: []types.Application{}}
		}
		return Listing{Applications: []types.Application{}, Error: MsgLoadFailed, Err: err}
	}

	return Listing{Applications: apps}
}

func Find(apps []types.Application, id string) (*types.Application, bool) {
	for i := range apps {
		if apps[i].ApplicationID.String() == id {
			return &apps[i], true
		}
	}
	return nil, false
}

func CanUpload(app *types.Application) bool {
	return app != nil && app.DocumentsRequested()
}

// FollowUp is the outcome of a follow-up upload. CloseAfter is set on
// success: the detail view returns to the list once it elapses.
type FollowUp struct {
	Message    string
	Error      string
	Err        error
	CloseAfter time.Duration
}

func (f FollowUp) OK() bool {
	return f.Error == ""
}

func (t *Tracker) Upload(ctx context.Context, app *types.Application, file *types.Attachment) FollowUp {
	if !CanUpload(app) {
		return FollowUp{Error: MsgUploadNotOpen}
	}
	if file == nil || file.FileName == "" {
		return FollowUp{Error: MsgSelectFile}
	}

	result, err := t.backend.UploadDocument(ctx, app.ApplicationID.String(), *file)
	if err != nil {
		return FollowUp{Error: api.Message(err, MsgUploadFailed), Err: err}
	}

	msg := MsgUploaded
	if result != nil && result.Message != "" {
		msg = result.Message
	}

	return FollowUp{Message: msg, CloseAfter: t.closeAfter}
}
