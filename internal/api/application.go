package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"zakatportal/pkg/types"

	json "github.com/goccy/go-json"
)

const (
	pathMyApplication   = "/my-application"
	pathAsnafCategories = "/asnaf-categories"
	pathApply           = "/applicant/apply"
	pathUploadDocument  = "/upload-document/"
)

// MyApplications returns the applicant's applications. The backend answers
// with either an array or a single object. A 404 is returned as an *Error;
// callers use IsNotFound to treat it as "no applications yet".
func (c *Client) MyApplications(ctx context.Context) ([]types.Application, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: pathMyApplication, auth: true}, &raw); err != nil {
		return nil, err
	}

	apps, err := decodeApplications(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", pathMyApplication, err)
	}

	return apps, nil
}

func decodeApplications(raw []byte) ([]types.Application, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []types.Application{}, nil
	}

	var apps []types.Application
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &apps); err != nil {
			return nil, err
		}
	case '{':
		var app types.Application
		if err := json.Unmarshal(raw, &app); err != nil {
			return nil, err
		}
		apps = []types.Application{app}
	default:
		return nil, fmt.Errorf("unexpected payload starting with %q", raw[0])
	}

	for i, app := range apps {
		if app.ApplicationID == "" {
			return nil, fmt.Errorf("application %d has no applicationId", i)
		}
	}

	return apps, nil
}

func (c *Client) AsnafCategories(ctx context.Context) ([]types.AsnafCategory, error) {
	out := make([]types.AsnafCategory, 0)
	if err := c.do(ctx, request{method: http.MethodGet, path: pathAsnafCategories}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// SubmitApplication sends the whole application in one multipart request.
// A failed submission has to be sent again in full.
func (c *Client) SubmitApplication(ctx context.Context, submission *types.ApplicationSubmission) (*types.SubmitResult, error) {
	body, contentType, err := encodeSubmission(submission)
	if err != nil {
		return nil, err
	}

	var out types.SubmitResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        pathApply,
		body:        body,
		contentType: contentType,
		auth:        true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UploadDocument(ctx context.Context, applicationID string, file types.Attachment) (*types.UploadResult, error) {
	body, contentType, err := encodeDocument(file)
	if err != nil {
		return nil, err
	}

	var out types.UploadResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        pathUploadDocument + url.PathEscape(applicationID),
		body:        body,
		contentType: contentType,
		auth:        true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}
