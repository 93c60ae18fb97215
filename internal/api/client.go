// Package api is the typed client for the Zakat backend. It attaches the
// applicant's bearer credential, parses each endpoint's payload into an
// explicit result type and classifies failures into *Error values.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zakatportal/pkg/types"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const maxErrorBodyBytes = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logrus.FieldLogger
	credential string
}

func New(baseURL string, httpClient *http.Client, logger logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// WithSession returns a copy of the client that sends the session's
// credential. A nil or empty session yields an unauthenticated client.
func (c *Client) WithSession(s *types.Session) *Client {
	cp := *c
	cp.credential = ""
	if s.Authenticated() {
		cp.credential = s.Credential
	}
	return &cp
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	auth        bool
}

func (c *Client) jsonRequest(method, path string, payload any, auth bool) (request, error) {
	req := request{method: method, path: path, auth: auth}
	if payload == nil {
		return req, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}

	req.body = bytes.NewReader(data)
	req.contentType = "application/json"
	return req, nil
}

// do sends the request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, in request, out any) error {
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, in.method, c.baseURL+in.path, in.body)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", in.method, in.path, err)
	}

	req.Header.Set("Accept", "application/json")
	if in.contentType != "" {
		req.Header.Set("Content-Type", in.contentType)
	}
	if in.auth && c.credential != "" {
		req.Header.Set("Authorization", "Bearer "+c.credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: in.method, Path: in.path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":      in.method,
		"path":        in.path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Debug("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return newError(in.method, in.path, resp.StatusCode, body)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: in.method, Path: in.path, Err: err}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", in.method, in.path, err)
	}

	return nil
}
