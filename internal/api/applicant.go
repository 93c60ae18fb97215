package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"zakatportal/pkg/types"
)

const (
	pathLogin           = "/ApplcnLogin"
	pathProfile         = "/ApplcnProfile"
	pathVerifyIdentity  = "/validationR/verify-nric"
	pathRegister        = "/register/applicant"
	pathMaritalStatuses = "/marital-statuses"
)

// Login exchanges applicant credentials for a backend token. The caller owns
// persisting the session; nothing is retried.
func (c *Client) Login(ctx context.Context, username, password string) (*types.LoginResponse, error) {
	req, err := c.jsonRequest(http.MethodPost, pathLogin, types.LoginRequest{Username: username, Password: password}, false)
	if err != nil {
		return nil, err
	}

	var out types.LoginResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}

	if strings.TrimSpace(out.Token) == "" {
		return nil, types.ErrNoCredential
	}

	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*types.Profile, error) {
	var out types.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: pathProfile, auth: true}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateProfile never sends a blank password, so the backend is never asked
// to set an empty credential. The password key is dropped through its
// omitempty tag.
func (c *Client) UpdateProfile(ctx context.Context, update *types.ProfileUpdate) error {
	req, err := c.jsonRequest(http.MethodPut, pathProfile, update, true)
	if err != nil {
		return err
	}

	return c.do(ctx, req, nil)
}

func (c *Client) VerifyIdentity(ctx context.Context, check types.IdentityCheck) (*types.IdentityCheckResult, error) {
	req, err := c.jsonRequest(http.MethodPost, pathVerifyIdentity, check, false)
	if err != nil {
		return nil, err
	}

	var out types.IdentityCheckResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Register(ctx context.Context, registration types.Registration) error {
	req, err := c.jsonRequest(http.MethodPost, pathRegister, registration, false)
	if err != nil {
		return err
	}

	return c.do(ctx, req, nil)
}

func (c *Client) MaritalStatuses(ctx context.Context) ([]types.MaritalStatus, error) {
	out := make([]types.MaritalStatus, 0)
	if err := c.do(ctx, request{method: http.MethodGet, path: pathMaritalStatuses}, &out); err != nil {
		return nil, err
	}

	for i, status := range out {
		if status.ID == "" {
			return nil, fmt.Errorf("marital status %d has no status_id", i)
		}
	}

	return out, nil
}
