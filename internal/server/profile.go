package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"zakatportal/internal/api"
	"zakatportal/internal/validate"
	"zakatportal/pkg/types"

	"golang.org/x/sync/errgroup"
)

const (
	msgProfileLoadFailed = "Could not load your profile data. Please try again later."
	msgProfileWeakPass   = "Password does not meet requirements."
	msgProfileAccount    = "Bank account number must be between 7 and 16 digits."
	msgProfileSalary     = "Gross salary must be a number."
	msgProfileUpdated    = "Profile updated successfully!"
	msgProfileServer     = "server error"
)

// loadProfile fetches the profile and the marital status options together.
// Both must succeed.
func (s *Service) loadProfile(ctx context.Context, client *api.Client) (*types.Profile, []types.MaritalStatus, error) {
	var (
		profile  *types.Profile
		statuses []types.MaritalStatus
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := client.Profile(ctx)
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		ms, err := client.MaritalStatuses(ctx)
		if err != nil {
			return fmt.Errorf("fetch marital statuses: %w", err)
		}
		statuses = ms
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return profile, statuses, nil
}

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	data := &types.ProfilePageData{
		BasePageData: types.BasePageData{Title: "My Profile", Notice: notice(r)},
		Banks:        types.Banks,
		Editing:      r.URL.Query().Get("edit") == "1",
	}

	profile, statuses, err := s.loadProfile(r.Context(), s.client(r))
	if err != nil {
		if s.expireOnUnauthorized(w, r, err) {
			return
		}
		s.requestLogger(r).WithError(err).Error("failed to load profile")

		data.LoadFailed = true
		data.Error = msgProfileLoadFailed
		s.render(w, r, "page.profile", data)
		return
	}

	data.Profile = profile
	data.MaritalStatuses = statuses
	data.Form = profile.EditBuffer()

	s.render(w, r, "page.profile", data)
}

func (s *Service) handlePostProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := s.client(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	update := new(types.ProfileUpdate)
	if err := decoder.Decode(update, r.PostForm); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to decode profile form")
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	update.AccountNumber = strings.TrimSpace(update.AccountNumber)

	var errMsg string
	switch {
	case update.Password != "" && !validate.IsStrongPassword(update.Password):
		errMsg = msgProfileWeakPass
	case update.AccountNumber != "" && !validate.IsAccountNumber(update.AccountNumber):
		errMsg = msgProfileAccount
	}

	if errMsg == "" {
		salary, err := types.ParseAmount(update.Salary)
		if err != nil {
			errMsg = msgProfileSalary
		}
		update.SalaryAmount = salary
	}

	if errMsg == "" {
		err := client.UpdateProfile(ctx, update)
		if err == nil {
			s.requestLogger(r).Info("profile updated")
			s.redirectWithNotice(w, r, "/applicant/profile", msgProfileUpdated)
			return
		}

		if s.expireOnUnauthorized(w, r, err) {
			return
		}

		s.requestLogger(r).WithError(err).Error("profile update failed")
		errMsg = "Update failed: " + api.Message(err, msgProfileServer)
	}

	update.Password = ""
	data := &types.ProfilePageData{
		BasePageData: types.BasePageData{Title: "My Profile", Error: errMsg},
		Banks:        types.Banks,
		Editing:      true,
		Form:         update,
	}

	profile, statuses, err := s.loadProfile(ctx, client)
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to reload profile")
		data.LoadFailed = true
		data.Error = msgProfileLoadFailed
	}
	data.Profile = profile
	data.MaritalStatuses = statuses

	s.render(w, r, "page.profile", data)
}
