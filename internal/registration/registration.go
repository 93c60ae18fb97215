// Package registration drives the two-step applicant signup:
// Identity -> Details -> Registered.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zakatportal/internal/validate"
	"zakatportal/pkg/types"
)

type State string

const (
	StateIdentity   State = "identity"
	StateDetails    State = "details"
	StateRegistered State = "registered"
)

const (
	MsgRegistered     = "Registration successful! You will be redirected to the login page."
	MsgRegisterFailed = "An unexpected error occurred during registration."
	MsgVerifyFailed   = "Identity verification failed. Please check your details."
	MsgFormDataFailed = "Could not load form data. Please refresh the page."
)

var ErrWrongState = errors.New("registration step is not available in the current state")

// Verifier and Registrar are the backend calls each step needs.
type Verifier interface {
	VerifyIdentity(ctx context.Context, check types.IdentityCheck) (*types.IdentityCheckResult, error)
}

type Registrar interface {
	Register(ctx context.Context, registration types.Registration) error
}

type Identity struct {
	FullName string `json:"fullName" form:"fullName"`
	NRIC     string `json:"nric" form:"nric"`
}

// Details are the phase-2 fields. Identity fields are carried over from
// the verified draft, never from the form.
type Details struct {
	DateOfBirth     string `form:"dateOfBirth"`
	Address         string `form:"address"`
	Phone           string `form:"phone"`
	Salary          string `form:"salary"`
	Email           string `form:"email"`
	MaritalStatusID string `form:"maritalStatusId"`
	BankName        string `form:"bankName"`
	AccountNumber   string `form:"accountNumber"`
	Username        string `form:"username"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

// Flow is the registration draft. It travels between requests in an
// encrypted cookie.
type Flow struct {
	State    State    `json:"state"`
	Identity Identity `json:"identity"`
}

func New() *Flow {
	return &Flow{State: StateIdentity}
}

// ValidationError is a rule failure caught before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Verify checks the identity locally, then with the backend. Any failure
// leaves the flow in Identity.
func (f *Flow) Verify(ctx context.Context, verifier Verifier, identity Identity) (*types.IdentityCheckResult, error) {
	if f.State != StateIdentity {
		return nil, ErrWrongState
	}

	identity.FullName = strings.TrimSpace(identity.FullName)
	identity.NRIC = strings.TrimSpace(identity.NRIC)

	if !validate.Required(identity.FullName) {
		return nil, invalid("fullName", "Full name is required.")
	}
	if !validate.IsNRIC(identity.NRIC) {
		return nil, invalid("nric", "NRIC must be exactly 12 digits.")
	}

	result, err := verifier.VerifyIdentity(ctx, types.IdentityCheck{
		FullName: identity.FullName,
		NRIC:     identity.NRIC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify identity: %w", err)
	}

	f.Identity = identity
	f.State = StateDetails

	return result, nil
}

// Check runs the phase-2 rules in display order.
func (f *Flow) Check(d Details) error {
	if !validate.BirthDateMatchesNRIC(f.Identity.NRIC, d.DateOfBirth) {
		return invalid("dateOfBirth", "Date of birth does not match your NRIC.")
	}
	if d.Password != d.ConfirmPassword {
		return invalid("confirmPassword", "Passwords do not match.")
	}
	if !validate.IsStrongPassword(d.Password) {
		return invalid("password", fmt.Sprintf(
			"Password must be at least %d characters long and include an uppercase letter, a lowercase letter, a number, and a symbol (%s).",
			validate.PasswordMinLength, validate.PasswordSymbols,
		))
	}
	if !validate.IsPhone(d.Phone) {
		return invalid("phone", "Phone number must be in the format xxx-xxxxxxx or xxx-xxxxxxxx.")
	}
	if !validate.IsAccountNumber(d.AccountNumber) {
		return invalid("accountNumber", "Bank account number must contain only digits and be between 7 and 16 characters long.")
	}

	required := []struct {
		field, value, label string
	}{
		{"email", d.Email, "Email"},
		{"username", d.Username, "Username"},
		{"maritalStatusId", d.MaritalStatusID, "Marital status"},
		{"bankName", d.BankName, "Bank"},
	}
	for _, r := range required {
		if !validate.Required(r.value) {
			return invalid(r.field, r.label+" is required.")
		}
	}

	return nil
}

// Submit registers the applicant with one backend call. It is only valid
// once the identity has been verified.
func (f *Flow) Submit(ctx context.Context, registrar Registrar, d Details) error {
	if f.State != StateDetails {
		return ErrWrongState
	}

	if err := f.Check(d); err != nil {
		return err
	}

	err := registrar.Register(ctx, types.Registration{
		FullName:        f.Identity.FullName,
		NRIC:            f.Identity.NRIC,
		DateOfBirth:     d.DateOfBirth,
		Address:         strings.TrimSpace(d.Address),
		Phone:           strings.TrimSpace(d.Phone),
		Salary:          strings.TrimSpace(d.Salary),
		Email:           strings.TrimSpace(d.Email),
		MaritalStatusID: d.MaritalStatusID,
		BankName:        d.BankName,
		AccountNumber:   strings.TrimSpace(d.AccountNumber),
		Username:        strings.TrimSpace(d.Username),
		Password:        d.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to register applicant: %w", err)
	}

	f.State = StateRegistered
	return nil
}
