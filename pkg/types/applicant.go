package types

import (
	"strings"
	"time"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginUser struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

type LoginResponse struct {
	Token   string     `json:"token"`
	Message string     `json:"message,omitempty"`
	User    *LoginUser `json:"user,omitempty"`
}

// Session builds the applicant session carried by a successful login.
func (l *LoginResponse) Session() *Session {
	s := &Session{
		Credential: l.Token,
		Role:       RoleApplicant,
	}
	if l.User != nil {
		s.Username = l.User.Username
		s.DisplayName = l.User.Name
	}
	return s
}

// Profile is the applicant profile returned by GET /ApplcnProfile.
type Profile struct {
	ApplicantID     ID     `json:"applicant_id"`
	FullName        string `json:"full_name"`
	NRIC            string `json:"nric"`
	DateOfBirth     string `json:"date_of_birth"`
	MaritalStatusID ID     `json:"marital_status_id"`
	StatusName      string `json:"status_name"`
	Salary          Amount `json:"salary"`
	Address         string `json:"address"`
	BankName        string `json:"bank_name"`
	AccountNumber   string `json:"account_number"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Username        string `json:"username"`
}

// BirthDate formats date_of_birth as dd/mm/yyyy, "N/A" when absent.
func (p *Profile) BirthDate() string {
	raw := strings.TrimSpace(p.DateOfBirth)
	if raw == "" {
		return "N/A"
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}

	return raw
}

// ProfileUpdate is the PUT /ApplcnProfile body. The identity fields are
// read-only and sent back as loaded so the backend receives the whole
// profile. Password is write-only and must be left empty to keep the
// current one.
type ProfileUpdate struct {
	FullName        string `json:"full_name,omitempty" form:"full_name"`
	NRIC            string `json:"nric,omitempty" form:"nric"`
	DateOfBirth     string `json:"date_of_birth,omitempty" form:"date_of_birth"`
	MaritalStatusID string `json:"marital_status_id" form:"marital_status_id"`
	Salary          string `json:"-" form:"salary"`
	SalaryAmount    Amount `json:"salary" form:"-"`
	Address         string `json:"address" form:"address"`
	BankName        string `json:"bank_name" form:"bank_name"`
	AccountNumber   string `json:"account_number" form:"account_number"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
	Username        string `json:"username" form:"username"`
	Password        string `json:"password,omitempty" form:"password"`
}

// EditBuffer seeds the edit form from the stored profile.
func (p *Profile) EditBuffer() *ProfileUpdate {
	return &ProfileUpdate{
		FullName:        p.FullName,
		NRIC:            p.NRIC,
		DateOfBirth:     p.DateOfBirth,
		MaritalStatusID: p.MaritalStatusID.String(),
		Salary:          p.Salary.Input(),
		SalaryAmount:    p.Salary,
		Address:         p.Address,
		BankName:        p.BankName,
		AccountNumber:   p.AccountNumber,
		Email:           p.Email,
		Phone:           p.Phone,
		Username:        p.Username,
	}
}

type IdentityCheck struct {
	FullName string `json:"fullName"`
	NRIC     string `json:"nric"`
}

type IdentityCheckResult struct {
	Message string `json:"message,omitempty"`
}

// Registration is the POST /register/applicant body.
type Registration struct {
	FullName        string `json:"fullName"`
	NRIC            string `json:"nric"`
	DateOfBirth     string `json:"dateOfBirth"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Salary          string `json:"salary"`
	Email           string `json:"email"`
	MaritalStatusID string `json:"maritalStatusId"`
	BankName        string `json:"bankName"`
	AccountNumber   string `json:"accountNumber"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

type MaritalStatus struct {
	ID   ID     `json:"status_id"`
	Name string `json:"status_name"`
}
