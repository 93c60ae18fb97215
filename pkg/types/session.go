package types

import "time"

const RoleApplicant = "applicant"

// Session is the signed-in applicant as seen by this portal. The credential
// is opaque and only ever forwarded to the backend.
type Session struct {
	Credential  string    `json:"credential" db:"credential"`
	Role        string    `json:"role" db:"role"`
	Username    string    `json:"username" db:"username"`
	DisplayName string    `json:"displayName" db:"display_name"`
	ExpiresAt   time.Time `json:"expiresAt" db:"expires_at"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Credential != ""
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Greeting is the name shown on the dashboard and in the top bar.
func (s *Session) Greeting() string {
	if s == nil {
		return "Applicant"
	}
	if s.DisplayName != "" {
		return s.DisplayName
	}
	if s.Username != "" {
		return s.Username
	}
	return "Applicant"
}

// SessionRecord is a server-side session row.
type SessionRecord struct {
	ID          string    `db:"id"`
	Credential  string    `db:"credential"`
	Role        string    `db:"role"`
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	ExpiresAt   time.Time `db:"expires_at"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *SessionRecord) Session() *Session {
	return &Session{
		Credential:  r.Credential,
		Role:        r.Role,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		ExpiresAt:   r.ExpiresAt,
	}
}
