package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"zakatportal/pkg/types"

	"github.com/gorilla/securecookie"
)

type Repository interface {
	Create(ctx context.Context, record *types.SessionRecord) error
	Session(ctx context.Context, id string) (*types.SessionRecord, error)
	Delete(ctx context.Context, id string) error
}

// DatabaseStore keeps sessions in Postgres; the cookie carries only the
// encrypted row id.
type DatabaseStore struct {
	repo  Repository
	codec *securecookie.SecureCookie
	opts  CookieOptions
	now   func() time.Time
}

func NewDatabaseStore(repo Repository, codec *securecookie.SecureCookie, opts CookieOptions) *DatabaseStore {
	return &DatabaseStore{repo: repo, codec: codec, opts: opts, now: time.Now}
}

func (d *DatabaseStore) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(d.opts.Name)
	if err != nil {
		return "", types.ErrSessionNotFound
	}

	var id string
	if err := d.codec.Decode(d.opts.Name, cookie.Value, &id); err != nil {
		return "", fmt.Errorf("failed to decode session cookie: %w", err)
	}
	if id == "" {
		return "", errNoSessionID
	}

	return id, nil
}

func (d *DatabaseStore) Load(r *http.Request) (*types.Session, error) {
	id, err := d.sessionID(r)
	if err != nil {
		return nil, err
	}

	record, err := d.repo.Session(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return record.Session(), nil
}

func (d *DatabaseStore) Save(w http.ResponseWriter, r *http.Request, s *types.Session) error {
	record := &types.SessionRecord{
		Credential:  s.Credential,
		Role:        s.Role,
		Username:    s.Username,
		DisplayName: s.DisplayName,
		ExpiresAt:   s.ExpiresAt,
	}

	if err := d.repo.Create(r.Context(), record); err != nil {
		return err
	}

	encoded, err := d.codec.Encode(d.opts.Name, record.ID)
	if err != nil {
		return fmt.Errorf("failed to encode session cookie: %w", err)
	}

	SetCookie(w, d.opts.Name, encoded, s.ExpiresAt.Sub(d.now()), d.opts.Secure)
	return nil
}

// Clear drops the row when the cookie still names one and always expires
// the cookie.
func (d *DatabaseStore) Clear(w http.ResponseWriter, r *http.Request) error {
	ClearCookie(w, d.opts.Name, d.opts.Secure)

	id, err := d.sessionID(r)
	if err != nil {
		if errors.Is(err, types.ErrSessionNotFound) || errors.Is(err, errNoSessionID) {
			return nil
		}
		return err
	}

	return d.repo.Delete(r.Context(), id)
}
