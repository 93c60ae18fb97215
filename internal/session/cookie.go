package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"zakatportal/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

// NewCodec builds the cookie codec from base64 keys. Missing keys are
// generated per process, which signs everyone out on restart.
func NewCodec(config *types.Config, logger logrus.FieldLogger) (*securecookie.SecureCookie, error) {
	hashKey, err := decodeKey(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_HASH_KEY: %w", err)
	}

	blockKey, err := decodeKey(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_BLOCK_KEY: %w", err)
	}

	if hashKey == nil {
		logger.Warn("COOKIE_HASH_KEY not set, generating an ephemeral key")
		hashKey = securecookie.GenerateRandomKey(64)
	}

	if blockKey == nil {
		logger.Warn("COOKIE_BLOCK_KEY not set, generating an ephemeral key")
		blockKey = securecookie.GenerateRandomKey(32)
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	if config.SessionMaxAgeSec > 0 {
		codec.MaxAge(config.SessionMaxAgeSec)
	}

	return codec, nil
}

func decodeKey(v string) ([]byte, error) {
	if v == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(v)
}

type CookieOptions struct {
	Name   string
	Secure bool
}

// CookieStore keeps the whole session in one encrypted cookie.
type CookieStore struct {
	codec *securecookie.SecureCookie
	opts  CookieOptions
	now   func() time.Time
}

func NewCookieStore(codec *securecookie.SecureCookie, opts CookieOptions) *CookieStore {
	return &CookieStore{codec: codec, opts: opts, now: time.Now}
}

func (c *CookieStore) Load(r *http.Request) (*types.Session, error) {
	cookie, err := r.Cookie(c.opts.Name)
	if err != nil {
		return nil, types.ErrSessionNotFound
	}

	var s types.Session
	if err := c.codec.Decode(c.opts.Name, cookie.Value, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session cookie: %w", err)
	}

	return &s, nil
}

func (c *CookieStore) Save(w http.ResponseWriter, r *http.Request, s *types.Session) error {
	encoded, err := c.codec.Encode(c.opts.Name, s)
	if err != nil {
		return fmt.Errorf("failed to encode session cookie: %w", err)
	}

	SetCookie(w, c.opts.Name, encoded, s.ExpiresAt.Sub(c.now()), c.opts.Secure)
	return nil
}

func (c *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	ClearCookie(w, c.opts.Name, c.opts.Secure)
	return nil
}

// SetCookie writes an httpOnly cookie scoped to the whole site.
func SetCookie(w http.ResponseWriter, name, value string, age time.Duration, secure bool) {
	maxAge := int(age.Seconds())
	if maxAge <= 0 {
		maxAge = 1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

func ClearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

var errNoSessionID = errors.New("session cookie holds no id")
