// Package auth inspects the credential the backend hands out at login. The
// portal never issues credentials; it only reads their expiry and, when a
// JWKS endpoint is configured, checks their signature before forwarding
// them.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

type Inspector struct {
	cache   *jwk.Cache
	jwksURL string
}

// NewInspector returns an inspector that verifies against jwksURL through
// cache. A nil cache treats credentials as opaque.
func NewInspector(cache *jwk.Cache, jwksURL string) *Inspector {
	return &Inspector{cache: cache, jwksURL: jwksURL}
}

func (i *Inspector) Verifies() bool {
	return i != nil && i.cache != nil && i.jwksURL != ""
}

// Expiry returns the exp claim when the credential is a JWT. Opaque
// credentials report false.
func (i *Inspector) Expiry(credential string) (time.Time, bool) {
	token, err := jwt.ParseInsecure([]byte(credential))
	if err != nil {
		return time.Time{}, false
	}

	exp, ok := token.Expiration()
	if !ok || exp.IsZero() {
		return time.Time{}, false
	}

	return exp, true
}

// Verify checks signature and validity of the credential against the JWKS.
// Without a JWKS every credential passes; the backend stays the authority.
func (i *Inspector) Verify(ctx context.Context, credential string) error {
	if !i.Verifies() {
		return nil
	}

	set, err := i.cache.Lookup(ctx, i.jwksURL)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	_, err = jwt.Parse(
		[]byte(credential),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return fmt.Errorf("failed to verify credential: %w", err)
	}

	return nil
}
