package server

import (
	"context"
	"errors"
	"fmt"

	"servicenova/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var errNoSubject = errors.New("no user ID in JWT subject claim")

// TokenVerifier turns a raw access token into the caller's identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (types.Identity, error)
}

// JWKSVerifier validates Cognito access tokens against the pool's JWKS.
type JWKSVerifier struct {
	cache   *jwk.Cache
	jwksURL string
}

func NewJWKSVerifier(cache *jwk.Cache, jwksURL string) *JWKSVerifier {
	return &JWKSVerifier{cache: cache, jwksURL: jwksURL}
}

func (v *JWKSVerifier) Verify(ctx context.Context, accessToken string) (types.Identity, error) {
	set, err := v.cache.Lookup(ctx, v.jwksURL)
	if err != nil {
		return types.Identity{}, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(accessToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return types.Identity{}, fmt.Errorf("failed to parse JWT: %w", err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return types.Identity{}, errNoSubject
	}

	identity := types.Identity{UserID: userID}

	// Cognito access tokens usually omit these; the user record fills them in.
	_ = token.Get("email", &identity.Email)
	_ = token.Get("name", &identity.Name)

	return identity, nil
}
