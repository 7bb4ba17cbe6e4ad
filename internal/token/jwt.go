package token

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/pkg/tokens"
)

// JWTIssuer issues stateless HMAC-signed access tokens. A token is valid
// while the verification clock is strictly before its exp claim.
type JWTIssuer struct {
	Secret   []byte
	Method   jwt.SigningMethod
	Lifetime time.Duration
	Now      func() time.Time
}

func NewJWTIssuer(secret []byte, alg string, lifetime time.Duration) (*JWTIssuer, error) {
	method, err := tokens.SigningMethod(alg)
	if err != nil {
		return nil, err
	}
	return &JWTIssuer{Secret: secret, Method: method, Lifetime: lifetime}, nil
}

func (i *JWTIssuer) Issue(_ context.Context, user *models.User) (Issued, error) {
	now := nowFunc(i.Now)()
	exp := now.Add(i.Lifetime)

	claims := tokens.AccessClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := tokens.SignAccessToken(claims, i.Method, i.Secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign access token: %w", err)
	}
	return Issued{Token: signed, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

func (i *JWTIssuer) Verify(_ context.Context, raw string) (uint, error) {
	claims, err := tokens.AccessClaimsFromToken(raw, i.Method, i.Secret, jwt.WithTimeFunc(nowFunc(i.Now)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return uint(id), nil
}

// Revoke is a no-op: signed tokens stay valid until they expire.
func (i *JWTIssuer) Revoke(context.Context, string) error {
	return nil
}
