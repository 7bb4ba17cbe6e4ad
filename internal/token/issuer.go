package token

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/museofile/internal/models"
)

// ErrInvalidToken covers every client-side reason to reject a token:
// malformed, badly signed, expired, revoked or unknown.
var ErrInvalidToken = errors.New("invalid token")

type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Issuer creates and checks bearer tokens. Verify returns the user id the
// token was issued for; errors other than ErrInvalidToken are storage
// failures.
type Issuer interface {
	Issue(ctx context.Context, user *models.User) (Issued, error)
	Verify(ctx context.Context, token string) (uint, error)
	Revoke(ctx context.Context, token string) error
}

func nowFunc(f func() time.Time) func() time.Time {
	if f == nil {
		return time.Now
	}
	return f
}
