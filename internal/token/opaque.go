package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/internal/repo"
)

const opaqueTokenBytes = 32

// OpaqueIssuer issues random tokens backed by a server-side session.
type OpaqueIssuer struct {
	Store    repo.SessionStore
	Lifetime time.Duration
	Now      func() time.Time
}

func newOpaqueToken() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (i *OpaqueIssuer) Issue(ctx context.Context, user *models.User) (Issued, error) {
	raw, err := newOpaqueToken()
	if err != nil {
		return Issued{}, fmt.Errorf("generate token: %w", err)
	}
	exp := nowFunc(i.Now)().Add(i.Lifetime).UTC()

	if err := i.Store.SaveSession(ctx, repo.SessionKey(raw), user.ID, exp); err != nil {
		return Issued{}, fmt.Errorf("save session: %w", err)
	}
	return Issued{Token: raw, ExpiresAt: exp}, nil
}

func (i *OpaqueIssuer) Verify(ctx context.Context, raw string) (uint, error) {
	if raw == "" {
		return 0, ErrInvalidToken
	}
	userID, exp, err := i.Store.LookupSession(ctx, repo.SessionKey(raw))
	if errors.Is(err, repo.ErrSessionNotFound) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("lookup session: %w", err)
	}
	if !nowFunc(i.Now)().Before(exp) {
		return 0, fmt.Errorf("%w: session expired", ErrInvalidToken)
	}
	return userID, nil
}

func (i *OpaqueIssuer) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	return i.Store.DeleteSession(ctx, repo.SessionKey(raw))
}
