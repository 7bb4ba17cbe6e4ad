package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/pkg/hash"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps opaque token sessions keyed by the token's SHA-256.
type SessionStore interface {
	SaveSession(ctx context.Context, tokenHash string, userID uint, expiresAt time.Time) error
	LookupSession(ctx context.Context, tokenHash string) (userID uint, expiresAt time.Time, err error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

type DBSessions struct {
	Repo *GormRepo
}

func (s *DBSessions) SaveSession(ctx context.Context, tokenHash string, userID uint, expiresAt time.Time) error {
	sess := models.Session{
		TokenHash: tokenHash,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}
	return s.Repo.DB.WithContext(ctx).Create(&sess).Error
}

func (s *DBSessions) LookupSession(ctx context.Context, tokenHash string) (uint, time.Time, error) {
	var sess models.Session
	err := s.Repo.DB.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, time.Time{}, ErrSessionNotFound
		}
		return 0, time.Time{}, err
	}
	return sess.UserID, sess.ExpiresAt, nil
}

func (s *DBSessions) DeleteSession(ctx context.Context, tokenHash string) error {
	return s.Repo.DB.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&models.Session{}).Error
}

// PurgeExpired removes sessions that expired before now.
func (s *DBSessions) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.Repo.DB.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func SessionKey(token string) string {
	return hash.Sha256Hex(token)
}
