package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "museofile:session:"

type redisSession struct {
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// redisClient is the subset of *redis.Client used for sessions.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisSessions stores opaque token sessions in Redis with a TTL matching
// the token lifetime.
type RedisSessions struct {
	client redisClient
	now    func() time.Time
}

func NewRedisSessions(ctx context.Context, addr string) (*RedisSessions, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisSessions{client: client, now: time.Now}, nil
}

func (s *RedisSessions) Close() error {
	return s.client.Close()
}

func (s *RedisSessions) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSessions) SaveSession(ctx context.Context, tokenHash string, userID uint, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(redisSession{UserID: userID, ExpiresAt: expiresAt.UTC()})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+tokenHash, payload, ttl).Err()
}

func (s *RedisSessions) LookupSession(ctx context.Context, tokenHash string) (uint, time.Time, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, time.Time{}, ErrSessionNotFound
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	var sess redisSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return 0, time.Time{}, err
	}
	return sess.UserID, sess.ExpiresAt, nil
}

func (s *RedisSessions) DeleteSession(ctx context.Context, tokenHash string) error {
	return s.client.Del(ctx, sessionKeyPrefix+tokenHash).Err()
}
