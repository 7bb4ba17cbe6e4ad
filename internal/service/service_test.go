package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/museofile/internal/events"
	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/internal/repo"
	"github.com/Skotchmaster/museofile/internal/token"
	"github.com/Skotchmaster/museofile/pkg/db"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	repo   *repo.GormRepo
	tokens *token.JWTIssuer
	pub    *recordingPublisher
	auth   *AuthService
	favs   *FavoritesService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb, models.All()...))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	issuer, err := token.NewJWTIssuer([]byte("test-jwt-secret"), "HS256", time.Hour)
	require.NoError(t, err)
	pub := &recordingPublisher{}

	return &testEnv{
		repo:   r,
		tokens: issuer,
		pub:    pub,
		auth:   &AuthService{Repo: r, Tokens: issuer, Events: pub},
		favs:   &FavoritesService{Repo: r, Events: pub},
	}
}

func (e *testEnv) register(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), username, email, password)
	require.NoError(t, err)
	return res.User
}
