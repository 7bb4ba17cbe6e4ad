package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/museofile/internal/config"
	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/internal/repo"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServiceName:      "museofile",
		ServerPort:       8000,
		DatabaseDriver:   "sqlite",
		DatabaseURL:      filepath.Join(t.TempDir(), "app.db"),
		JWTSecret:        []byte("test-jwt-secret"),
		JWTAlgorithm:     "HS256",
		TokenTTL:         time.Hour,
		TokenStrategy:    config.StrategyJWT,
		SessionBackend:   config.SessionBackendDB,
		LoginIdentifier:  config.LoginByUsername,
		MuseofileURL:     "http://127.0.0.1:1/records",
		MuseofileTimeout: time.Second,
	}
}

func do(a *App, method, path, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestNew_WiresRoutes(t *testing.T) {
	for _, strategy := range []string{config.StrategyJWT, config.StrategyOpaque} {
		strategy := strategy
		t.Run(strategy, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.TokenStrategy = strategy

			a, err := New(context.Background(), cfg, logging.New("error"))
			require.NoError(t, err)
			t.Cleanup(a.Close)

			rec := do(a, http.MethodGet, "/health/ready", "", "")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

			rec = do(a, http.MethodPost, "/users", `{"username":"alice","email":"alice@example.com","password":"pw123"}`, "")
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			rec = do(a, http.MethodGet, "/favorites", "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestOpenDB_MigratesTwice(t *testing.T) {
	cfg := testConfig(t)

	first, err := OpenDB(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, first.Exec("SELECT 1").Error)
	sqlDB, err := first.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	second, err := OpenDB(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, second.Migrator().HasTable("favorites"))
	sqlDB, err = second.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func seedSessions(t *testing.T, cfg *config.Config, now time.Time) {
	t.Helper()
	ctx := context.Background()

	gdb, err := OpenDB(ctx, cfg)
	require.NoError(t, err)
	defer func() {
		sqlDB, err := gdb.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	}()

	r := &repo.GormRepo{DB: gdb}
	u := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, u))

	store := &repo.DBSessions{Repo: r}
	require.NoError(t, store.SaveSession(ctx, repo.SessionKey("stale"), u.ID, now.Add(-time.Minute)))
	require.NoError(t, store.SaveSession(ctx, repo.SessionKey("live"), u.ID, now.Add(time.Hour)))
}

func countSessions(t *testing.T, a *App) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.DB.Model(&models.Session{}).Count(&n).Error)
	return n
}

func TestPurgeSessions_RemovesOnlyExpired(t *testing.T) {
	cfg := testConfig(t)
	now := time.Now().UTC()
	seedSessions(t, cfg, now)

	gdb, err := OpenDB(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		_ = sqlDB.Close()
	})

	n, err := PurgeSessions(context.Background(), gdb, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = PurgeSessions(context.Background(), gdb, now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestNew_PurgesExpiredSessionsForOpaqueDB(t *testing.T) {
	cfg := testConfig(t)
	cfg.TokenStrategy = config.StrategyOpaque
	seedSessions(t, cfg, time.Now().UTC())

	a, err := New(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.EqualValues(t, 1, countSessions(t, a))
}

func TestNew_KeepsSessionsForJWT(t *testing.T) {
	cfg := testConfig(t)
	seedSessions(t, cfg, time.Now().UTC())

	a, err := New(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.EqualValues(t, 2, countSessions(t, a))
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.ServerPort = 0

	a, err := New(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
