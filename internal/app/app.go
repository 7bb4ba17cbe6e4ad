package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/museofile/internal/config"
	"github.com/Skotchmaster/museofile/internal/events"
	"github.com/Skotchmaster/museofile/internal/httpserver"
	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/internal/museofile"
	"github.com/Skotchmaster/museofile/internal/repo"
	"github.com/Skotchmaster/museofile/internal/service"
	"github.com/Skotchmaster/museofile/internal/token"
	"github.com/Skotchmaster/museofile/pkg/db"
	loggingmw "github.com/Skotchmaster/museofile/pkg/middleware/logging"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Echo *echo.Echo
	DB   *gorm.DB

	cfg      *config.Config
	events   events.Publisher
	sessions *repo.RedisSessions
}

// OpenDB connects to the configured database and applies migrations.
func OpenDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.Migrate(initCtx, gdb, models.All()...); err != nil {
		_ = db.Close(gdb)
		return nil, fmt.Errorf("db migrate error: %w", err)
	}
	return gdb, nil
}

// PurgeSessions deletes opaque token sessions that expired before now.
func PurgeSessions(ctx context.Context, gdb *gorm.DB, now time.Time) (int64, error) {
	store := &repo.DBSessions{Repo: &repo.GormRepo{DB: gdb}}
	return store.PurgeExpired(ctx, now)
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	gdb, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &App{DB: gdb, cfg: cfg}

	r := &repo.GormRepo{DB: gdb}
	issuer, err := a.newIssuer(ctx, r)
	if err != nil {
		a.Close()
		return nil, err
	}
	if cfg.TokenStrategy == config.StrategyOpaque && cfg.SessionBackend == config.SessionBackendDB {
		if n, err := PurgeSessions(ctx, gdb, time.Now()); err != nil {
			logger.Warn("sessions_purge_failed", "error", err)
		} else {
			logger.Info("sessions_purged", "count", n)
		}
	}
	a.events = events.NewProducer(cfg.KafkaBrokers)

	authSvc := &service.AuthService{
		Repo:            r,
		Tokens:          issuer,
		Events:          a.events,
		LoginByEmail:    cfg.LoginIdentifier == config.LoginByEmail,
		IssueOnRegister: cfg.RegisterIssuesToken,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Svc: authSvc},
		FavoritesHandler: &httpserver.FavoritesHTTP{Svc: &service.FavoritesService{Repo: r, Events: a.events}},
		MuseumsHandler: &httpserver.MuseumsHTTP{Svc: &service.MuseumService{
			Client: museofile.NewClient(cfg.MuseofileURL, cfg.MuseofileTimeout),
		}},
		Ready: a.ready,
	})
	a.Echo = e
	return a, nil
}

func (a *App) newIssuer(ctx context.Context, r *repo.GormRepo) (token.Issuer, error) {
	if a.cfg.TokenStrategy == config.StrategyJWT {
		return token.NewJWTIssuer(a.cfg.JWTSecret, a.cfg.JWTAlgorithm, a.cfg.TokenTTL)
	}

	var store repo.SessionStore = &repo.DBSessions{Repo: r}
	if a.cfg.SessionBackend == config.SessionBackendRedis {
		sessions, err := repo.NewRedisSessions(ctx, a.cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		a.sessions = sessions
		store = sessions
	}
	return &token.OpaqueIssuer{Store: store, Lifetime: a.cfg.TokenTTL}, nil
}

func (a *App) ready(ctx context.Context) error {
	if err := db.Ping(ctx, a.DB); err != nil {
		return err
	}
	if a.sessions != nil {
		return a.sessions.Ping(ctx)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", a.cfg.Addr())
		if err := a.Echo.Start(a.cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
	return nil
}

func (a *App) Close() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			log.Printf("events close: %v", err)
		}
	}
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
	if err := db.Close(a.DB); err != nil {
		log.Printf("db close: %v", err)
	}
}
