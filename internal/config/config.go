package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	pkgcfg "github.com/Skotchmaster/museofile/pkg/config"
	"github.com/Skotchmaster/museofile/pkg/db"
	"github.com/Skotchmaster/museofile/pkg/tokens"
)

const (
	StrategyJWT    = "jwt"
	StrategyOpaque = "opaque"

	SessionBackendDB    = "db"
	SessionBackendRedis = "redis"

	LoginByEmail    = "email"
	LoginByUsername = "username"

	DefaultMuseofileURL = "https://data.culture.gouv.fr/api/explore/v2.1/catalog/datasets/musees-de-france-base-museofile/records"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseDriver string
	DatabaseURL    string

	JWTSecret    []byte
	JWTAlgorithm string
	TokenTTL     time.Duration

	TokenStrategy       string
	SessionBackend      string
	RedisAddr           string
	LoginIdentifier     string
	RegisterIssuesToken bool

	MuseofileURL     string
	MuseofileTimeout time.Duration

	KafkaBrokers []string
}

// Load reads .env (when present) and the process environment and validates
// every setting the server needs.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for commands that only touch the database. Token and
// upstream settings are read but not validated.
func LoadDatabase() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("notice: .env not loaded: %v. Using system environment variables", err)
	}

	port, err := pkgcfg.EnvIntDefault("SERVER_PORT", 8000)
	if err != nil {
		return nil, err
	}
	ttlMinutes, err := pkgcfg.EnvIntDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 1440)
	if err != nil {
		return nil, err
	}
	issueOnRegister, err := pkgcfg.EnvBoolDefault("REGISTER_ISSUES_TOKEN", false)
	if err != nil {
		return nil, err
	}
	timeout, err := pkgcfg.EnvDurationDefault("MUSEOFILE_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "museofile"),
		ServerPort:  port,
		LogLevel:    pkgcfg.EnvDefault("LOG_LEVEL", "info"),

		DatabaseDriver: pkgcfg.EnvDefault("DATABASE_DRIVER", db.DriverSQLite),
		DatabaseURL:    pkgcfg.EnvDefault("DATABASE_URL", "museofile.db"),

		JWTSecret:    []byte(os.Getenv("MUSEOFILE_SECRET")),
		JWTAlgorithm: pkgcfg.EnvDefault("MUSEOFILE_ALGORITHM", "HS256"),
		TokenTTL:     time.Duration(ttlMinutes) * time.Minute,

		TokenStrategy:       pkgcfg.EnvDefault("TOKEN_STRATEGY", StrategyJWT),
		SessionBackend:      pkgcfg.EnvDefault("SESSION_BACKEND", SessionBackendDB),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		LoginIdentifier:     pkgcfg.EnvDefault("LOGIN_IDENTIFIER", LoginByUsername),
		RegisterIssuesToken: issueOnRegister,

		MuseofileURL:     pkgcfg.EnvDefault("MUSEOFILE_API_URL", DefaultMuseofileURL),
		MuseofileTimeout: timeout,

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),
	}
	return cfg, nil
}

func (c *Config) ValidateDatabase() error {
	switch c.DatabaseDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("%w: DATABASE_DRIVER must be %q or %q", ErrInvalidConfig, db.DriverSQLite, db.DriverPostgres)
	}
	return pkgcfg.NonEmpty(c.DatabaseURL, "DATABASE_URL")
}

func (c *Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}

	switch c.TokenStrategy {
	case StrategyJWT:
		if err := pkgcfg.NonEmptyBytes(c.JWTSecret, "MUSEOFILE_SECRET"); err != nil {
			return err
		}
		if _, err := tokens.SigningMethod(c.JWTAlgorithm); err != nil {
			return fmt.Errorf("%w: MUSEOFILE_ALGORITHM: %v", ErrInvalidConfig, err)
		}
	case StrategyOpaque:
		switch c.SessionBackend {
		case SessionBackendDB:
		case SessionBackendRedis:
			if err := pkgcfg.NonEmpty(c.RedisAddr, "REDIS_ADDR"); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: SESSION_BACKEND must be %q or %q", ErrInvalidConfig, SessionBackendDB, SessionBackendRedis)
		}
	default:
		return fmt.Errorf("%w: TOKEN_STRATEGY must be %q or %q", ErrInvalidConfig, StrategyJWT, StrategyOpaque)
	}

	switch c.LoginIdentifier {
	case LoginByEmail, LoginByUsername:
	default:
		return fmt.Errorf("%w: LOGIN_IDENTIFIER must be %q or %q", ErrInvalidConfig, LoginByEmail, LoginByUsername)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: ACCESS_TOKEN_EXPIRE_MINUTES must be positive", ErrInvalidConfig)
	}
	if c.MuseofileTimeout <= 0 {
		return fmt.Errorf("%w: MUSEOFILE_API_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("%w: SERVER_PORT out of range", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
