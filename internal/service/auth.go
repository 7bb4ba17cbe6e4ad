package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/museofile/internal/events"
	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/internal/repo"
	"github.com/Skotchmaster/museofile/internal/token"
	pkg_hash "github.com/Skotchmaster/museofile/pkg/hash"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

// bcrypt only looks at the first 72 bytes of a password.
const maxPasswordBytes = 72

type AuthService struct {
	Repo            *repo.GormRepo
	Tokens          token.Issuer
	Events          events.Publisher
	LoginByEmail    bool
	IssueOnRegister bool
}

type RegisterResult struct {
	User  *models.User
	Token *token.Issued
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

func validateRegistration(username, email, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return "", "", fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return "", "", fmt.Errorf("%w: password longer than %d bytes", ErrValidation, maxPasswordBytes)
	}
	return username, email, nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*RegisterResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username, email, err := validateRegistration(username, email, password)
	if err != nil {
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	res := &RegisterResult{User: user}
	if s.IssueOnRegister {
		issued, err := s.Tokens.Issue(ctx, user)
		if err != nil {
			l.Error("register_error", "status", 500, "reason", "cannot issue token", "error", err)
			return nil, err
		}
		res.Token = &issued
	}

	publish(ctx, s.Events, events.TopicUserEvents, events.Event{
		Type:     events.TypeUserRegistered,
		UserID:   user.ID,
		Username: user.Username,
	})
	l.Info("user_registered", "user_id", user.ID)
	return res, nil
}

// identifier picks the login field according to the configured mode. In
// email mode a bare username field is accepted as the email, which is how
// OAuth2 password forms send it.
func (s *AuthService) identifier(in LoginInput) string {
	if !s.LoginByEmail {
		return strings.TrimSpace(in.Username)
	}
	if e := strings.TrimSpace(in.Email); e != "" {
		return strings.ToLower(e)
	}
	return strings.ToLower(strings.TrimSpace(in.Username))
}

func (s *AuthService) findForLogin(ctx context.Context, ident string) (*models.User, error) {
	if s.LoginByEmail {
		return s.Repo.FindUserByEmail(ctx, ident)
	}
	return s.Repo.FindUserByUsername(ctx, ident)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	ident := s.identifier(in)
	l := logging.FromContext(ctx).With("svc", "auth.login", "identifier", ident)

	if ident == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", ErrValidation)
	}

	user, err := s.findForLogin(ctx, ident)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pkg_hash.BurnCompare(in.Password)
			l.Warn("login_failed", "status", 401, "reason", "unknown identifier")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, in.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	issued, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUserEvents, events.Event{
		Type:     events.TypeUserLoggedIn,
		UserID:   user.ID,
		Username: user.Username,
	})
	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{AccessToken: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// Authenticate resolves a bearer token to its user. Every client-side
// failure is ErrUnauthorized; anything else is a storage error.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	userID, err := s.Tokens.Verify(ctx, raw)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d no longer exists", ErrUnauthorized, userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if err := s.Tokens.Revoke(ctx, raw); err != nil {
		logging.FromContext(ctx).Error("logout_failed", "status", 500, "error", err)
		return err
	}
	return nil
}
