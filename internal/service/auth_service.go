package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"stocktrack/api/internal/config"
	"stocktrack/api/internal/ids"
	"stocktrack/api/internal/log"
	"stocktrack/api/internal/models"
	"stocktrack/api/internal/repository"
	"stocktrack/api/internal/security"
)

var (
	ErrEmailTaken      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)

// UserStore is the subset of the user repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type AuthService struct {
	users UserStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users UserStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
		log:   log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Branch   string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	// The lookup gives the friendly conflict answer; the unique index on
	// users.email decides when two registrations race past it.
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         models.UserRole(input.Role),
		Branch:       input.Branch,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	s.log.Info().
		Str("request_id", log.RequestID(ctx)).
		Str("user_id", user.ID).
		Str("branch", user.Branch).
		Msg("user registered")
	return user, nil
}

type LoginResult struct {
	Token string
	User  models.User
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, err
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidPassword
	}

	token, err := security.GenerateAccessToken(
		s.cfg.Security.JWTSecret,
		user.ID,
		string(user.Role),
		user.Branch,
		user.Email,
		s.cfg.Security.LoginTokenTTL,
	)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, User: user}, nil
}

// CurrentUser resolves an authenticated id to its stored profile. Tokens are
// stateless, so this is the only place a live session meets the user table: a
// valid token whose account has since disappeared reads as not found.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// CompleteGoogleLogin issues the long-lived federated token once the
// provider has vouched for the email. Only registered users may complete
// the handshake.
func (s *AuthService) CompleteGoogleLogin(ctx context.Context, email string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, err
	}

	token, err := security.GenerateAccessToken(
		s.cfg.Security.JWTSecret,
		user.ID,
		string(user.Role),
		user.Branch,
		user.Email,
		s.cfg.Security.GoogleTokenTTL,
	)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().
		Str("request_id", log.RequestID(ctx)).
		Str("user_id", user.ID).
		Msg("google login completed")
	return LoginResult{Token: token, User: user}, nil
}
