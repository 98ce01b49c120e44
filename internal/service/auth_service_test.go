package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktrack/api/internal/config"
	"stocktrack/api/internal/models"
	"stocktrack/api/internal/repository"
	"stocktrack/api/internal/security"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	byEmail map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user models.User) error {
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

// racingUserStore simulates two registrations passing the email lookup
// before either insert lands: the lookup misses, the insert collides.
type racingUserStore struct{}

func (racingUserStore) Create(ctx context.Context, user models.User) error {
	return repository.ErrDuplicateEmail
}

func (racingUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return models.User{}, repository.ErrUserNotFound
}

func (racingUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	return models.User{}, repository.ErrUserNotFound
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTSecret:      "test-secret",
			LoginTokenTTL:  24 * time.Hour,
			GoogleTokenTTL: 168 * time.Hour,
		},
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := NewAuthService(users, testConfig(), zerolog.Nop())

	user, err := svc.Register(ctx, RegisterInput{
		Name:     "Asha",
		Email:    "Asha@Example.com",
		Password: "pass1234",
		Role:     "user",
		Branch:   "Chennai",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.Equal(t, "Chennai", user.Branch)
	assert.True(t, security.VerifyPassword("pass1234", user.PasswordHash))

	stored, err := users.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := NewAuthService(users, testConfig(), zerolog.Nop())

	_, err := svc.Register(ctx, RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass1234",
		Role: "user", Branch: "Chennai",
	})
	require.NoError(t, err)

	// Different name, role and branch: the email alone decides the conflict.
	_, err = svc.Register(ctx, RegisterInput{
		Name: "Other", Email: "asha@example.com", Password: "different",
		Role: "admin", Branch: "Madurai",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Register_DuplicateOnInsert(t *testing.T) {
	svc := NewAuthService(racingUserStore{}, testConfig(), zerolog.Nop())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass1234",
		Role: "user", Branch: "Chennai",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_CurrentUser(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := NewAuthService(users, testConfig(), zerolog.Nop())

	registered, err := svc.Register(ctx, RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass1234",
		Role: "user", Branch: "Chennai",
	})
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, user.Email)
	assert.Equal(t, "Chennai", user.Branch)

	_, err = svc.CurrentUser(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := NewAuthService(users, testConfig(), zerolog.Nop())

	_, err := svc.Register(ctx, RegisterInput{
		Name: "Ravi", Email: "ravi@example.com", Password: "pass1234",
		Role: "admin", Branch: "Madurai",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "unknown email", email: "nobody@example.com", password: "pass1234", wantErr: ErrUserNotFound},
		{name: "wrong password", email: "ravi@example.com", password: "nope", wantErr: ErrInvalidPassword},
		{name: "success", email: "ravi@example.com", password: "pass1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, result.Token)

			claims, err := security.ParseAccessToken(result.Token, "test-secret")
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.Role)
			assert.Equal(t, "Madurai", claims.Branch)
			assert.Equal(t, "ravi@example.com", claims.Email)
			assert.Equal(t, result.User.ID, claims.UserID)
		})
	}
}

func TestAuthService_CompleteGoogleLogin(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := NewAuthService(users, testConfig(), zerolog.Nop())

	_, err := svc.CompleteGoogleLogin(ctx, "unknown@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	registered, err := svc.Register(ctx, RegisterInput{
		Name: "Mena", Email: "mena@example.com", Password: "pass1234",
		Role: "user", Branch: "Trichy",
	})
	require.NoError(t, err)

	result, err := svc.CompleteGoogleLogin(ctx, "Mena@Example.com")
	require.NoError(t, err)

	claims, err := security.ParseAccessToken(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "Trichy", claims.Branch)

	// Federated tokens outlive password tokens: 7 days, not 1.
	ttl := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, ttl, 166*time.Hour)
	assert.LessOrEqual(t, ttl, 168*time.Hour)
}
