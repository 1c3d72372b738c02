package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"okane/internal/model"
	"okane/internal/password"
	"okane/internal/token"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type refreshStore interface {
	Put(ctx context.Context, hash string, userID string, ttl time.Duration) error
	TakeOne(ctx context.Context, hash string) (string, error)
	Delete(ctx context.Context, hash string) error
}

// AuthService orchestrates the register, login, refresh and logout flows.
// Access tokens are stateless; refresh secrets live in the store only as
// hashes, single-use, and rotate on every successful refresh.
type AuthService struct {
	users      userStore
	refresh    refreshStore
	issuer     *token.Issuer
	refreshTTL time.Duration
}

func NewAuthService(users userStore, refresh refreshStore, issuer *token.Issuer, refreshTTL time.Duration) (*AuthService, error) {
	if issuer == nil {
		return nil, errors.New("token issuer is required")
	}
	if refreshTTL <= 0 {
		return nil, errors.New("refresh TTL must be positive")
	}

	return &AuthService{
		users:      users,
		refresh:    refresh,
		issuer:     issuer,
		refreshTTL: refreshTTL,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email string, plaintext string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || plaintext == "" {
		return model.Session{}, model.ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.Session{}, err
	}
	if exists {
		return model.Session{}, model.ErrUserAlreadyExists
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return model.Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index on email settles concurrent registrations; the
	// pre-check above only covers the common path.
	if err := s.users.Create(ctx, user); err != nil {
		return model.Session{}, err
	}

	return s.issueSession(ctx, user)
}

// Login verifies credentials and opens a session. An unknown email and a
// wrong password are the same error; callers get no enumeration signal.
func (s *AuthService) Login(ctx context.Context, email string, plaintext string) (model.Session, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, err
	}

	ok, err := password.Verify(plaintext, user.PasswordHash)
	if err != nil {
		// Malformed stored digest is a data problem, not a bad password.
		return model.Session{}, fmt.Errorf("verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		return model.Session{}, model.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// Refresh redeems a presented secret for a new session. The matched record
// is claimed atomically, so a replayed secret always misses, and a fresh
// secret is issued in its place.
func (s *AuthService) Refresh(ctx context.Context, presentedSecret string) (model.Session, error) {
	if strings.TrimSpace(presentedSecret) == "" {
		return model.Session{}, model.ErrRefreshMissing
	}

	hash := password.HashRefreshSecret(presentedSecret)
	userID, err := s.refresh.TakeOne(ctx, hash)
	if errors.Is(err, model.ErrRefreshNotFound) {
		return model.Session{}, model.ErrRefreshInvalid
	}
	if err != nil {
		return model.Session{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		// User deleted after the record was written; the record is
		// already gone, nothing to revoke.
		return model.Session{}, model.ErrRefreshInvalid
	}
	if err != nil {
		return model.Session{}, err
	}

	return s.issueSession(ctx, user)
}

// Logout revokes the record behind the presented secret. Idempotent; an
// absent or empty secret is not an error.
func (s *AuthService) Logout(ctx context.Context, presentedSecret string) error {
	if strings.TrimSpace(presentedSecret) == "" {
		return nil
	}
	return s.refresh.Delete(ctx, password.HashRefreshSecret(presentedSecret))
}

// GetUserByID resolves the subject of a validated access token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.AuthUser{}, err
	}
	return model.AuthUser{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// ValidateAccessToken verifies a bearer token and returns its claims.
func (s *AuthService) ValidateAccessToken(tokenString string) (*token.Claims, error) {
	return s.issuer.Validate(tokenString)
}

// issueSession mints the access token and writes the refresh record. The
// record is stored before the session is handed back, so an aborted request
// never leaves an access token without its refresh counterpart.
func (s *AuthService) issueSession(ctx context.Context, user model.User) (model.Session, error) {
	accessToken, err := s.issuer.Issue(user.ID)
	if err != nil {
		return model.Session{}, err
	}

	secret, err := password.NewRefreshSecret()
	if err != nil {
		return model.Session{}, err
	}

	if err := s.refresh.Put(ctx, password.HashRefreshSecret(secret), user.ID, s.refreshTTL); err != nil {
		return model.Session{}, err
	}

	return model.Session{
		AccessToken:   accessToken,
		ExpiresIn:     int64(s.issuer.TTL().Seconds()),
		RefreshSecret: secret,
		User:          model.AuthUser{ID: user.ID, Email: user.Email, Role: user.Role},
	}, nil
}
