package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// RegisterInput contains the input parameters for registering an account.
type RegisterInput struct {
	Username        string
	Password        string
	PasswordConfirm string
}

// LoginOutput contains a signed access token.
type LoginOutput struct {
	User        *model.User
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService defines account and caller resolution operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)

	// Authenticate returns ErrInvalidCredentials for an unknown user or wrong password.
	Authenticate(ctx context.Context, username, password string) (uuid.UUID, error)

	Login(ctx context.Context, username, password string) (*LoginOutput, error)

	// ResolveCaller reads the privilege flag from storage on every call so
	// revoking admin rights takes effect without reissuing tokens.
	ResolveCaller(ctx context.Context, token string) (model.Caller, error)

	IsPrivileged(ctx context.Context, userID uuid.UUID) (bool, error)

	// EnsureAdmin creates or promotes a privileged account. An empty username is a no-op.
	EnsureAdmin(ctx context.Context, username, password string) error
}

// AuthServiceConfig holds configuration for AuthService.
type AuthServiceConfig struct {
	TokenTTL time.Duration
}

type authService struct {
	store  repository.Store
	tokens TokenIssuer
	hasher PasswordHasher

	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	store repository.Store,
	tokens TokenIssuer,
	hasher PasswordHasher,
	cfg AuthServiceConfig,
) AuthService {
	return &authService{
		store:    store,
		tokens:   tokens,
		hasher:   hasher,
		tokenTTL: cfg.TokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := model.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := model.ValidatePassword(input.Password, input.PasswordConfirm); err != nil {
		return nil, err
	}

	return s.createUser(ctx, input.Username, input.Password, false)
}

func (s *authService) createUser(ctx context.Context, username, password string, isAdmin bool) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := model.NewUser(username, hash, isAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.store.Repositories().Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (uuid.UUID, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func (s *authService) authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.store.Repositories().Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginOutput, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginOutput{
		User:        user,
		AccessToken: token,
		ExpiresAt:   time.Now().UTC().Add(s.tokenTTL),
	}, nil
}

func (s *authService) ResolveCaller(ctx context.Context, token string) (model.Caller, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return model.Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.store.Repositories().Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Caller{}, ErrInvalidToken
		}
		return model.Caller{}, fmt.Errorf("get user: %w", err)
	}

	return model.Caller{UserID: user.ID, Privileged: user.IsAdmin}, nil
}

func (s *authService) IsPrivileged(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.store.Repositories().Users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}

	users := s.store.Repositories().Users
	user, err := users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if err := model.ValidatePassword(password, password); err != nil {
			return fmt.Errorf("admin password: %w", err)
		}
		user, err := s.createUser(ctx, username, password, true)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		slog.Info("admin account created", "user_id", user.ID, "username", username)
		return nil
	case err != nil:
		return fmt.Errorf("get admin: %w", err)
	}

	if user.IsAdmin {
		return nil
	}
	if err := users.SetAdmin(ctx, user.ID, true); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	slog.Info("account promoted to admin", "user_id", user.ID, "username", username)
	return nil
}
