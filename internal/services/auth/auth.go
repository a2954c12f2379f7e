// Package auth implements registration, login, token issuing and the
// self-service account operations. Tokens carry only the user id; the role
// is re-fetched from storage on every authenticated request, so a role or
// disabled-flag change takes effect immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/lib/jwt"
	"github.com/lecturelink/lecture-match/internal/lib/password"
	"github.com/lecturelink/lecture-match/internal/models"
)

// UserRepository defines the storage methods used by the auth service.
type UserRepository interface {
	// CreateUser stores a new account.
	CreateUser(ctx context.Context, user models.User) error
	// GetUser returns an account by id.
	GetUser(ctx context.Context, id string) (*models.User, error)
	// GetUserByEmail returns an account by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByPhone returns an account by phone number.
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	// GetUserByNameEmail returns an account matching both name and email.
	GetUserByNameEmail(ctx context.Context, name, email string) (*models.User, error)
	// GetUserByIDEmail returns an account matching both id and email.
	GetUserByIDEmail(ctx context.Context, id, email string) (*models.User, error)
	// UpdateUser replaces the mutable profile fields.
	UpdateUser(ctx context.Context, user *models.User) error
	// UpdatePassword overwrites the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service implements the identity operations.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New creates an auth Service.
func New(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register creates a new account. The id, email and phone must each be
// unused; they are checked in that order and the first taken one wins.
func (s *Service) Register(ctx context.Context, req models.SignupRequest) error {
	const op = "auth.Register"

	checks := []func(context.Context) (*models.User, error){
		func(ctx context.Context) (*models.User, error) { return s.users.GetUser(ctx, req.ID) },
		func(ctx context.Context) (*models.User, error) { return s.users.GetUserByEmail(ctx, req.Email) },
		func(ctx context.Context) (*models.User, error) { return s.users.GetUserByPhone(ctx, req.Phone) },
	}
	for _, check := range checks {
		_, err := check(ctx)
		if err == nil {
			return fmt.Errorf("%s: already registered: %w", op, apperr.ErrConflict)
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		ID:           req.ID,
		Name:         req.Name,
		PasswordHash: hashed,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         models.Role(req.Role),
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered user", slog.String("id", user.ID), slog.String("role", string(user.Role)))
	return nil
}

// Login verifies the password and issues an access and a refresh token.
// Disabled accounts cannot log in.
func (s *Service) Login(ctx context.Context, id, rawPassword string) (*TokenPair, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: invalid credentials: %w", op, apperr.ErrUnauthenticated)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.Disabled {
		return nil, nil, fmt.Errorf("%s: account disabled: %w", op, apperr.ErrUnauthenticated)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, nil, fmt.Errorf("%s: invalid credentials: %w", op, apperr.ErrUnauthenticated)
	}

	access, err := s.jwtMaker.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("id", user.ID))
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "auth.Refresh"

	claims, err := s.jwtMaker.ParseToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, apperr.ErrUnauthenticated)
	}
	if claims.TokenUse != jwt.UseRefresh {
		return "", fmt.Errorf("%s: not a refresh token: %w", op, apperr.ErrUnauthenticated)
	}

	user, err := s.users.GetUser(ctx, claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, apperr.ErrUnauthenticated)
	}
	if user.Disabled {
		return "", fmt.Errorf("%s: account disabled: %w", op, apperr.ErrUnauthenticated)
	}

	access, err := s.jwtMaker.GenerateAccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return access, nil
}

// FindID looks up an account by name and email and returns the user id with
// its last three characters masked.
func (s *Service) FindID(ctx context.Context, name, email string) (string, error) {
	const op = "auth.FindID"

	user, err := s.users.GetUserByNameEmail(ctx, name, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return maskID(user.ID), nil
}

// FindPassword verifies id and email, overwrites the stored hash with a
// freshly generated temporary password and returns that password.
func (s *Service) FindPassword(ctx context.Context, id, email string) (string, error) {
	const op = "auth.FindPassword"

	user, err := s.users.GetUserByIDEmail(ctx, id, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	temp, err := password.GenerateTemp()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(temp)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("issued temporary password", slog.String("id", user.ID))
	return temp, nil
}

// CheckAvailable reports whether the given identity field value is still
// unused. Field is one of "id", "email" or "phone".
func (s *Service) CheckAvailable(ctx context.Context, field, value string) (bool, error) {
	const op = "auth.CheckAvailable"

	var err error
	switch field {
	case "id":
		_, err = s.users.GetUser(ctx, value)
	case "email":
		_, err = s.users.GetUserByEmail(ctx, value)
	case "phone":
		_, err = s.users.GetUserByPhone(ctx, value)
	default:
		return false, fmt.Errorf("%s: unknown field %q: %w", op, field, apperr.ErrValidation)
	}
	if err == nil {
		return false, nil
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return true, nil
	}
	return false, fmt.Errorf("%s: %w", op, err)
}

// GetUser returns the account profile.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "auth.GetUser"

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of req to the account. A supplied
// password is re-hashed before storage.
func (s *Service) UpdateUser(ctx context.Context, id string, req models.UserUpdateRequest) error {
	const op = "auth.UpdateUser"

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		user.PasswordHash = hashed
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated user profile", slog.String("id", id))
	return nil
}

// ValidateToken parses an access token and re-fetches its user. Refresh
// tokens are rejected here: they only pass through Refresh.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrUnauthenticated)
	}
	if claims.TokenUse != jwt.UseAccess {
		return nil, fmt.Errorf("%s: not an access token: %w", op, apperr.ErrUnauthenticated)
	}

	user, err := s.users.GetUser(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrUnauthenticated)
	}
	if user.Disabled {
		return nil, fmt.Errorf("%s: account disabled: %w", op, apperr.ErrUnauthenticated)
	}
	return user, nil
}

// maskID hides the last three runes of a user id. Short ids mask entirely.
func maskID(id string) string {
	runes := []rune(id)
	if len(runes) <= 3 {
		return "***"
	}
	return string(runes[:len(runes)-3]) + "***"
}
