package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"starwars/internal/auth"
	apperrors "starwars/internal/errors"
	"starwars/internal/model"
	"starwars/internal/repository"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  *model.User
}

// AuthService handles registration, login and token-derived identity.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
	DeleteCurrentUser(ctx context.Context, identity auth.Identity) error
}

type authService struct {
	store      repository.Store
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	log        *slog.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store repository.Store, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, log *slog.Logger) AuthService {
	return &authService{
		store:      store,
		jwtService: jwtService,
		tokenStore: tokenStore,
		log:        log.With("service", "auth"),
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a bcrypt-hashed password. Email is the identity
// key: registering an email twice is a conflict whatever the password.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.Validation("please provide a valid email")
	}
	if password == "" {
		return nil, apperrors.Validation("please provide a valid password")
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, apperrors.Validation("password must be at most %d bytes", auth.MaxPasswordBytes)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{Email: email, PasswordHash: hashed, IsActive: true}

	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		existing, err := tx.Users().FindByEmail(ctx, email)
		if err == nil && existing != nil {
			return repository.ErrDuplicateKey
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check user existence: %w", err)
		}
		return tx.Users().Create(ctx, user)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, apperrors.Conflict("user already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	var user *model.User
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		user, err = tx.Users().FindByEmail(ctx, email)
		return err
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		auth.BurnPasswordCheck(password)
		return nil, apperrors.NotFound("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, password) || !user.IsActive {
		return nil, apperrors.NotFound("invalid email or password")
	}

	token, _, err := s.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the caller's identity.
func (s *authService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, apperrors.Unauthorized("missing token")
	}

	claims, err := s.jwtService.ValidateToken(token)
	if errors.Is(err, auth.ErrExpiredToken) {
		return auth.Identity{}, apperrors.Unauthorized("token has expired")
	}
	if err != nil {
		return auth.Identity{}, apperrors.Unauthorized("invalid token")
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return auth.Identity{}, apperrors.Unauthorized("token has been revoked")
	}

	return auth.IdentityFromClaims(claims), nil
}

// DeleteCurrentUser removes the caller and their favorites in one unit of
// work, then revokes the presented token for the rest of its lifetime.
func (s *authService) DeleteCurrentUser(ctx context.Context, identity auth.Identity) error {
	var removedFavorites int64
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Users().FindByID(ctx, identity.UserID); err != nil {
			return err
		}
		n, err := tx.Favorites().DeleteByUser(ctx, identity.UserID)
		if err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		removedFavorites = n
		return tx.Users().Delete(ctx, identity.UserID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("user %d not found", identity.UserID)
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ttl := identity.ExpiresAt.Sub(s.now()); ttl > 0 {
		if err := s.tokenStore.Revoke(ctx, identity.TokenID, ttl); err != nil {
			s.log.Warn("revoke token failed", "user_id", identity.UserID, "error", err)
		}
	}

	s.log.Info("user deleted", "user_id", identity.UserID, "favorites_removed", removedFavorites)
	return nil
}
