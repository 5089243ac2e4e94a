package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recipebook/recipebook-go/internal/apierror"
	"github.com/recipebook/recipebook-go/internal/crypto"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/repository"
)

// AuthService handles user registration and credential verification, and
// orchestrates token issuance at sign-in.
type AuthService struct {
	users     *repository.UserRepository
	tokens    *RefreshTokenService
	jwtSecret []byte
	accessTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, tokens *RefreshTokenService, secret []byte, accessTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		jwtSecret: secret,
		accessTTL: accessTTL,
	}
}

// Signup registers a new user. The email must not belong to an existing
// non-deleted user; the unique index backs up the existence check so a
// concurrent signup for the same email cannot slip through.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.UserResponse, error) {
	if fields := req.Validate(); fields != nil {
		return model.UserResponse{}, apierror.Validation(fields)
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.UserResponse{}, err
	}
	if exists {
		return model.UserResponse{}, apierror.Conflict(fmt.Sprintf("User already exists by email '%s'.", req.Email))
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		GUID:         uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, apierror.Conflict(fmt.Sprintf("User already exists by email '%s'.", req.Email))
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:        user.GUID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// SignIn verifies the credentials and returns a fresh access token, a new
// refresh token and the user's public details. Bad credentials and unknown
// users both surface as an authentication failure.
func (s *AuthService) SignIn(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error) {
	if fields := req.Validate(); fields != nil {
		return model.AuthResponse{}, apierror.Validation(fields)
	}

	principal, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	accessToken, err := crypto.IssueToken(principal, s.jwtSecret, s.accessTTL)
	if err != nil {
		return model.AuthResponse{}, err
	}

	refreshToken, err := s.tokens.Create(ctx, principal.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserInfo: model.UserResponse{
			ID:        principal.GUID,
			FirstName: principal.FirstName,
			LastName:  principal.LastName,
		},
	}, nil
}

// Refresh redeems a refresh token and mints a new access token for its owner.
func (s *AuthService) Refresh(ctx context.Context, req model.TokenRefreshRequest) (model.TokenRefreshResponse, error) {
	if fields := req.Validate(); fields != nil {
		return model.TokenRefreshResponse{}, apierror.Validation(fields)
	}

	principal, err := s.tokens.Redeem(ctx, req.RefreshToken)
	if err != nil {
		return model.TokenRefreshResponse{}, err
	}

	accessToken, err := crypto.IssueToken(principal, s.jwtSecret, s.accessTTL)
	if err != nil {
		return model.TokenRefreshResponse{}, err
	}

	return model.TokenRefreshResponse{AccessToken: accessToken}, nil
}

// authenticate resolves the user by email and checks the password, yielding a
// Principal with no password material.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (model.Principal, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Principal{}, apierror.Authentication("User not found by email : " + email)
		}
		return model.Principal{}, err
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return model.Principal{}, apierror.Authentication("Bad credentials")
	}

	return model.Principal{
		ID:        user.ID,
		GUID:      user.GUID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}
