package service

import (
	"context"
	"errors"
	"time"

	"github.com/recipebook/recipebook-go/internal/apierror"
	"github.com/recipebook/recipebook-go/internal/crypto"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/repository"
)

// RefreshTokenService issues, redeems and expires opaque server-side refresh
// tokens. Redemption does not rotate the token: a token stays redeemable any
// number of times until its expiry instant.
type RefreshTokenService struct {
	tokens   *repository.TokenRepository
	users    *repository.UserRepository
	validity time.Duration
	now      func() time.Time
}

// NewRefreshTokenService creates a new RefreshTokenService.
func NewRefreshTokenService(tokens *repository.TokenRepository, users *repository.UserRepository, validity time.Duration) *RefreshTokenService {
	return &RefreshTokenService{
		tokens:   tokens,
		users:    users,
		validity: validity,
		now:      time.Now,
	}
}

// Create issues a new refresh token for the user.
func (s *RefreshTokenService) Create(ctx context.Context, userID int64) (string, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apierror.NotFound("User", "ID", userID)
		}
		return "", err
	}

	tokenString, err := crypto.GenerateOpaqueToken()
	if err != nil {
		return "", err
	}

	token := &model.RefreshToken{
		UserID:     userID,
		Token:      tokenString,
		ExpiryDate: s.now().Add(s.validity),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return "", err
	}

	return tokenString, nil
}

// Redeem resolves a refresh token to the owning user's Principal. A token at
// or past its expiry instant is deleted and rejected; an unknown token is
// rejected outright.
func (s *RefreshTokenService) Redeem(ctx context.Context, tokenString string) (model.Principal, error) {
	token, err := s.tokens.GetByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return model.Principal{}, apierror.Authentication("Refresh token is not valid!")
		}
		return model.Principal{}, err
	}

	// expiry <= now counts as expired.
	if !token.ExpiryDate.After(s.now()) {
		if err := s.tokens.Delete(ctx, token.ID); err != nil {
			return model.Principal{}, err
		}
		return model.Principal{}, apierror.ExpiredCredential("Refresh token was expired. Please make a new signin request")
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Principal{}, apierror.Authentication("Refresh token is not valid!")
		}
		return model.Principal{}, err
	}

	return model.Principal{
		ID:        user.ID,
		GUID:      user.GUID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}
