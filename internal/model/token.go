package model

import (
	"time"

	"github.com/recipebook/recipebook-go/internal/apierror"
)

// RefreshToken is a long-lived opaque credential record linked to a user.
// The token string is random and unique; validity is bounded only by
// ExpiryDate — redemption does not rotate the token.
type RefreshToken struct {
	ID         int64
	UserID     int64
	Token      string
	ExpiryDate time.Time
}

// TokenRefreshRequest represents a request to mint a new access token.
type TokenRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r TokenRefreshRequest) Validate() []apierror.FieldError {
	if r.RefreshToken == "" {
		return []apierror.FieldError{{Object: "tokenRefreshRequest", Field: "refreshToken", RejectedValue: r.RefreshToken, Message: "Refresh token is required"}}
	}
	return nil
}

// TokenRefreshResponse carries the freshly minted access token.
type TokenRefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
