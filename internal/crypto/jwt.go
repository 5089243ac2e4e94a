package crypto

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/recipebook/recipebook-go/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the access-token claim set: subject carries the user's
// external GUID and ID carries the internal numeric id as a string.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"ID"`
}

// IssueToken creates a signed stateless access token for the given principal.
// Validity is signature plus expiry only; no server-side state is kept, so a
// token cannot be revoked before it expires. The validity window is kept
// short for that reason.
func IssueToken(principal model.Principal, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.GUID,
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: strconv.FormatInt(principal.ID, 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(secret)
}

// VerifyToken reports whether the token's signature matches and it has not
// expired. Every decode failure collapses to false; the specific cause is
// logged at debug level only.
func VerifyToken(tokenString string, secret []byte) bool {
	_, err := parseClaims(tokenString, secret)
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		slog.Debug("invalid jwt signature")
	case errors.Is(err, jwt.ErrTokenExpired):
		slog.Debug("expired jwt token")
	case errors.Is(err, jwt.ErrTokenMalformed):
		slog.Debug("malformed jwt token")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		slog.Debug("unsupported jwt token")
	default:
		slog.Debug("jwt token rejected", "error", err)
	}
	return false
}

// ParseToken extracts the principal carried by a token. Call only after
// VerifyToken succeeds. First and last name are left empty: the codec does
// not look up the user record.
func ParseToken(tokenString string, secret []byte) (model.Principal, error) {
	claims, err := parseClaims(tokenString, secret)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	return model.Principal{ID: id, GUID: claims.Subject}, nil
}

func parseClaims(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
