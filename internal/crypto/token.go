package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// refreshTokenBytes of entropy yield a 43-character URL-safe token string.
const refreshTokenBytes = 32

// GenerateOpaqueToken creates a cryptographically random token string for use
// as a server-side refresh token. Uniqueness is enforced by the storage
// layer's unique index on the token column.
func GenerateOpaqueToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
