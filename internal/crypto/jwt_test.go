package crypto

import (
	"strings"
	"testing"
	"time"

	"github.com/recipebook/recipebook-go/internal/model"
)

var testSecret = []byte("test-secret-test-secret-test-secret-test-secret-test-secret-1234")

func testPrincipal() model.Principal {
	return model.Principal{ID: 42, GUID: "7e6b0c0e-1a44-4e03-b5d9-0a9e8a1f2b3c", FirstName: "Avanish", LastName: "Pandey"}
}

func TestIssueToken(t *testing.T) {
	token, err := IssueToken(testPrincipal(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("IssueToken() returned empty string")
	}
}

func TestVerifyAndParseRoundTrip(t *testing.T) {
	principal := testPrincipal()

	token, err := IssueToken(principal, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	if !VerifyToken(token, testSecret) {
		t.Fatal("VerifyToken() = false for freshly issued token")
	}

	parsed, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() unexpected error: %v", err)
	}
	if parsed.GUID != principal.GUID {
		t.Errorf("ParseToken() GUID = %q, want %q", parsed.GUID, principal.GUID)
	}
	if parsed.ID != principal.ID {
		t.Errorf("ParseToken() ID = %d, want %d", parsed.ID, principal.ID)
	}
	if parsed.FirstName != "" || parsed.LastName != "" {
		t.Errorf("ParseToken() populated names %q %q, want empty", parsed.FirstName, parsed.LastName)
	}
}

func TestVerifyTokenMalformed(t *testing.T) {
	if VerifyToken("not-a-valid-token", testSecret) {
		t.Error("VerifyToken() = true for malformed token")
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testPrincipal(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	if VerifyToken(token, []byte("another-secret-another-secret-another-secret-another-secret-12")) {
		t.Error("VerifyToken() = true for wrong secret")
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := IssueToken(testPrincipal(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	if VerifyToken(token, testSecret) {
		t.Error("VerifyToken() = true for expired token")
	}
}

func TestVerifyTokenTamperedSignature(t *testing.T) {
	token, err := IssueToken(testPrincipal(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	// Flip one byte in the signature segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token structure: %d segments", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if VerifyToken(tampered, testSecret) {
		t.Error("VerifyToken() = true for tampered signature")
	}
}

func TestParseTokenInvalid(t *testing.T) {
	if _, err := ParseToken("not-a-valid-token", testSecret); err == nil {
		t.Error("ParseToken() expected error for invalid token")
	}
}
