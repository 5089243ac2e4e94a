package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodePayload(t *testing.T, rec *httptest.ResponseRecorder) payload {
	t.Helper()
	var p payload
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	return p
}

func TestWriteStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation([]FieldError{{Object: "signupRequest", Field: "email", Message: "Email is required"}}), http.StatusBadRequest},
		{"malformed", Malformed(errors.New("unexpected EOF")), http.StatusBadRequest},
		{"not found", NotFound("Recipe", "GUID", "abc"), http.StatusNotFound},
		{"conflict", Conflict("User already exists by email 'a@x.com'."), http.StatusConflict},
		{"permission denied", PermissionDenied("You don't have permission to edit/delete this record."), http.StatusForbidden},
		{"authentication", Authentication("Bad credentials"), http.StatusForbidden},
		{"expired credential", ExpiredCredential("Refresh token was expired. Please make a new signin request"), http.StatusForbidden},
		{"unauthenticated", Unauthenticated("Full authentication is required to access this resource"), http.StatusUnauthorized},
		{"unsupported media", UnsupportedMedia("text/plain", "application/json"), http.StatusUnsupportedMediaType},
		{"method not allowed", MethodNotAllowed(http.MethodPatch), http.StatusMethodNotAllowed},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Write(rec, tc.err)

			if rec.Code != tc.want {
				t.Errorf("Write() status = %d, want %d", rec.Code, tc.want)
			}

			p := decodePayload(t, rec)
			if p.StatusCode != tc.want {
				t.Errorf("payload statusCode = %d, want %d", p.StatusCode, tc.want)
			}
			if p.Status != http.StatusText(tc.want) {
				t.Errorf("payload status = %q, want %q", p.Status, http.StatusText(tc.want))
			}
			if p.Message == "" {
				t.Error("payload message is empty")
			}
		})
	}
}

func TestWriteValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, Validation([]FieldError{
		{Object: "signupRequest", Field: "email", RejectedValue: "nope", Message: "Email is invalid"},
		{Object: "signupRequest", Field: "password", RejectedValue: "", Message: "Password is required"},
	}))

	p := decodePayload(t, rec)
	if len(p.ValidationErrors) != 2 {
		t.Fatalf("validationErrors length = %d, want 2", len(p.ValidationErrors))
	}
	if p.ValidationErrors[0].Field != "email" {
		t.Errorf("first field = %q, want %q", p.ValidationErrors[0].Field, "email")
	}
	if p.Message != "Validation error" {
		t.Errorf("message = %q, want %q", p.Message, "Validation error")
	}
}

func TestWriteHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("pk violation on table recipe_user"))

	p := decodePayload(t, rec)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if p.Message == "pk violation on table recipe_user" {
		t.Error("internal cause leaked into message")
	}
	if p.DebugMessage != "pk violation on table recipe_user" {
		t.Errorf("debugMessage = %q, want the cause", p.DebugMessage)
	}
}

func TestWriteContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NotFound("User", "ID", 7))

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
}
