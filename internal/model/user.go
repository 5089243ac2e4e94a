package model

import (
	"regexp"
	"time"

	"github.com/recipebook/recipebook-go/internal/apierror"
)

// emailPattern mirrors the format check applied at signup and signin.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)

// User represents a registered user in the database. GUID is the only
// identifier ever exposed outside the service; ID stays internal.
type User struct {
	ID           int64
	GUID         string
	FirstName    string
	LastName     string
	EmailAddress string
	PasswordHash string
	Deleted      bool
	CreatedOn    time.Time
	Version      int
}

// Principal is the authenticated caller's identity for the current request.
// Produced by the authentication gate from a verified access token, or by the
// credential check at sign-in. Never carries password material.
type Principal struct {
	ID        int64
	GUID      string
	FirstName string
	LastName  string
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate reports all rejected fields, one entry per invalid field.
func (r SignupRequest) Validate() []apierror.FieldError {
	var fields []apierror.FieldError
	if r.FirstName == "" {
		fields = append(fields, apierror.FieldError{Object: "signupRequest", Field: "firstName", RejectedValue: r.FirstName, Message: "Firstname is required"})
	}
	if r.LastName == "" {
		fields = append(fields, apierror.FieldError{Object: "signupRequest", Field: "lastName", RejectedValue: r.LastName, Message: "Lastname is required"})
	}
	if r.Email == "" {
		fields = append(fields, apierror.FieldError{Object: "signupRequest", Field: "email", RejectedValue: r.Email, Message: "Email is required"})
	} else if !emailPattern.MatchString(r.Email) {
		fields = append(fields, apierror.FieldError{Object: "signupRequest", Field: "email", RejectedValue: r.Email, Message: "Email is invalid"})
	}
	if r.Password == "" {
		fields = append(fields, apierror.FieldError{Object: "signupRequest", Field: "password", RejectedValue: "", Message: "Password is required"})
	}
	return fields
}

// AuthRequest represents a sign-in request. Username is the email address.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r AuthRequest) Validate() []apierror.FieldError {
	var fields []apierror.FieldError
	if r.Username == "" {
		fields = append(fields, apierror.FieldError{Object: "authRequest", Field: "username", RejectedValue: r.Username, Message: "Username is required"})
	} else if !emailPattern.MatchString(r.Username) {
		fields = append(fields, apierror.FieldError{Object: "authRequest", Field: "username", RejectedValue: r.Username, Message: "Username must be a well-formed email address"})
	}
	if r.Password == "" {
		fields = append(fields, apierror.FieldError{Object: "authRequest", Field: "password", RejectedValue: "", Message: "Password is required"})
	}
	return fields
}

// UserResponse represents user data safe for API responses. ID carries the
// external GUID, never the internal numeric id.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResponse represents a successful sign-in: both tokens plus user info.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	UserInfo     UserResponse `json:"userInfo"`
}
