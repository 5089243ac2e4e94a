// Package apierror defines the failure taxonomy raised by services and the
// single boundary translator that maps every failure to the wire-level error
// payload and HTTP status.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Kind classifies a failure for status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindMalformed
	KindNotFound
	KindConflict
	KindPermissionDenied
	KindAuthentication
	KindExpiredCredential
	KindUnauthenticated
	KindUnsupportedMedia
	KindMethodNotAllowed
)

// FieldError describes a single rejected field in a validation failure.
type FieldError struct {
	Object        string `json:"object"`
	Field         string `json:"field"`
	RejectedValue any    `json:"rejectedValue"`
	Message       string `json:"message"`
}

// Error is a typed failure. Services raise it; handlers never map statuses
// themselves and instead pass it to Write.
type Error struct {
	Kind    Kind
	Message string
	Debug   string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports one or more rejected fields.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

// Malformed reports an unreadable request body.
func Malformed(err error) *Error {
	return &Error{Kind: KindMalformed, Message: "Malformed JSON request", Debug: err.Error()}
}

// NotFound reports a missing entity looked up by the named key.
func NotFound(entity, key string, value any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s was not found by %s '%v'.", entity, key, value)}
}

// Conflict reports an already-existing resource.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// PermissionDenied reports an ownership violation.
func PermissionDenied(message string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: message, Debug: message}
}

// Authentication reports a failed credential check. Sign-in and refresh
// failures surface through this kind as 403.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Debug: message}
}

// ExpiredCredential reports a credential past its expiry instant.
func ExpiredCredential(message string) *Error {
	return &Error{Kind: KindExpiredCredential, Message: message, Debug: message}
}

// Unauthenticated reports a missing or invalid bearer token on a protected
// route. Distinct from Authentication: this one is a 401.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// UnsupportedMedia reports a request body in an unsupported content type.
func UnsupportedMedia(contentType string, supported ...string) *Error {
	return &Error{
		Kind:    KindUnsupportedMedia,
		Message: fmt.Sprintf("%s media type is not supported. Supported media types are %s", contentType, strings.Join(supported, ", ")),
	}
}

// MethodNotAllowed reports a request method the route does not support.
func MethodNotAllowed(method string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: fmt.Sprintf("Request method '%s' is not supported", method)}
}

// Internal wraps an unexpected failure. The cause is exposed only through the
// debug message field.
func Internal(err error) *Error {
	e := &Error{Kind: KindInternal, Message: "An internal error occurred while performing the operation"}
	if err != nil {
		e.Debug = err.Error()
	}
	return e
}

func (k Kind) status() int {
	switch k {
	case KindValidation, KindMalformed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindPermissionDenied, KindAuthentication, KindExpiredCredential:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

type payload struct {
	Status           string       `json:"status"`
	Message          string       `json:"message"`
	DebugMessage     string       `json:"debugMessage,omitempty"`
	StatusCode       int          `json:"statusCode"`
	ValidationErrors []FieldError `json:"validationErrors,omitempty"`
}

// Write translates err into the uniform error payload. Failures that are not
// an *Error are logged server-side and exposed as a generic internal error.
func Write(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		slog.Error("unexpected error while performing operation", "error", err)
		apiErr = Internal(err)
	}

	status := apiErr.Kind.status()
	writePayload(w, status, payload{
		Status:           http.StatusText(status),
		Message:          apiErr.Message,
		DebugMessage:     apiErr.Debug,
		StatusCode:       status,
		ValidationErrors: apiErr.Fields,
	})
}

// WriteMessage emits the uniform payload for failures raised outside the
// service layer, such as rate limiting and route fallbacks.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	writePayload(w, status, payload{
		Status:     http.StatusText(status),
		Message:    message,
		StatusCode: status,
	})
}

func writePayload(w http.ResponseWriter, status int, p payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(p)
}
