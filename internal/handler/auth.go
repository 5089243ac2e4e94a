package handler

import (
	"encoding/json"
	"net/http"

	"github.com/recipebook/recipebook-go/internal/apierror"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/service"
)

// AuthHandler handles HTTP requests for signup, signin and token refresh.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignup handles POST /signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Write(w, apierror.Malformed(err))
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleSignIn handles POST /signin requests.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Write(w, apierror.Malformed(err))
		return
	}

	resp, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRefresh handles POST /refresh requests.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.TokenRefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Write(w, apierror.Malformed(err))
		return
	}

	resp, err := h.service.Refresh(r.Context(), req)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
