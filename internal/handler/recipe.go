package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/recipebook/recipebook-go/internal/apierror"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/service"
)

const (
	defaultPage = 0
	defaultSize = 10
)

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	service *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: svc}
}

// HandleList handles GET /recipes requests.
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		apierror.Write(w, err)
		return
	}
	size, err := queryInt(r, "size", defaultSize)
	if err != nil {
		apierror.Write(w, err)
		return
	}
	if page < 0 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultSize
	}

	resp, err := h.service.FindAll(r.Context(), page, size)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /recipes requests.
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Write(w, apierror.Malformed(err))
		return
	}

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	w.Header().Set("Location", "/v1/recipes/"+resp.UUID)
	writeJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /recipes/{recipeUUID} requests.
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindByGUID(r.Context(), chi.URLParam(r, "recipeUUID"))
	if err != nil {
		apierror.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /recipes/{recipeUUID} requests.
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Write(w, apierror.Malformed(err))
		return
	}

	resp, err := h.service.Update(r.Context(), chi.URLParam(r, "recipeUUID"), req)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /recipes/{recipeUUID} requests.
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "recipeUUID")); err != nil {
		apierror.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.Validation([]apierror.FieldError{{
			Object:        "query",
			Field:         name,
			RejectedValue: raw,
			Message:       fmt.Sprintf("The parameter '%s' of value '%s' could not be converted to an integer", name, raw),
		}})
	}
	return n, nil
}
