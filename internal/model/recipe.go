package model

import (
	"sort"
	"time"

	"github.com/recipebook/recipebook-go/internal/apierror"
)

// CreatedAtLayout is the wire format for recipe creation timestamps.
const CreatedAtLayout = "02-01-2006 15:04"

// Recipe represents a recipe row plus its ingredient names. OwnerGUID is the
// owning user's external identifier, used by the ownership guard.
type Recipe struct {
	ID                 int64
	GUID               string
	Name               string
	Vegetarian         bool
	SuitableFor        int
	Ingredients        []string
	CookingInstruction string
	UserID             int64
	OwnerGUID          string
	Deleted            bool
	CreatedOn          time.Time
	Version            int
}

// RecipeRequest represents a create or update payload.
type RecipeRequest struct {
	Name               string   `json:"name"`
	Vegetarian         bool     `json:"vegetarian"`
	SuitableFor        int      `json:"suitableFor"`
	Ingredients        []string `json:"ingredients"`
	CookingInstruction string   `json:"cookingInstruction"`
}

func (r RecipeRequest) Validate() []apierror.FieldError {
	var fields []apierror.FieldError
	if r.Name == "" {
		fields = append(fields, apierror.FieldError{Object: "recipeRequest", Field: "name", RejectedValue: r.Name, Message: "Recipe name is required"})
	}
	if r.SuitableFor < 1 {
		fields = append(fields, apierror.FieldError{Object: "recipeRequest", Field: "suitableFor", RejectedValue: r.SuitableFor, Message: "Recipe should be suitable for minimum 1 person"})
	}
	if len(r.UniqueIngredients()) == 0 {
		fields = append(fields, apierror.FieldError{Object: "recipeRequest", Field: "ingredients", RejectedValue: r.Ingredients, Message: "At least one ingredient is required."})
	}
	if r.CookingInstruction == "" {
		fields = append(fields, apierror.FieldError{Object: "recipeRequest", Field: "cookingInstruction", RejectedValue: r.CookingInstruction, Message: "Recipe cooking instruction is required"})
	}
	return fields
}

// UniqueIngredients returns the ingredient names as a sorted set, dropping
// blanks and duplicates.
func (r RecipeRequest) UniqueIngredients() []string {
	seen := make(map[string]struct{}, len(r.Ingredients))
	var names []string
	for _, name := range r.Ingredients {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecipeResponse represents a recipe in API responses.
type RecipeResponse struct {
	UUID               string   `json:"uuid"`
	CreatedAt          string   `json:"createdAt"`
	Name               string   `json:"name"`
	Vegetarian         bool     `json:"vegetarian"`
	SuitableFor        int      `json:"suitableFor"`
	Ingredients        []string `json:"ingredients"`
	CookingInstruction string   `json:"cookingInstruction"`
}

// PageResponse wraps one page of results with pagination totals.
type PageResponse[D any] struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
	Contents    []D   `json:"contents"`
}
