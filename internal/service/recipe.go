package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/recipebook/recipebook-go/internal/apierror"
	"github.com/recipebook/recipebook-go/internal/middleware"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/repository"
)

const recipeEntityName = "Recipe"

const permissionDeniedMessage = "You don't have permission to edit/delete this record."

// RecipeService handles recipe business logic. Every owner-scoped operation
// starts by resolving the ambient caller identity installed by the
// authentication gate and checking it against the recipe's owner.
type RecipeService struct {
	recipes *repository.RecipeRepository
	users   *repository.UserRepository
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes *repository.RecipeRepository, users *repository.UserRepository) *RecipeService {
	return &RecipeService{recipes: recipes, users: users}
}

// FindAll returns one page of the caller's recipes, ordered by creation time.
func (s *RecipeService) FindAll(ctx context.Context, page, size int) (model.PageResponse[model.RecipeResponse], error) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		return model.PageResponse[model.RecipeResponse]{}, apierror.Unauthenticated("Full authentication is required to access this resource")
	}

	recipes, total, err := s.recipes.ListByOwner(ctx, principal.GUID, page, size)
	if err != nil {
		return model.PageResponse[model.RecipeResponse]{}, err
	}

	contents := make([]model.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		contents = append(contents, toRecipeResponse(recipe))
	}

	return model.PageResponse[model.RecipeResponse]{
		TotalItems:  total,
		TotalPages:  totalPages(total, size),
		CurrentPage: int64(page),
		Contents:    contents,
	}, nil
}

// Create persists a new recipe owned by the caller.
func (s *RecipeService) Create(ctx context.Context, req model.RecipeRequest) (model.RecipeResponse, error) {
	if fields := req.Validate(); fields != nil {
		return model.RecipeResponse{}, apierror.Validation(fields)
	}

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		return model.RecipeResponse{}, apierror.Unauthenticated("Full authentication is required to access this resource")
	}

	owner, err := s.users.GetByGUID(ctx, principal.GUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.RecipeResponse{}, apierror.NotFound("User", "GUID", principal.GUID)
		}
		return model.RecipeResponse{}, err
	}

	recipe := &model.Recipe{
		GUID:               uuid.NewString(),
		Name:               req.Name,
		Vegetarian:         req.Vegetarian,
		SuitableFor:        req.SuitableFor,
		Ingredients:        req.UniqueIngredients(),
		CookingInstruction: req.CookingInstruction,
		UserID:             owner.ID,
		OwnerGUID:          owner.GUID,
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return model.RecipeResponse{}, err
	}

	return toRecipeResponse(*recipe), nil
}

// FindByGUID returns a single recipe. Reading another user's recipe is
// denied, not hidden: a recipe that exists but belongs to someone else yields
// a permission failure rather than a not-found.
func (s *RecipeService) FindByGUID(ctx context.Context, guid string) (model.RecipeResponse, error) {
	recipe, err := s.getOwned(ctx, guid)
	if err != nil {
		return model.RecipeResponse{}, err
	}
	return toRecipeResponse(*recipe), nil
}

// Update overwrites the recipe's mutable fields. A concurrent modification
// detected by the version counter surfaces as a conflict.
func (s *RecipeService) Update(ctx context.Context, guid string, req model.RecipeRequest) (model.RecipeResponse, error) {
	if fields := req.Validate(); fields != nil {
		return model.RecipeResponse{}, apierror.Validation(fields)
	}

	recipe, err := s.getOwned(ctx, guid)
	if err != nil {
		return model.RecipeResponse{}, err
	}

	recipe.Name = req.Name
	recipe.Vegetarian = req.Vegetarian
	recipe.SuitableFor = req.SuitableFor
	recipe.Ingredients = req.UniqueIngredients()
	recipe.CookingInstruction = req.CookingInstruction

	if err := s.recipes.Update(ctx, recipe); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return model.RecipeResponse{}, apierror.Conflict("Recipe was modified concurrently. Please retry with the latest version.")
		}
		return model.RecipeResponse{}, err
	}

	return toRecipeResponse(*recipe), nil
}

// Delete soft-deletes the recipe.
func (s *RecipeService) Delete(ctx context.Context, guid string) error {
	recipe, err := s.getOwned(ctx, guid)
	if err != nil {
		return err
	}

	if err := s.recipes.SoftDelete(ctx, recipe.ID, recipe.Version); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apierror.Conflict("Recipe was modified concurrently. Please retry with the latest version.")
		}
		return err
	}

	return nil
}

// getOwned loads a recipe by GUID and enforces ownership.
func (s *RecipeService) getOwned(ctx context.Context, guid string) (*model.Recipe, error) {
	recipe, err := s.recipes.GetByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, apierror.NotFound(recipeEntityName, "GUID", guid)
		}
		return nil, err
	}

	if err := s.checkOwnership(ctx, recipe.OwnerGUID); err != nil {
		return nil, err
	}

	return recipe, nil
}

// checkOwnership compares the ambient caller identity against the resource
// owner's external identifier. A missing or blank identity is denied the same
// way as a mismatch. Pure check, no side effects.
func (s *RecipeService) checkOwnership(ctx context.Context, ownerGUID string) error {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok || principal.GUID == "" || principal.GUID != ownerGUID {
		return apierror.PermissionDenied(permissionDeniedMessage)
	}
	return nil
}

func toRecipeResponse(recipe model.Recipe) model.RecipeResponse {
	return model.RecipeResponse{
		UUID:               recipe.GUID,
		CreatedAt:          recipe.CreatedOn.Format(model.CreatedAtLayout),
		Name:               recipe.Name,
		Vegetarian:         recipe.Vegetarian,
		SuitableFor:        recipe.SuitableFor,
		Ingredients:        recipe.Ingredients,
		CookingInstruction: recipe.CookingInstruction,
	}
}

func totalPages(total int64, size int) int64 {
	if size <= 0 {
		return 0
	}
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	return pages
}
