package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recipebook/recipebook-go/internal/model"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrVersionConflict = errors.New("recipe version conflict")
)

const recipeColumns = `r.id, r.guid, r.name, r.vegetarian, r.suitable_for, r.instruction, r.user_id, u.guid, r.created_on, r.version`

// RecipeRepository handles recipe persistence operations. Soft-deleted rows
// are filtered from every read; update and delete are compare-and-swap on the
// version column.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create inserts a recipe and its ingredient rows in one transaction, setting
// the generated ID and creation timestamp on the recipe struct.
func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO recipe (guid, name, vegetarian, suitable_for, instruction, user_id) VALUES (?, ?, ?, ?, ?, ?)`,
		recipe.GUID, recipe.Name, recipe.Vegetarian, recipe.SuitableFor, recipe.CookingInstruction, recipe.UserID,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	recipe.ID = id

	if err := insertIngredients(ctx, tx, id, recipe.Ingredients); err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx, `SELECT created_on, version FROM recipe WHERE id = ?`, id).
		Scan(&recipe.CreatedOn, &recipe.Version); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByGUID retrieves a recipe and its ingredients by external identifier.
func (r *RecipeRepository) GetByGUID(ctx context.Context, guid string) (*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipe r
		JOIN recipe_user u ON u.id = r.user_id
		WHERE r.guid = ? AND r.deleted = FALSE`

	recipe := &model.Recipe{}
	err := r.db.QueryRowContext(ctx, query, guid).Scan(
		&recipe.ID, &recipe.GUID, &recipe.Name, &recipe.Vegetarian, &recipe.SuitableFor,
		&recipe.CookingInstruction, &recipe.UserID, &recipe.OwnerGUID, &recipe.CreatedOn, &recipe.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	ingredients, err := r.loadIngredients(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	recipe.Ingredients = ingredients

	return recipe, nil
}

// ListByOwner retrieves one page of a user's recipes ordered by creation time
// ascending, plus the total number of rows the user owns.
func (r *RecipeRepository) ListByOwner(ctx context.Context, ownerGUID string, page, size int) ([]model.Recipe, int64, error) {
	countQuery := `SELECT COUNT(1) FROM recipe r
		JOIN recipe_user u ON u.id = r.user_id
		WHERE u.guid = ? AND r.deleted = FALSE`

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, ownerGUID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recipeColumns + ` FROM recipe r
		JOIN recipe_user u ON u.id = r.user_id
		WHERE u.guid = ? AND r.deleted = FALSE
		ORDER BY r.created_on ASC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, ownerGUID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var recipe model.Recipe
		if err := rows.Scan(
			&recipe.ID, &recipe.GUID, &recipe.Name, &recipe.Vegetarian, &recipe.SuitableFor,
			&recipe.CookingInstruction, &recipe.UserID, &recipe.OwnerGUID, &recipe.CreatedOn, &recipe.Version,
		); err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range recipes {
		ingredients, err := r.loadIngredients(ctx, recipes[i].ID)
		if err != nil {
			return nil, 0, err
		}
		recipes[i].Ingredients = ingredients
	}

	return recipes, total, nil
}

// Update writes the recipe's mutable fields and replaces its ingredient rows,
// guarded by a compare-and-swap on the version counter. A concurrent write
// since the recipe was read surfaces as ErrVersionConflict.
func (r *RecipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE recipe SET name = ?, vegetarian = ?, suitable_for = ?, instruction = ?, version = version + 1
			WHERE id = ? AND version = ? AND deleted = FALSE`,
		recipe.Name, recipe.Vegetarian, recipe.SuitableFor, recipe.CookingInstruction, recipe.ID, recipe.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredient WHERE recipe_id = ?`, recipe.ID); err != nil {
		return err
	}
	if err := insertIngredients(ctx, tx, recipe.ID, recipe.Ingredients); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	recipe.Version++
	return nil
}

// SoftDelete marks a recipe deleted, guarded by the version counter.
func (r *RecipeRepository) SoftDelete(ctx context.Context, id int64, version int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE recipe SET deleted = TRUE, version = version + 1 WHERE id = ? AND version = ? AND deleted = FALSE`,
		id, version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	return nil
}

func (r *RecipeRepository) loadIngredients(ctx context.Context, recipeID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM recipe_ingredient WHERE recipe_id = ? ORDER BY name ASC`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func insertIngredients(ctx context.Context, tx *sql.Tx, recipeID int64, names []string) error {
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT INTO recipe_ingredient (recipe_id, name) VALUES (?, ?)`, recipeID, name); err != nil {
			return err
		}
	}
	return nil
}
