package store

import (
	"context"
	"fmt"

	"github.com/msrikanth38/90s-jar/internal/models"
)

var comboColumns = []string{
	"id", "name", "description", "price", "items", "regular_total", "savings", "created_at",
}

const selectCombos = `SELECT id, name, COALESCE(description, '') AS description, price, items,
	COALESCE(regular_total, 0) AS regular_total, COALESCE(savings, 0) AS savings,
	COALESCE(created_at, '') AS created_at
	FROM combos`

var recipeColumns = []string{
	"id", "name", "category", "batch_size", "total_time", "ingredients", "steps",
	"notes", "total_ingredient_cost", "created_at",
}

const selectRecipes = `SELECT id, name, COALESCE(category, '') AS category,
	COALESCE(batch_size, '') AS batch_size, COALESCE(total_time, '') AS total_time,
	ingredients, steps, COALESCE(notes, '') AS notes,
	COALESCE(total_ingredient_cost, 0) AS total_ingredient_cost,
	COALESCE(created_at, '') AS created_at
	FROM recipes`

var (
	upsertComboSQL   = insertQuery("combos", comboColumns, conflictUpdate, "created_at")
	restoreComboSQL  = insertQuery("combos", comboColumns, conflictUpdate)
	seedComboSQL     = insertQuery("combos", comboColumns, conflictIgnore)
	upsertRecipeSQL  = insertQuery("recipes", recipeColumns, conflictUpdate, "created_at")
	restoreRecipeSQL = insertQuery("recipes", recipeColumns, conflictUpdate)
)

// ListCombos returns combos ordered by name
func (q *Queries) ListCombos(ctx context.Context) ([]models.Combo, error) {
	combos := []models.Combo{}
	if err := q.selectAll(ctx, &combos, selectCombos+" ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to list combos: %w", err)
	}
	return combos, nil
}

// UpsertCombo creates the combo or replaces it, keeping created_at
func (q *Queries) UpsertCombo(ctx context.Context, c *models.Combo) error {
	if err := q.namedExec(ctx, upsertComboSQL, c); err != nil {
		return fmt.Errorf("failed to save combo: %w", err)
	}
	return nil
}

// RestoreCombo writes every column as given
func (q *Queries) RestoreCombo(ctx context.Context, c *models.Combo) error {
	if err := q.namedExec(ctx, restoreComboSQL, c); err != nil {
		return fmt.Errorf("failed to restore combo: %w", err)
	}
	return nil
}

func (q *Queries) insertComboIfAbsent(ctx context.Context, c *models.Combo) error {
	return q.namedExec(ctx, seedComboSQL, c)
}

// DeleteCombo removes the combo; absent ids are not an error
func (q *Queries) DeleteCombo(ctx context.Context, id string) error {
	if _, err := q.exec(ctx, "DELETE FROM combos WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete combo: %w", err)
	}
	return nil
}

// ListRecipes returns recipes ordered by name
func (q *Queries) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if err := q.selectAll(ctx, &recipes, selectRecipes+" ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// UpsertRecipe creates the recipe or replaces it, keeping created_at
func (q *Queries) UpsertRecipe(ctx context.Context, r *models.Recipe) error {
	if err := q.namedExec(ctx, upsertRecipeSQL, r); err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// RestoreRecipe writes every column as given
func (q *Queries) RestoreRecipe(ctx context.Context, r *models.Recipe) error {
	if err := q.namedExec(ctx, restoreRecipeSQL, r); err != nil {
		return fmt.Errorf("failed to restore recipe: %w", err)
	}
	return nil
}

// DeleteRecipe removes the recipe; absent ids are not an error
func (q *Queries) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := q.exec(ctx, "DELETE FROM recipes WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
