package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/foxxcyber/recipepad/internal/models"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// rowQuerier is satisfied by both the pool and a transaction
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const recipeColumns = `id, owner_id, title, description, cover, categories, favorite, done,
	ingredients, steps, parts, created_at, updated_at`

func scanRecipe(row pgx.Row) (*models.Recipe, error) {
	r := &models.Recipe{}
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.Title, &r.Description, &r.Cover, &r.Categories, &r.Favorite, &r.Done,
		&r.Ingredients, &r.Steps, &r.Parts, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// recipeFilter builds the WHERE clause for a listing. Arguments are always
// positional, never interpolated.
func recipeFilter(params *models.ListRecipeParams) (string, []any) {
	conds := []string{"owner_id = $1"}
	args := []any{params.OwnerID}

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(params.Query); q != "" {
		p := next("%" + q + "%")
		conds = append(conds, fmt.Sprintf(`(title ILIKE %[1]s
			OR EXISTS (SELECT 1 FROM unnest(ingredients) AS ing WHERE ing ILIKE %[1]s)
			OR EXISTS (SELECT 1 FROM jsonb_array_elements(parts) AS part,
				jsonb_array_elements_text(part->'ingredients') AS ping WHERE ping ILIKE %[1]s))`, p))
	}
	if params.Favorite != nil {
		conds = append(conds, "favorite = "+next(*params.Favorite))
	}
	if params.Done != nil {
		conds = append(conds, "done = "+next(*params.Done))
	}
	if c := strings.TrimSpace(params.Category); c != "" {
		conds = append(conds, next(c)+" = ANY(categories)")
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListRecipes returns recipes for an owner, newest first
func (db *DB) ListRecipes(ctx context.Context, params *models.ListRecipeParams) ([]*models.Recipe, int, error) {
	where, args := recipeFilter(params)

	var total int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM recipes"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	n := len(args)
	args = append(args, params.Limit, params.Offset)
	rows, err := db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM recipes%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, recipeColumns, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []*models.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// GetRecipe retrieves a single recipe
func (db *DB) GetRecipe(ctx context.Context, ownerID, id string) (*models.Recipe, error) {
	r, err := scanRecipe(db.Pool.QueryRow(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE owner_id = $1 AND id = $2",
		ownerID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// GetRecipesByIDs returns the recipes found, in the order the ids were given,
// and the ids that matched nothing.
func (db *DB) GetRecipesByIDs(ctx context.Context, ownerID string, ids []string) ([]*models.Recipe, []string, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return []*models.Recipe{}, nil, nil
	}

	rows, err := db.Pool.Query(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE owner_id = $1 AND id = ANY($2)",
		ownerID, ids,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get recipes: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.Recipe, len(ids))
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	found := make([]*models.Recipe, 0, len(byID))
	var missing []string
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			found = append(found, r)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

// UpsertRecipe creates the recipe or replaces the stored one with the same id
func (db *DB) UpsertRecipe(ctx context.Context, ownerID string, r *models.Recipe) (*models.Recipe, error) {
	return upsertRecipe(ctx, db.Pool, ownerID, r)
}

func upsertRecipe(ctx context.Context, q rowQuerier, ownerID string, r *models.Recipe) (*models.Recipe, error) {
	r.Normalize()
	r.EnsureDefaults(time.Now())
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.OwnerID = ownerID

	err := q.QueryRow(ctx, `
		INSERT INTO recipes (id, owner_id, title, description, cover, categories, favorite, done,
			ingredients, steps, parts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (owner_id, id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			cover = EXCLUDED.cover,
			categories = EXCLUDED.categories,
			favorite = EXCLUDED.favorite,
			done = EXCLUDED.done,
			ingredients = EXCLUDED.ingredients,
			steps = EXCLUDED.steps,
			parts = EXCLUDED.parts,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, r.ID, ownerID, r.Title, r.Description, r.Cover, textArray(r.Categories), r.Favorite, r.Done,
		textArray(r.Ingredients), textArray(r.Steps), partsValue(r.Parts), r.CreatedAt,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}

	return r, nil
}

// BulkUpsertRecipes saves every valid recipe in one transaction. Invalid
// recipes are reported by index and skipped.
func (db *DB) BulkUpsertRecipes(ctx context.Context, ownerID string, recipes []models.Recipe) (*models.BulkRecipesResponse, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	resp := &models.BulkRecipesResponse{}
	for i := range recipes {
		_, err := upsertRecipe(ctx, tx, ownerID, &recipes[i])
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				resp.Errors = append(resp.Errors, fmt.Sprintf("recipe %d: %s", i, verr.Error()))
				continue
			}
			return nil, err
		}
		resp.Saved++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit recipes: %w", err)
	}
	return resp, nil
}

// DeleteRecipe removes a recipe
func (db *DB) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM recipes WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value
func (db *DB) ToggleFavorite(ctx context.Context, ownerID, id string) (bool, error) {
	return db.toggle(ctx, "favorite", ownerID, id)
}

// ToggleDone flips the "cooked it" flag and returns the new value
func (db *DB) ToggleDone(ctx context.Context, ownerID, id string) (bool, error) {
	return db.toggle(ctx, "done", ownerID, id)
}

func (db *DB) toggle(ctx context.Context, column, ownerID, id string) (bool, error) {
	var value bool
	err := db.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE recipes SET %[1]s = NOT %[1]s, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING %[1]s
	`, column), ownerID, id).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrRecipeNotFound
		}
		return false, err
	}
	return value, nil
}

// ListCategories returns the owner's categories, most used first
func (db *DB) ListCategories(ctx context.Context, ownerID string) ([]models.CategoryCount, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT c, COUNT(*)
		FROM recipes, unnest(categories) AS c
		WHERE owner_id = $1
		GROUP BY c
		ORDER BY COUNT(*) DESC, c
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetRecipeStats summarizes the owner's recipes
func (db *DB) GetRecipeStats(ctx context.Context, ownerID string) (*models.RecipeStats, error) {
	stats := &models.RecipeStats{}
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE favorite),
			COUNT(*) FILTER (WHERE done),
			COALESCE((SELECT title FROM recipes WHERE owner_id = $1 ORDER BY created_at DESC LIMIT 1), '')
		FROM recipes
		WHERE owner_id = $1
	`, ownerID).Scan(&stats.Total, &stats.Favorites, &stats.Done, &stats.Latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe stats: %w", err)
	}
	return stats, nil
}

// textArray keeps NOT NULL array columns from receiving NULL
func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func partsValue(p []models.RecipePart) []models.RecipePart {
	if p == nil {
		return []models.RecipePart{}
	}
	return p
}

// ExportRecipes returns every recipe of an owner, oldest first
func (db *DB) ExportRecipes(ctx context.Context, ownerID string) ([]*models.Recipe, error) {
	return db.exportRecipes(ctx, " WHERE owner_id = $1", ownerID)
}

// ExportAllRecipes returns the recipes of every owner
func (db *DB) ExportAllRecipes(ctx context.Context) ([]*models.Recipe, error) {
	return db.exportRecipes(ctx, "")
}

func (db *DB) exportRecipes(ctx context.Context, where string, args ...any) ([]*models.Recipe, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT "+recipeColumns+" FROM recipes"+where+" ORDER BY owner_id, created_at, id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to export recipes: %w", err)
	}
	defer rows.Close()

	recipes := []*models.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}
