package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DefaultPreviewLines is how many lines a recipe card shows before "more".
const DefaultPreviewLines = 4

// RecipePart is one section of a multi-part recipe (e.g. dough and filling)
type RecipePart struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// Recipe is a stored recipe document. Field names follow the client's
// export format so exported files can be imported unchanged.
type Recipe struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"ownerId,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Cover       string       `json:"cover,omitempty"`
	Categories  []string     `json:"categories,omitempty"`
	Favorite    bool         `json:"favorite"`
	Done        bool         `json:"done"`
	Parts       []RecipePart `json:"parts,omitempty"`
	Ingredients []string     `json:"ingredients,omitempty"`
	Steps       []string     `json:"steps,omitempty"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// RecipeCard is a recipe with its feed preview
type RecipeCard struct {
	Recipe
	Preview   []string `json:"preview"`
	Truncated bool     `json:"truncated"`
}

// RecipeStats summarizes an owner's recipes for the profile page
type RecipeStats struct {
	Total     int    `json:"total"`
	Favorites int    `json:"favorites"`
	Done      int    `json:"done"`
	Latest    string `json:"latest"`
}

// CategoryCount is a category with the number of recipes in it
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AllIngredients returns the top-level ingredients followed by those of every part.
func (r *Recipe) AllIngredients() []string {
	out := append([]string(nil), r.Ingredients...)
	for _, p := range r.Parts {
		out = append(out, p.Ingredients...)
	}
	return out
}

// AllSteps returns the top-level steps followed by those of every part.
func (r *Recipe) AllSteps() []string {
	out := append([]string(nil), r.Steps...)
	for _, p := range r.Parts {
		out = append(out, p.Steps...)
	}
	return out
}

// Normalize trims text fields and drops blank ingredient, step and category entries.
func (r *Recipe) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Ingredients = cleanLines(r.Ingredients)
	r.Steps = cleanLines(r.Steps)
	r.Categories = lo.Uniq(cleanLines(r.Categories))
	for i := range r.Parts {
		r.Parts[i].ID = strings.TrimSpace(r.Parts[i].ID)
		r.Parts[i].Title = strings.TrimSpace(r.Parts[i].Title)
		r.Parts[i].Ingredients = cleanLines(r.Parts[i].Ingredients)
		r.Parts[i].Steps = cleanLines(r.Parts[i].Steps)
	}
}

// EnsureDefaults assigns ids and the creation timestamp when they are missing.
func (r *Recipe) EnsureDefaults(now time.Time) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = now.UnixMilli()
	}
	for i := range r.Parts {
		if r.Parts[i].ID == "" {
			r.Parts[i].ID = uuid.NewString()
		}
	}
}

// Validate checks the fields the recipe form requires.
func (r *Recipe) Validate() error {
	verr := &ValidationError{}
	if r.Title == "" {
		verr.Add("title", "title is required")
	}
	if len(r.AllIngredients()) == 0 {
		verr.Add("ingredients", "add at least one ingredient")
	}
	if len(r.AllSteps()) == 0 {
		verr.Add("steps", "add at least one step")
	}
	for i, p := range r.Parts {
		if p.Title == "" && len(r.Parts) > 1 {
			verr.Add(fmt.Sprintf("parts[%d].title", i), "part title is required")
		}
	}
	return verr.OrNil()
}

// PreviewLines returns up to limit lines: bulleted ingredients first, then
// numbered steps.
func (r *Recipe) PreviewLines(limit int) []string {
	if limit <= 0 {
		return nil
	}
	out := make([]string, 0, limit)
	for _, ing := range r.AllIngredients() {
		if len(out) >= limit {
			return out
		}
		out = append(out, "• "+ing)
	}
	for i, step := range r.AllSteps() {
		if len(out) >= limit {
			return out
		}
		out = append(out, fmt.Sprintf("%d. %s", i+1, step))
	}
	return out
}

// Card builds the feed representation of the recipe.
func (r *Recipe) Card(limit int) RecipeCard {
	preview := r.PreviewLines(limit)
	total := len(r.AllIngredients()) + len(r.AllSteps())
	return RecipeCard{
		Recipe:    *r,
		Preview:   preview,
		Truncated: total > len(preview),
	}
}

func cleanLines(lines []string) []string {
	return lo.FilterMap(lines, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}

// Request types

// PutRecipeRequest is the body of an upsert
type PutRecipeRequest struct {
	Recipe Recipe `json:"recipe"`
}

// BulkRecipesRequest is the body of a bulk upload
type BulkRecipesRequest struct {
	Recipes []Recipe `json:"recipes"`
}

// BulkRecipesResponse reports a bulk upload
type BulkRecipesResponse struct {
	Saved  int      `json:"saved"`
	Errors []string `json:"errors,omitempty"`
}

// ListRecipeParams contains parameters for listing recipes
type ListRecipeParams struct {
	Limit    int
	Offset   int
	OwnerID  string // "" is the shared feed
	Query    string // Matches title or any ingredient, case-insensitive
	Favorite *bool
	Done     *bool
	Category string
}
