package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/recipepad/internal/config"
	"github.com/foxxcyber/recipepad/internal/database"
	"github.com/foxxcyber/recipepad/internal/middleware"
	"github.com/foxxcyber/recipepad/internal/models"
)

type recipeKey struct{ owner, id string }

// fakeStore keeps recipes per owner in memory
type fakeStore struct {
	recipes  map[string]map[string]*models.Recipe
	order    []recipeKey // insertion order
	orders   map[int]*models.Order
	settings map[string]string
	setErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		recipes:  map[string]map[string]*models.Recipe{},
		orders:   map[int]*models.Order{},
		settings: map[string]string{},
	}
}

func (f *fakeStore) add(owner string, r *models.Recipe) {
	if f.recipes[owner] == nil {
		f.recipes[owner] = map[string]*models.Recipe{}
	}
	if _, ok := f.recipes[owner][r.ID]; !ok {
		f.order = append(f.order, recipeKey{owner, r.ID})
	}
	r.OwnerID = owner
	f.recipes[owner][r.ID] = r
}

func (f *fakeStore) owned(owner string) []*models.Recipe {
	var out []*models.Recipe
	for _, key := range f.order {
		if r, ok := f.recipes[owner][key.id]; ok && key.owner == owner {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeStore) ListRecipes(_ context.Context, p *models.ListRecipeParams) ([]*models.Recipe, int, error) {
	var out []*models.Recipe
	for _, r := range f.owned(p.OwnerID) {
		if p.Favorite != nil && r.Favorite != *p.Favorite {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeStore) GetRecipe(_ context.Context, owner, id string) (*models.Recipe, error) {
	if r, ok := f.recipes[owner][id]; ok {
		return r, nil
	}
	return nil, database.ErrRecipeNotFound
}

func (f *fakeStore) GetRecipesByIDs(_ context.Context, owner string, ids []string) ([]*models.Recipe, []string, error) {
	var found []*models.Recipe
	var missing []string
	for _, id := range ids {
		if r, ok := f.recipes[owner][id]; ok {
			found = append(found, r)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

func (f *fakeStore) UpsertRecipe(_ context.Context, owner string, r *models.Recipe) (*models.Recipe, error) {
	r.Normalize()
	r.EnsureDefaults(time.Now())
	if err := r.Validate(); err != nil {
		return nil, err
	}
	f.add(owner, r)
	return r, nil
}

func (f *fakeStore) BulkUpsertRecipes(ctx context.Context, owner string, recipes []models.Recipe) (*models.BulkRecipesResponse, error) {
	resp := &models.BulkRecipesResponse{}
	for i := range recipes {
		if _, err := f.UpsertRecipe(ctx, owner, &recipes[i]); err != nil {
			resp.Errors = append(resp.Errors, err.Error())
			continue
		}
		resp.Saved++
	}
	return resp, nil
}

func (f *fakeStore) DeleteRecipe(_ context.Context, owner, id string) error {
	if _, ok := f.recipes[owner][id]; !ok {
		return database.ErrRecipeNotFound
	}
	delete(f.recipes[owner], id)
	return nil
}

func (f *fakeStore) ToggleFavorite(_ context.Context, owner, id string) (bool, error) {
	r, ok := f.recipes[owner][id]
	if !ok {
		return false, database.ErrRecipeNotFound
	}
	r.Favorite = !r.Favorite
	return r.Favorite, nil
}

func (f *fakeStore) ToggleDone(_ context.Context, owner, id string) (bool, error) {
	r, ok := f.recipes[owner][id]
	if !ok {
		return false, database.ErrRecipeNotFound
	}
	r.Done = !r.Done
	return r.Done, nil
}

func (f *fakeStore) ListCategories(_ context.Context, owner string) ([]models.CategoryCount, error) {
	counts := map[string]int{}
	var names []string
	for _, r := range f.owned(owner) {
		for _, c := range r.Categories {
			if counts[c] == 0 {
				names = append(names, c)
			}
			counts[c]++
		}
	}
	out := []models.CategoryCount{}
	for _, n := range names {
		out = append(out, models.CategoryCount{Name: n, Count: counts[n]})
	}
	return out, nil
}

func (f *fakeStore) GetRecipeStats(_ context.Context, owner string) (*models.RecipeStats, error) {
	stats := &models.RecipeStats{}
	for _, r := range f.owned(owner) {
		stats.Total++
		if r.Favorite {
			stats.Favorites++
		}
		if r.Done {
			stats.Done++
		}
		stats.Latest = r.Title
	}
	return stats, nil
}

func (f *fakeStore) ExportRecipes(_ context.Context, owner string) ([]*models.Recipe, error) {
	out := f.owned(owner)
	if out == nil {
		out = []*models.Recipe{}
	}
	return out, nil
}

func (f *fakeStore) ListOrders(_ context.Context, _ *models.ListOrderParams) ([]*models.Order, int, error) {
	out := []*models.Order{}
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (f *fakeStore) GetOrder(_ context.Context, id int) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, database.ErrOrderNotFound
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, id int, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, database.ErrInvalidOrderState
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, database.ErrOrderNotFound
	}
	o.Status = status
	return o, nil
}

func (f *fakeStore) GetAllSettings(context.Context, []byte) (map[string][]database.SystemSetting, error) {
	return map[string][]database.SystemSetting{
		"telegram": {{Key: "telegram_bot_token", Value: database.MaskedValue, IsSensitive: true}},
	}, nil
}

func (f *fakeStore) GetSettingsByCategory(context.Context, string, []byte) ([]database.SystemSetting, error) {
	return nil, nil
}

func (f *fakeStore) SetSettings(_ context.Context, settings map[string]string, _ []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	for k, v := range settings {
		f.settings[k] = v
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		BulkLimit:   3,
		MaxUploadMB: 1,
	}
}

func newTestApp(store Store, opts ...Option) *fiber.App {
	log, _ := test.NewNullLogger()
	h := New(store, testConfig(), log, opts...)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	h.RegisterRoutes(app)
	return app
}

type testResponse struct {
	Status int
	Header map[string]string
	Body   []byte
}

func (r testResponse) envelope(t *testing.T) APIResponse {
	t.Helper()
	var env APIResponse
	require.NoError(t, json.Unmarshal(r.Body, &env))
	return env
}

// decodeData re-decodes the envelope's data into out
func (r testResponse) decodeData(t *testing.T, out interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(r.Body, &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func call(t *testing.T, app *fiber.App, method, path, owner string, body interface{}) testResponse {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if owner != "" {
		req.Header.Set(middleware.OwnerHeader, owner)
	}
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) testResponse {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return testResponse{Status: resp.StatusCode, Header: headers, Body: raw}
}
