package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/recipepad/internal/config"
	"github.com/foxxcyber/recipepad/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims OwnerClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestApp(extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{OwnerOptional(&config.Config{JWTSecret: testSecret})}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		owner := GetOwner(c)
		return c.SendString(owner.ID + "|" + string(owner.Role))
	})
	app.Get("/", handlers...)
	return app
}

func do(t *testing.T, app *fiber.App, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestOwnerOptional_Anonymous(t *testing.T) {
	status, body := do(t, newTestApp(), nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "|", body)
}

func TestOwnerOptional_Header(t *testing.T) {
	status, body := do(t, newTestApp(), map[string]string{OwnerHeader: " device-1 "})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "device-1|user", body)
}

func TestOwnerOptional_Token(t *testing.T) {
	token := signToken(t, testSecret, OwnerClaims{OwnerID: "tg:42", Role: models.RoleAdmin})

	status, body := do(t, newTestApp(), map[string]string{
		"Authorization": "Bearer " + token,
		OwnerHeader:     "ignored",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "tg:42|admin", body)
}

func TestOwnerOptional_TokenWithoutRoleIsUser(t *testing.T) {
	token := signToken(t, testSecret, OwnerClaims{OwnerID: "tg:42"})
	_, body := do(t, newTestApp(), map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, "tg:42|user", body)
}

func TestOwnerOptional_RejectsBadTokens(t *testing.T) {
	expired := signToken(t, testSecret, OwnerClaims{
		OwnerID:          "tg:42",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	})
	for name, header := range map[string]string{
		"wrong secret": "Bearer " + signToken(t, "other", OwnerClaims{OwnerID: "tg:42"}),
		"expired":      "Bearer " + expired,
		"no owner":     "Bearer " + signToken(t, testSecret, OwnerClaims{Role: models.RoleAdmin}),
		"not bearer":   "Basic abc",
	} {
		status, _ := do(t, newTestApp(), map[string]string{"Authorization": header})
		assert.Equal(t, fiber.StatusUnauthorized, status, name)
	}
}

func TestOwnerRequired(t *testing.T) {
	app := newTestApp(OwnerRequired())

	status, _ := do(t, app, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := do(t, app, map[string]string{OwnerHeader: "device-1"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "device-1|user", body)
}

func TestAdminRequired(t *testing.T) {
	app := newTestApp(AdminRequired())

	status, _ := do(t, app, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// The header can never grant admin
	status, _ = do(t, app, map[string]string{OwnerHeader: "admin"})
	assert.Equal(t, fiber.StatusForbidden, status)

	token := signToken(t, testSecret, OwnerClaims{OwnerID: "boss", Role: models.RoleAdmin})
	status, _ = do(t, app, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, fiber.StatusOK, status)
}
