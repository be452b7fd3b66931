package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"mural/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-middleware-test-secret"

func signToken(t *testing.T, secret string, userID uint, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(expiresIn).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authTestApp(t *testing.T, handler fiber.Handler) *fiber.App {
	t.Helper()
	InitMiddleware(&config.Config{JWTSecret: testSecret})
	app := fiber.New()
	app.Get("/required", AuthRequired, handler)
	app.Get("/optional", OptionalAuth, handler)
	return app
}

func userIDEcho(c *fiber.Ctx) error {
	if uid, ok := c.Locals("userID").(uint); ok {
		return c.JSON(fiber.Map{"user_id": uid})
	}
	return c.JSON(fiber.Map{"user_id": nil})
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthRequired(t *testing.T) {
	app := authTestApp(t, userIDEcho)

	t.Run("missing header", func(t *testing.T) {
		resp := doGet(t, app, "/required", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"Bearer", "Basic abc", "token-without-scheme"} {
			resp := doGet(t, app, "/required", header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
			resp.Body.Close()
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "some-other-secret", 1, time.Hour)
		resp := doGet(t, app, "/required", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, 1, -time.Minute)
		resp := doGet(t, app, "/required", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "not-a-number",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(testSecret))
		require.NoError(t, err)
		resp := doGet(t, app, "/required", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, 77, time.Hour)
		resp := doGet(t, app, "/required", "Bearer "+token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestOptionalAuth(t *testing.T) {
	app := authTestApp(t, userIDEcho)

	t.Run("anonymous passes through", func(t *testing.T) {
		resp := doGet(t, app, "/optional", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("invalid token ignored", func(t *testing.T) {
		resp := doGet(t, app, "/optional", "Bearer garbage")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("valid token resolves user", func(t *testing.T) {
		token := signToken(t, testSecret, 42, time.Hour)
		resp := doGet(t, app, "/optional", "Bearer "+token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var body struct {
			UserID *uint `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NotNil(t, body.UserID)
		assert.Equal(t, uint(42), *body.UserID)
	})
}
