package middlewares_test

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacdesk-backend/middlewares"
)

const (
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
)

func TestMain(m *testing.M) {
	// The secret is loaded once per process; set it before any token work.
	os.Setenv("JWT_SECRET_KEY", "test-secret-key-for-unit-tests")
	os.Exit(m.Run())
}

func buildAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		middlewares.IsAuthenticatedHeader(),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id":    c.Locals("userID"),
				"company_id": c.Locals("userCompanyID"),
			})
		})
	return app
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := middlewares.GenerateJWT(testUserID, testCompanyID)
	require.NoError(t, err)

	app := buildAuthApp()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuth_MissingHeader(t *testing.T) {
	app := buildAuthApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_GarbageToken(t *testing.T) {
	app := buildAuthApp()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_WrongScheme(t *testing.T) {
	token, err := middlewares.GenerateJWT(testUserID, testCompanyID)
	require.NoError(t, err)

	app := buildAuthApp()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
