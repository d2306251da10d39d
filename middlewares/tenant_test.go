package middlewares_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacdesk-backend/middlewares"
)

func buildTenantApp() *fiber.App {
	app := fiber.New()
	app.All("/r",
		middlewares.RequireCompany(),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"company_id": middlewares.CompanyID(c)})
		})
	return app
}

func TestRequireCompany_FromQuery(t *testing.T) {
	app := buildTenantApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/r?company_id=abc-123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireCompany_FromBody(t *testing.T) {
	app := buildTenantApp()
	req := httptest.NewRequest("POST", "/r", strings.NewReader(`{"company_id":"abc-123","amount":5}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireCompany_Missing(t *testing.T) {
	app := buildTenantApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/r", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest("POST", "/r", strings.NewReader(`{"amount":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequireCompany_QueryWinsOverBody(t *testing.T) {
	app := buildTenantApp()
	req := httptest.NewRequest("POST", "/r?company_id=from-query", strings.NewReader(`{"company_id":"from-body"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "from-query", payload["company_id"])
}
