package controllers_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacdesk-backend/controllers"
	"hvacdesk-backend/middlewares"
)

// Request validation runs before any database work, so these paths are
// testable without a connection.
func buildApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})

	hvac := app.Group("/api/hvac", middlewares.RequireCompany())
	hvac.Post("/payments", controllers.RecordPayment)
	hvac.Delete("/payments", controllers.DeletePayment)
	hvac.Post("/service-records", controllers.CreateServiceRecord)
	hvac.Put("/service-records", controllers.UpdateServiceRecord)
	hvac.Put("/job-status", controllers.UpdateJobStatus)
	hvac.Post("/appointments", controllers.CreateAppointment)
	hvac.Put("/appointments", controllers.UpdateAppointment)
	hvac.Delete("/appointments", controllers.DeleteAppointment)
	hvac.Post("/invoices", controllers.CreateInvoice)
	hvac.Put("/invoices", controllers.UpdateInvoice)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	return resp.StatusCode, payload
}

func TestRecordPayment_MissingCompany(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/payments",
		`{"invoice_id":1,"contact_id":1,"amount":50,"transaction_date":"2026-01-10"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Company ID is required", payload["message"])
}

func TestRecordPayment_MissingFields(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/payments",
		`{"company_id":"c1","amount":50}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, payload["success"])
}

func TestRecordPayment_NonPositiveAmount(t *testing.T) {
	app := buildApp()
	for _, amount := range []string{"0", "-25"} {
		status, payload := doJSON(t, app, "POST", "/api/hvac/payments",
			`{"company_id":"c1","invoice_id":1,"contact_id":1,"amount":`+amount+`,"transaction_date":"2026-01-10"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Payment amount must be greater than zero", payload["message"])
	}
}

func TestRecordPayment_InvalidMethod(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/payments",
		`{"company_id":"c1","invoice_id":1,"contact_id":1,"amount":50,"transaction_date":"2026-01-10","payment_method":"barter"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid payment method", payload["message"])
}

func TestRecordPayment_InvalidDate(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/payments",
		`{"company_id":"c1","invoice_id":1,"contact_id":1,"amount":50,"transaction_date":"January 10th"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid transaction_date", payload["message"])
}

func TestDeletePayment_MissingID(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "DELETE", "/api/hvac/payments", `{"company_id":"c1"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Payment ID is required", payload["message"])
}

func TestCreateServiceRecord_MissingFields(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/service-records",
		`{"company_id":"c1","equipment_id":3}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, payload["success"])
}

func TestCreateServiceRecord_InvalidDate(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/service-records",
		`{"company_id":"c1","equipment_id":3,"service_type":"maintenance","service_date":"soon"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid service_date", payload["message"])
}

func TestUpdateServiceRecord_MissingID(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "PUT", "/api/hvac/service-records",
		`{"company_id":"c1","service_type":"repair"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Service record ID is required", payload["message"])
}

func TestUpdateJobStatus_InvalidStatus(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "PUT", "/api/hvac/job-status",
		`{"company_id":"c1","job_id":9,"status":"done"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	msg, _ := payload["message"].(string)
	assert.Contains(t, msg, "Invalid status")
	assert.Contains(t, msg, "pending_parts")
}

func TestUpdateJobStatus_MissingFields(t *testing.T) {
	app := buildApp()
	status, _ := doJSON(t, app, "PUT", "/api/hvac/job-status", `{"company_id":"c1","job_id":9}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateInvoice_MissingFields(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/invoices",
		`{"company_id":"c1","contact_id":4}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, payload["success"])
}

func TestCreateInvoice_NegativeTotal(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/invoices",
		`{"company_id":"c1","contact_id":4,"invoice_number":"INV-9","date_issued":"2026-01-10","total_amount":-10}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "total_amount cannot be negative", payload["message"])
}

func TestUpdateInvoice_InvalidStatus(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "PUT", "/api/hvac/invoices",
		`{"company_id":"c1","id":4,"status":"archived"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid invoice status", payload["message"])
}

func TestCreateAppointment_MissingFields(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/appointments",
		`{"company_id":"c1","customer_id":4}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "customer_id, description and scheduled_date are required", payload["message"])
}

func TestCreateAppointment_InvalidDate(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "POST", "/api/hvac/appointments",
		`{"company_id":"c1","customer_id":4,"description":"No heat","scheduled_date":"next tuesday"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid scheduled_date", payload["message"])
}

func TestUpdateAppointment_MissingID(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "PUT", "/api/hvac/appointments",
		`{"company_id":"c1","technician":"Dana"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Appointment ID is required", payload["message"])
}

func TestDeleteAppointment_MissingID(t *testing.T) {
	app := buildApp()
	status, payload := doJSON(t, app, "DELETE", "/api/hvac/appointments", `{"company_id":"c1"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Appointment ID is required", payload["message"])
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "bob-s-hvac-air", controllers.Slugify("Bob's HVAC & Air"))
	assert.Equal(t, "comfort-air", controllers.Slugify("  Comfort   Air  "))
	assert.Equal(t, "", controllers.Slugify("!!!"))
}
