package routes

import (
	"github.com/gofiber/fiber/v2"

	"hvacdesk-backend/controllers"
	"hvacdesk-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Companies (tenant admin surface, not company_id-scoped)
	protected.Get("/companies", controllers.GetCompanies)
	protected.Post("/companies", controllers.CreateCompany)
	protected.Put("/companies/:id", controllers.UpdateCompany)

	// HVAC resources: tenant resolution first so the idempotency guard can
	// scope keys by company.
	hvac := protected.Group("/hvac")
	hvac.Use(middlewares.RequireCompany())
	hvac.Use(middlewares.Idempotency())

	// Contacts
	hvac.Get("/contacts", controllers.GetContacts)
	hvac.Post("/contacts", controllers.CreateContact)
	hvac.Put("/contacts", controllers.UpdateContact)
	hvac.Delete("/contacts", controllers.DeleteContact)

	// Equipment
	hvac.Get("/equipment", controllers.GetEquipment)
	hvac.Post("/equipment", controllers.CreateEquipment)
	hvac.Put("/equipment", controllers.UpdateEquipment)
	hvac.Delete("/equipment", controllers.DeleteEquipment)

	// Jobs + field-tech status endpoint
	hvac.Get("/jobs", controllers.GetJobs)
	hvac.Post("/jobs", controllers.CreateJob)
	hvac.Put("/jobs", controllers.UpdateJob)
	hvac.Delete("/jobs", controllers.DeleteJob)
	hvac.Put("/job-status", controllers.UpdateJobStatus)

	// Appointments (dispatch view over scheduled jobs; delete cancels)
	hvac.Get("/appointments", controllers.GetAppointments)
	hvac.Post("/appointments", controllers.CreateAppointment)
	hvac.Put("/appointments", controllers.UpdateAppointment)
	hvac.Delete("/appointments", controllers.DeleteAppointment)

	// Estimates
	hvac.Get("/estimates", controllers.GetEstimates)
	hvac.Post("/estimates", controllers.CreateEstimate)
	hvac.Put("/estimates", controllers.UpdateEstimate)
	hvac.Delete("/estimates", controllers.DeleteEstimate)

	// Invoices (+ document exports)
	hvac.Get("/invoices", controllers.GetInvoices)
	hvac.Post("/invoices", controllers.CreateInvoice)
	hvac.Put("/invoices", controllers.UpdateInvoice)
	hvac.Delete("/invoices", controllers.DeleteInvoice)
	hvac.Get("/invoices/export", controllers.ExportInvoices)
	hvac.Get("/invoices/:id/pdf", controllers.InvoicePDF)

	// Payments (immutable: create and delete only)
	hvac.Get("/payments", controllers.GetPayments)
	hvac.Post("/payments", controllers.RecordPayment)
	hvac.Delete("/payments", controllers.DeletePayment)

	// Service records
	hvac.Get("/service-records", controllers.GetServiceRecords)
	hvac.Post("/service-records", controllers.CreateServiceRecord)
	hvac.Put("/service-records", controllers.UpdateServiceRecord)
	hvac.Delete("/service-records", controllers.DeleteServiceRecord)

	// Invoice settings (POST and PUT both upsert)
	hvac.Get("/invoice-settings", controllers.GetInvoiceSettings)
	hvac.Post("/invoice-settings", controllers.UpdateInvoiceSettings)
	hvac.Put("/invoice-settings", controllers.UpdateInvoiceSettings)
}
