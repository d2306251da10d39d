package middlewares

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireCompany resolves the tenant for the request: company_id from the
// query string (GET) or the JSON body (mutations). Missing company_id is a
// 400 before any handler runs. The resolved id is stashed in
// c.Locals("companyID"); handlers read it via CompanyID(c).
func RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := strings.TrimSpace(c.Query("company_id"))
		if companyID == "" && len(c.Body()) > 0 {
			var probe struct {
				CompanyID string `json:"company_id"`
			}
			if err := json.Unmarshal(c.Body(), &probe); err == nil {
				companyID = strings.TrimSpace(probe.CompanyID)
			}
		}
		if companyID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "message": "Company ID is required",
			})
		}

		c.Locals("companyID", companyID)
		return c.Next()
	}
}

// CompanyID returns the tenant id resolved by RequireCompany.
func CompanyID(c *fiber.Ctx) string {
	id, _ := c.Locals("companyID").(string)
	return id
}
