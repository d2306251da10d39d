package controllers

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"hvacdesk-backend/database"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"
	"hvacdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a company name into a URL-safe slug
// ("Bob's HVAC & Air" -> "bob-s-hvac-air").
func Slugify(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// GetCompanies lists tenants. ?id= or ?slug= fetches one; the slug form is
// what the generated marketing sites resolve on.
func GetCompanies(c *fiber.Ctx) error {
	if idStr := c.Query("id"); idStr != "" {
		var company models.Company
		if err := database.DB.Where("id = ?", idStr).First(&company).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "Company not found")
			}
			return dbError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "company": company})
	}
	if slug := c.Query("slug"); slug != "" {
		var company models.Company
		if err := database.DB.Where("slug = ?", slug).First(&company).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "Company not found")
			}
			return dbError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "company": company})
	}

	companies := []models.Company{}
	if err := database.DB.Order("name").Find(&companies).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "companies": companies})
}

type createCompanyInput struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	City        string `json:"city"`
	State       string `json:"state"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	TemplateKey string `json:"template_key"`

	TemplateCustomizations json.RawMessage `json:"template_customizations"`
}

// CreateCompany provisions a tenant. The slug is derived from the name when
// not given explicitly.
func CreateCompany(c *fiber.Ctx) error {
	var dto createCompanyInput
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	slug := dto.Slug
	if slug == "" {
		slug = Slugify(dto.Name)
	}
	if slug == "" {
		return badRequest(c, "Company name must contain at least one letter or digit")
	}
	templateKey := dto.TemplateKey
	if templateKey == "" {
		templateKey = "moderntrust"
	}

	company := models.Company{
		Name:        dto.Name,
		Slug:        slug,
		City:        dto.City,
		State:       dto.State,
		Phone:       dto.Phone,
		Email:       dto.Email,
		TemplateKey: templateKey,
	}
	if len(dto.TemplateCustomizations) > 0 {
		company.TemplateCustomizations = datatypes.JSON(dto.TemplateCustomizations)
	}

	if err := database.DB.Create(&company).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return badRequest(c, "A company with this slug already exists")
		}
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Company created successfully",
		"company": company,
	})
}

type updateCompanyInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" validate:"omitempty,email"`
	TemplateKey *string `json:"template_key"`

	TemplateCustomizations json.RawMessage `json:"template_customizations"`
}

// UpdateCompany patches a tenant. template_customizations replaces the stored
// JSON document wholesale; callers send the full merged object.
func UpdateCompany(c *fiber.Ctx) error {
	id := c.Params("id")

	var dto updateCompanyInput
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	var existing models.Company
	if err := database.DB.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Company not found")
		}
		return dbError(c, err)
	}

	utils.NormalizePtrDTO(&dto)
	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	delete(updates, "template_customizations")
	if len(dto.TemplateCustomizations) > 0 {
		updates["template_customizations"] = datatypes.JSON(dto.TemplateCustomizations)
	}
	if slug, ok := updates["slug"].(string); ok && slug == "" {
		return badRequest(c, "Slug cannot be empty")
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return badRequest(c, "A company with this slug already exists")
			}
			return dbError(c, err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Company updated successfully"})
}
