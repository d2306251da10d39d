package controllers

import (
	"errors"
	"strings"

	"hvacdesk-backend/database"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type registerInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`

	CompanyName string `json:"company_name" validate:"required"`
	City        string `json:"city"`
	State       string `json:"state"`
	Phone       string `json:"phone"`
}

// Register provisions a company and its first user in one transaction and
// signs them in.
func Register(c *fiber.Ctx) error {
	var dto registerInput
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var count int64
	if err := database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return dbError(c, err)
	}
	if count > 0 {
		return badRequest(c, "Email already registered")
	}

	slug := Slugify(dto.CompanyName)
	if slug == "" {
		return badRequest(c, "Company name must contain at least one letter or digit")
	}

	var user models.User
	var company models.Company
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		company = models.Company{
			Name:  strings.TrimSpace(dto.CompanyName),
			Slug:  slug,
			City:  dto.City,
			State: dto.State,
			Phone: dto.Phone,
			Email: email,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		user = models.User{
			FirstName: strings.TrimSpace(dto.FirstName),
			LastName:  strings.TrimSpace(dto.LastName),
			Email:     email,
			CompanyID: company.Id,
		}
		user.SetPassword(dto.Password)
		return tx.Create(&user).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return badRequest(c, "A company with this name already exists")
		}
		return dbError(c, err)
	}

	token, err := middlewares.GenerateJWT(user.Id, user.CompanyID)
	if err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful",
		"token":   token,
		"user":    user,
		"company": company,
	})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and issues a bearer token carrying the user's
// company. Unknown email and wrong password answer identically.
func Login(c *fiber.Ctx) error {
	var dto loginInput
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false, "message": "Invalid credentials",
			})
		}
		return dbError(c, err)
	}
	if err := user.ComparePassword(dto.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Invalid credentials",
		})
	}

	token, err := middlewares.GenerateJWT(user.Id, user.CompanyID)
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Logout is stateless with bearer tokens; clients discard the token. The
// endpoint exists so the dashboard has a uniform auth surface.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "message": "Logout successful"})
}
