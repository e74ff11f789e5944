package auth

import (
	"strings"
	"time"

	"agency-backend/internal/access"
	"agency-backend/internal/config"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterFounderRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterFounderHandler bootstraps the very first account. Once a founder
// exists this endpoint refuses to create another; everyone else is created
// through the team section.
func RegisterFounderHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterFounderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}

		var count int64
		if err := database.DB.Model(&models.User{}).
			Where("role = ?", models.RoleFounder).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check existing accounts")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "A founder account already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleFounder,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
		token, err := GenerateToken(cfg.JWTSecret, ttl, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return c.JSON(fiber.Map{
			"token":      token,
			"expires_at": time.Now().Add(ttl).Unix(),
			"user": fiber.Map{
				"id":         user.ID,
				"name":       user.Name,
				"email":      user.Email,
				"role":       user.Role,
				"avatar_url": user.AvatarURL,
			},
		})
	}
}

// MeHandler reports the session as the UI needs it: the account role, the
// role currently being viewed as, and which roles may be impersonated.
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}
		original, effective, err := Roles(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		sections := make([]access.SectionID, 0)
		for _, s := range []access.SectionID{
			access.SectionOverview, access.SectionProjects, access.SectionTasks,
			access.SectionLeads, access.SectionFinance, access.SectionSubscriptions,
			access.SectionResources, access.SectionFeed, access.SectionTeam,
		} {
			if access.CanAccessSection(effective, s) {
				sections = append(sections, s)
			}
		}

		return c.JSON(fiber.Map{
			"user": fiber.Map{
				"id":         user.ID,
				"name":       user.Name,
				"email":      user.Email,
				"role":       user.Role,
				"avatar_url": user.AvatarURL,
			},
			"original_role":   original,
			"effective_role":  effective,
			"view_as_targets": access.AllowedImpersonationTargets(original),
			"sections":        sections,
		})
	}
}
