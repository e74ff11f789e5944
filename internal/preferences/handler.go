package preferences

import (
	"strings"

	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type SetPreferenceRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// known flag keys; anything else is rejected to keep the table tidy
var knownKeys = map[string]bool{
	"theme":                 true,
	"sidebar_collapsed":     true,
	"desktop_notifications": true,
}

// GET /api/preferences
func GetPreferencesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var prefs []models.Preference
		if err := database.DB.Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load preferences")
		}

		res := make(map[string]string, len(prefs))
		for _, p := range prefs {
			res[p.Key] = p.Value
		}
		return c.JSON(res)
	}
}

// PUT /api/preferences
func SetPreferenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body SetPreferenceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Key = strings.TrimSpace(body.Key)
		if !knownKeys[body.Key] {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown preference key")
		}

		pref := models.Preference{
			UserID: userID,
			Key:    body.Key,
			Value:  body.Value,
		}

		if err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&pref).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save preference")
		}

		return c.JSON(fiber.Map{body.Key: body.Value})
	}
}
