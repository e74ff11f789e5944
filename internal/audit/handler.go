package audit

import (
	"fmt"

	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=transaction&limit=50&offset=0
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 50
		offset := 0
		if v := c.Query("limit"); v != "" {
			if _, err := fmt.Sscan(v, &limit); err != nil || limit <= 0 || limit > 500 {
				return fiber.NewError(fiber.StatusBadRequest, "limit is invalid")
			}
		}
		if v := c.Query("offset"); v != "" {
			if _, err := fmt.Sscan(v, &offset); err != nil || offset < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "offset is invalid")
			}
		}

		q := database.DB.Model(&models.AuditLog{}).Order("created_at DESC")
		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count audit logs")
		}

		var logs []models.AuditLog
		if err := q.Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(fiber.Map{
			"total": total,
			"logs":  logs,
		})
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logID := c.Params("id")

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		original, effective, err := auth.Roles(c)
		if err != nil {
			return err
		}

		userName, _ := c.Locals(auth.CtxUserNameKey).(string)

		if err := UndoLog(logID, userID, userName, original, effective); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{"status": "undone"})
	}
}
