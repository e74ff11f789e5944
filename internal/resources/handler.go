package resources

import (
	"strings"

	"agency-backend/internal/audit"
	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateResourceRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Kind        string `json:"kind"`
	Tags        string `json:"tags"`
	Description string `json:"description"`
}

type ResourceResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Kind        string `json:"kind"`
	Tags        string `json:"tags"`
	Description string `json:"description"`
	AddedByID   string `json:"added_by_id"`
	CreatedAt   string `json:"created_at"`
}

func toResponse(r models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		Title:       r.Title,
		URL:         r.URL,
		Kind:        string(r.Kind),
		Tags:        r.Tags,
		Description: r.Description,
		AddedByID:   r.AddedByID,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func parseKind(s string) (models.ResourceKind, bool) {
	switch models.ResourceKind(s) {
	case models.ResourcePrompt, models.ResourceTool, models.ResourceArticle, models.ResourceModel:
		return models.ResourceKind(s), true
	}
	return "", false
}

func CreateResourceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateResourceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Resource title is required")
		}

		kind, ok := parseKind(body.Kind)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "kind must be prompt, tool, article or model")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		res := models.Resource{
			Title:       body.Title,
			URL:         strings.TrimSpace(body.URL),
			Kind:        kind,
			Tags:        strings.TrimSpace(body.Tags),
			Description: body.Description,
			AddedByID:   userID,
		}

		if err := database.DB.Create(&res).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create resource")
		}

		writeAudit(c, models.AuditActionCreate, res.ID, "Resource added: "+res.Title, nil, res)

		return c.Status(fiber.StatusCreated).JSON(toResponse(res))
	}
}

// GET /api/resources?kind=prompt&tag=golang
func ListResourcesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Resource{}).Order("created_at DESC")
		if kind := c.Query("kind"); kind != "" {
			if _, ok := parseKind(kind); !ok {
				return fiber.NewError(fiber.StatusBadRequest, "kind is invalid")
			}
			q = q.Where("kind = ?", kind)
		}
		if tag := c.Query("tag"); tag != "" {
			q = q.Where("tags LIKE ?", "%"+tag+"%")
		}

		var list []models.Resource
		if err := q.Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list resources")
		}

		res := make([]ResourceResponse, 0, len(list))
		for _, r := range list {
			res = append(res, toResponse(r))
		}
		return c.JSON(res)
	}
}

func DeleteResourceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res models.Resource
		if err := database.DB.First(&res, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Resource not found")
		}

		if err := database.DB.Delete(&res).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete resource")
		}

		writeAudit(c, models.AuditActionDelete, res.ID, "Resource deleted: "+res.Title, res, nil)

		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

func writeAudit(c *fiber.Ctx, action models.AuditAction, entityID, description string, before, after any) {
	userID, err := auth.UserID(c)
	if err != nil {
		return
	}
	original, effective, err := auth.Roles(c)
	if err != nil {
		return
	}
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)

	_ = audit.WriteLog(audit.LogOptions{
		UserID:        userID,
		UserName:      userName,
		ActorRole:     original,
		EffectiveRole: effective,
		EntityType:    "resource",
		EntityID:      entityID,
		Action:        action,
		Description:   description,
		Before:        before,
		After:         after,
	})
}
