package leads

import (
	"strings"

	"agency-backend/internal/audit"
	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateLeadRequest struct {
	Name    string  `json:"name"`
	Company string  `json:"company"`
	Email   string  `json:"email"`
	Stage   string  `json:"stage"`
	Value   float64 `json:"value"`
	Notes   string  `json:"notes"`
}

type UpdateLeadRequest struct {
	Name    *string  `json:"name"`
	Company *string  `json:"company"`
	Email   *string  `json:"email"`
	Stage   *string  `json:"stage"`
	Value   *float64 `json:"value"`
	Notes   *string  `json:"notes"`
}

type LeadResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Company   string  `json:"company"`
	Email     string  `json:"email"`
	Stage     string  `json:"stage"`
	Value     float64 `json:"value"`
	OwnerID   string  `json:"owner_id"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

func toResponse(l models.Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Company:   l.Company,
		Email:     l.Email,
		Stage:     string(l.Stage),
		Value:     l.Value,
		OwnerID:   l.OwnerID,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func parseStage(s string) (models.LeadStage, bool) {
	switch models.LeadStage(s) {
	case models.LeadNew, models.LeadContacted, models.LeadQualified, models.LeadWon, models.LeadLost:
		return models.LeadStage(s), true
	}
	return "", false
}

func CreateLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLeadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Lead name is required")
		}

		stage := models.LeadNew
		if body.Stage != "" {
			parsed, ok := parseStage(body.Stage)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "stage must be new, contacted, qualified, won or lost")
			}
			stage = parsed
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		lead := models.Lead{
			Name:    body.Name,
			Company: strings.TrimSpace(body.Company),
			Email:   strings.TrimSpace(strings.ToLower(body.Email)),
			Stage:   stage,
			Value:   body.Value,
			OwnerID: userID,
			Notes:   body.Notes,
		}

		if err := database.DB.Create(&lead).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create lead")
		}

		writeAudit(c, models.AuditActionCreate, lead.ID, "Lead created: "+lead.Name, nil, lead)

		return c.Status(fiber.StatusCreated).JSON(toResponse(lead))
	}
}

// GET /api/leads?stage=qualified&owner_id=...
func ListLeadsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Lead{}).Order("created_at DESC")
		if stage := c.Query("stage"); stage != "" {
			if _, ok := parseStage(stage); !ok {
				return fiber.NewError(fiber.StatusBadRequest, "stage is invalid")
			}
			q = q.Where("stage = ?", stage)
		}
		if oid := c.Query("owner_id"); oid != "" {
			q = q.Where("owner_id = ?", oid)
		}

		var leads []models.Lead
		if err := q.Find(&leads).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list leads")
		}

		res := make([]LeadResponse, 0, len(leads))
		for _, l := range leads {
			res = append(res, toResponse(l))
		}
		return c.JSON(res)
	}
}

func UpdateLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lead models.Lead
		if err := database.DB.First(&lead, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lead not found")
		}
		before := lead

		var body UpdateLeadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Lead name cannot be empty")
			}
			lead.Name = name
		}
		if body.Company != nil {
			lead.Company = strings.TrimSpace(*body.Company)
		}
		if body.Email != nil {
			lead.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Stage != nil {
			stage, ok := parseStage(*body.Stage)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "stage is invalid")
			}
			lead.Stage = stage
		}
		if body.Value != nil {
			lead.Value = *body.Value
		}
		if body.Notes != nil {
			lead.Notes = *body.Notes
		}

		if err := database.DB.Save(&lead).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update lead")
		}

		writeAudit(c, models.AuditActionUpdate, lead.ID, "Lead updated: "+lead.Name, before, lead)

		return c.JSON(toResponse(lead))
	}
}

func DeleteLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lead models.Lead
		if err := database.DB.First(&lead, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lead not found")
		}

		if err := database.DB.Delete(&lead).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete lead")
		}

		writeAudit(c, models.AuditActionDelete, lead.ID, "Lead deleted: "+lead.Name, lead, nil)

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
		EntityType:    "lead",
		EntityID:      entityID,
		Action:        action,
		Description:   description,
		Before:        before,
		After:         after,
	})
}
