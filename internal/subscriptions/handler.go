package subscriptions

import (
	"strings"
	"time"

	"agency-backend/internal/audit"
	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSubscriptionRequest struct {
	Name        string  `json:"name"`
	Vendor      string  `json:"vendor"`
	MonthlyCost float64 `json:"monthly_cost"`
	RenewsOn    *string `json:"renews_on"` // "2025-02-01"
}

type UpdateSubscriptionRequest struct {
	Name        *string  `json:"name"`
	Vendor      *string  `json:"vendor"`
	MonthlyCost *float64 `json:"monthly_cost"`
	RenewsOn    *string  `json:"renews_on"`
	Status      *string  `json:"status"`
}

type SubscriptionResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Vendor      string  `json:"vendor"`
	MonthlyCost float64 `json:"monthly_cost"`
	RenewsOn    *string `json:"renews_on"`
	Status      string  `json:"status"`
	OwnerID     string  `json:"owner_id"`
	CreatedAt   string  `json:"created_at"`
}

func toResponse(s models.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:          s.ID,
		Name:        s.Name,
		Vendor:      s.Vendor,
		MonthlyCost: s.MonthlyCost,
		Status:      string(s.Status),
		OwnerID:     s.OwnerID,
		CreatedAt:   s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if s.RenewsOn != nil {
		d := s.RenewsOn.Format("2006-01-02")
		resp.RenewsOn = &d
	}
	return resp
}

func CreateSubscriptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSubscriptionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Subscription name is required")
		}
		if body.MonthlyCost < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "monthly_cost cannot be negative")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		sub := models.Subscription{
			Name:        body.Name,
			Vendor:      strings.TrimSpace(body.Vendor),
			MonthlyCost: body.MonthlyCost,
			Status:      models.SubscriptionActive,
			OwnerID:     userID,
		}
		if body.RenewsOn != nil {
			d, err := time.Parse("2006-01-02", *body.RenewsOn)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "renews_on is invalid (YYYY-MM-DD)")
			}
			sub.RenewsOn = &d
		}

		if err := database.DB.Create(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create subscription")
		}

		writeAudit(c, models.AuditActionCreate, sub.ID, "Subscription created: "+sub.Name, nil, sub)

		return c.Status(fiber.StatusCreated).JSON(toResponse(sub))
	}
}

func ListSubscriptionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Subscription{}).Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			switch models.SubscriptionStatus(status) {
			case models.SubscriptionActive, models.SubscriptionCancelled:
				q = q.Where("status = ?", status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
		}

		var subs []models.Subscription
		if err := q.Find(&subs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list subscriptions")
		}

		res := make([]SubscriptionResponse, 0, len(subs))
		var monthlyBurn float64
		for _, s := range subs {
			res = append(res, toResponse(s))
			if s.Status == models.SubscriptionActive {
				monthlyBurn += s.MonthlyCost
			}
		}

		return c.JSON(fiber.Map{
			"subscriptions": res,
			"monthly_burn":  monthlyBurn,
		})
	}
}

func UpdateSubscriptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sub models.Subscription
		if err := database.DB.First(&sub, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Subscription not found")
		}
		before := sub

		var body UpdateSubscriptionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Subscription name cannot be empty")
			}
			sub.Name = name
		}
		if body.Vendor != nil {
			sub.Vendor = strings.TrimSpace(*body.Vendor)
		}
		if body.MonthlyCost != nil {
			if *body.MonthlyCost < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "monthly_cost cannot be negative")
			}
			sub.MonthlyCost = *body.MonthlyCost
		}
		if body.RenewsOn != nil {
			d, err := time.Parse("2006-01-02", *body.RenewsOn)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "renews_on is invalid")
			}
			sub.RenewsOn = &d
		}
		if body.Status != nil {
			switch models.SubscriptionStatus(*body.Status) {
			case models.SubscriptionActive, models.SubscriptionCancelled:
				sub.Status = models.SubscriptionStatus(*body.Status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status must be active or cancelled")
			}
		}

		if err := database.DB.Save(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update subscription")
		}

		writeAudit(c, models.AuditActionUpdate, sub.ID, "Subscription updated: "+sub.Name, before, sub)

		return c.JSON(toResponse(sub))
	}
}

func DeleteSubscriptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sub models.Subscription
		if err := database.DB.First(&sub, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Subscription not found")
		}

		if err := database.DB.Delete(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete subscription")
		}

		writeAudit(c, models.AuditActionDelete, sub.ID, "Subscription deleted: "+sub.Name, sub, nil)

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
		EntityType:    "subscription",
		EntityID:      entityID,
		Action:        action,
		Description:   description,
		Before:        before,
		After:         after,
	})
}
