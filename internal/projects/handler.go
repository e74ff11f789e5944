package projects

import (
	"strings"
	"time"

	"agency-backend/internal/audit"
	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateProjectRequest struct {
	Name        string  `json:"name"`
	ClientName  string  `json:"client_name"`
	Status      string  `json:"status"`
	Budget      float64 `json:"budget"`
	StartDate   *string `json:"start_date"` // "2025-01-15"
	DueDate     *string `json:"due_date"`
	Description string  `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string  `json:"name"`
	ClientName  *string  `json:"client_name"`
	Status      *string  `json:"status"`
	Budget      *float64 `json:"budget"`
	StartDate   *string  `json:"start_date"`
	DueDate     *string  `json:"due_date"`
	Description *string  `json:"description"`
}

type ProjectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ClientName  string  `json:"client_name"`
	Status      string  `json:"status"`
	Budget      float64 `json:"budget"`
	StartDate   *string `json:"start_date"`
	DueDate     *string `json:"due_date"`
	Description string  `json:"description"`
	OwnerID     string  `json:"owner_id"`
	CreatedAt   string  `json:"created_at"`
}

func toResponse(p models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		ClientName:  p.ClientName,
		Status:      string(p.Status),
		Budget:      p.Budget,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.StartDate != nil {
		s := p.StartDate.Format("2006-01-02")
		resp.StartDate = &s
	}
	if p.DueDate != nil {
		s := p.DueDate.Format("2006-01-02")
		resp.DueDate = &s
	}
	return resp
}

func parseStatus(s string) (models.ProjectStatus, bool) {
	switch models.ProjectStatus(s) {
	case models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted:
		return models.ProjectStatus(s), true
	}
	return "", false
}

func parseDate(s string) (*time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func CreateProjectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProjectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Project name is required")
		}

		status := models.ProjectActive
		if body.Status != "" {
			parsed, ok := parseStatus(body.Status)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "status must be active, on_hold or completed")
			}
			status = parsed
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		project := models.Project{
			Name:        body.Name,
			ClientName:  strings.TrimSpace(body.ClientName),
			Status:      status,
			Budget:      body.Budget,
			Description: body.Description,
			OwnerID:     userID,
		}
		if body.StartDate != nil {
			d, err := parseDate(*body.StartDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date is invalid (YYYY-MM-DD)")
			}
			project.StartDate = d
		}
		if body.DueDate != nil {
			d, err := parseDate(*body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "due_date is invalid (YYYY-MM-DD)")
			}
			project.DueDate = d
		}

		if err := database.DB.Create(&project).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create project")
		}

		writeAudit(c, models.AuditActionCreate, project.ID, "Project created: "+project.Name, nil, project)

		return c.Status(fiber.StatusCreated).JSON(toResponse(project))
	}
}

func ListProjectsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Project{}).Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			if _, ok := parseStatus(status); !ok {
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
			q = q.Where("status = ?", status)
		}

		var projects []models.Project
		if err := q.Find(&projects).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list projects")
		}

		res := make([]ProjectResponse, 0, len(projects))
		for _, p := range projects {
			res = append(res, toResponse(p))
		}
		return c.JSON(res)
	}
}

func GetProjectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var project models.Project
		if err := database.DB.First(&project, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Project not found")
		}
		return c.JSON(toResponse(project))
	}
}

func UpdateProjectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var project models.Project
		if err := database.DB.First(&project, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Project not found")
		}
		before := project

		var body UpdateProjectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Project name cannot be empty")
			}
			project.Name = name
		}
		if body.ClientName != nil {
			project.ClientName = strings.TrimSpace(*body.ClientName)
		}
		if body.Status != nil {
			status, ok := parseStatus(*body.Status)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
			project.Status = status
		}
		if body.Budget != nil {
			project.Budget = *body.Budget
		}
		if body.StartDate != nil {
			d, err := parseDate(*body.StartDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date is invalid")
			}
			project.StartDate = d
		}
		if body.DueDate != nil {
			d, err := parseDate(*body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "due_date is invalid")
			}
			project.DueDate = d
		}
		if body.Description != nil {
			project.Description = *body.Description
		}

		if err := database.DB.Save(&project).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update project")
		}

		writeAudit(c, models.AuditActionUpdate, project.ID, "Project updated: "+project.Name, before, project)

		return c.JSON(toResponse(project))
	}
}

func DeleteProjectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var project models.Project
		if err := database.DB.First(&project, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Project not found")
		}

		if err := database.DB.Delete(&project).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete project")
		}

		writeAudit(c, models.AuditActionDelete, project.ID, "Project deleted: "+project.Name, project, nil)

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
		EntityType:    "project",
		EntityID:      entityID,
		Action:        action,
		Description:   description,
		Before:        before,
		After:         after,
	})
}
