package tasks

import (
	"strings"
	"time"

	"agency-backend/internal/audit"
	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTaskRequest struct {
	ProjectID  string  `json:"project_id"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Priority   string  `json:"priority"`
	AssigneeID *string `json:"assignee_id"`
	DueDate    *string `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title      *string `json:"title"`
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AssigneeID *string `json:"assignee_id"`
	DueDate    *string `json:"due_date"`
}

type TaskResponse struct {
	ID         string  `json:"id"`
	ProjectID  string  `json:"project_id"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Priority   string  `json:"priority"`
	AssigneeID *string `json:"assignee_id"`
	DueDate    *string `json:"due_date"`
	CreatedAt  string  `json:"created_at"`
}

func toResponse(t models.Task) TaskResponse {
	resp := TaskResponse{
		ID:         t.ID,
		ProjectID:  t.ProjectID,
		Title:      t.Title,
		Status:     string(t.Status),
		Priority:   string(t.Priority),
		AssigneeID: t.AssigneeID,
		CreatedAt:  t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if t.DueDate != nil {
		s := t.DueDate.Format("2006-01-02")
		resp.DueDate = &s
	}
	return resp
}

func parseStatus(s string) (models.TaskStatus, bool) {
	switch models.TaskStatus(s) {
	case models.TaskTodo, models.TaskInProgress, models.TaskDone:
		return models.TaskStatus(s), true
	}
	return "", false
}

func parsePriority(s string) (models.TaskPriority, bool) {
	switch models.TaskPriority(s) {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return models.TaskPriority(s), true
	}
	return "", false
}

func CreateTaskHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTaskRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Task title is required")
		}
		if body.ProjectID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "project_id is required")
		}

		var project models.Project
		if err := database.DB.First(&project, "id = ?", body.ProjectID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Project not found")
		}

		status := models.TaskTodo
		if body.Status != "" {
			parsed, ok := parseStatus(body.Status)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "status must be todo, in_progress or done")
			}
			status = parsed
		}

		priority := models.TaskPriorityMedium
		if body.Priority != "" {
			parsed, ok := parsePriority(body.Priority)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "priority must be low, medium or high")
			}
			priority = parsed
		}

		task := models.Task{
			ProjectID:  body.ProjectID,
			Title:      body.Title,
			Status:     status,
			Priority:   priority,
			AssigneeID: body.AssigneeID,
		}
		if body.DueDate != nil {
			d, err := time.Parse("2006-01-02", *body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "due_date is invalid (YYYY-MM-DD)")
			}
			task.DueDate = &d
		}

		if err := database.DB.Create(&task).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create task")
		}

		writeAudit(c, models.AuditActionCreate, task.ID, "Task created: "+task.Title, nil, task)

		return c.Status(fiber.StatusCreated).JSON(toResponse(task))
	}
}

// GET /api/tasks?project_id=...&status=...&assignee_id=...
func ListTasksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Task{}).Order("created_at DESC")
		if pid := c.Query("project_id"); pid != "" {
			q = q.Where("project_id = ?", pid)
		}
		if status := c.Query("status"); status != "" {
			if _, ok := parseStatus(status); !ok {
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
			q = q.Where("status = ?", status)
		}
		if aid := c.Query("assignee_id"); aid != "" {
			q = q.Where("assignee_id = ?", aid)
		}

		var tasks []models.Task
		if err := q.Find(&tasks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list tasks")
		}

		res := make([]TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			res = append(res, toResponse(t))
		}
		return c.JSON(res)
	}
}

func UpdateTaskHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var task models.Task
		if err := database.DB.First(&task, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		before := task

		var body UpdateTaskRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Task title cannot be empty")
			}
			task.Title = title
		}
		if body.Status != nil {
			status, ok := parseStatus(*body.Status)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
			task.Status = status
		}
		if body.Priority != nil {
			priority, ok := parsePriority(*body.Priority)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "priority is invalid")
			}
			task.Priority = priority
		}
		if body.AssigneeID != nil {
			task.AssigneeID = body.AssigneeID
		}
		if body.DueDate != nil {
			d, err := time.Parse("2006-01-02", *body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "due_date is invalid")
			}
			task.DueDate = &d
		}

		if err := database.DB.Save(&task).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update task")
		}

		writeAudit(c, models.AuditActionUpdate, task.ID, "Task updated: "+task.Title, before, task)

		return c.JSON(toResponse(task))
	}
}

func DeleteTaskHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var task models.Task
		if err := database.DB.First(&task, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}

		if err := database.DB.Delete(&task).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete task")
		}

		writeAudit(c, models.AuditActionDelete, task.ID, "Task deleted: "+task.Title, task, nil)

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
		EntityType:    "task",
		EntityID:      entityID,
		Action:        action,
		Description:   description,
		Before:        before,
		After:         after,
	})
}
