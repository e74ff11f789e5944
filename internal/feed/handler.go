package feed

import (
	"strings"

	"agency-backend/internal/access"
	"agency-backend/internal/audit"
	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreatePostRequest struct {
	Body string `json:"body"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}

type AuthorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type PostResponse struct {
	ID           string         `json:"id"`
	Author       AuthorResponse `json:"author"`
	Body         string         `json:"body"`
	CommentCount int64          `json:"comment_count"`
	CreatedAt    string         `json:"created_at"`
}

type CommentResponse struct {
	ID        string         `json:"id"`
	PostID    string         `json:"post_id"`
	Author    AuthorResponse `json:"author"`
	Body      string         `json:"body"`
	CreatedAt string         `json:"created_at"`
}

func toAuthor(u *models.User) AuthorResponse {
	if u == nil {
		return AuthorResponse{}
	}
	return AuthorResponse{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

func CreatePostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePostRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Body = strings.TrimSpace(body.Body)
		if body.Body == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Post body is required")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		post := models.Post{AuthorID: userID, Body: body.Body}
		if err := database.DB.Create(&post).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create post")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": post.ID})
	}
}

func ListPostsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var posts []models.Post
		if err := database.DB.Preload("Author").Order("created_at DESC").Limit(100).Find(&posts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list posts")
		}

		res := make([]PostResponse, 0, len(posts))
		for _, p := range posts {
			var commentCount int64
			if err := database.DB.Model(&models.Comment{}).Where("post_id = ?", p.ID).Count(&commentCount).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not load comment counts")
			}

			res = append(res, PostResponse{
				ID:           p.ID,
				Author:       toAuthor(p.Author),
				Body:         p.Body,
				CommentCount: commentCount,
				CreatedAt:    p.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}

// DeletePostHandler lets authors remove their own posts. Removing someone
// else's post is moderation and runs against the account's original role,
// so a founder viewing as developer keeps the power and nobody gains it by
// viewing as somebody privileged.
func DeletePostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var post models.Post
		if err := database.DB.First(&post, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		original, effective, err := auth.Roles(c)
		if err != nil {
			return err
		}

		if post.AuthorID != userID && !access.CanPerformAction(original, effective, access.ActionDeleteAnyPost) {
			return fiber.NewError(fiber.StatusForbidden, "You can only delete your own posts")
		}

		if err := database.DB.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete comments")
		}
		if err := database.DB.Delete(&post).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete post")
		}

		if post.AuthorID != userID {
			userName, _ := c.Locals(auth.CtxUserNameKey).(string)
			post.Author = nil
			_ = audit.WriteLog(audit.LogOptions{
				UserID:        userID,
				UserName:      userName,
				ActorRole:     original,
				EffectiveRole: effective,
				EntityType:    "post",
				EntityID:      post.ID,
				Action:        models.AuditActionDelete,
				Description:   "Post removed by moderation",
				Before:        post,
			})
		}

		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

func CreateCommentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var post models.Post
		if err := database.DB.First(&post, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}

		var body CreateCommentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Body = strings.TrimSpace(body.Body)
		if body.Body == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Comment body is required")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		comment := models.Comment{PostID: post.ID, AuthorID: userID, Body: body.Body}
		if err := database.DB.Create(&comment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create comment")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": comment.ID})
	}
}

func ListCommentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var comments []models.Comment
		if err := database.DB.Preload("Author").
			Where("post_id = ?", c.Params("id")).
			Order("created_at ASC").
			Find(&comments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list comments")
		}

		res := make([]CommentResponse, 0, len(comments))
		for _, cm := range comments {
			res = append(res, CommentResponse{
				ID:        cm.ID,
				PostID:    cm.PostID,
				Author:    toAuthor(cm.Author),
				Body:      cm.Body,
				CreatedAt: cm.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}
