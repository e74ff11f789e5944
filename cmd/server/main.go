package main

import (
	"log"
	"strings"

	"agency-backend/internal/access"
	"agency-backend/internal/audit"
	"agency-backend/internal/auth"
	"agency-backend/internal/config"
	"agency-backend/internal/dashboard"
	"agency-backend/internal/database"
	"agency-backend/internal/feed"
	"agency-backend/internal/leads"
	"agency-backend/internal/ledger"
	"agency-backend/internal/preferences"
	"agency-backend/internal/projects"
	"agency-backend/internal/resources"
	"agency-backend/internal/subscriptions"
	"agency-backend/internal/tasks"
	"agency-backend/internal/team"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + auth.ViewAsHeader,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-founder", auth.RegisterFounderHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Preferences (no section: every signed-in user has UI flags)
	protected.Get("/preferences", preferences.GetPreferencesHandler())
	protected.Put("/preferences", preferences.SetPreferenceHandler())

	// Dashboard
	dashboardRoutes := protected.Group("/dashboard", auth.RequireSection(access.SectionOverview))
	dashboardRoutes.Get("/summary", dashboard.SummaryHandler())
	dashboardRoutes.Get("/revenue-chart", dashboard.RevenueChartHandler())
	dashboardRoutes.Get("/export", auth.RequireAction(access.ActionExportReports), dashboard.ExportReportHandler())

	// Projects
	projectRoutes := protected.Group("/projects", auth.RequireSection(access.SectionProjects))
	projectRoutes.Get("", projects.ListProjectsHandler())
	projectRoutes.Get("/:id", projects.GetProjectHandler())
	projectRoutes.Post("", auth.RequireAction(access.ActionCreateProject), projects.CreateProjectHandler())
	projectRoutes.Put("/:id", auth.RequireAction(access.ActionCreateProject), projects.UpdateProjectHandler())
	projectRoutes.Delete("/:id", auth.RequireAction(access.ActionCreateProject), projects.DeleteProjectHandler())

	// Tasks
	taskRoutes := protected.Group("/tasks", auth.RequireSection(access.SectionTasks))
	taskRoutes.Get("", tasks.ListTasksHandler())
	taskRoutes.Post("", auth.RequireAction(access.ActionCreateTask), tasks.CreateTaskHandler())
	taskRoutes.Put("/:id", auth.RequireAction(access.ActionCreateTask), tasks.UpdateTaskHandler())
	taskRoutes.Delete("/:id", auth.RequireAction(access.ActionCreateTask), tasks.DeleteTaskHandler())

	// Leads
	leadRoutes := protected.Group("/leads", auth.RequireSection(access.SectionLeads))
	leadRoutes.Get("", leads.ListLeadsHandler())
	leadRoutes.Post("", auth.RequireAction(access.ActionCreateLead), leads.CreateLeadHandler())
	leadRoutes.Put("/:id", auth.RequireAction(access.ActionCreateLead), leads.UpdateLeadHandler())
	leadRoutes.Delete("/:id", auth.RequireAction(access.ActionCreateLead), leads.DeleteLeadHandler())

	// Ledger
	txRoutes := protected.Group("/transactions", auth.RequireSection(access.SectionFinance))
	txRoutes.Get("", ledger.ListTransactionsHandler())
	txRoutes.Get("/summary/monthly", ledger.MonthlySummaryHandler())
	txRoutes.Post("", auth.RequireAction(access.ActionRecordTransaction), ledger.CreateTransactionHandler())
	txRoutes.Post("/import", auth.RequireAction(access.ActionRecordTransaction), ledger.ImportTransactionsHandler())
	txRoutes.Delete("/:id", auth.RequireAction(access.ActionRecordTransaction), ledger.DeleteTransactionHandler())

	// Subscriptions
	subRoutes := protected.Group("/subscriptions", auth.RequireSection(access.SectionSubscriptions))
	subRoutes.Get("", subscriptions.ListSubscriptionsHandler())
	subRoutes.Post("", auth.RequireAction(access.ActionManageSubscriptions), subscriptions.CreateSubscriptionHandler())
	subRoutes.Put("/:id", auth.RequireAction(access.ActionManageSubscriptions), subscriptions.UpdateSubscriptionHandler())
	subRoutes.Delete("/:id", auth.RequireAction(access.ActionManageSubscriptions), subscriptions.DeleteSubscriptionHandler())

	// AI resource library
	resourceRoutes := protected.Group("/resources", auth.RequireSection(access.SectionResources))
	resourceRoutes.Get("", resources.ListResourcesHandler())
	resourceRoutes.Post("", auth.RequireAction(access.ActionCreateResource), resources.CreateResourceHandler())
	resourceRoutes.Delete("/:id", auth.RequireAction(access.ActionCreateResource), resources.DeleteResourceHandler())

	// Team feed
	feedRoutes := protected.Group("/feed", auth.RequireSection(access.SectionFeed))
	feedRoutes.Get("/posts", feed.ListPostsHandler())
	feedRoutes.Post("/posts", auth.RequireAction(access.ActionCreatePost), feed.CreatePostHandler())
	feedRoutes.Delete("/posts/:id", feed.DeletePostHandler()) // own-post vs moderation decided in the handler
	feedRoutes.Get("/posts/:id/comments", feed.ListCommentsHandler())
	feedRoutes.Post("/posts/:id/comments", auth.RequireAction(access.ActionCreatePost), feed.CreateCommentHandler())

	// Team management
	teamRoutes := protected.Group("/team", auth.RequireAction(access.ActionManageUsers))
	teamRoutes.Post("/users", team.CreateUserHandler())
	teamRoutes.Get("/users", team.ListUsersHandler())
	teamRoutes.Put("/users/:id/role", team.UpdateUserRoleHandler())
	teamRoutes.Delete("/users/:id", team.DeleteUserHandler())

	// Audit logs
	auditRoutes := protected.Group("/audit-logs", auth.RequireAction(access.ActionViewAuditLog))
	auditRoutes.Get("", audit.ListAuditLogsHandler())
	auditRoutes.Post("/:id/undo", audit.UndoAuditLogHandler())

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
