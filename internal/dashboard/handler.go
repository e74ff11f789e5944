package dashboard

import (
	"log"
	"time"

	"agency-backend/internal/database"
	"agency-backend/internal/finance"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SummaryResponse struct {
	Window             string  `json:"window"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalExpenses      float64 `json:"total_expenses"`
	NetProfit          float64 `json:"net_profit"`
	MarginPercent      int     `json:"margin_percent"`
	TaskCompletionRate int     `json:"task_completion_rate"`
	ActiveProjects     int64   `json:"active_projects"`
	OpenLeads          int64   `json:"open_leads"`
	PipelineValue      float64 `json:"pipeline_value"`
	MonthlyBurn        float64 `json:"monthly_burn"` // active subscriptions
}

type RevenueChartResponse struct {
	Window string                  `json:"window"`
	Months []finance.MonthlyRecord `json:"months"`
}

// GET /api/dashboard/summary?window=30d|this_month|this_year|all
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		window := finance.ParseWindow(c.Query("window"))
		now := time.Now()

		var txns []models.Transaction
		if err := database.DB.Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load transactions")
		}

		months, skipped := finance.AggregateByMonth(finance.FilterByWindow(txns, window, now))
		if skipped > 0 {
			log.Printf("[WARN] dashboard summary skipped %d malformed transactions", skipped)
		}
		revenue := finance.TotalRevenue(months)
		expenses := finance.TotalExpenses(months)

		var totalTasks, doneTasks int64
		if err := database.DB.Model(&models.Task{}).Count(&totalTasks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load task counts")
		}
		if err := database.DB.Model(&models.Task{}).Where("status = ?", models.TaskDone).Count(&doneTasks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load task counts")
		}

		var activeProjects int64
		if err := database.DB.Model(&models.Project{}).Where("status = ?", models.ProjectActive).Count(&activeProjects).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load project counts")
		}

		var openLeads int64
		var pipelineValue float64
		if err := database.DB.Model(&models.Lead{}).
			Where("stage NOT IN ?", []models.LeadStage{models.LeadWon, models.LeadLost}).
			Count(&openLeads).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load lead counts")
		}
		if err := database.DB.Model(&models.Lead{}).
			Where("stage NOT IN ?", []models.LeadStage{models.LeadWon, models.LeadLost}).
			Select("COALESCE(SUM(value), 0)").
			Scan(&pipelineValue).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load pipeline value")
		}

		var monthlyBurn float64
		if err := database.DB.Model(&models.Subscription{}).
			Where("status = ?", models.SubscriptionActive).
			Select("COALESCE(SUM(monthly_cost), 0)").
			Scan(&monthlyBurn).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load subscription burn")
		}

		return c.JSON(SummaryResponse{
			Window:             string(window),
			TotalRevenue:       revenue,
			TotalExpenses:      expenses,
			NetProfit:          revenue - expenses,
			MarginPercent:      finance.MarginPercent(revenue, expenses),
			TaskCompletionRate: finance.CompletionRate(int(doneTasks), int(totalTasks)),
			ActiveProjects:     activeProjects,
			OpenLeads:          openLeads,
			PipelineValue:      pipelineValue,
			MonthlyBurn:        monthlyBurn,
		})
	}
}

// GET /api/dashboard/revenue-chart?window=this_year
// Returns the calendar-ordered monthly series the UI charts directly;
// clients never sum transactions themselves.
func RevenueChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		window := finance.ParseWindow(c.Query("window"))

		var txns []models.Transaction
		if err := database.DB.Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load transactions")
		}

		months, skipped := finance.AggregateByMonth(finance.FilterByWindow(txns, window, time.Now()))
		if skipped > 0 {
			log.Printf("[WARN] revenue chart skipped %d malformed transactions", skipped)
		}

		return c.JSON(RevenueChartResponse{
			Window: string(window),
			Months: months,
		})
	}
}
