package ledger

import (
	"log"
	"strings"
	"time"

	"agency-backend/internal/audit"
	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/finance"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTransactionRequest struct {
	Date        string  `json:"date"` // "2025-12-09"
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"` // income | expense
	Category    string  `json:"category"`
	Status      string  `json:"status"` // completed | pending
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
}

type MonthlySummaryResponse struct {
	Window        string                  `json:"window"`
	Months        []finance.MonthlyRecord `json:"months"`
	TotalRevenue  float64                 `json:"total_revenue"`
	TotalExpenses float64                 `json:"total_expenses"`
	NetProfit     float64                 `json:"net_profit"`
	MarginPercent int                     `json:"margin_percent"`
	SkippedCount  int                     `json:"skipped_count"`
}

func toResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Category:    t.Category,
		Status:      string(t.Status),
	}
}

func parseType(s string) (models.TransactionType, bool) {
	switch models.TransactionType(s) {
	case models.TransactionIncome, models.TransactionExpense:
		return models.TransactionType(s), true
	}
	return "", false
}

func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date is invalid (YYYY-MM-DD)")
		}
		if body.Amount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount cannot be negative")
		}
		txType, ok := parseType(body.Type)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "type must be income or expense")
		}

		status := models.TransactionCompleted
		if body.Status != "" {
			switch models.TransactionStatus(body.Status) {
			case models.TransactionCompleted, models.TransactionPending:
				status = models.TransactionStatus(body.Status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status must be completed or pending")
			}
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		tx := models.Transaction{
			Date:        date,
			Description: strings.TrimSpace(body.Description),
			Amount:      body.Amount,
			Type:        txType,
			Category:    strings.TrimSpace(body.Category),
			Status:      status,
			CreatedByID: userID,
		}

		if err := database.DB.Create(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create transaction")
		}

		writeAudit(c, models.AuditActionCreate, tx.ID, "Transaction recorded: "+tx.Description, nil, tx)

		return c.Status(fiber.StatusCreated).JSON(toResponse(tx))
	}
}

// GET /api/transactions?window=30d|this_month|this_year|all&type=income
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Transaction{})
		if typ := c.Query("type"); typ != "" {
			if _, ok := parseType(typ); !ok {
				return fiber.NewError(fiber.StatusBadRequest, "type is invalid")
			}
			q = q.Where("type = ?", typ)
		}

		var txns []models.Transaction
		if err := q.Order("date DESC").Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}

		window := finance.ParseWindow(c.Query("window"))
		txns = finance.FilterByWindow(txns, window, time.Now())

		res := make([]TransactionResponse, 0, len(txns))
		for _, t := range txns {
			res = append(res, toResponse(t))
		}
		return c.JSON(fiber.Map{
			"window":       window,
			"transactions": res,
		})
	}
}

func DeleteTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tx models.Transaction
		if err := database.DB.First(&tx, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
		}

		if err := database.DB.Delete(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete transaction")
		}

		writeAudit(c, models.AuditActionDelete, tx.ID, "Transaction deleted: "+tx.Description, tx, nil)

		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

// GET /api/transactions/summary/monthly?window=this_year
// All aggregation happens in the finance package; this handler only
// fetches the rows and serializes the result.
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var txns []models.Transaction
		if err := database.DB.Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load transactions")
		}

		window := finance.ParseWindow(c.Query("window"))
		filtered := finance.FilterByWindow(txns, window, time.Now())

		months, skipped := finance.AggregateByMonth(filtered)
		if skipped > 0 {
			log.Printf("[WARN] monthly summary skipped %d malformed transactions", skipped)
		}

		revenue := finance.TotalRevenue(months)
		expenses := finance.TotalExpenses(months)

		return c.JSON(MonthlySummaryResponse{
			Window:        string(window),
			Months:        months,
			TotalRevenue:  revenue,
			TotalExpenses: expenses,
			NetProfit:     revenue - expenses,
			MarginPercent: finance.MarginPercent(revenue, expenses),
			SkippedCount:  skipped,
		})
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
		EntityType:    "transaction",
		EntityID:      entityID,
		Action:        action,
		Description:   description,
		Before:        before,
		After:         after,
	})
}
