package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"agency-backend/internal/auth"
	"agency-backend/internal/database"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// POST /api/transactions/import
// Bulk-loads transactions from an uploaded xlsx. Expected columns:
// date (YYYY-MM-DD), description, amount, type (income|expense), category.
// Bad rows are reported and skipped, never aborting the whole file.
func ImportTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are supported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open file: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read Excel file: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file has no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read sheet: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		// a header row starts with "date" in the first column
		startIndex := 0
		if len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "date") {
			startIndex = 1
		}

		result := ImportResult{Errors: make([]string, 0)}

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			tx, err := parseRow(row)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			tx.CreatedByID = userID

			if err := database.DB.Create(&tx).Error; err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: could not save", i+1))
				continue
			}
			result.Imported++
		}

		writeAudit(c, models.AuditActionCreate, "", fmt.Sprintf("Imported %d transactions from %s", result.Imported, fileHeader.Filename), nil, result)

		return c.JSON(result)
	}
}

func parseRow(row []string) (models.Transaction, error) {
	if len(row) < 4 {
		return models.Transaction{}, fmt.Errorf("expected at least 4 columns, got %d", len(row))
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid date %q", row[0])
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[2]), ",", ""), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q", row[2])
	}
	if amount < 0 {
		return models.Transaction{}, fmt.Errorf("negative amount %q", row[2])
	}

	txType, ok := parseType(strings.ToLower(strings.TrimSpace(row[3])))
	if !ok {
		return models.Transaction{}, fmt.Errorf("invalid type %q", row[3])
	}

	category := ""
	if len(row) > 4 {
		category = strings.TrimSpace(row[4])
	}

	return models.Transaction{
		Date:        date,
		Description: strings.TrimSpace(row[1]),
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Status:      models.TransactionCompleted,
	}, nil
}
