package dashboard

import (
	"fmt"
	"time"

	"agency-backend/internal/database"
	"agency-backend/internal/finance"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/dashboard/export?window=this_year
// Writes the monthly financial series to an xlsx workbook.
func ExportReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		window := finance.ParseWindow(c.Query("window"))

		var txns []models.Transaction
		if err := database.DB.Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load transactions")
		}

		months, _ := finance.AggregateByMonth(finance.FilterByWindow(txns, window, time.Now()))

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Monthly"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Month", "Revenue", "Expenses", "Profit"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, m := range months {
			row := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Label)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Revenue)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Expenses)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Profit)
		}

		// totals row below the data
		totalRow := len(months) + 3
		revenue := finance.TotalRevenue(months)
		expenses := finance.TotalExpenses(months)
		f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow), revenue)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", totalRow), expenses)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), revenue-expenses)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate report")
		}

		filename := fmt.Sprintf("financial-report-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
