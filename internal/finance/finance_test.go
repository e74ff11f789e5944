package finance

import (
	"testing"
	"time"

	"agency-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date string, amount float64, typ models.TransactionType) models.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{Date: d, Amount: amount, Type: typ}
}

func TestAggregateByMonth_Empty(t *testing.T) {
	records, skipped := AggregateByMonth(nil)
	assert.Empty(t, records)
	assert.Zero(t, skipped)

	records, skipped = AggregateByMonth([]models.Transaction{})
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}

func TestAggregateByMonth_SingleMonth(t *testing.T) {
	records, skipped := AggregateByMonth([]models.Transaction{
		tx("2024-03-05", 1000, models.TransactionIncome),
		tx("2024-03-20", 400, models.TransactionExpense),
	})

	require.Len(t, records, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, MonthlyRecord{
		Year:     2024,
		Month:    3,
		Label:    "Mar",
		Revenue:  1000,
		Expenses: 400,
		Profit:   600,
	}, records[0])
}

func TestAggregateByMonth_OrderedByCalendarMonth(t *testing.T) {
	// supplied out of order on purpose
	records, _ := AggregateByMonth([]models.Transaction{
		tx("2024-11-01", 50, models.TransactionIncome),
		tx("2024-02-10", 200, models.TransactionIncome),
		tx("2024-07-04", 75, models.TransactionExpense),
		tx("2024-02-28", 100, models.TransactionExpense),
	})

	require.Len(t, records, 3)
	assert.Equal(t, []string{"Feb", "Jul", "Nov"}, []string{records[0].Label, records[1].Label, records[2].Label})
	assert.Equal(t, 200.0, records[0].Revenue)
	assert.Equal(t, 100.0, records[0].Expenses)
}

func TestAggregateByMonth_ProfitIdentity(t *testing.T) {
	records, _ := AggregateByMonth([]models.Transaction{
		tx("2024-01-01", 1234.56, models.TransactionIncome),
		tx("2024-01-15", 789.01, models.TransactionExpense),
		tx("2024-04-02", 10, models.TransactionExpense),
		tx("2024-09-09", 0, models.TransactionIncome),
	})

	for _, r := range records {
		assert.Equal(t, r.Revenue-r.Expenses, r.Profit, "profit identity for %s", r.Label)
	}
}

func TestAggregateByMonth_Idempotent(t *testing.T) {
	txns := []models.Transaction{
		tx("2024-05-01", 300, models.TransactionIncome),
		tx("2024-06-01", 120, models.TransactionExpense),
		tx("2024-05-09", 80, models.TransactionExpense),
	}

	first, skippedFirst := AggregateByMonth(txns)
	second, skippedSecond := AggregateByMonth(txns)

	assert.Equal(t, first, second)
	assert.Equal(t, skippedFirst, skippedSecond)
}

func TestAggregateByMonth_MultiYearKeepsMonthsApart(t *testing.T) {
	// Mar 2023 and Mar 2024 must not collapse into one bucket.
	records, _ := AggregateByMonth([]models.Transaction{
		tx("2023-03-01", 100, models.TransactionIncome),
		tx("2024-03-01", 200, models.TransactionIncome),
	})

	require.Len(t, records, 2)
	assert.Equal(t, "Mar 2023", records[0].Label)
	assert.Equal(t, "Mar 2024", records[1].Label)
	assert.Equal(t, 100.0, records[0].Revenue)
	assert.Equal(t, 200.0, records[1].Revenue)
}

func TestAggregateByMonth_SkipsMalformed(t *testing.T) {
	records, skipped := AggregateByMonth([]models.Transaction{
		tx("2024-03-05", 1000, models.TransactionIncome),
		{Amount: 500, Type: models.TransactionExpense},              // zero date
		tx("2024-03-06", 50, models.TransactionType("transfer")),   // unknown type
		{Date: time.Time{}, Amount: 10, Type: models.TransactionType("")}, // both
	})

	require.Len(t, records, 1)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, 1000.0, records[0].Revenue)
}

func TestAggregateByMonth_MonthCountBounded(t *testing.T) {
	var txns []models.Transaction
	for m := 1; m <= 12; m++ {
		for d := 1; d <= 3; d++ {
			txns = append(txns, models.Transaction{
				Date:   time.Date(2024, time.Month(m), d, 0, 0, 0, 0, time.UTC),
				Amount: 10,
				Type:   models.TransactionIncome,
			})
		}
	}

	records, _ := AggregateByMonth(txns)
	assert.Len(t, records, 12)
}

func TestAggregateByMonth_NegativeAmountsSummedAsIs(t *testing.T) {
	records, skipped := AggregateByMonth([]models.Transaction{
		tx("2024-03-05", -100, models.TransactionIncome),
		tx("2024-03-06", 300, models.TransactionIncome),
	})

	require.Len(t, records, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, 200.0, records[0].Revenue)
}

func TestFilterByWindow(t *testing.T) {
	ref := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	boundary := tx("2024-07-01", 100, models.TransactionIncome) // exactly 31 days before ref
	recent := tx("2024-07-25", 50, models.TransactionIncome)
	old := tx("2023-06-01", 10, models.TransactionExpense)
	future := tx("2024-09-01", 5, models.TransactionIncome)
	txns := []models.Transaction{boundary, recent, old, future}

	tests := []struct {
		name   string
		window Window
		want   []models.Transaction
	}{
		{"all unchanged", WindowAll, txns},
		{"30d excludes 31-day-old boundary", Window30Days, []models.Transaction{recent}},
		{"this month includes boundary", WindowThisMonth, []models.Transaction{boundary, recent}},
		{"this year includes boundary", WindowThisYear, []models.Transaction{boundary, recent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterByWindow(txns, tt.window, ref))
		})
	}
}

func TestParseWindow(t *testing.T) {
	assert.Equal(t, Window30Days, ParseWindow("30d"))
	assert.Equal(t, WindowThisMonth, ParseWindow("this_month"))
	assert.Equal(t, WindowThisYear, ParseWindow("this_year"))
	assert.Equal(t, WindowAll, ParseWindow("all"))
	assert.Equal(t, WindowAll, ParseWindow(""))
	assert.Equal(t, WindowAll, ParseWindow("yesterday"))
}

func TestKPIHelpers(t *testing.T) {
	records := []MonthlyRecord{
		{Revenue: 1000, Expenses: 400},
		{Revenue: 500, Expenses: 300},
	}
	assert.Equal(t, 1500.0, TotalRevenue(records))
	assert.Equal(t, 700.0, TotalExpenses(records))
}

func TestMarginPercent(t *testing.T) {
	tests := []struct {
		name     string
		revenue  float64
		expenses float64
		want     int
	}{
		{"healthy margin", 1000, 400, 60},
		{"rounded", 1000, 333, 67},
		{"zero revenue with expenses", 0, 500, 0},
		{"zero everything", 0, 0, 0},
		{"negative margin", 100, 250, -150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarginPercent(tt.revenue, tt.expenses))
		})
	}
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 50, CompletionRate(1, 2))
	assert.Equal(t, 67, CompletionRate(2, 3))
	assert.Equal(t, 0, CompletionRate(0, 0))
	assert.Equal(t, 100, CompletionRate(5, 5))
}