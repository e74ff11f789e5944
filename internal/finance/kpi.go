package finance

import "math"

func TotalRevenue(records []MonthlyRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Revenue
	}
	return total
}

func TotalExpenses(records []MonthlyRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Expenses
	}
	return total
}

// MarginPercent returns the profit margin as a rounded whole percent.
// Zero revenue yields 0, never NaN or Inf.
func MarginPercent(revenue, expenses float64) int {
	if revenue <= 0 {
		return 0
	}
	return int(math.Round(100 * (revenue - expenses) / revenue))
}

// CompletionRate returns completed/total as a rounded whole percent.
// Zero total yields 0.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
