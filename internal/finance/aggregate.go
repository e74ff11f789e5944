// Package finance folds raw ledger transactions into the monthly series
// and KPI numbers the dashboard renders. Everything here is a pure
// function of its arguments: no clock, no database, no shared state, so
// repeated calls over the same snapshot always produce identical output.
package finance

import (
	"fmt"
	"sort"
	"time"

	"agency-backend/internal/models"
)

// MonthlyRecord is a derived view artifact, recomputed on every read and
// never persisted. Profit is always exactly Revenue - Expenses.
type MonthlyRecord struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Label    string  `json:"label"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// AggregateByMonth groups transactions into one record per distinct
// (year, month) present in the input, sorted chronologically. Months with
// no transactions are not synthesized. Malformed rows (zero date or a type
// outside income/expense) are skipped rather than aborting the whole
// computation; the skip count is returned for the caller to log. Negative
// amounts are summed as-is; validating values is not this package's job.
func AggregateByMonth(txns []models.Transaction) ([]MonthlyRecord, int) {
	type key struct {
		year  int
		month time.Month
	}

	buckets := make(map[key]*MonthlyRecord)
	skipped := 0

	for _, tx := range txns {
		if tx.Date.IsZero() {
			skipped++
			continue
		}
		switch tx.Type {
		case models.TransactionIncome, models.TransactionExpense:
		default:
			skipped++
			continue
		}

		k := key{year: tx.Date.Year(), month: tx.Date.Month()}
		rec, ok := buckets[k]
		if !ok {
			rec = &MonthlyRecord{Year: k.year, Month: int(k.month)}
			buckets[k] = rec
		}

		if tx.Type == models.TransactionIncome {
			rec.Revenue += tx.Amount
		} else {
			rec.Expenses += tx.Amount
		}
	}

	records := make([]MonthlyRecord, 0, len(buckets))
	for _, rec := range buckets {
		rec.Profit = rec.Revenue - rec.Expenses
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].Month < records[j].Month
	})

	// Bare month names are only unambiguous when the whole series sits in
	// one calendar year; otherwise the label carries the year.
	singleYear := true
	for i := 1; i < len(records); i++ {
		if records[i].Year != records[0].Year {
			singleYear = false
			break
		}
	}
	for i := range records {
		name := time.Month(records[i].Month).String()[:3]
		if singleYear {
			records[i].Label = name
		} else {
			records[i].Label = fmt.Sprintf("%s %d", name, records[i].Year)
		}
	}

	return records, skipped
}
