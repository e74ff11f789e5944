package finance

import (
	"time"

	"agency-backend/internal/models"
)

type Window string

const (
	WindowAll       Window = "all"
	Window30Days    Window = "30d"
	WindowThisMonth Window = "this_month"
	WindowThisYear  Window = "this_year"
)

// ParseWindow maps the query-string value to a Window, defaulting to all.
func ParseWindow(s string) Window {
	switch Window(s) {
	case Window30Days, WindowThisMonth, WindowThisYear:
		return Window(s)
	default:
		return WindowAll
	}
}

// FilterByWindow keeps the transactions whose date falls inside the rolling
// window ending at ref. The reference instant is always an explicit
// argument so results stay reproducible; this function never reads the
// clock. Windows are inclusive at both bounds and capped at ref; "all"
// returns the input unchanged.
func FilterByWindow(txns []models.Transaction, w Window, ref time.Time) []models.Transaction {
	if w == WindowAll {
		return txns
	}

	var cutoff time.Time
	switch w {
	case Window30Days:
		cutoff = ref.AddDate(0, 0, -30)
	case WindowThisMonth:
		cutoff = ref.AddDate(0, -1, 0)
	case WindowThisYear:
		cutoff = ref.AddDate(-1, 0, 0)
	default:
		return txns
	}

	out := make([]models.Transaction, 0, len(txns))
	for _, tx := range txns {
		if tx.Date.Before(cutoff) || tx.Date.After(ref) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
