package forecast

import (
	"github.com/CVDExInfo/finplan/internal/models"
)

// Planning horizon bounds. Horizons beyond twelve months support multi-year
// plans; five years is the longest plan the product accepts.
const (
	DefaultHorizon = 12
	MaxHorizon     = 60
)

// MonthOf collapses an allocation's month to the canonical 1..horizon index.
// Field precedence follows the persistence layer's reliability order:
// month_index, monthIndex, calendar_month, calendarMonthKey, then month
// (numeric, numeric string, or YYYY-MM). The first populated field decides;
// the boolean is false when no field is populated, the value cannot be
// parsed, or the resulting index falls outside [1, horizon]. Such
// allocations are out-of-window data, not errors.
func MonthOf(a models.Allocation, horizon int) (int, bool) {
	month, ok := rawMonth(a)
	if !ok {
		return 0, false
	}
	if month < 1 || month > horizon {
		return 0, false
	}
	return month, true
}

func rawMonth(a models.Allocation) (int, bool) {
	if a.MonthIndex != nil {
		return *a.MonthIndex, true
	}
	if a.MonthIndexCamel != nil {
		return *a.MonthIndexCamel, true
	}
	if a.CalendarMonth != "" {
		return models.ParseMonthValue(a.CalendarMonth)
	}
	if a.CalendarMonthKey != "" {
		return models.ParseMonthValue(a.CalendarMonthKey)
	}
	if a.Month != "" {
		return models.ParseMonthValue(a.Month.String())
	}
	return 0, false
}
