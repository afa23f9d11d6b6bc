package costs

import "time"

// DateLayout is the ISO date layout used by Cost Explorer.
const DateLayout = "2006-01-02"

// DateRange is an absolute query window in ISO dates.
type DateRange struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// Empty reports whether the range covers no periods. A zero lookback yields an
// inverted DAILY range and a collapsed MONTHLY range.
func (r DateRange) Empty(granularity Granularity) bool {
	if granularity == Monthly {
		return r.Start >= r.End
	}
	return r.Start > r.End
}

// CalculateDateRange converts a lookback count into an absolute window relative to now.
// DAILY ends yesterday and spans lookBack days inclusive. MONTHLY ends on the first day of
// the current month and starts lookBack months earlier. All arithmetic is in UTC.
func CalculateDateRange(now time.Time, lookBack int, granularity Granularity) DateRange {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if granularity == Monthly {
		end := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		start := end.AddDate(0, -lookBack, 0)
		return DateRange{Start: start.Format(DateLayout), End: end.Format(DateLayout)}
	}

	end := today.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(lookBack - 1))
	return DateRange{Start: start.Format(DateLayout), End: end.Format(DateLayout)}
}

// ExclusiveEnd returns the end date to send to Cost Explorer, whose end bound is
// exclusive. DAILY ranges end on the last reported day, so the bound moves one day
// forward. MONTHLY ranges already end on the first day of the excluded month.
func (r DateRange) ExclusiveEnd(granularity Granularity) string {
	if granularity == Monthly {
		return r.End
	}
	end, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return r.End
	}
	return end.AddDate(0, 0, 1).Format(DateLayout)
}
