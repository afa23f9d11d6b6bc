package costs

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatPeriod formats an ISO date for summary text: unchanged for DAILY,
// "January 2024" for MONTHLY.
func FormatPeriod(date string, granularity Granularity) string {
	if granularity != Monthly {
		return date
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("January 2006")
}

// FormatAxis formats an ISO date for a chart axis: "Jan 2024" for MONTHLY, "Jan 02" for DAILY.
func FormatAxis(date string, granularity Granularity) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	if granularity == Monthly {
		return t.Format("Jan 2006")
	}
	return t.Format("Jan 02")
}

// USD formats an amount with two decimals, e.g. "$22.00".
func USD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// USDFloat formats a float amount with two decimals.
func USDFloat(f float64) string {
	return "$" + strconv.FormatFloat(f, 'f', 2, 64)
}

// WholeUSD formats an amount rounded to whole dollars with thousands separators, e.g. "$1,234".
func WholeUSD(d decimal.Decimal) string {
	return "$" + humanize.Comma(d.Round(0).IntPart())
}

func periodUnit(granularity Granularity) string {
	if granularity == Monthly {
		return "month"
	}
	return "day"
}

func percent(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
