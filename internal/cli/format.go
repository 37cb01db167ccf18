// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/subtrack/internal/model"
)

// currencySymbol prefixes every formatted amount.
var currencySymbol = "$"

// SetCurrencySymbol changes the symbol used by FormatMoney.
func SetCurrencySymbol(sym string) {
	if sym != "" {
		currencySymbol = sym
	}
}

// FormatMoney formats an amount with two decimals and thousands separators.
// e.g., 1234.5 -> "$1,234.50"
func FormatMoney(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(decimal.NewFromInt(100)).IntPart()
	return fmt.Sprintf("%s%s%s.%02d", sign, currencySymbol, FormatNumber(whole.IntPart()), cents)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

// FormatDate renders a date as "Jan 2, 2006"; the zero date renders as "-".
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

// FormatMonth renders the month of d as "Jan 2006".
func FormatMonth(d model.Date) string {
	return d.Format("Jan 2006")
}

// RecurrenceSuffix is the short per-period suffix shown after an amount.
func RecurrenceSuffix(r model.Recurrence) string {
	switch r {
	case model.RecurDaily:
		return "/day"
	case model.RecurWeekly:
		return "/wk"
	case model.RecurMonthly:
		return "/mo"
	case model.RecurYearly:
		return "/yr"
	default:
		return " one-time"
	}
}

// FormatPrice renders an amount with its recurrence, e.g. "$15.49/mo".
func FormatPrice(s model.Subscription) string {
	return FormatMoney(s.Amount) + RecurrenceSuffix(s.Recurrence)
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// ShortID returns the first 8 characters of an id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
