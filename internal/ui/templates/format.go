package templates

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

const (
	TrendPositive = "trend-positive"
	TrendNegative = "trend-negative"
	TrendNeutral  = "trend-neutral"
)

// FormatCurrency renders a compact dollar amount: $950, $300K, $2.0M.
func FormatCurrency(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatMoney renders a full dollar amount with thousands separators.
func FormatMoney(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatTrend renders a growth rate as an arrow and signed percentage, with
// the CSS class for its direction. An undefined rate renders as n/a.
func FormatTrend(g *float64) (string, string) {
	if g == nil {
		return "n/a", TrendNeutral
	}
	if *g >= 0 {
		return fmt.Sprintf("↑ +%.2f%%", *g), TrendPositive
	}
	return fmt.Sprintf("↓ %.2f%%", *g), TrendNegative
}

func FormatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

func FormatShare(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *v)
}

func FormatDays(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f days", *v)
}

func FormatScore(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f/5.0", *v)
}

// Stars renders an average review score as five filled or empty stars.
// Halves round to even, so 3.5 shows four stars and 2.5 shows two.
func Stars(avg *float64) string {
	if avg == nil {
		return strings.Repeat("☆", 5)
	}
	filled := int(math.RoundToEven(*avg))
	filled = max(0, min(5, filled))
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

// FormatMonth renders a timestamp as "January 2018".
func FormatMonth(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.Format("January 2006")
}

func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("M%d", month)
	}
	return time.Month(month).String()[:3]
}
