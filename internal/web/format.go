package web

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber groups the digits of a numeric string with commas:
// "31600" -> "31,600". Already grouped input is returned unchanged in
// meaning ("31,600" -> "31,600"); anything non-numeric is returned as is.
func FormatNumber(s string) string {
	raw := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if raw == "" {
		return s
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return humanize.Comma(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !strings.ContainsAny(raw, "eEnN") {
		return humanize.Commaf(f)
	}
	return s
}

// FormatInt groups the digits of n with commas
func FormatInt(n int64) string {
	return humanize.Comma(n)
}

// formatAny formats integer and numeric-string template values
func formatAny(v interface{}) string {
	switch n := v.(type) {
	case int:
		return humanize.Comma(int64(n))
	case int32:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case float64:
		return humanize.Commaf(n)
	case string:
		return FormatNumber(n)
	default:
		return fmt.Sprint(v)
	}
}

// formatPercent renders a percentage with one decimal
func formatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64) + "%"
}

// formatDate renders a date the way the site shows publication dates
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// formatAgo renders a relative time such as "3 hours ago"
func formatAgo(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return humanize.Time(*t)
}
