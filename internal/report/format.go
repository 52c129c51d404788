package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Int formats n with thousands separators.
func Int(n int) string { return printer.Sprintf("%d", n) }

// Percent formats a 0..1 share as a percentage with one decimal.
func Percent(share float64) string { return printer.Sprintf("%.1f%%", share*100) }

// Hour formats an hour of day as "14:00", or "n/a" when absent.
func Hour(h *int) string {
	if h == nil {
		return "n/a"
	}
	return fmt.Sprintf("%02d:00", *h)
}

// Minutes formats a minute count as hours and minutes.
func Minutes(m float64) string {
	total := int(m + 0.5)
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return printer.Sprintf("%dh %02dm", total/60, total%60)
}

// FileLabel turns a year label into a file-name fragment: "All time" becomes "all_time".
func FileLabel(yearLabel string) string {
	return strings.ToLower(strings.ReplaceAll(yearLabel, " ", "_"))
}

// SummaryFileName is the JSON summary download name.
func SummaryFileName(yearLabel string) string {
	return "chatgpt_wrapped_" + FileLabel(yearLabel) + ".json"
}

// HTMLFileName is the HTML report download name.
func HTMLFileName(yearLabel string) string {
	return "chatgpt_wrapped_" + FileLabel(yearLabel) + ".html"
}

// TableFileName is the CSV download name for a table, e.g. chatgpt_messages_2026.csv.
func TableFileName(table, yearLabel string) string {
	return "chatgpt_" + table + "_" + FileLabel(yearLabel) + ".csv"
}
