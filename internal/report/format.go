package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Lang is the language of every label the report renders.
var Lang = language.French

// FormatRate renders a rate the way the INS report prints it, "6,1 %".
func FormatRate(v float64) string {
	return message.NewPrinter(Lang).Sprintf("%.1f %%", v)
}

// FormatPoints renders a signed deviation in percentage points, "+14,0 pts".
func FormatPoints(v float64) string {
	return message.NewPrinter(Lang).Sprintf("%+.1f pts", v)
}

// FormatCount renders a head count with French digit grouping.
func FormatCount(n int64) string {
	return message.NewPrinter(Lang).Sprintf("%d", n)
}
