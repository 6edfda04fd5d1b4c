package dashboard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Missing is shown in place of a value that cannot be computed.
const Missing = "—"

// displayLocale controls digit grouping in formatted numbers and the
// collation order of option lists.
var displayLocale = language.AmericanEnglish

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber parses an enrollment cell. Thousands separators are removed and
// the longest leading decimal prefix is used, so "12abc" reads as 12. Empty or
// non-numeric text reports false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// enrollment returns the numeric value of s, or 0 when it does not parse.
func enrollment(s string) float64 {
	v, _ := ParseNumber(s)
	return v
}

// MonthKey returns the year-month prefix of a report period ("2024-03-15"
// becomes "2024-03"). Shorter strings are returned unchanged.
func MonthKey(period string) string {
	if len(period) <= 7 {
		return period
	}
	return period[:7]
}

func formatValue(v float64) string {
	p := message.NewPrinter(displayLocale)
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatNumber renders v with en-US digit grouping, or Missing when v is nil.
func FormatNumber(v *float64) string {
	if v == nil {
		return Missing
	}
	return formatValue(*v)
}

// FormatDelta renders cur-base followed by the change relative to base as a
// percentage. The percentage is omitted when base is zero.
func FormatDelta(cur, base *float64) string {
	if cur == nil || base == nil {
		return Missing
	}
	d := *cur - *base
	if *base == 0 {
		return formatValue(d)
	}
	return fmt.Sprintf("%s (%.1f%%)", formatValue(d), d / *base * 100)
}
