package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// TimestampLayout is the layout used when timestamps are written back out
const TimestampLayout = "2006-01-02 15:04:05"

// timestampLayouts are tried in order by ParseTimestamp
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/06 15:04",
	"1/2/2006",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system
const maxExcelSerial = 2958465

// ParseTimestamp parses the date forms found in retail exports, including
// Excel serial numbers as returned by raw xlsx cell values.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Round(time.Second), true
		}
	}

	return time.Time{}, false
}

// ParseQuantity parses an integral quantity. Thousands separators are
// ignored and "6.0" is accepted, "6.5" is not.
func ParseQuantity(s string) (int64, bool) {
	s = cleanNumber(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	return d.IntPart(), true
}

// ParseDecimal parses a monetary amount.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = cleanNumber(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// cleanNumber drops thousands separators. A comma anywhere else, such as the
// decimal comma in "2,55", leaves nothing to parse.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ",") {
		return s
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if strings.Contains(frac, ",") {
		return ""
	}
	groups := strings.Split(strings.TrimLeft(whole, "+-"), ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return ""
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return ""
		}
	}

	out := strings.ReplaceAll(whole, ",", "")
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatTimestamp renders t in the persisted layout
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
