package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rezonia/zugferd/internal/model"
)

// UN/CEFACT date format qualifiers
const (
	dateFormatDay   = "102" // YYYYMMDD
	dateFormatMonth = "610" // YYYYMM
	dateFormatWeek  = "616" // YYYYWW
)

// formatDate writes the calendar day of t in its own location
func formatDate(t time.Time) string {
	return model.CalendarDate(t).Format("20060102")
}

// formatISODate is used by the 1.0 referenced documents. The time of day is always midnight.
func formatISODate(t time.Time) string {
	return model.CalendarDate(t).Format("2006-01-02T15:04:05")
}

// parseDateTimeString decodes the text of a DateTimeString element. Without a format
// attribute 102 is tried first, then ISO 8601.
func parseDateTimeString(format, text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	switch format {
	case dateFormatDay:
		return time.ParseInLocation("20060102", text, time.UTC)
	case dateFormatMonth:
		return time.ParseInLocation("200601", text, time.UTC)
	case dateFormatWeek:
		return parseYearWeek(text)
	case "":
		if t, err := time.ParseInLocation("20060102", text, time.UTC); err == nil {
			return t, nil
		}
		return parseISODate(text)
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", format)
}

// parseYearWeek returns the Monday of the ISO week
func parseYearWeek(text string) (time.Time, error) {
	if len(text) != 6 {
		return time.Time{}, fmt.Errorf("invalid week date %q", text)
	}
	year, err := strconv.Atoi(text[:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week date %q: %w", text, err)
	}
	week, err := strconv.Atoi(text[4:])
	if err != nil || week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("invalid week date %q", text)
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	firstMonday := jan4.AddDate(0, 0, -offset)
	return firstMonday.AddDate(0, 0, (week-1)*7), nil
}

var isoLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseISODate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", text)
}
