package roster

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

	// Day zero of spreadsheet serial dates. Serial 60 is the phantom 1900-02-29,
	// so counting from Dec 30 keeps every later serial on the right day.
	serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

	// Serial of 10000-01-01; later serials do not fit a four-digit year
	maxSerial = 2958466.0

	// Tried in order for free-text headers
	fallbackDateLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006/01/02",
		"02-01-2006",
		"2-1-2006",
		"02.01.2006",
		"2.1.2006",
		"2 Jan 2006",
		"02 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"Mon Jan 02 2006",
		"Mon, 02 Jan 2006",
	}
)

// NormalizeDate converts a header cell into a "2006-01-02" date string.
// The second return value is false when the cell does not hold a date,
// which means the whole column is skipped.
func NormalizeDate(c Cell) (string, bool) {
	switch c.Kind {
	case CellString:
		return normalizeDateText(strings.TrimSpace(c.Str))
	case CellNumber:
		return serialToDate(c.Num)
	case CellDate:
		if c.Time.IsZero() {
			return "", false
		}
		return c.Time.Format(dateLayout), true
	case CellEmpty, CellBool, CellUnrecognized:
		return "", false
	default:
		return "", false
	}
}

func normalizeDateText(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	if isoDatePattern.MatchString(s) {
		if _, err := time.Parse(dateLayout, s); err != nil {
			return "", false
		}
		return s, true
	}

	if m := slashDatePattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		candidate := fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
		if _, err := time.Parse(dateLayout, candidate); err != nil {
			return "", false
		}
		return candidate, true
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), true
		}
	}

	return "", false
}

func serialToDate(serial float64) (string, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 || serial >= maxSerial {
		return "", false
	}
	days := int(math.Floor(serial))
	return serialEpoch.AddDate(0, 0, days).Format(dateLayout), true
}
