package timeutil

import (
	"fmt"
	"time"
)

// Local is the dormitory's business time zone. Due dates and bill months are
// interpreted in this location.
var Local *time.Location

func init() {
	var err error
	Local, err = time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		// tzdata missing in minimal images
		Local = time.FixedZone("ICT", 7*60*60)
	}
}

// SetLocation overrides the business time zone (server.timezone).
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load location %q: %w", name, err)
	}
	Local = loc
	return nil
}

// Now returns the current time in the business time zone
func Now() time.Time {
	return time.Now().In(Local)
}

// ParseDate parses a YYYY-MM-DD date at local midnight
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Local)
}

// ParseMonth parses a YYYY-MM month and returns its first day at local midnight
func ParseMonth(month string) (time.Time, error) {
	return time.ParseInLocation(MonthLayout, month, Local)
}

// StartOfDay returns 00:00:00 local time for the given instant
func StartOfDay(t time.Time) time.Time {
	l := t.In(Local)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Local)
}

// Format formats t in the business time zone
func Format(t time.Time, layout string) string {
	return t.In(Local).Format(layout)
}

const (
	DateLayout     = "2006-01-02"
	MonthLayout    = "2006-01"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02/01/2006"
)
