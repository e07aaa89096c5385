package schedule

import (
	"fmt"
	"strings"
	"time"
)

// NextRun computes the next firing time for a schedule expression. An
// expression is either a Go duration ("6h", "30m") for interval runs, or
// one of the coarse markers @hourly, @daily, @weekly, which align to the
// next unit boundary in the given instant's location.
func NextRun(expr string, from time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "":
		return time.Time{}, fmt.Errorf("empty schedule expression")
	case "@hourly":
		return from.Truncate(time.Hour).Add(time.Hour), nil
	case "@daily":
		midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
		return midnight.AddDate(0, 0, 1), nil
	case "@weekly":
		days := (7 - int(from.Weekday())) % 7
		if days == 0 {
			days = 7
		}
		midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
		return midnight.AddDate(0, 0, days), nil
	}

	d, err := time.ParseDuration(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule expression %q: %w", expr, err)
	}
	if d <= 0 {
		return time.Time{}, fmt.Errorf("schedule interval must be > 0")
	}
	return from.Add(d), nil
}
