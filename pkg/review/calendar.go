package review

import (
	"fmt"
	"strings"
	"time"
)

// Type identifies one of the fixed calendar-window reviews.
type Type string

const (
	DailyReview        Type = "DAILY_REVIEW"
	PriorDailyReview   Type = "PRIOR_DAILY_REVIEW"
	WeeklyReview       Type = "WEEKLY_REVIEW"
	PriorWeeklyReview  Type = "PRIOR_WEEKLY_REVIEW"
	MonthlyReview      Type = "MONTHLY_REVIEW"
	PriorMonthlyReview Type = "PRIOR_MONTHLY_REVIEW"
	YearlyReview       Type = "YEARLY_REVIEW"
	PriorYearlyReview  Type = "PRIOR_YEARLY_REVIEW"
)

// Types returns all review types in registration order.
func Types() []Type {
	return []Type{
		DailyReview,
		PriorDailyReview,
		WeeklyReview,
		PriorWeeklyReview,
		MonthlyReview,
		PriorMonthlyReview,
		YearlyReview,
		PriorYearlyReview,
	}
}

// Valid reports whether t is a known review type.
func (t Type) Valid() bool {
	_, ok := rules[t]
	return ok
}

// Title returns the human-readable name used in note titles, with the
// prior-period prefix stripped: PRIOR_DAILY_REVIEW -> "Daily Review".
func (t Type) Title() string {
	name := strings.TrimPrefix(string(t), "PRIOR_")
	words := strings.Split(strings.ToLower(name), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ParseType maps a user-supplied name to a review type. It accepts the
// exact type name (any case) or a short alias like "daily" or
// "prior-weekly".
func ParseType(name string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(name)))
	if t.Valid() {
		return t, true
	}

	alias := strings.ToLower(strings.TrimSpace(name))
	alias = strings.ReplaceAll(alias, "-", " ")
	prior := false
	if rest, found := strings.CutPrefix(alias, "prior "); found {
		prior = true
		alias = rest
	}

	var base Type
	switch alias {
	case "daily", "day":
		base = DailyReview
	case "weekly", "week":
		base = WeeklyReview
	case "monthly", "month":
		base = MonthlyReview
	case "yearly", "year":
		base = YearlyReview
	default:
		return "", false
	}
	if prior {
		base = Type("PRIOR_" + string(base))
	}
	return base, true
}

// Window is the [Lower, Upper) date-stamp range a review evaluates
// against, plus the human-readable period label used in the note title.
type Window struct {
	Unit  string
	Lower string
	Upper string
	Label string
}

// rule holds the pure functions defining one review type's calendar
// behavior. The table below is immutable; all functions derive their
// output from the supplied instant only.
type rule struct {
	unit  string
	lower func(time.Time) string
	upper func(time.Time) string
	label func(time.Time) string
}

const (
	dayStampLayout   = "20060102"
	monthStampLayout = "200601"
	yearStampLayout  = "2006"
)

var rules = map[Type]rule{
	DailyReview: {
		unit:  "day-0",
		lower: func(now time.Time) string { return now.Format(dayStampLayout) },
		upper: func(now time.Time) string { return now.AddDate(0, 0, 1).Format(dayStampLayout) },
		label: func(now time.Time) string { return now.Format("2006-01-02") },
	},
	PriorDailyReview: {
		unit:  "day-1",
		lower: func(now time.Time) string { return now.AddDate(0, 0, -1).Format(dayStampLayout) },
		upper: func(now time.Time) string { return now.Format(dayStampLayout) },
		label: func(now time.Time) string { return now.AddDate(0, 0, -1).Format("2006-01-02") },
	},
	WeeklyReview: {
		// Rolling 7-day range ending today; not aligned to week starts.
		unit:  "days-7",
		lower: func(now time.Time) string { return now.AddDate(0, 0, -7).Format(dayStampLayout) },
		upper: func(now time.Time) string { return now.Format(dayStampLayout) },
		label: weekLabel,
	},
	PriorWeeklyReview: {
		unit:  "days-14",
		lower: func(now time.Time) string { return now.AddDate(0, 0, -14).Format(dayStampLayout) },
		upper: func(now time.Time) string { return now.AddDate(0, 0, -7).Format(dayStampLayout) },
		label: func(now time.Time) string { return weekLabel(now.AddDate(0, 0, -7)) },
	},
	MonthlyReview: {
		unit:  "month-0",
		lower: func(now time.Time) string { return now.Format(monthStampLayout) },
		upper: func(now time.Time) string { return firstOfMonth(now).AddDate(0, 1, 0).Format(monthStampLayout) },
		label: func(now time.Time) string { return now.Format("2006-01") },
	},
	PriorMonthlyReview: {
		unit:  "month-1",
		lower: func(now time.Time) string { return firstOfMonth(now).AddDate(0, -1, 0).Format(monthStampLayout) },
		upper: func(now time.Time) string { return now.Format(monthStampLayout) },
		label: func(now time.Time) string { return firstOfMonth(now).AddDate(0, -1, 0).Format("2006-01") },
	},
	YearlyReview: {
		unit:  "year-0",
		lower: func(now time.Time) string { return now.Format(yearStampLayout) },
		upper: func(now time.Time) string { return now.AddDate(1, 0, 0).Format(yearStampLayout) },
		label: func(now time.Time) string { return now.Format("2006") },
	},
	PriorYearlyReview: {
		unit:  "year-1",
		lower: func(now time.Time) string { return now.AddDate(-1, 0, 0).Format(yearStampLayout) },
		upper: func(now time.Time) string { return now.Format(yearStampLayout) },
		label: func(now time.Time) string { return now.AddDate(-1, 0, 0).Format("2006") },
	},
}

// ResolveWindow computes the query window for a review type relative to
// the given instant, in that instant's time zone.
func ResolveWindow(t Type, now time.Time) (Window, error) {
	s, ok := rules[t]
	if !ok {
		return Window{}, fmt.Errorf("unknown review type %q", t)
	}
	return Window{
		Unit:  s.unit,
		Lower: s.lower(now),
		Upper: s.upper(now),
		Label: s.label(now),
	}, nil
}

// firstOfMonth truncates to the first day of t's month, so month
// arithmetic never overflows into the wrong month from a day-31 start.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// weekLabel renders the ISO week label, e.g. "2024 #11".
func weekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d #%02d", year, week)
}
