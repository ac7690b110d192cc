package billing

import (
	"strings"
	"time"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

// maxProjectionDays bounds the day-by-day simulation so an unexpected schedule
// can never loop forever.
const maxProjectionDays = 365

// ClassSchedule is the set of weekdays on which a class meets.
type ClassSchedule map[time.Weekday]bool

// DefaultSchedule is used whenever a class carries no usable schedule data.
func DefaultSchedule() ClassSchedule {
	return ClassSchedule{time.Monday: true, time.Wednesday: true}
}

// ScheduleFromClass derives the weekday set from a class record, preferring
// the explicit day list over the legacy compact day-code string. Classes with
// neither, or with data that parses to an empty set, get the default schedule.
func ScheduleFromClass(class *models.Class) ClassSchedule {
	if class == nil {
		return DefaultSchedule()
	}
	if len(class.ScheduleDays) > 0 {
		s := ClassSchedule{}
		for _, d := range class.ScheduleDays {
			if d >= 0 && d <= 6 {
				s[time.Weekday(d)] = true
			}
		}
		if len(s) > 0 {
			return s
		}
	}
	if class.Schedule != nil {
		if s := ParseDayCode(*class.Schedule); len(s) > 0 {
			return s
		}
	}
	return DefaultSchedule()
}

// ParseDayCode parses the compact Vietnamese day-code convention used by the
// legacy records: "2".."7" map to Monday..Saturday ("thứ 2" is Monday) and
// "CN" is Sunday, joined by "-" or "," with an optional "T" prefix, e.g.
// "2-4-6", "T3,T5" or "T7-CN". Unknown tokens are skipped.
func ParseDayCode(code string) ClassSchedule {
	s := ClassSchedule{}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s
	}
	tokens := strings.FieldsFunc(code, func(r rune) bool {
		return r == '-' || r == ',' || r == ' ' || r == '/'
	})
	for _, tok := range tokens {
		tok = strings.TrimPrefix(tok, "T")
		if tok == "CN" {
			s[time.Sunday] = true
			continue
		}
		if len(tok) == 1 && tok[0] >= '2' && tok[0] <= '7' {
			s[time.Weekday(tok[0]-'1')] = true
		}
	}
	return s
}

// ProjectEndDate walks the calendar forward from the day after `from`,
// counting days whose weekday is in the schedule, and returns the date on
// which the remaining-th class day falls. It returns `from` unchanged when
// nothing remains, and stops after a year of simulated days returning the
// best date reached. The empty-schedule default is applied before simulating.
func ProjectEndDate(remaining int, schedule ClassSchedule, from time.Time) time.Time {
	if remaining <= 0 {
		return from
	}
	if len(schedule) == 0 {
		schedule = DefaultSchedule()
	}
	current := from
	for day := 0; day < maxProjectionDays; day++ {
		current = current.AddDate(0, 0, 1)
		if schedule[current.Weekday()] {
			remaining--
			if remaining == 0 {
				return current
			}
		}
	}
	return current
}
