package when

import (
	"strings"
	"time"
)

// field marks which calendar parts a layout carries.
type field uint8

const (
	fieldYear field = 1 << iota
	fieldMonth
	fieldDay
	fieldClock
)

const (
	fullDate   = fieldYear | fieldMonth | fieldDay
	monthDay   = fieldMonth | fieldDay
	monthYear  = fieldYear | fieldMonth
	onlyClock  = fieldClock
	dateClock  = fullDate | fieldClock
	monthClock = monthDay | fieldClock
)

type template struct {
	layout string
	fields field
}

// Layouts are matched against the upper-cased input, so "pm" and "Pm" hit the
// PM layouts. Order matters: the first full match wins.
var dateTemplates = []template{
	// year first
	{"2006-01-02 15:04:05", dateClock},
	{"2006-01-02 15:04", dateClock},
	{"2006-01-02T15:04:05", dateClock},
	{"2006-01-02T15:04", dateClock},
	{"2006-01-02 3:04 PM", dateClock},
	{"2006-01-02 3:04PM", dateClock},
	{"2006-01-02 3 PM", dateClock},
	{"2006-01-02 3PM", dateClock},
	{"2006/01/02 15:04", dateClock},
	{"2006/01/02 3:04 PM", dateClock},
	{"2006-01-02", fullDate},
	{"2006/01/02", fullDate},

	// day first
	{"02.01.2006 15:04", dateClock},
	{"02.01.2006", fullDate},
	{"2 January 2006 15:04", dateClock},
	{"2 January 2006 3:04 PM", dateClock},
	{"2 January 2006 3PM", dateClock},
	{"2 January 2006", fullDate},
	{"2 Jan 2006 15:04", dateClock},
	{"2 Jan 2006 3:04 PM", dateClock},
	{"2 Jan 2006 3PM", dateClock},
	{"2 Jan 2006", fullDate},

	// month first
	{"01/02/2006 15:04", dateClock},
	{"01/02/2006 3:04 PM", dateClock},
	{"01/02/2006 3PM", dateClock},
	{"01/02/2006", fullDate},
	{"January 2 2006 15:04", dateClock},
	{"January 2 2006 3:04 PM", dateClock},
	{"January 2 2006 3PM", dateClock},
	{"January 2 2006", fullDate},
	{"January 2, 2006 15:04", dateClock},
	{"January 2, 2006 3:04 PM", dateClock},
	{"January 2, 2006 3PM", dateClock},
	{"January 2, 2006", fullDate},
	{"Jan 2 2006 15:04", dateClock},
	{"Jan 2 2006 3:04 PM", dateClock},
	{"Jan 2 2006 3PM", dateClock},
	{"Jan 2 2006", fullDate},
	{"Jan 2, 2006 15:04", dateClock},
	{"Jan 2, 2006 3:04 PM", dateClock},
	{"Jan 2, 2006 3PM", dateClock},
	{"Jan 2, 2006", fullDate},

	// year omitted
	{"January 2 15:04", monthClock},
	{"January 2 3:04 PM", monthClock},
	{"January 2 3PM", monthClock},
	{"January 2", monthDay},
	{"Jan 2 15:04", monthClock},
	{"Jan 2 3:04 PM", monthClock},
	{"Jan 2 3PM", monthClock},
	{"Jan 2", monthDay},
	{"2 January 15:04", monthClock},
	{"2 January 3:04 PM", monthClock},
	{"2 January 3PM", monthClock},
	{"2 January", monthDay},
	{"2 Jan 15:04", monthClock},
	{"2 Jan 3:04 PM", monthClock},
	{"2 Jan 3PM", monthClock},
	{"2 Jan", monthDay},

	// month and year only
	{"January 2006", monthYear},
	{"Jan 2006", monthYear},
	{"2006-01", monthYear},
}

var clockTemplates = []template{
	{"15:04", onlyClock},
	{"15:04:05", onlyClock},
	{"3:04 PM", onlyClock},
	{"3:04PM", onlyClock},
	{"3:04:05 PM", onlyClock},
	{"3 PM", onlyClock},
	{"3PM", onlyClock},
}

var weekdayNames = map[string]time.Weekday{
	"SUNDAY": time.Sunday, "SUN": time.Sunday,
	"MONDAY": time.Monday, "MON": time.Monday,
	"TUESDAY": time.Tuesday, "TUE": time.Tuesday, "TUES": time.Tuesday,
	"WEDNESDAY": time.Wednesday, "WED": time.Wednesday,
	"THURSDAY": time.Thursday, "THU": time.Thursday, "THURS": time.Thursday,
	"FRIDAY": time.Friday, "FRI": time.Friday,
	"SATURDAY": time.Saturday, "SAT": time.Saturday,
}

func matchTemplates(input string, templates []template) (time.Time, field, bool) {
	for _, tpl := range templates {
		if t, err := time.Parse(tpl.layout, input); err == nil {
			return t, tpl.fields, true
		}
	}
	return time.Time{}, 0, false
}

func resolveStructured(input string, loc *time.Location, now time.Time) (Outcome, bool) {
	upper := strings.ToUpper(input)
	local := now.In(loc)
	year, month, day := local.Date()

	if parsed, fields, ok := matchTemplates(upper, dateTemplates); ok {
		return buildDate(parsed, fields, loc, now, year, day), true
	}

	if wd, rest, ok := splitWeekday(upper); ok {
		var clock time.Time
		hasClock := false
		if rest != "" {
			parsed, _, ok := matchTemplates(rest, clockTemplates)
			if !ok {
				return Outcome{}, false
			}
			clock, hasClock = parsed, true
		}
		ahead := (int(wd) - int(local.Weekday()) + 7) % 7
		if ahead == 0 && !hasClock {
			ahead = 7
		}
		at := time.Date(year, month, day+ahead, clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
		if !at.After(now) {
			at = time.Date(year, month, day+ahead+7, clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
		}
		return accept(at), true
	}

	if parsed, _, ok := matchTemplates(upper, clockTemplates); ok {
		at := time.Date(year, month, day, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc)
		if !at.After(now) {
			at = time.Date(year, month, day+1, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc)
		}
		return accept(at), true
	}

	return Outcome{}, false
}

// buildDate localizes a parsed template, filling the parts the layout lacked
// from today's date in the user's zone.
func buildDate(parsed time.Time, fields field, loc *time.Location, now time.Time, thisYear, today int) Outcome {
	month := parsed.Month()
	hour, minute, sec := parsed.Clock()

	if fields&fieldYear == 0 {
		// Templates without a year parse against year 0, a leap year, so
		// February 29 waits for the next year that has one. Leap years are
		// at most 8 years apart.
		day := parsed.Day()
		for year := thisYear; year <= thisYear+8; year++ {
			if day > daysIn(month, year) {
				continue
			}
			if at := time.Date(year, month, day, hour, minute, sec, 0, loc); at.After(now) {
				return accept(at)
			}
		}
		return reject(ReasonPastDate, DetailPastDate)
	}

	year := parsed.Year()
	day := parsed.Day()
	if fields&fieldDay == 0 {
		day = min(today, daysIn(month, year))
	}

	at := time.Date(year, month, day, hour, minute, sec, 0, loc)
	if at.After(now) {
		return accept(at)
	}
	return reject(ReasonPastDate, DetailPastDate)
}

// splitWeekday detects a leading weekday name. rest is the remaining input
// with an optional "AT" removed.
func splitWeekday(upper string) (time.Weekday, string, bool) {
	head, rest, _ := strings.Cut(upper, " ")
	wd, ok := weekdayNames[strings.TrimSuffix(head, ",")]
	if !ok {
		return 0, "", false
	}
	rest = strings.TrimSpace(rest)
	if after, found := strings.CutPrefix(rest, "AT "); found {
		rest = strings.TrimSpace(after)
	}
	return wd, rest, true
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
