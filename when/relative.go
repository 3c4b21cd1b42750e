package when

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type unit int

const (
	unitYear unit = iota
	unitMonth
	unitWeek
	unitDay
	unitHour
	unitMinute
	unitSecond
)

var unitNames = map[string]unit{
	"y": unitYear, "yr": unitYear, "yrs": unitYear, "year": unitYear, "years": unitYear,
	"mo": unitMonth, "mos": unitMonth, "mon": unitMonth, "mons": unitMonth, "month": unitMonth, "months": unitMonth,
	"w": unitWeek, "wk": unitWeek, "wks": unitWeek, "week": unitWeek, "weeks": unitWeek,
	"d": unitDay, "day": unitDay, "days": unitDay,
	"h": unitHour, "hr": unitHour, "hrs": unitHour, "hour": unitHour, "hours": unitHour,
	"m": unitMinute, "min": unitMinute, "mins": unitMinute, "minute": unitMinute, "minutes": unitMinute,
	"s": unitSecond, "sec": unitSecond, "secs": unitSecond, "second": unitSecond, "seconds": unitSecond,
}

var fixedSeconds = map[unit]float64{
	unitWeek:   7 * 24 * 60 * 60,
	unitDay:    24 * 60 * 60,
	unitHour:   60 * 60,
	unitMinute: 60,
	unitSecond: 1,
}

const (
	monthSeconds = 30 * 24 * 60 * 60
	yearSeconds  = 366 * 24 * 60 * 60
)

// maxOffsetSeconds is the longest offset a time.Duration can carry.
const maxOffsetSeconds = float64(math.MaxInt64 / int64(time.Second))

// gluedToken matches "5min", "1.5h" or "1h30m"; gluedPair splits it into
// amount and unit pairs.
var (
	gluedToken = regexp.MustCompile(`^(?:\d+(?:\.\d+)?[a-z]+)+$`)
	gluedPair  = regexp.MustCompile(`(\d+(?:\.\d+)?)([a-z]+)`)
)

func relativeTokens(input string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(input)) {
		f = strings.Trim(f, ",")
		if f == "" {
			continue
		}
		if gluedToken.MatchString(f) {
			if split, ok := splitGlued(f); ok {
				tokens = append(tokens, split...)
				continue
			}
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func splitGlued(token string) ([]string, bool) {
	var out []string
	for _, m := range gluedPair.FindAllStringSubmatch(token, -1) {
		if _, ok := unitNames[m[2]]; !ok {
			return nil, false
		}
		out = append(out, m[1], m[2])
	}
	return out, len(out) > 0
}

// wholeSeconds truncates toward zero. The epsilon absorbs float error so that
// 4.35 minutes is 261s and not 260s.
func wholeSeconds(v float64) int64 {
	return int64(math.Floor(v + 1e-6))
}

// resolveRelative claims the input once it finds at least one amount followed
// by a known unit. Other tokens ("in", "and", unknown units) are ignored and
// non-positive amounts contribute nothing.
func resolveRelative(input string, loc *time.Location, now time.Time) (Outcome, bool) {
	tokens := relativeTokens(input)

	var years, months, seconds float64
	var fixed int64
	recognized, tooFar := false, false

	for i := 0; i+1 < len(tokens); i++ {
		amount, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			continue
		}
		u, ok := unitNames[tokens[i+1]]
		if !ok {
			continue
		}
		recognized = true
		i++
		if amount <= 0 {
			continue
		}

		switch u {
		case unitYear:
			years += amount
		case unitMonth:
			months += amount
		default:
			secs := amount * fixedSeconds[u]
			if secs > maxOffsetSeconds {
				tooFar = true
				continue
			}
			fixed += wholeSeconds(secs)
		}
	}

	if !recognized {
		return Outcome{}, false
	}
	// checked before any float to int conversion below
	if tooFar || years*yearSeconds+months*monthSeconds+float64(fixed) > maxOffsetSeconds {
		return reject(ReasonInvalidRelative, DetailRelativeTooFar), true
	}

	wholeYears := math.Trunc(years)
	months += (years - wholeYears) * 12
	// float error in 0.x years * 12 would otherwise lose a month
	wholeMonths := math.Floor(months + 1e-9)
	seconds = (months - wholeMonths) * monthSeconds
	if seconds < 0 {
		seconds = 0
	}

	at := now.In(loc).AddDate(int(wholeYears), int(wholeMonths), 0)
	at = at.Add(time.Duration(fixed+wholeSeconds(seconds)) * time.Second)
	at = at.Truncate(time.Second)

	if !at.After(now) {
		return reject(ReasonInvalidRelative, DetailInvalidRelative), true
	}
	return accept(at), true
}
