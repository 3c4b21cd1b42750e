// Package when turns free-form time expressions into absolute future instants.
//
// A Resolver tries a fixed list of strategies in order: structured date and
// time templates, relative offsets such as "1 hr 30 min", and finally a
// natural-language parser. The first strategy that claims the input decides
// the Outcome. Resolving never touches the wall clock; the caller passes now.
package when

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sho0pi/naturaltime"
)

// Reason explains why an expression was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonPastDate
	ReasonInvalidRelative
	ReasonPastOrUnparseable
	ReasonUnrecognized
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "accepted"
	case ReasonPastDate:
		return "past_date"
	case ReasonInvalidRelative:
		return "invalid_relative"
	case ReasonPastOrUnparseable:
		return "past_or_unparseable"
	case ReasonUnrecognized:
		return "unrecognized"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

const (
	DetailPastDate          = "That date has already passed. Pick a moment in the future."
	DetailInvalidRelative   = "That duration does not point to the future. Use positive amounts like `5 minutes` or `1 hr 30 min`."
	DetailRelativeTooFar    = "That duration is too far away. Keep it under 290 years."
	DetailPastOrUnparseable = "I couldn't turn that into a future time."
	DetailUnrecognized      = "I don't understand that time."
)

// Outcome is the result of resolving one expression. At is set, in UTC, only
// when Reason is ReasonNone.
type Outcome struct {
	At     time.Time
	Reason Reason
	Detail string
}

func (o Outcome) Accepted() bool {
	return o.Reason == ReasonNone
}

func accept(at time.Time) Outcome {
	return Outcome{At: at.UTC()}
}

func reject(reason Reason, detail string) Outcome {
	return Outcome{Reason: reason, Detail: detail}
}

// NaturalParser is the fallback for expressions like "next friday at noon".
// *naturaltime.Parser satisfies it.
type NaturalParser interface {
	ParseDate(input string, ref time.Time) (*time.Time, error)
}

// strategy reports ok=false when it does not claim the input, letting the
// next strategy try.
type strategy func(input string, loc *time.Location, now time.Time) (out Outcome, ok bool)

type Resolver struct {
	natural NaturalParser
	// naturaltime runs a JS engine that is not safe for concurrent use
	naturalMu  sync.Mutex
	strategies []strategy
}

// New builds a Resolver backed by the naturaltime parser.
func New() (*Resolver, error) {
	p, err := naturaltime.New()
	if err != nil {
		return nil, fmt.Errorf("init naturaltime parser: %w", err)
	}
	return NewWithParser(p), nil
}

// NewWithParser builds a Resolver with the given natural-language fallback.
// A nil parser disables the fallback.
func NewWithParser(p NaturalParser) *Resolver {
	r := &Resolver{natural: p}
	r.strategies = []strategy{
		resolveStructured,
		resolveRelative,
		r.resolveNatural,
	}
	return r
}

// Resolve interprets input in the user's zone loc relative to now. A nil loc
// means UTC. Accepted instants are always strictly after now and carry whole
// seconds.
func (r *Resolver) Resolve(input string, loc *time.Location, now time.Time) Outcome {
	if loc == nil {
		loc = time.UTC
	}
	input = strings.Join(strings.Fields(input), " ")
	if input == "" {
		return reject(ReasonUnrecognized, DetailUnrecognized)
	}

	for _, s := range r.strategies {
		if out, ok := s(input, loc, now); ok {
			return out
		}
	}
	return reject(ReasonUnrecognized, DetailUnrecognized)
}

func (r *Resolver) resolveNatural(input string, loc *time.Location, now time.Time) (Outcome, bool) {
	if r.natural == nil {
		return Outcome{}, false
	}

	r.naturalMu.Lock()
	got, err := r.natural.ParseDate(input, now.In(loc))
	r.naturalMu.Unlock()

	if err != nil || got == nil {
		return reject(ReasonPastOrUnparseable, DetailPastOrUnparseable), true
	}
	at := got.Truncate(time.Second)
	if !at.After(now) {
		return reject(ReasonPastOrUnparseable, DetailPastOrUnparseable), true
	}
	return accept(at), true
}
