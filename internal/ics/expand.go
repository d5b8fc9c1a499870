package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/cockroachdb/errors"
	"github.com/teambition/rrule-go"

	appLog "traincal/internal/log"
)

const defaultMaxOccurrencesPerEvent = 5000

// Occurrence is a single concrete instance of an event after recurrence
// expansion. Non-recurring events have exactly one.
type Occurrence struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time

	// Recurring is set for instances generated by an RRULE. Slot is the
	// instance's nominal start, which is what EXDATE and RECURRENCE-ID name.
	Recurring bool
	Slot      time.Time

	// master is the VEVENT the occurrence was expanded from and override the
	// RECURRENCE-ID component that replaced it, if any.
	master   *ical.VEvent
	override *ical.VEvent
}

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// RangeStart / RangeEnd define the inclusive time window for occurrences.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps runaway rules. Zero means the default.
	MaxOccurrencesPerEvent int
}

// ExpandOccurrences expands events into occurrences inside the window,
// applying RRULE, EXDATE and RECURRENCE-ID overrides. Output order follows
// the input order of base events, so callers see a stable event order.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) ([]Occurrence, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	overridesByUID := make(map[string][]ParsedEvent)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
		}
	}

	out := make([]Occurrence, 0, len(events))
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			continue
		}
		overrides := overridesByUID[ev.UID]
		if ev.RawRRule == "" {
			out = append(out, expandSingleEvent(ev, overrides, cfg)...)
			continue
		}
		occ, hitCap := expandRecurringEvent(ev, overrides, cfg)
		if hitCap {
			appLog.Warn("expand: truncated occurrences", "uid", ev.UID, "cap", cfg.MaxOccurrencesPerEvent)
		}
		out = append(out, occ...)
	}
	return out, nil
}

func expandSingleEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []Occurrence {
	if !timeRangesOverlap(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
		return nil
	}
	occ := makeOccurrence(ev, ev, ev.Start, ev.End)
	if o, ok := findOverrideForStart(overrides, ev.Start); ok {
		occ = makeOccurrence(o, ev, o.Start, o.End)
		occ.Slot = ev.Start
	}
	return []Occurrence{occ}
}

func expandRecurringEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]Occurrence, bool) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	loc := ev.Start.Location()
	starts := set.Between(cfg.RangeStart.In(loc), cfg.RangeEnd.In(loc), true)

	hitCap := false
	if len(starts) > cfg.MaxOccurrencesPerEvent {
		starts = starts[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	dur := ev.End.Sub(ev.Start)
	out := make([]Occurrence, 0, len(starts))
	for _, slot := range starts {
		occ := makeOccurrence(ev, ev, slot, slot.Add(dur))
		if o, ok := findOverrideForStart(overrides, slot); ok {
			occ = makeOccurrence(o, ev, o.Start, o.End)
		}
		occ.Recurring = true
		occ.Slot = slot
		out = append(out, occ)
	}
	return out, hitCap
}

// findOverrideForStart finds the override whose RECURRENCE-ID equals start.
func findOverrideForStart(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && ov.Recurrence.Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

func makeOccurrence(ev, master ParsedEvent, start, end time.Time) Occurrence {
	occ := Occurrence{
		UID:         ev.UID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       start,
		End:         end,
		Slot:        start,
		master:      master.vevent,
	}
	if ev.vevent != master.vevent {
		occ.override = ev.vevent
	}
	return occ
}

func timeRangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
