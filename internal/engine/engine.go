// Package engine reconstructs daily site occupancy from a headcount
// checkpoint and the trip log.
//
// The computation is snapshot + replay: a single authoritative anchor
// (the checkpoint) plus a day-granular delta stream that can be replayed
// in either time direction. Occupancy is always derived on demand from
// (checkpoint, trips) — no computed value is ever treated as a source of
// truth. Every function here is pure: no mutation of inputs, no state,
// same inputs always produce the same output.
package engine

import (
	"time"

	"github.com/wellsheli/pobboard/internal/domain"
)

// Policy controls which trips count toward occupancy.
type Policy struct {
	// CountUnconfirmed includes tentative (unconfirmed) trips in the
	// occupancy arithmetic. The board has historically counted them, so
	// that is the default; set false to report only confirmed movements.
	CountUnconfirmed bool
}

// DefaultPolicy counts unconfirmed trips.
var DefaultPolicy = Policy{CountUnconfirmed: true}

// counts reports whether the policy includes this trip.
func (p Policy) counts(t domain.Trip) bool {
	return t.Confirmed || p.CountUnconfirmed
}

// partySize returns how many persons a trip moves, defaulting to 1 for
// records created before the field existed.
func partySize(t domain.Trip) int {
	if t.PartySize < 1 {
		return 1
	}
	return t.PartySize
}

// contribution returns the signed occupancy change this trip causes at
// site on its trip date: +partySize when arriving, -partySize when
// leaving, 0 when the trip does not touch the site.
func contribution(t domain.Trip, site string, p Policy) int {
	if !p.counts(t) {
		return 0
	}
	switch site {
	case t.ToDestination:
		return partySize(t)
	case t.FromOrigin:
		return -partySize(t)
	}
	return 0
}

// DayDelta is the net occupancy change site experiences on date from
// all trips dated that day. Multiple trips on the same day sum linearly.
func DayDelta(trips []domain.Trip, site string, date time.Time, p Policy) int {
	delta := 0
	for _, t := range trips {
		if domain.SameDay(t.TripDate, date) {
			delta += contribution(t, site, p)
		}
	}
	return delta
}

// Result is a reconstructed occupancy value. POB is clamped at zero;
// Inconsistent reports that the unclamped value was negative, which
// means the log records more departures than the checkpoint and prior
// arrivals can account for.
type Result struct {
	POB          int
	Inconsistent bool
}

// Reconstruct computes the occupancy of site on target.
//
// Let C be the checkpoint POB (valid at the start of checkpoint day D):
//
//   - target == D: C plus that day's own delta (the reported number for
//     a day is its end-of-day value).
//   - target  > D: C plus the sum of deltas for every day in [D, target].
//   - target  < D: C minus the sum of deltas for every day in
//     [target, D), i.e. walking backward from the checkpoint's
//     start-of-day value and undoing each intervening day. Undoing an
//     outgoing trip means those people were still present the day
//     before.
//
// The delta of a day the trip log never mentions is zero, so a target
// far outside all trip dates yields exactly C. The sum is taken in a
// single pass over the trips; only trips dated between target and D
// (inclusive per the bounds above) contribute, which is what makes an
// edit on date d invisible to every date outside the [d, D] range.
func Reconstruct(site string, target time.Time, checkpoint domain.Site, trips []domain.Trip, p Policy) Result {
	d := domain.Day(checkpoint.POBUpdatedDate)
	t := domain.Day(target)

	pob := checkpoint.CurrentPOB
	if !t.Before(d) {
		// Forward replay, checkpoint day's own delta included once.
		for _, trip := range trips {
			day := domain.Day(trip.TripDate)
			if !day.Before(d) && !day.After(t) {
				pob += contribution(trip, site, p)
			}
		}
	} else {
		// Backward replay: undo every day in [target, D).
		for _, trip := range trips {
			day := domain.Day(trip.TripDate)
			if !day.Before(t) && day.Before(d) {
				pob -= contribution(trip, site, p)
			}
		}
	}

	if pob < 0 {
		return Result{POB: 0, Inconsistent: true}
	}
	return Result{POB: pob}
}

// OccupancyOn is Reconstruct without the inconsistency flag, for callers
// that only need the clamped number.
func OccupancyOn(site string, target time.Time, checkpoint domain.Site, trips []domain.Trip, p Policy) int {
	return Reconstruct(site, target, checkpoint, trips, p).POB
}
