// Package calendar assembles the sliding multi-week window the board
// displays for a site. The builder performs no mutation and is cheap
// enough to rebuild from scratch whenever the selected site, the week
// offset, or the trip log changes.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/engine"
)

// Week is seven consecutive calendar days starting on the configured
// week-start day.
type Week struct {
	Days [7]domain.DayCell
}

// Window is the full board view for one site: Weeks consecutive weeks
// around the reference date, shifted by the navigation offset.
type Window struct {
	Site   string
	Start  time.Time
	Weeks  []Week
	Policy engine.Policy
}

// Builder holds the window shape parameters.
type Builder struct {
	// Weeks is how many week rows the window spans.
	Weeks int
	// LeadWeeks is how many of those weeks fall before the reference
	// date's week when the offset is zero.
	LeadWeeks int
	// WeekStart is the weekday each row begins on.
	WeekStart time.Weekday
	// Policy is passed through to the occupancy engine.
	Policy engine.Policy
}

// NewBuilder returns the board's stock layout: four week rows starting
// one week back from the reference date, Sunday-first.
func NewBuilder() Builder {
	return Builder{Weeks: 4, LeadWeeks: 1, WeekStart: time.Sunday, Policy: engine.DefaultPolicy}
}

// startOfWeek returns the most recent WeekStart on or before t.
func (b Builder) startOfWeek(t time.Time) time.Time {
	day := domain.Day(t)
	back := (int(day.Weekday()) - int(b.WeekStart) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// Build assembles the window for site around refDate, shifted by
// weekOffset whole weeks (negative = into the past). Within each day,
// incoming trips are those arriving at the site and outgoing trips those
// leaving it; confirmed trips sort before unconfirmed ones and ties keep
// log order. Occupancy comes from the reconstruction engine.
//
// Returns domain.ErrNoCheckpoint when the site has never had a manual
// headcount, in which case no occupancy can be reconstructed at all.
func (b Builder) Build(site string, refDate time.Time, weekOffset int, checkpoint *domain.Site, trips []domain.Trip) (Window, error) {
	if checkpoint == nil {
		return Window{}, fmt.Errorf("calendar.Builder.Build: site %s: %w", site, domain.ErrNoCheckpoint)
	}

	start := b.startOfWeek(refDate).AddDate(0, 0, 7*(weekOffset-b.LeadWeeks))
	w := Window{Site: site, Start: start, Weeks: make([]Week, b.Weeks), Policy: b.Policy}

	for wi := 0; wi < b.Weeks; wi++ {
		for di := 0; di < 7; di++ {
			date := start.AddDate(0, 0, wi*7+di)
			cell := domain.DayCell{Date: date}
			for _, t := range trips {
				if !domain.SameDay(t.TripDate, date) {
					continue
				}
				switch site {
				case t.ToDestination:
					cell.Incoming = append(cell.Incoming, t)
				case t.FromOrigin:
					cell.Outgoing = append(cell.Outgoing, t)
				}
			}
			sortLane(cell.Incoming)
			sortLane(cell.Outgoing)

			res := engine.Reconstruct(site, date, *checkpoint, trips, b.Policy)
			cell.POB = res.POB
			cell.Inconsistent = res.Inconsistent
			w.Weeks[wi].Days[di] = cell
		}
	}
	return w, nil
}

// sortLane orders a day's lane: confirmed first, stable so ties keep
// the trip log's own order.
func sortLane(trips []domain.Trip) {
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].Confirmed && !trips[j].Confirmed
	})
}

// POBStatus classifies a day's occupancy against site capacity for the
// status chip: "ok" below 80%, "near" at 80% and above, "over" at or
// past capacity. Capacity is informational only — nothing is enforced.
func POBStatus(pob, capacity int) string {
	if capacity <= 0 {
		return "ok"
	}
	switch {
	case pob >= capacity:
		return "over"
	case pob*10 >= capacity*8:
		return "near"
	default:
		return "ok"
	}
}
