package domain

import "time"

// DayCell is one calendar day on the board for one site: the trips
// arriving and leaving that day plus the reconstructed occupancy.
// It is a view value — discarded and recomputed whenever the trip log,
// the checkpoint, or the selected site changes; never persisted.
type DayCell struct {
	Date     time.Time
	Incoming []Trip
	Outgoing []Trip
	// POB is the reconstructed end-of-day occupancy, clamped at zero.
	POB int
	// Inconsistent is set when the raw reconstruction went negative,
	// i.e. the log records more people leaving than were ever present.
	// The clamped POB masks that; this flag surfaces it.
	Inconsistent bool
}
