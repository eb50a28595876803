// Package domain contains the core data types for the POB board.
// This package has no dependencies on the other internal packages and is
// imported by every one of them (store, engine, calendar, board, client,
// repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a single dated passenger movement between two sites.
// One record can move more than one person (PartySize); the occupancy
// engine treats a trip as +PartySize at the destination and -PartySize
// at the origin on TripDate.
type Trip struct {
	ID            uuid.UUID `json:"id"`
	PassengerID   uuid.UUID `json:"passengerId"`
	FromOrigin    string    `json:"fromOrigin"`
	ToDestination string    `json:"toDestination"`
	TripDate      time.Time `json:"-"`
	Confirmed     bool      `json:"confirmed"`
	PartySize     int       `json:"numberOfPassengers"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// Lane identifies which side of a site's board a trip appears on.
// A trip is on the incoming lane of its destination and the outgoing
// lane of its origin.
type Lane string

const (
	LaneIncoming Lane = "incoming"
	LaneOutgoing Lane = "outgoing"
)

// Valid reports whether l is a known lane value.
func (l Lane) Valid() bool {
	return l == LaneIncoming || l == LaneOutgoing
}

// LaneAt returns the lane this trip occupies at the given site, or
// false if the trip does not touch the site at all.
func (t Trip) LaneAt(site string) (Lane, bool) {
	switch site {
	case t.ToDestination:
		return LaneIncoming, true
	case t.FromOrigin:
		return LaneOutgoing, true
	}
	return "", false
}
