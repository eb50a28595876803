package domain

import "github.com/google/uuid"

// Passenger is identity/display data only. The board joins passenger
// names onto trip cards; passenger record management itself happens
// elsewhere and is read-only from this system's perspective.
type Passenger struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	JobRole   string    `json:"jobRole"`
}
