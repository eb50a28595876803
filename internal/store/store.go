// Package store holds the board's local copy of the trip log, the site
// checkpoints, and the passenger roster. It is the single owner of those
// records on the board side: the engine and the window builder consume
// snapshot copies and never mutate them.
//
// The store is guarded by an RWMutex because HTTP handlers and the
// periodic refresher touch it from different goroutines. Mutations are
// last-write-wins by design — the coordinator, not the store, is
// responsible for keeping the local copy eventually consistent with the
// remote API.
package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wellsheli/pobboard/internal/domain"
)

// Store is the in-memory state arena for one board process.
type Store struct {
	mu sync.RWMutex

	trips map[uuid.UUID]domain.Trip
	// order records insertion sequence per trip id so Trips() can return
	// a stable "log order", which the calendar uses as the tie-breaker
	// when sorting lanes.
	order map[uuid.UUID]uint64
	next  uint64

	sites      map[string]domain.Site
	passengers []domain.Passenger
}

// New returns an empty store.
func New() *Store {
	return &Store{
		trips: make(map[uuid.UUID]domain.Trip),
		order: make(map[uuid.UUID]uint64),
		sites: make(map[string]domain.Site),
	}
}

// Trips returns a copy of the trip log in insertion order. Callers may
// hold the slice across later mutations; it never changes under them.
func (s *Store) Trips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Trip, 0, len(s.trips))
	for id := range s.trips {
		out = append(out, s.trips[id])
	}
	sortByOrder(out, s.order)
	return out
}

// Trip returns the trip with the given id.
// Returns domain.ErrNotFound if it is not in the log.
func (s *Store) Trip(id uuid.UUID) (domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

// Add appends a trip to the log.
func (s *Store) Add(t domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(t)
}

// Replace swaps the record stored under oldID for t (stored under its
// own, possibly different, id) while keeping the original log position.
// The coordinator uses this to reconcile an optimistic record with the
// server-assigned one. Returns domain.ErrNotFound if oldID is absent.
func (s *Store) Replace(oldID uuid.UUID, t domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.order[oldID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.trips, oldID)
	delete(s.order, oldID)
	s.trips[t.ID] = t
	s.order[t.ID] = seq
	return nil
}

// Update overwrites an existing trip in place, keeping its log position.
// Returns domain.ErrNotFound if the trip is not in the log.
func (s *Store) Update(t domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trips[t.ID]; !ok {
		return domain.ErrNotFound
	}
	s.trips[t.ID] = t
	return nil
}

// Remove deletes a trip from the log.
// Returns domain.ErrNotFound if the trip is not in the log.
func (s *Store) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.trips, id)
	delete(s.order, id)
	return nil
}

// ReplaceAllTrips discards the whole log and installs the authoritative
// set from the remote API, in the order given.
func (s *Store) ReplaceAllTrips(trips []domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trips = make(map[uuid.UUID]domain.Trip, len(trips))
	s.order = make(map[uuid.UUID]uint64, len(trips))
	s.next = 0
	for _, t := range trips {
		s.insertLocked(t)
	}
}

// insertLocked adds a trip under the next sequence number.
// Caller must hold the write lock.
func (s *Store) insertLocked(t domain.Trip) {
	s.trips[t.ID] = t
	s.order[t.ID] = s.next
	s.next++
}

// Site returns the checkpoint for a site, or nil if none is known.
func (s *Store) Site(name string) *domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, ok := s.sites[name]
	if !ok {
		return nil
	}
	return &site
}

// Sites returns all known site checkpoints keyed by site name.
func (s *Store) Sites() map[string]domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Site, len(s.sites))
	for k, v := range s.sites {
		out[k] = v
	}
	return out
}

// SetSites replaces the full checkpoint set.
func (s *Store) SetSites(sites []domain.Site) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sites = make(map[string]domain.Site, len(sites))
	for _, site := range sites {
		s.sites[site.SiteName] = site
	}
}

// SetSite installs or overwrites a single site checkpoint.
func (s *Store) SetSite(site domain.Site) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[site.SiteName] = site
}

// Passengers returns a copy of the passenger roster.
func (s *Store) Passengers() []domain.Passenger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Passenger, len(s.passengers))
	copy(out, s.passengers)
	return out
}

// SetPassengers replaces the passenger roster.
func (s *Store) SetPassengers(ps []domain.Passenger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.passengers = make([]domain.Passenger, len(ps))
	copy(s.passengers, ps)
}

// sortByOrder sorts trips by their insertion sequence.
func sortByOrder(trips []domain.Trip, order map[uuid.UUID]uint64) {
	sort.Slice(trips, func(i, j int) bool {
		return order[trips[i].ID] < order[trips[j].ID]
	})
}
