// Package board applies user mutations to the local trip log with
// optimistic updates, persists them remotely, and rolls back on failure.
// It also owns the periodic full refresh from the persistence API.
//
// Mutations are not serialized: two rapid operations on the same trip
// can race, and the coordinator only guarantees that the local copy ends
// up matching the last successful remote response (last write wins).
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/store"
)

// RemoteAPI is the slice of the persistence API the coordinator needs.
// Defining it here (in the consumer package) lets tests inject a double
// without a running API; *client.Client satisfies it.
type RemoteAPI interface {
	ListTrips(ctx context.Context) ([]domain.Trip, error)
	CreateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error)
	UpdateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
	ListSites(ctx context.Context) ([]domain.Site, error)
	UpdateSitePOB(ctx context.Context, siteName string, pob int) (domain.Site, error)
	ListPassengers(ctx context.Context) ([]domain.Passenger, error)
}

// Coordinator mediates between the local store and the remote API.
type Coordinator struct {
	store  *store.Store
	remote RemoteAPI
	log    *slog.Logger

	// now is swappable in tests; headcount updates stamp the checkpoint
	// date with "today" according to this clock.
	now func() time.Time
}

// NewCoordinator constructs a Coordinator over the given store and API.
func NewCoordinator(st *store.Store, remote RemoteAPI, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{store: st, remote: remote, log: log, now: time.Now}
}

// Store exposes the local state for the read path (engine, calendar,
// handlers). Reads never go through the coordinator.
func (c *Coordinator) Store() *store.Store {
	return c.store
}

// AddTrip validates and persists a new trip. The record appears in the
// local log immediately under a temporary id; once the server confirms,
// the optimistic record is reconciled with the server-assigned one. On
// remote failure the optimistic record is removed again.
func (c *Coordinator) AddTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	if t.PartySize == 0 {
		t.PartySize = 1
	}
	if err := validateTrip(t); err != nil {
		return domain.Trip{}, fmt.Errorf("board.Coordinator.AddTrip: %w", err)
	}
	t.TripDate = domain.Day(t.TripDate)

	tempID := uuid.New()
	t.ID = tempID
	c.store.Add(t)

	created, err := c.remote.CreateTrip(ctx, t)
	if err != nil {
		if rerr := c.store.Remove(tempID); rerr != nil {
			c.log.Warn("rollback of optimistic add found no record", "trip_id", tempID)
		}
		return domain.Trip{}, fmt.Errorf("board.Coordinator.AddTrip: %w", err)
	}

	if err := c.store.Replace(tempID, created); err != nil {
		// The optimistic record was removed underneath us (e.g. by a
		// concurrent refresh). The server copy is authoritative.
		c.store.Add(created)
	}
	return created, nil
}

// UpdateTrip validates and persists changes to an existing trip. The
// local log reflects the change immediately; on remote failure it is
// reverted to the pre-mutation snapshot.
func (c *Coordinator) UpdateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	if t.PartySize == 0 {
		t.PartySize = 1
	}
	if err := validateTrip(t); err != nil {
		return domain.Trip{}, fmt.Errorf("board.Coordinator.UpdateTrip: %w", err)
	}
	t.TripDate = domain.Day(t.TripDate)

	prev, err := c.store.Trip(t.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("board.Coordinator.UpdateTrip: %w", err)
	}

	if err := c.store.Update(t); err != nil {
		return domain.Trip{}, fmt.Errorf("board.Coordinator.UpdateTrip: %w", err)
	}

	updated, err := c.remote.UpdateTrip(ctx, t)
	if err != nil {
		if rerr := c.store.Update(prev); rerr != nil {
			c.log.Warn("rollback of optimistic update found no record", "trip_id", t.ID)
		}
		return domain.Trip{}, fmt.Errorf("board.Coordinator.UpdateTrip: %w", err)
	}

	// Reconcile any server-adjusted fields.
	if err := c.store.Update(updated); err != nil {
		c.store.Add(updated)
	}
	return updated, nil
}

// DeleteTrip removes a trip locally and remotely. A remote "already
// gone" is success — deletes are idempotent. Any other remote failure
// reloads the authoritative log from the API, since the optimistic
// removal cannot be undone without the original payload.
func (c *Coordinator) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	if err := c.store.Remove(id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("board.Coordinator.DeleteTrip: %w", err)
	}

	err := c.remote.DeleteTrip(ctx, id)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return nil
	}

	c.log.Warn("delete failed, reloading trip log", "trip_id", id, "error", err)
	trips, lerr := c.remote.ListTrips(ctx)
	if lerr != nil {
		c.log.Error("reload after failed delete also failed", "error", lerr)
	} else {
		c.store.ReplaceAllTrips(trips)
	}
	return fmt.Errorf("board.Coordinator.DeleteTrip: %w", err)
}

// RescheduleTrip moves a trip to a new date. This is the drag-and-drop
// operation: the drop lane must match the lane the trip occupies at the
// given site (an incoming card can only land in the incoming lane of the
// same site), and only the date changes.
func (c *Coordinator) RescheduleTrip(ctx context.Context, id uuid.UUID, newDate time.Time, lane domain.Lane, site string) (domain.Trip, error) {
	if !lane.Valid() {
		return domain.Trip{}, fmt.Errorf("board.Coordinator.RescheduleTrip: %w: unknown lane %q", domain.ErrValidation, lane)
	}

	t, err := c.store.Trip(id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("board.Coordinator.RescheduleTrip: %w", err)
	}

	actual, ok := t.LaneAt(site)
	if !ok || actual != lane {
		return domain.Trip{}, fmt.Errorf("board.Coordinator.RescheduleTrip: %w: trip is not on the %s lane of %s", domain.ErrValidation, lane, site)
	}

	t.TripDate = domain.Day(newDate)
	return c.UpdateTrip(ctx, t)
}

// UpdateHeadcount records a manual headcount for a site: the checkpoint
// value becomes pob and the checkpoint date becomes today. Applied
// optimistically and reverted on remote failure.
func (c *Coordinator) UpdateHeadcount(ctx context.Context, siteName string, pob int) (domain.Site, error) {
	if pob < 0 {
		return domain.Site{}, fmt.Errorf("board.Coordinator.UpdateHeadcount: %w: POB must not be negative", domain.ErrValidation)
	}

	prev := c.store.Site(siteName)
	if prev == nil {
		return domain.Site{}, fmt.Errorf("board.Coordinator.UpdateHeadcount: site %s: %w", siteName, domain.ErrNotFound)
	}

	optimistic := *prev
	optimistic.CurrentPOB = pob
	optimistic.POBUpdatedDate = domain.Day(c.now())
	c.store.SetSite(optimistic)

	updated, err := c.remote.UpdateSitePOB(ctx, siteName, pob)
	if err != nil {
		c.store.SetSite(*prev)
		return domain.Site{}, fmt.Errorf("board.Coordinator.UpdateHeadcount: %w", err)
	}

	c.store.SetSite(updated)
	return updated, nil
}

// Refresh replaces the local trip log, checkpoint set, and passenger
// roster wholesale with the server's current state. All three fetches
// must succeed before anything is applied, so a partial failure leaves
// the local state untouched.
func (c *Coordinator) Refresh(ctx context.Context) error {
	trips, err := c.remote.ListTrips(ctx)
	if err != nil {
		return fmt.Errorf("board.Coordinator.Refresh: %w", err)
	}
	sites, err := c.remote.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("board.Coordinator.Refresh: %w", err)
	}
	passengers, err := c.remote.ListPassengers(ctx)
	if err != nil {
		return fmt.Errorf("board.Coordinator.Refresh: %w", err)
	}

	c.store.ReplaceAllTrips(trips)
	c.store.SetSites(sites)
	c.store.SetPassengers(passengers)
	return nil
}

// validateTrip enforces the mutation-boundary invariants. The engine
// itself never checks these.
func validateTrip(t domain.Trip) error {
	if t.PassengerID == uuid.Nil {
		return fmt.Errorf("%w: passenger is required", domain.ErrValidation)
	}
	if t.FromOrigin == t.ToDestination {
		return fmt.Errorf("%w: origin and destination cannot be the same", domain.ErrValidation)
	}
	if !domain.KnownSite(t.FromOrigin) {
		return fmt.Errorf("%w: unknown origin site %q", domain.ErrValidation, t.FromOrigin)
	}
	if !domain.KnownSite(t.ToDestination) {
		return fmt.Errorf("%w: unknown destination site %q", domain.ErrValidation, t.ToDestination)
	}
	if t.PartySize < 1 {
		return fmt.Errorf("%w: party size must be at least 1", domain.ErrValidation)
	}
	if t.TripDate.IsZero() {
		return fmt.Errorf("%w: trip date is required", domain.ErrValidation)
	}
	return nil
}
