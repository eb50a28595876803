// Package service contains the business logic for the persistence API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/repo"
)

// TripService implements business logic for trip operations.
// It holds the passenger repo too because a trip must reference an
// existing passenger.
type TripService struct {
	trips      repo.TripRepo
	passengers repo.PassengerRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, passengers repo.PassengerRepo) *TripService {
	return &TripService{trips: trips, passengers: passengers}
}

// Create validates and persists a new trip. A zero party size defaults
// to 1. Returns domain.ErrValidation if input violates business rules,
// domain.ErrNotFound if the referenced passenger does not exist.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.PartySize == 0 {
		trip.PartySize = 1
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	if _, err := s.passengers.GetByID(ctx, trip.PassengerID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: passenger: %w", err)
	}
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns the full trip log in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update validates and persists changes to an existing trip.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if
// the trip does not exist.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.PartySize == 0 {
		trip.PartySize = 1
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID.
// Returns domain.ErrNotFound if the trip does not exist — the API
// reports that as 404 and clients treat a delete of an already-gone
// trip as success.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - A passenger reference is required.
//   - Origin and destination must be different, known site codes.
//   - Party size must be at least 1.
//   - The trip date is required.
func validateTrip(trip domain.Trip) error {
	if trip.PassengerID == uuid.Nil {
		return fmt.Errorf("%w: passenger is required", domain.ErrValidation)
	}
	if trip.FromOrigin == trip.ToDestination {
		return fmt.Errorf("%w: origin and destination cannot be the same", domain.ErrValidation)
	}
	if !domain.KnownSite(trip.FromOrigin) {
		return fmt.Errorf("%w: unknown origin site %q", domain.ErrValidation, trip.FromOrigin)
	}
	if !domain.KnownSite(trip.ToDestination) {
		return fmt.Errorf("%w: unknown destination site %q", domain.ErrValidation, trip.ToDestination)
	}
	if trip.PartySize < 1 {
		return fmt.Errorf("%w: party size must be at least 1", domain.ErrValidation)
	}
	if trip.TripDate.IsZero() {
		return fmt.Errorf("%w: trip date is required", domain.ErrValidation)
	}
	return nil
}
