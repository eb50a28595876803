package service

import (
	"context"
	"fmt"

	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/repo"
)

// PassengerService implements the read-only passenger surface the board
// consumes.
type PassengerService struct {
	passengers repo.PassengerRepo
}

// NewPassengerService constructs a PassengerService backed by the provided repo.
func NewPassengerService(passengers repo.PassengerRepo) *PassengerService {
	return &PassengerService{passengers: passengers}
}

// List returns the full passenger roster.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PassengerService) List(ctx context.Context) ([]domain.Passenger, error) {
	passengers, err := s.passengers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PassengerService.List: %w", err)
	}
	if passengers == nil {
		return []domain.Passenger{}, nil
	}
	return passengers, nil
}
