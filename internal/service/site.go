package service

import (
	"context"
	"fmt"

	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/repo"
)

// SiteService implements business logic for site checkpoint operations.
type SiteService struct {
	sites repo.SiteRepo
}

// NewSiteService constructs a SiteService backed by the provided repo.
func NewSiteService(sites repo.SiteRepo) *SiteService {
	return &SiteService{sites: sites}
}

// List returns all site checkpoints.
// Always returns a non-nil slice so callers can safely range over it.
func (s *SiteService) List(ctx context.Context) ([]domain.Site, error) {
	sites, err := s.sites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SiteService.List: %w", err)
	}
	if sites == nil {
		return []domain.Site{}, nil
	}
	return sites, nil
}

// UpdatePOB records a manual headcount for a site. The checkpoint date
// is bumped to today by the repo. Returns domain.ErrValidation for a
// negative count, domain.ErrNotFound for an unknown site.
func (s *SiteService) UpdatePOB(ctx context.Context, name string, pob int) (domain.Site, error) {
	if pob < 0 {
		return domain.Site{}, fmt.Errorf("%w: POB must not be negative", domain.ErrValidation)
	}
	result, err := s.sites.UpdatePOB(ctx, name, pob)
	if err != nil {
		return domain.Site{}, fmt.Errorf("service.SiteService.UpdatePOB: %w", err)
	}
	return result, nil
}

// Initialize seeds the default site set. Sites that already exist are
// left untouched, so the operation is safe to repeat.
func (s *SiteService) Initialize(ctx context.Context) error {
	for _, site := range domain.DefaultSites {
		if err := s.sites.Upsert(ctx, site); err != nil {
			return fmt.Errorf("service.SiteService.Initialize: %w", err)
		}
	}
	return nil
}
