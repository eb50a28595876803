package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/wellsheli/pobboard/internal/domain"
)

// SiteRepo defines the persistence operations for site checkpoints.
type SiteRepo interface {
	// List returns all sites ordered by site name.
	List(ctx context.Context) ([]domain.Site, error)

	// GetByName retrieves a site by its unique name.
	// Returns domain.ErrNotFound if no site with that name exists.
	GetByName(ctx context.Context, name string) (domain.Site, error)

	// UpdatePOB records a manual headcount: sets current_pob and bumps
	// pob_updated_date to today. Returns domain.ErrNotFound if the site
	// does not exist.
	UpdatePOB(ctx context.Context, name string, pob int) (domain.Site, error)

	// Upsert inserts a site or leaves an existing one untouched.
	// Used by site initialization, which must be idempotent.
	Upsert(ctx context.Context, site domain.Site) error
}

// pgSiteRepo is the Postgres implementation of SiteRepo.
type pgSiteRepo struct {
	db db
}

// NewSiteRepo constructs a SiteRepo backed by the provided db connection.
func NewSiteRepo(db db) SiteRepo {
	return &pgSiteRepo{db: db}
}

const siteColumns = `id, site_name, current_pob, maximum_pob, pob_updated_date`

// List returns all sites ordered by name.
func (r *pgSiteRepo) List(ctx context.Context) ([]domain.Site, error) {
	const q = `SELECT ` + siteColumns + ` FROM sites ORDER BY site_name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SiteRepo.List: %w", err)
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SiteRepo.List: scan: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SiteRepo.List: rows: %w", err)
	}

	return sites, nil
}

// GetByName retrieves a site by its unique name.
func (r *pgSiteRepo) GetByName(ctx context.Context, name string) (domain.Site, error) {
	const q = `SELECT ` + siteColumns + ` FROM sites WHERE site_name = @site_name`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"site_name": name})
	result, err := scanSite(row)
	if err != nil {
		return domain.Site{}, fmt.Errorf("repo.SiteRepo.GetByName: %w", err)
	}
	return result, nil
}

// UpdatePOB records a manual headcount for a site.
func (r *pgSiteRepo) UpdatePOB(ctx context.Context, name string, pob int) (domain.Site, error) {
	const q = `
		UPDATE sites
		SET current_pob      = @current_pob,
		    pob_updated_date = current_date,
		    updated_at       = now()
		WHERE site_name = @site_name
		RETURNING ` + siteColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"site_name": name, "current_pob": pob})
	result, err := scanSite(row)
	if err != nil {
		return domain.Site{}, fmt.Errorf("repo.SiteRepo.UpdatePOB: %w", err)
	}
	return result, nil
}

// Upsert inserts a site, leaving it untouched if the name already exists.
func (r *pgSiteRepo) Upsert(ctx context.Context, site domain.Site) error {
	const q = `
		INSERT INTO sites (site_name, current_pob, maximum_pob, pob_updated_date)
		VALUES (@site_name, @current_pob, @maximum_pob, current_date)
		ON CONFLICT (site_name) DO NOTHING`

	args := pgx.NamedArgs{
		"site_name":   site.SiteName,
		"current_pob": site.CurrentPOB,
		"maximum_pob": site.MaximumPOB,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.SiteRepo.Upsert: %w", err)
	}
	return nil
}

// scanSite maps a single database row into a domain.Site.
func scanSite(s scanner) (domain.Site, error) {
	var (
		site    domain.Site
		id      pgtype.UUID
		updated pgtype.Date
	)

	err := s.Scan(&id, &site.SiteName, &site.CurrentPOB, &site.MaximumPOB, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Site{}, domain.ErrNotFound
		}
		return domain.Site{}, err
	}

	site.ID = uuid.UUID(id.Bytes)
	site.POBUpdatedDate = domain.Day(updated.Time)

	return site, nil
}
