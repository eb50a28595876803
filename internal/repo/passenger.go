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

// PassengerRepo defines the persistence operations for passenger records.
// The board only ever reads passengers; Create exists for seeding and
// for the admin tooling that owns passenger records.
type PassengerRepo interface {
	// List returns all passengers ordered by last name, first name.
	List(ctx context.Context) ([]domain.Passenger, error)

	// GetByID retrieves a passenger by primary key.
	// Returns domain.ErrNotFound if no passenger with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Passenger, error)

	// Create inserts a new passenger and returns the persisted record.
	Create(ctx context.Context, p domain.Passenger) (domain.Passenger, error)
}

// pgPassengerRepo is the Postgres implementation of PassengerRepo.
type pgPassengerRepo struct {
	db db
}

// NewPassengerRepo constructs a PassengerRepo backed by the provided db connection.
func NewPassengerRepo(db db) PassengerRepo {
	return &pgPassengerRepo{db: db}
}

// List returns all passengers ordered by name.
func (r *pgPassengerRepo) List(ctx context.Context) ([]domain.Passenger, error) {
	const q = `
		SELECT id, first_name, last_name, job_role
		FROM passengers
		ORDER BY last_name, first_name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PassengerRepo.List: %w", err)
	}
	defer rows.Close()

	var passengers []domain.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PassengerRepo.List: scan: %w", err)
		}
		passengers = append(passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PassengerRepo.List: rows: %w", err)
	}

	return passengers, nil
}

// GetByID retrieves a passenger by primary key.
func (r *pgPassengerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Passenger, error) {
	const q = `SELECT id, first_name, last_name, job_role FROM passengers WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPassenger(row)
	if err != nil {
		return domain.Passenger{}, fmt.Errorf("repo.PassengerRepo.GetByID: %w", err)
	}
	return result, nil
}

// Create inserts a new passenger row and returns the persisted record.
func (r *pgPassengerRepo) Create(ctx context.Context, p domain.Passenger) (domain.Passenger, error) {
	const q = `
		INSERT INTO passengers (first_name, last_name, job_role)
		VALUES (@first_name, @last_name, @job_role)
		RETURNING id, first_name, last_name, job_role`

	args := pgx.NamedArgs{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"job_role":   p.JobRole,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPassenger(row)
	if err != nil {
		return domain.Passenger{}, fmt.Errorf("repo.PassengerRepo.Create: %w", err)
	}
	return result, nil
}

// scanPassenger maps a single database row into a domain.Passenger.
func scanPassenger(s scanner) (domain.Passenger, error) {
	var (
		p  domain.Passenger
		id pgtype.UUID
	)

	err := s.Scan(&id, &p.FirstName, &p.LastName, &p.JobRole)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Passenger{}, domain.ErrNotFound
		}
		return domain.Passenger{}, err
	}

	p.ID = uuid.UUID(id.Bytes)

	return p, nil
}
