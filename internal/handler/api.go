package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/wellsheli/pobboard/internal/auth"
	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/middleware"
	"github.com/wellsheli/pobboard/spec"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SiteServicer defines the business operations the site handlers depend on.
type SiteServicer interface {
	List(ctx context.Context) ([]domain.Site, error)
	UpdatePOB(ctx context.Context, name string, pob int) (domain.Site, error)
	Initialize(ctx context.Context) error
}

// PassengerServicer defines the read surface the passenger handler depends on.
type PassengerServicer interface {
	List(ctx context.Context) ([]domain.Passenger, error)
}

// API holds the handlers for the persistence API server.
type API struct {
	trips      TripServicer
	sites      SiteServicer
	passengers PassengerServicer
}

// NewAPI constructs the API handler set with all its dependencies.
func NewAPI(trips TripServicer, sites SiteServicer, passengers PassengerServicer) *API {
	return &API{trips: trips, sites: sites, passengers: passengers}
}

// Router assembles the chi router for the persistence API. Mutating
// routes sit behind the bearer-token middleware; reads and the health
// check do not.
func (a *API) Router(log *slog.Logger, authSecret string, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(corsOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(1 << 20))

	r.Get("/healthz", GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})
	r.Get("/trips", a.ListTrips)
	r.Get("/trips/{id}", a.GetTrip)
	r.Get("/sites", a.ListSites)
	r.Get("/passengers", a.ListPassengers)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireToken(authSecret))
		r.Post("/trips", a.CreateTrip)
		r.Put("/trips/{id}", a.UpdateTrip)
		r.Delete("/trips/{id}", a.DeleteTrip)
		r.Put("/sites/{siteName}/pob", a.UpdateSitePOB)
		r.Post("/sites/initialize", a.InitializeSites)
	})

	return r
}
