package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/wellsheli/pobboard/internal/calendar"
	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/middleware"
	"github.com/wellsheli/pobboard/internal/store"
)

// Mutator defines the coordinator operations the board handlers depend
// on. *board.Coordinator satisfies it; tests inject a double.
type Mutator interface {
	AddTrip(ctx context.Context, t domain.Trip) (domain.Trip, error)
	UpdateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
	RescheduleTrip(ctx context.Context, id uuid.UUID, newDate time.Time, lane domain.Lane, site string) (domain.Trip, error)
	UpdateHeadcount(ctx context.Context, siteName string, pob int) (domain.Site, error)
}

// Syncer triggers an immediate full re-sync from the persistence API.
type Syncer interface {
	TryRefresh(ctx context.Context) error
}

// Board holds the handlers for the board service: the derived calendar
// window on the read side and coordinator-backed mutations on the write
// side. Reads never touch the network — they are served from the local
// store and recomputed on every request.
type Board struct {
	store   *store.Store
	mut     Mutator
	sync    Syncer
	builder calendar.Builder

	// now anchors the default window; swappable in tests.
	now func() time.Time
}

// NewBoard constructs the board handler set.
func NewBoard(st *store.Store, mut Mutator, sync Syncer, builder calendar.Builder) *Board {
	return &Board{store: st, mut: mut, sync: sync, builder: builder, now: time.Now}
}

// Router assembles the chi router for the board service.
func (b *Board) Router(log *slog.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(corsOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(1 << 20))

	r.Get("/healthz", GetHealth)
	r.Get("/board", b.GetBoard)
	r.Get("/sites", b.ListSites)
	r.Get("/passengers", b.ListPassengers)

	r.Post("/trips", b.CreateTrip)
	r.Put("/trips/{id}", b.UpdateTrip)
	r.Delete("/trips/{id}", b.DeleteTrip)
	r.Put("/trips/{id}/reschedule", b.RescheduleTrip)
	r.Put("/sites/{siteName}/pob", b.UpdateHeadcount)
	r.Post("/refresh", b.Refresh)

	return r
}

// --- board wire shapes ------------------------------------------------------

type windowJSON struct {
	Site    string              `json:"site"`
	HasData bool                `json:"hasData"`
	Start   *openapi_types.Date `json:"start,omitempty"`
	Weeks   []weekJSON          `json:"weeks"`
}

type weekJSON struct {
	Days []dayJSON `json:"days"`
}

type dayJSON struct {
	Date         openapi_types.Date `json:"date"`
	POB          int                `json:"pob"`
	Inconsistent bool               `json:"inconsistent"`
	Status       string             `json:"status"`
	Incoming     []cardJSON         `json:"incoming"`
	Outgoing     []cardJSON         `json:"outgoing"`
}

// cardJSON is a trip with the passenger's display data joined on, the
// unit the UI renders as a draggable card.
type cardJSON struct {
	tripJSON
	PassengerName string `json:"passengerName"`
	JobRole       string `json:"jobRole"`
}

// --- reads ------------------------------------------------------------------

// GetBoard handles GET /board?site=NTM&offset=0.
// A site with no checkpoint yields hasData=false with empty weeks — a
// "no data" display state, never an error.
func (b *Board) GetBoard(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site")
	if site == "" {
		site = "NTM"
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeRequestError(w, "offset must be an integer")
			return
		}
		offset = n
	}

	window, err := b.builder.Build(site, b.now(), offset, b.store.Site(site), b.store.Trips())
	if err != nil {
		// Only ErrNoCheckpoint reaches here; degrade to "no data".
		writeJSON(w, http.StatusOK, windowJSON{Site: site, HasData: false, Weeks: []weekJSON{}})
		return
	}

	names := passengerIndex(b.store.Passengers())
	out := windowJSON{
		Site:    site,
		HasData: true,
		Start:   &openapi_types.Date{Time: window.Start},
		Weeks:   make([]weekJSON, len(window.Weeks)),
	}

	capacity := 0
	if cp := b.store.Site(site); cp != nil {
		capacity = cp.MaximumPOB
	}

	for wi, week := range window.Weeks {
		days := make([]dayJSON, len(week.Days))
		for di, day := range week.Days {
			days[di] = dayJSON{
				Date:         openapi_types.Date{Time: day.Date},
				POB:          day.POB,
				Inconsistent: day.Inconsistent,
				Status:       calendar.POBStatus(day.POB, capacity),
				Incoming:     cards(day.Incoming, names),
				Outgoing:     cards(day.Outgoing, names),
			}
		}
		out.Weeks[wi] = weekJSON{Days: days}
	}

	writeJSON(w, http.StatusOK, out)
}

// ListSites handles GET /sites on the board, served from the local copy.
func (b *Board) ListSites(w http.ResponseWriter, _ *http.Request) {
	byName := b.store.Sites()
	sites := make([]domain.Site, 0, len(byName))
	for _, s := range byName {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].SiteName < sites[j].SiteName })

	out := make([]siteJSON, len(sites))
	for i, s := range sites {
		out[i] = siteToWire(s)
	}
	writeJSON(w, http.StatusOK, out)
}

// ListPassengers handles GET /passengers on the board.
func (b *Board) ListPassengers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.store.Passengers())
}

// --- mutations --------------------------------------------------------------

// CreateTrip handles POST /trips on the board.
func (b *Board) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body tripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	if body.TripDate == nil {
		writeRequestError(w, "tripDate is required")
		return
	}

	created, err := b.mut.AddTrip(r.Context(), tripFromRequest(body))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tripToWire(created))
}

// UpdateTrip handles PUT /trips/{id} on the board.
func (b *Board) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	var body tripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	if body.TripDate == nil {
		writeRequestError(w, "tripDate is required")
		return
	}

	trip := tripFromRequest(body)
	trip.ID = id

	updated, err := b.mut.UpdateTrip(r.Context(), trip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToWire(updated))
}

// DeleteTrip handles DELETE /trips/{id} on the board. Deleting a trip
// the API no longer has is success.
func (b *Board) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	if err := b.mut.DeleteTrip(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RescheduleTrip handles PUT /trips/{id}/reschedule — the drop half of a
// drag-and-drop. The body names the target date plus the lane and site
// the card was dropped on; the lane must match the trip's own.
func (b *Board) RescheduleTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	var body struct {
		TripDate *openapi_types.Date `json:"tripDate"`
		Lane     domain.Lane         `json:"lane"`
		Site     string              `json:"site"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	if body.TripDate == nil {
		writeRequestError(w, "tripDate is required")
		return
	}

	updated, err := b.mut.RescheduleTrip(r.Context(), id, body.TripDate.Time, body.Lane, body.Site)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToWire(updated))
}

// UpdateHeadcount handles PUT /sites/{siteName}/pob on the board.
func (b *Board) UpdateHeadcount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPOB *int `json:"currentPOB"`
	}
	if err := decodeJSON(r, &body); err != nil || body.CurrentPOB == nil {
		writeRequestError(w, "currentPOB is required")
		return
	}

	updated, err := b.mut.UpdateHeadcount(r.Context(), chi.URLParam(r, "siteName"), *body.CurrentPOB)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, siteToWire(updated))
}

// Refresh handles POST /refresh: an immediate full re-sync. Shares the
// in-flight guard with the scheduled refresh, so at most one sync runs
// at a time.
func (b *Board) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := b.sync.TryRefresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ----------------------------------------------------------------

// passengerIndex maps passenger id to display data.
func passengerIndex(ps []domain.Passenger) map[uuid.UUID]domain.Passenger {
	idx := make(map[uuid.UUID]domain.Passenger, len(ps))
	for _, p := range ps {
		idx[p.ID] = p
	}
	return idx
}

// cards joins passenger names onto a lane's trips. Unknown passengers
// (roster not yet synced) yield cards with empty names rather than
// failing the whole board.
func cards(trips []domain.Trip, names map[uuid.UUID]domain.Passenger) []cardJSON {
	out := make([]cardJSON, len(trips))
	for i, t := range trips {
		c := cardJSON{tripJSON: tripToWire(t)}
		if p, ok := names[t.PassengerID]; ok {
			c.PassengerName = p.FirstName + " " + p.LastName
			c.JobRole = p.JobRole
		}
		out[i] = c
	}
	return out
}
