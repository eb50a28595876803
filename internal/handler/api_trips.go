package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateTrip handles POST /trips.
func (a *API) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body tripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	if body.TripDate == nil {
		writeRequestError(w, "tripDate is required")
		return
	}

	created, err := a.trips.Create(r.Context(), tripFromRequest(body))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tripToWire(created))
}

// ListTrips handles GET /trips. The full log is returned in insertion
// order; the board relies on that order as its sort tie-breaker.
func (a *API) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := a.trips.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]tripJSON, len(trips))
	for i, t := range trips {
		out[i] = tripToWire(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTrip handles GET /trips/{id}.
func (a *API) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	trip, err := a.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToWire(trip))
}

// UpdateTrip handles PUT /trips/{id}.
func (a *API) UpdateTrip(w http.ResponseWriter, r *http.Request) {
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

	updated, err := a.trips.Update(r.Context(), trip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToWire(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (a *API) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	if err := a.trips.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
