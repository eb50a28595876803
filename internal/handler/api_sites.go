package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListSites handles GET /sites.
func (a *API) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := a.sites.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]siteJSON, len(sites))
	for i, s := range sites {
		out[i] = siteToWire(s)
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateSitePOB handles PUT /sites/{siteName}/pob — the manual headcount
// update. The checkpoint date is bumped to today server-side.
func (a *API) UpdateSitePOB(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPOB *int `json:"currentPOB"`
	}
	if err := decodeJSON(r, &body); err != nil || body.CurrentPOB == nil {
		writeRequestError(w, "currentPOB is required")
		return
	}

	updated, err := a.sites.UpdatePOB(r.Context(), chi.URLParam(r, "siteName"), *body.CurrentPOB)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, siteToWire(updated))
}

// InitializeSites handles POST /sites/initialize. Seeding is idempotent;
// existing sites keep their checkpoints.
func (a *API) InitializeSites(w http.ResponseWriter, r *http.Request) {
	if err := a.sites.Initialize(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
