package handler

import "net/http"

// ListPassengers handles GET /passengers.
func (a *API) ListPassengers(w http.ResponseWriter, r *http.Request) {
	passengers, err := a.passengers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, passengers)
}
