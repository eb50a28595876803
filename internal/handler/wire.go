// Package handler implements the HTTP handlers for both servers: the
// persistence API (trips/sites/passengers CRUD) and the board service
// (the derived calendar plus coordinator-backed mutations). Handlers are
// split into api_*.go and board*.go files; each server has its own
// router constructor.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/wellsheli/pobboard/internal/domain"
)

// tripJSON is the wire shape of a trip on both servers. Dates cross the
// wire as "YYYY-MM-DD" with no timezone component.
type tripJSON struct {
	ID            uuid.UUID          `json:"id"`
	PassengerID   uuid.UUID          `json:"passengerId"`
	FromOrigin    string             `json:"fromOrigin"`
	ToDestination string             `json:"toDestination"`
	TripDate      openapi_types.Date `json:"tripDate"`
	Confirmed     bool               `json:"confirmed"`
	PartySize     int                `json:"numberOfPassengers"`
}

// tripRequest is the mutable subset accepted on create/update.
// PartySize is optional and defaults to 1 server-side.
type tripRequest struct {
	PassengerID   uuid.UUID           `json:"passengerId"`
	FromOrigin    string              `json:"fromOrigin"`
	ToDestination string              `json:"toDestination"`
	TripDate      *openapi_types.Date `json:"tripDate"`
	Confirmed     bool                `json:"confirmed"`
	PartySize     *int                `json:"numberOfPassengers"`
}

// siteJSON is the wire shape of a site checkpoint.
type siteJSON struct {
	ID             uuid.UUID          `json:"id"`
	SiteName       string             `json:"siteName"`
	CurrentPOB     int                `json:"currentPOB"`
	MaximumPOB     int                `json:"maximumPOB"`
	POBUpdatedDate openapi_types.Date `json:"pobUpdatedDate"`
}

func tripToWire(t domain.Trip) tripJSON {
	size := t.PartySize
	if size < 1 {
		size = 1
	}
	return tripJSON{
		ID:            t.ID,
		PassengerID:   t.PassengerID,
		FromOrigin:    t.FromOrigin,
		ToDestination: t.ToDestination,
		TripDate:      openapi_types.Date{Time: domain.Day(t.TripDate)},
		Confirmed:     t.Confirmed,
		PartySize:     size,
	}
}

// tripFromRequest converts a request body into a domain.Trip.
func tripFromRequest(body tripRequest) domain.Trip {
	t := domain.Trip{
		PassengerID:   body.PassengerID,
		FromOrigin:    body.FromOrigin,
		ToDestination: body.ToDestination,
		Confirmed:     body.Confirmed,
	}
	if body.TripDate != nil {
		t.TripDate = domain.Day(body.TripDate.Time)
	}
	if body.PartySize != nil {
		t.PartySize = *body.PartySize
	}
	return t
}

func siteToWire(s domain.Site) siteJSON {
	return siteJSON{
		ID:             s.ID,
		SiteName:       s.SiteName,
		CurrentPOB:     s.CurrentPOB,
		MaximumPOB:     s.MaximumPOB,
		POBUpdatedDate: openapi_types.Date{Time: domain.Day(s.POBUpdatedDate)},
	}
}

// --- response plumbing ------------------------------------------------------

// errorBody is the standard error envelope: {"error":{"code","message"}}.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status. Encoding failures are
// unrecoverable at this point (headers already sent) and are ignored.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinel errors onto the HTTP status taxonomy:
// 404 for not-found, 422 for validation failures, 502 for a remote
// persistence failure (board side, after rollback), 500 otherwise.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{errorDetail{Code: "not_found", Message: "not found"}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrRemote):
		writeJSON(w, http.StatusBadGateway, errorBody{errorDetail{Code: "remote_error", Message: "persistence API call failed; local change rolled back"}})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{errorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// writeRequestError rejects a malformed request before it reaches any
// service (missing body, bad JSON, bad UUID in the path).
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{errorDetail{Code: "validation_error", Message: message}})
}

// decodeJSON reads a request body into v.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "board.Coordinator.AddTrip: validation error: party size
// must be at least 1" → "party size must be at least 1".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	for i := 0; i+len(marker) <= len(msg); i++ {
		if msg[i:i+len(marker)] == marker {
			return msg[i+len(marker):]
		}
	}
	return msg
}
