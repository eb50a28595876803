// Package client is the HTTP consumer of the persistence API. It speaks
// the JSON-over-HTTP surface the board syncs against: trip CRUD, site
// checkpoint reads/updates, and the passenger roster.
//
// All dates cross the wire as "YYYY-MM-DD" via openapi_types.Date, which
// round-trips the date-only format without applying any timezone offset.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/wellsheli/pobboard/internal/domain"
)

// Client talks to one persistence API instance. Mutating calls carry the
// bearer token; reads do not need one.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New constructs a Client for the API at baseURL (no trailing slash).
func New(baseURL, token string) *Client {
	return &Client{
		base:  baseURL,
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
	}
}

// --- wire types -------------------------------------------------------------

type tripPayload struct {
	ID            uuid.UUID          `json:"id,omitempty"`
	PassengerID   uuid.UUID          `json:"passengerId"`
	FromOrigin    string             `json:"fromOrigin"`
	ToDestination string             `json:"toDestination"`
	TripDate      openapi_types.Date `json:"tripDate"`
	Confirmed     bool               `json:"confirmed"`
	PartySize     *int               `json:"numberOfPassengers,omitempty"`
}

type sitePayload struct {
	ID             uuid.UUID          `json:"id"`
	SiteName       string             `json:"siteName"`
	CurrentPOB     int                `json:"currentPOB"`
	MaximumPOB     int                `json:"maximumPOB"`
	POBUpdatedDate openapi_types.Date `json:"pobUpdatedDate"`
}

type passengerPayload struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	JobRole   string    `json:"jobRole"`
}

func toTripPayload(t domain.Trip) tripPayload {
	p := tripPayload{
		ID:            t.ID,
		PassengerID:   t.PassengerID,
		FromOrigin:    t.FromOrigin,
		ToDestination: t.ToDestination,
		TripDate:      openapi_types.Date{Time: domain.Day(t.TripDate)},
		Confirmed:     t.Confirmed,
	}
	if t.PartySize >= 1 {
		size := t.PartySize
		p.PartySize = &size
	}
	return p
}

func (p tripPayload) toDomain() domain.Trip {
	t := domain.Trip{
		ID:            p.ID,
		PassengerID:   p.PassengerID,
		FromOrigin:    p.FromOrigin,
		ToDestination: p.ToDestination,
		TripDate:      domain.Day(p.TripDate.Time),
		Confirmed:     p.Confirmed,
		PartySize:     1,
	}
	if p.PartySize != nil && *p.PartySize >= 1 {
		t.PartySize = *p.PartySize
	}
	return t
}

func (p sitePayload) toDomain() domain.Site {
	return domain.Site{
		ID:             p.ID,
		SiteName:       p.SiteName,
		CurrentPOB:     p.CurrentPOB,
		MaximumPOB:     p.MaximumPOB,
		POBUpdatedDate: domain.Day(p.POBUpdatedDate.Time),
	}
}

// --- trips ------------------------------------------------------------------

// ListTrips fetches the full trip log.
func (c *Client) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	var payload []tripPayload
	if err := c.do(ctx, http.MethodGet, "/trips", nil, &payload); err != nil {
		return nil, fmt.Errorf("client.Client.ListTrips: %w", err)
	}
	trips := make([]domain.Trip, len(payload))
	for i, p := range payload {
		trips[i] = p.toDomain()
	}
	return trips, nil
}

// CreateTrip persists a new trip and returns the record with the
// server-assigned id.
func (c *Client) CreateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	body := toTripPayload(t)
	body.ID = uuid.Nil // the server mints the id
	var created tripPayload
	if err := c.do(ctx, http.MethodPost, "/trips", body, &created); err != nil {
		return domain.Trip{}, fmt.Errorf("client.Client.CreateTrip: %w", err)
	}
	return created.toDomain(), nil
}

// UpdateTrip overwrites an existing trip and returns the updated record.
func (c *Client) UpdateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	var updated tripPayload
	err := c.do(ctx, http.MethodPut, "/trips/"+t.ID.String(), toTripPayload(t), &updated)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("client.Client.UpdateTrip: %w", err)
	}
	return updated.toDomain(), nil
}

// DeleteTrip removes a trip. A remote 404 is returned as
// domain.ErrNotFound so the caller can treat the delete as idempotent.
func (c *Client) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/trips/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("client.Client.DeleteTrip: %w", err)
	}
	return nil
}

// --- sites ------------------------------------------------------------------

// ListSites fetches all site checkpoints.
func (c *Client) ListSites(ctx context.Context) ([]domain.Site, error) {
	var payload []sitePayload
	if err := c.do(ctx, http.MethodGet, "/sites", nil, &payload); err != nil {
		return nil, fmt.Errorf("client.Client.ListSites: %w", err)
	}
	sites := make([]domain.Site, len(payload))
	for i, p := range payload {
		sites[i] = p.toDomain()
	}
	return sites, nil
}

// UpdateSitePOB records a manual headcount for a site. The server bumps
// the checkpoint date to today and returns the updated site.
func (c *Client) UpdateSitePOB(ctx context.Context, siteName string, pob int) (domain.Site, error) {
	body := struct {
		CurrentPOB int `json:"currentPOB"`
	}{CurrentPOB: pob}

	var updated sitePayload
	err := c.do(ctx, http.MethodPut, "/sites/"+siteName+"/pob", body, &updated)
	if err != nil {
		return domain.Site{}, fmt.Errorf("client.Client.UpdateSitePOB: %w", err)
	}
	return updated.toDomain(), nil
}

// InitializeSites seeds the default site set on the server.
func (c *Client) InitializeSites(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/sites/initialize", nil, nil); err != nil {
		return fmt.Errorf("client.Client.InitializeSites: %w", err)
	}
	return nil
}

// --- passengers -------------------------------------------------------------

// ListPassengers fetches the passenger roster.
func (c *Client) ListPassengers(ctx context.Context) ([]domain.Passenger, error) {
	var payload []passengerPayload
	if err := c.do(ctx, http.MethodGet, "/passengers", nil, &payload); err != nil {
		return nil, fmt.Errorf("client.Client.ListPassengers: %w", err)
	}
	passengers := make([]domain.Passenger, len(payload))
	for i, p := range payload {
		passengers[i] = domain.Passenger(p)
	}
	return passengers, nil
}

// --- plumbing ---------------------------------------------------------------

// do issues one request and decodes the JSON response into out (when out
// is non-nil). 404 maps to domain.ErrNotFound; any other non-2xx status
// maps to domain.ErrRemote with the status attached.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemote, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: status %d", domain.ErrRemote, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
