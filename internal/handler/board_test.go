package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellsheli/pobboard/internal/calendar"
	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/handler"
	"github.com/wellsheli/pobboard/internal/store"
)

// mockMutator doubles handler.Mutator with function fields.
type mockMutator struct {
	addTrip         func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	updateTrip      func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	deleteTrip      func(ctx context.Context, id uuid.UUID) error
	rescheduleTrip  func(ctx context.Context, id uuid.UUID, newDate time.Time, lane domain.Lane, site string) (domain.Trip, error)
	updateHeadcount func(ctx context.Context, siteName string, pob int) (domain.Site, error)
}

func (m *mockMutator) AddTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.addTrip(ctx, t)
}
func (m *mockMutator) UpdateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.updateTrip(ctx, t)
}
func (m *mockMutator) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	return m.deleteTrip(ctx, id)
}
func (m *mockMutator) RescheduleTrip(ctx context.Context, id uuid.UUID, newDate time.Time, lane domain.Lane, site string) (domain.Trip, error) {
	return m.rescheduleTrip(ctx, id, newDate, lane, site)
}
func (m *mockMutator) UpdateHeadcount(ctx context.Context, siteName string, pob int) (domain.Site, error) {
	return m.updateHeadcount(ctx, siteName, pob)
}

type mockSyncer struct {
	tryRefresh func(ctx context.Context) error
}

func (m *mockSyncer) TryRefresh(ctx context.Context) error { return m.tryRefresh(ctx) }

func newBoardRouter(st *store.Store, mut *mockMutator, sync *mockSyncer) http.Handler {
	if st == nil {
		st = store.New()
	}
	if mut == nil {
		mut = &mockMutator{}
	}
	if sync == nil {
		sync = &mockSyncer{}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := handler.NewBoard(st, mut, sync, calendar.NewBuilder())
	return b.Router(log, []string{"http://localhost:5173"})
}

// ---- GET /board ------------------------------------------------------------

// A site without a checkpoint is a display state, not an error.
func TestBoard_GetBoard_NoCheckpoint(t *testing.T) {
	r := newBoardRouter(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/board?site=Ogle", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Ogle", got["site"])
	assert.Equal(t, false, got["hasData"])
	assert.Empty(t, got["weeks"])
}

func TestBoard_GetBoard_DefaultsToNTM(t *testing.T) {
	r := newBoardRouter(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/board", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "NTM", got["site"])
}

func TestBoard_GetBoard_BadOffset(t *testing.T) {
	r := newBoardRouter(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/board?offset=soon", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// The full read path: checkpoint and trips in the store come out as a
// four-week window with occupancy, status chips, and passenger names
// joined onto the cards.
func TestBoard_GetBoard_FullWindow(t *testing.T) {
	st := store.New()
	today := domain.Day(time.Now())

	passenger := domain.Passenger{ID: uuid.New(), FirstName: "Aretha", LastName: "Small", JobRole: "Medic"}
	st.SetPassengers([]domain.Passenger{passenger})
	st.SetSite(domain.Site{
		ID:             uuid.New(),
		SiteName:       "NTM",
		CurrentPOB:     100,
		MaximumPOB:     120,
		POBUpdatedDate: today,
	})
	st.Add(domain.Trip{
		ID:            uuid.New(),
		PassengerID:   passenger.ID,
		FromOrigin:    "Ogle",
		ToDestination: "NTM",
		TripDate:      today,
		Confirmed:     true,
		PartySize:     5,
	})

	r := newBoardRouter(st, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/board?site=NTM", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Site    string `json:"site"`
		HasData bool   `json:"hasData"`
		Start   string `json:"start"`
		Weeks   []struct {
			Days []struct {
				Date         string `json:"date"`
				POB          int    `json:"pob"`
				Inconsistent bool   `json:"inconsistent"`
				Status       string `json:"status"`
				Incoming     []struct {
					PassengerName string `json:"passengerName"`
					JobRole       string `json:"jobRole"`
				} `json:"incoming"`
			} `json:"days"`
		} `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.True(t, got.HasData)
	require.Len(t, got.Weeks, 4)
	for _, week := range got.Weeks {
		require.Len(t, week.Days, 7)
	}

	// Find today's cell and check the card and the occupancy.
	todayStr := domain.FormatDate(today)
	found := false
	for _, week := range got.Weeks {
		for _, day := range week.Days {
			if day.Date != todayStr {
				continue
			}
			found = true
			assert.Equal(t, 105, day.POB, "checkpoint 100 plus today's arrival of 5")
			assert.Equal(t, "near", day.Status, "105 of 120 is above the 80%% line")
			require.Len(t, day.Incoming, 1)
			assert.Equal(t, "Aretha Small", day.Incoming[0].PassengerName)
			assert.Equal(t, "Medic", day.Incoming[0].JobRole)
		}
	}
	assert.True(t, found, "today must fall inside the default window")
}

// ---- mutations -------------------------------------------------------------

func TestBoard_CreateTrip(t *testing.T) {
	mut := &mockMutator{
		addTrip: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			trip.ID = uuid.New()
			return trip, nil
		},
	}
	r := newBoardRouter(nil, mut, nil)

	body := `{
		"passengerId": "` + uuid.NewString() + `",
		"fromOrigin": "NTM",
		"toDestination": "Ogle",
		"tripDate": "2024-01-10"
	}`
	req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got["id"])
}

func TestBoard_CreateTrip_RemoteFailure(t *testing.T) {
	mut := &mockMutator{
		addTrip: func(context.Context, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("board.Coordinator.AddTrip: %w: status 500", domain.ErrRemote)
		},
	}
	r := newBoardRouter(nil, mut, nil)

	body := `{"passengerId": "` + uuid.NewString() + `", "fromOrigin": "NTM", "toDestination": "Ogle", "tripDate": "2024-01-10"}`
	req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "remote_error")
}

func TestBoard_DeleteTrip(t *testing.T) {
	mut := &mockMutator{
		deleteTrip: func(context.Context, uuid.UUID) error { return nil },
	}
	r := newBoardRouter(nil, mut, nil)

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBoard_RescheduleTrip(t *testing.T) {
	var gotLane domain.Lane
	var gotSite string
	var gotDate time.Time
	mut := &mockMutator{
		rescheduleTrip: func(_ context.Context, id uuid.UUID, newDate time.Time, lane domain.Lane, site string) (domain.Trip, error) {
			gotLane, gotSite, gotDate = lane, site, newDate
			return domain.Trip{ID: id, FromOrigin: "NTM", ToDestination: "Ogle", TripDate: newDate, PartySize: 1}, nil
		},
	}
	r := newBoardRouter(nil, mut, nil)

	body := `{"tripDate": "2024-01-15", "lane": "incoming", "site": "Ogle"}`
	req := httptest.NewRequest(http.MethodPut, "/trips/"+uuid.NewString()+"/reschedule", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.LaneIncoming, gotLane)
	assert.Equal(t, "Ogle", gotSite)
	assert.Equal(t, "2024-01-15", domain.FormatDate(gotDate))
}

func TestBoard_RescheduleTrip_WrongLane(t *testing.T) {
	mut := &mockMutator{
		rescheduleTrip: func(context.Context, uuid.UUID, time.Time, domain.Lane, string) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: trip is not on the outgoing lane of Ogle", domain.ErrValidation)
		},
	}
	r := newBoardRouter(nil, mut, nil)

	body := `{"tripDate": "2024-01-15", "lane": "outgoing", "site": "Ogle"}`
	req := httptest.NewRequest(http.MethodPut, "/trips/"+uuid.NewString()+"/reschedule", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "not on the outgoing lane")
}

func TestBoard_UpdateHeadcount(t *testing.T) {
	mut := &mockMutator{
		updateHeadcount: func(_ context.Context, siteName string, pob int) (domain.Site, error) {
			return domain.Site{SiteName: siteName, CurrentPOB: pob, POBUpdatedDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}, nil
		},
	}
	r := newBoardRouter(nil, mut, nil)

	req := httptest.NewRequest(http.MethodPut, "/sites/NTM/pob", strings.NewReader(`{"currentPOB": 88}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 88, got["currentPOB"])
}

func TestBoard_Refresh(t *testing.T) {
	called := false
	sync := &mockSyncer{
		tryRefresh: func(context.Context) error {
			called = true
			return nil
		},
	}
	r := newBoardRouter(nil, nil, sync)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}

func TestBoard_Refresh_RemoteFailure(t *testing.T) {
	sync := &mockSyncer{
		tryRefresh: func(context.Context) error {
			return fmt.Errorf("board.Coordinator.Refresh: %w: refused", domain.ErrRemote)
		},
	}
	r := newBoardRouter(nil, nil, sync)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
