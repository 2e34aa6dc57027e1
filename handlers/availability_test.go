package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slotify/models"
	"slotify/services/scheduling"
)

type stubAvailability struct {
	fn func(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error)
}

func (s *stubAvailability) GetOpenSlots(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error) {
	return s.fn(ctx, practitionerID, serviceID, from, to)
}

func availabilityRouter(provider scheduling.AvailabilityProvider) *gin.Engine {
	h := NewAvailabilityHandler(provider, zap.NewNop())
	r := gin.New()
	r.GET("/api/availability/:practitionerID", h.GetAvailability)
	return r
}

func TestGetAvailabilityEndpoint(t *testing.T) {
	slot := models.Interval{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 7, 9, 30, 0, 0, time.UTC),
	}
	provider := &stubAvailability{
		fn: func(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error) {
			assert.Equal(t, "prac-1", practitionerID)
			assert.Equal(t, "svc-30", serviceID)
			assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), from)
			assert.Equal(t, time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), to)
			return []models.Interval{slot}, nil
		},
	}
	r := availabilityRouter(provider)

	w := doJSON(t, r, http.MethodGet,
		"/api/availability/prac-1?serviceId=svc-30&from=2026-09-07T00:00:00Z&to=2026-09-08T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Slots []models.Interval `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Slots, 1)
	assert.Equal(t, slot, out.Slots[0])
}

func TestGetAvailabilityEndpointValidation(t *testing.T) {
	provider := &stubAvailability{
		fn: func(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error) {
			t.Fatal("provider must not run for invalid requests")
			return nil, nil
		},
	}
	r := availabilityRouter(provider)

	tests := []struct {
		name string
		path string
	}{
		{"missing serviceId", "/api/availability/prac-1"},
		{"malformed from", "/api/availability/prac-1?serviceId=svc-30&from=yesterday"},
		{"malformed to", "/api/availability/prac-1?serviceId=svc-30&to=tomorrow"},
		{"inverted window", "/api/availability/prac-1?serviceId=svc-30&from=2026-09-08T00:00:00Z&to=2026-09-07T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetAvailabilityEndpointUnknownService(t *testing.T) {
	provider := &stubAvailability{
		fn: func(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error) {
			return nil, &scheduling.NotFoundError{Resource: "service", ID: serviceID}
		},
	}
	w := doJSON(t, availabilityRouter(provider), http.MethodGet, "/api/availability/prac-1?serviceId=svc-x", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAvailabilityEndpointEmptyResult(t *testing.T) {
	provider := &stubAvailability{
		fn: func(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error) {
			return nil, nil
		},
	}
	w := doJSON(t, availabilityRouter(provider), http.MethodGet, "/api/availability/prac-1?serviceId=svc-30", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slots":[]}`, w.Body.String(), "nil slots serialize as an empty array")
}
