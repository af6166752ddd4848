package tripdata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetTrip_DecodesTripWithActivities(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"destination": "Goa",
			"currentLocation": "Mumbai",
			"startDate": "2024-03-01",
			"endDate": "2024-03-05",
			"travelers": 2,
			"budgetRange": "midrange",
			"dailyBudget": 2500,
			"activities": [
				{"name": "Beach walk", "location": "Baga Beach", "date": "2024-03-02"},
				{"title": "Fort visit", "location": "Aguada", "date": "2024-03-03"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClientImpl(srv.URL+"/", testLogger())
	details, err := client.GetTrip(context.Background(), "trip-42")

	require.NoError(t, err)
	assert.Equal(t, "/trip-42", gotPath)
	assert.Equal(t, "Goa", details.Destination)
	assert.Equal(t, 2, details.Travelers)
	require.Len(t, details.Activities, 2)
	assert.Equal(t, "Beach walk", details.Activities[0].Name)
	assert.Equal(t, "Fort visit", details.Activities[1].Title)
}

func TestGetTrip_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClientImpl(srv.URL, testLogger())
	_, err := client.GetTrip(context.Background(), "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestGetTrip_ConnectionFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClientImpl(srv.URL, testLogger())
	_, err := client.GetTrip(context.Background(), "trip-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "trip-data service request failed")
}

func TestGetTrip_MalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"destination": `))
	}))
	defer srv.Close()

	client := NewClientImpl(srv.URL, testLogger())
	_, err := client.GetTrip(context.Background(), "trip-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode trip payload")
}
