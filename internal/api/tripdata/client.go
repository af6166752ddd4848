package tripdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripflow/trip-assistant/internal/types"
)

const lookupTimeout = 5 * time.Second

var _ ServiceClient = (*ClientImpl)(nil)

// ServiceClient fetches persisted trips from the trip-data service.
// Lookups are best-effort: callers degrade to empty context on error.
type ServiceClient interface {
	GetTrip(ctx context.Context, tripID string) (*types.TripDetails, error)
}

type ClientImpl struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewClientImpl(baseURL string, logger *slog.Logger) *ClientImpl {
	return &ClientImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: lookupTimeout},
		logger:  logger,
	}
}

// GetTrip performs GET {base}/{tripId} and decodes the trip together with
// its activities array.
func (c *ClientImpl) GetTrip(ctx context.Context, tripID string) (*types.TripDetails, error) {
	ctx, span := otel.Tracer("TripDataClient").Start(ctx, "GetTrip")
	defer span.End()
	span.SetAttributes(attribute.String("app.trip.id", tripID))

	url := fmt.Sprintf("%s/%s", c.baseURL, tripID)
	l := c.logger.With(slog.String("tripID", tripID), slog.String("url", url))
	l.DebugContext(ctx, "Fetching trip from trip-data service")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request build failed")
		return nil, fmt.Errorf("failed to build trip request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request failed")
		return nil, fmt.Errorf("trip-data service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "Non-2xx response")
		return nil, fmt.Errorf("trip-data service returned status %d", resp.StatusCode)
	}

	var details types.TripDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decode failed")
		return nil, fmt.Errorf("failed to decode trip payload: %w", err)
	}

	l.DebugContext(ctx, "Fetched trip", slog.Int("activities", len(details.Activities)))
	span.SetStatus(codes.Ok, "Trip fetched")
	return &details, nil
}
