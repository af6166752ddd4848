package itinerary

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripflow/trip-assistant/internal/api"
	"github.com/tripflow/trip-assistant/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GenerateItinerary(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	itineraryService Service
	logger           *slog.Logger
}

func NewItineraryHandlerImpl(itineraryService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

// GenerateItinerary handles the itinerary endpoint. Success responds with
// {"success": true, "itinerary": {...}}; failures map the service error
// taxonomy onto 4xx/5xx JSON error bodies.
func (h *HandlerImpl) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/generate-itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "GenerateItinerary"))

	var req types.ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.itineraryService.GenerateItinerary(ctx, req)
	if err != nil {
		var inputErr *InputError
		var upstreamErr *UpstreamError
		var parseErr *ParseError

		switch {
		case errors.As(err, &inputErr):
			l.WarnContext(ctx, "Invalid itinerary request", slog.String("reason", inputErr.Message))
			span.SetStatus(codes.Error, "Invalid request")
			api.ErrorResponse(w, r, http.StatusBadRequest, inputErr.Message)

		case errors.Is(err, ErrAPIKeyMissing):
			l.ErrorContext(ctx, "Itinerary endpoint is not configured", slog.Any("error", err))
			span.SetStatus(codes.Error, "Missing API credential")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "GROQ_API_KEY is not set")

		case errors.As(err, &parseErr):
			l.ErrorContext(ctx, "Unparseable itinerary reply", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Parse failure")
			api.WriteJSONResponse(w, r, http.StatusInternalServerError, map[string]interface{}{
				"error":        "Failed to parse itinerary response from AI",
				"raw_response": parseErr.Raw,
			})

		case errors.As(err, &upstreamErr):
			l.ErrorContext(ctx, "Completion API failure", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Upstream failure")
			api.ErrorResponse(w, r, http.StatusInternalServerError, fmt.Sprintf("Error calling completion API: %v", upstreamErr.Err))

		default:
			l.ErrorContext(ctx, "Unexpected error generating itinerary", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Service error")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}

	responsePayload := struct {
		Success   bool                     `json:"success"`
		Itinerary *types.ItineraryDocument `json:"itinerary"`
	}{
		Success:   true,
		Itinerary: doc,
	}

	l.InfoContext(ctx, "Itinerary response sent", slog.Int("days", len(doc.Itinerary)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, responsePayload)
}
