package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripflow/trip-assistant/app/observability/metrics"
	"github.com/tripflow/trip-assistant/internal/api/completion"
	"github.com/tripflow/trip-assistant/internal/types"
)

const (
	maxItineraryTokens   = 4000
	itineraryTemperature = 0.7
	// Itinerary replies are long; this path gets the largest timeout.
	itineraryTimeout = 120 * time.Second
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for itinerary generation.
type Service interface {
	GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryDocument, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	aiClient      completion.Client
	model         string
	hasCredential bool
}

func NewServiceImpl(aiClient completion.Client, model string, hasCredential bool, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		aiClient:      aiClient,
		model:         model,
		hasCredential: hasCredential,
	}
}

// GenerateItinerary validates the request, builds the strict-JSON prompt,
// invokes the completion API once and normalizes the reply. Validation
// failures return *InputError before any network call; transport failures
// return *UpstreamError; unparseable replies return *ParseError.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryDocument, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary")
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("service", "GenerateItinerary"), slog.String("destination", req.Destination))
	metrics.Get().ItineraryRequestsTotal.Add(ctx, 1)

	if !s.hasCredential {
		span.SetStatus(codes.Error, "Missing API credential")
		return nil, ErrAPIKeyMissing
	}

	if req.Destination == "" || req.StartDate == "" || req.EndDate == "" {
		span.SetStatus(codes.Error, "Missing required fields")
		return nil, &InputError{Message: "Missing required fields: destination, startDate, endDate"}
	}

	tripStart, err := parseTripDate(req.StartDate)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid start date")
		return nil, &InputError{Message: fmt.Sprintf("Invalid date format: %v", err)}
	}
	tripEnd, err := parseTripDate(req.EndDate)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid end date")
		return nil, &InputError{Message: fmt.Sprintf("Invalid date format: %v", err)}
	}

	// Inclusive day count; both ends truncated to calendar days first.
	numDays := int(tripEnd.Sub(tripStart).Hours()/24) + 1
	span.SetAttributes(attribute.Int("app.itinerary.num_days", numDays))
	l.InfoContext(ctx, "Generating itinerary", slog.Int("num_days", numDays), slog.String("model", s.model))

	callCtx, cancel := context.WithTimeout(ctx, itineraryTimeout)
	defer cancel()

	resp, err := s.aiClient.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: itinerarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildItineraryPrompt(req, numDays)},
		},
		MaxTokens:   maxItineraryTokens,
		Temperature: itineraryTemperature,
		Stream:      false,
	})
	if err != nil {
		metrics.Get().CompletionErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Completion API call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion call failed")
		return nil, &UpstreamError{Err: err}
	}

	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, "Empty choices")
		return nil, &UpstreamError{Err: fmt.Errorf("no choices in AI response")}
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	doc, err := NormalizeItinerary(raw, tripStart, req.Destination)
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse itinerary reply", slog.Any("error", err), slog.Int("raw_len", len(raw)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Parse failed")
		return nil, err
	}

	metrics.Get().ItineraryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	l.InfoContext(ctx, "Itinerary generated", slog.Int("days", len(doc.Itinerary)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	return doc, nil
}

// parseTripDate accepts a date-only form or a timestamp form (trailing UTC
// marker tolerated) and truncates to the calendar day.
func parseTripDate(raw string) (time.Time, error) {
	var t time.Time
	var err error
	if strings.Contains(raw, "T") {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04:05", raw)
		}
	} else {
		value := raw
		if len(value) > 10 {
			value = value[:10]
		}
		t, err = time.Parse("2006-01-02", value)
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
