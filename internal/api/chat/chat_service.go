package chat

import (
	"context"
	"errors"
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
	"github.com/tripflow/trip-assistant/internal/api/tripdata"
	"github.com/tripflow/trip-assistant/internal/types"
)

const (
	maxReplyTokens    = 150
	chatTemperature   = 0.7
	chatTimeout       = 60 * time.Second
	tripLookupTimeout = 5 * time.Second
)

// ErrAPIKeyMissing signals that the completion API credential was not
// configured; the handler maps it to a 5xx configuration error.
var ErrAPIKeyMissing = errors.New("completion API key is not configured")

const baseSystemPrompt = `You are a helpful assistant specialized in trip planning.
Your job is to answer travel-related questions only and do not answer any other questions.
Use the user's trip details and planned activities to give personalized answers.

Guidelines:
- If you are unsure, say: "I'm not sure about that. Please try again."
- Keep responses short, simple, and clear.
- Avoid long paragraphs or unnecessary details.
- Prefer concise bullet-point or one-line answers when suggesting itineraries.
- Example:
    Instead of: "Based on your trip details, I recommend spending 7-10 days in Kerala..."
    You should reply like:
    - Day 1-2: Cochin
    - Day 3-4: Munnar
    - Day 5-6: Thekkady
    - Day 7-8: Alleppey
    - Day 9-10: Trivandrum
- Respond in a single, straightforward sentence when possible.
`

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for the chat endpoint.
type Service interface {
	SubmitMessage(ctx context.Context, req types.ChatRequest) (string, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	aiClient      completion.Client
	tripClient    tripdata.ServiceClient
	sessions      *SessionStore
	model         string
	hasCredential bool
}

func NewServiceImpl(aiClient completion.Client, tripClient tripdata.ServiceClient, sessions *SessionStore, model string, hasCredential bool, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		aiClient:      aiClient,
		tripClient:    tripClient,
		sessions:      sessions,
		model:         model,
		hasCredential: hasCredential,
	}
}

// SubmitMessage resolves trip context, appends the user turn to the
// session history, invokes the completion API and returns the reply text.
// Transport and payload failures are absorbed into a descriptive fallback
// reply; only a missing credential is surfaced as an error. The user turn
// is never rolled back on failure.
func (s *ServiceImpl) SubmitMessage(ctx context.Context, req types.ChatRequest) (string, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "SubmitMessage")
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("service", "SubmitMessage"), slog.String("sessionID", req.SessionID))
	metrics.Get().ChatRequestsTotal.Add(ctx, 1)

	trip, activities := s.resolveTripContext(ctx, req)
	tripContext := BuildTripContext(trip, activities)
	span.SetAttributes(attribute.Bool("app.chat.has_trip_context", tripContext != noTripDataContext))

	if !s.hasCredential {
		l.ErrorContext(ctx, "GROQ_API_KEY is not set")
		span.SetStatus(codes.Error, "Missing API credential")
		return "", ErrAPIKeyMissing
	}

	session := s.sessions.Get(req.SessionID)
	session.Append(types.RoleUser, req.Message)

	systemPrompt := baseSystemPrompt + "\n\nHere is the user's current trip and activities:\n" + tripContext

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, msg := range session.Messages() {
		role := string(msg.Role)
		if msg.Role == types.RoleAI {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	callCtx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	resp, err := s.aiClient.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxReplyTokens,
		Temperature: chatTemperature,
		Stream:      false,
	})
	if err != nil {
		metrics.Get().CompletionErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Completion API call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion call failed")
		return fallbackReply(err), nil
	}

	if len(resp.Choices) == 0 {
		l.WarnContext(ctx, "Completion API returned no choices")
		span.SetStatus(codes.Error, "Empty choices")
		return "Sorry, no response from the AI service.", nil
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	session.Append(types.RoleAI, reply)

	metrics.Get().ChatReplyDurationSeconds.Record(ctx, time.Since(start).Seconds())
	l.InfoContext(ctx, "Chat reply generated", slog.Int("history_len", session.Len()))
	span.SetStatus(codes.Ok, "Reply generated")
	return reply, nil
}

// resolveTripContext picks exactly one sourcing path: a tripId lookup when
// present (failure degrades to no context), otherwise the legacy inline
// trip/activities fields.
func (s *ServiceImpl) resolveTripContext(ctx context.Context, req types.ChatRequest) (*types.TripSummary, []types.TripActivity) {
	if req.TripID == "" {
		return req.Trip, req.Activities
	}

	lookupCtx, cancel := context.WithTimeout(ctx, tripLookupTimeout)
	defer cancel()

	details, err := s.tripClient.GetTrip(lookupCtx, req.TripID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch trip for chat context",
			slog.String("tripID", req.TripID), slog.Any("error", err))
		return nil, nil
	}
	return &details.TripSummary, details.Activities
}

// fallbackReply turns an upstream failure into the user-visible reply,
// distinguishing structured API error payloads from transport failures.
func fallbackReply(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Sprintf("API Error: %s", apiErr.Message)
		}
		return fmt.Sprintf("API Error (Status %d)", apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("API Error (Status %d): %v", reqErr.HTTPStatusCode, reqErr.Err)
	}

	return fmt.Sprintf("Connection error: %v", err)
}
