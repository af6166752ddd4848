package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripflow/trip-assistant/internal/api"
	"github.com/tripflow/trip-assistant/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SubmitMessage(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	chatService Service
	logger      *slog.Logger
}

func NewChatHandlerImpl(chatService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		chatService: chatService,
		logger:      logger,
	}
}

// SubmitMessage handles the chat endpoint. The response body always
// carries a human-readable reply field, even on upstream failure.
func (h *HandlerImpl) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "SubmitMessage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "SubmitMessage"))

	// The legacy front-end sends extra fields alongside the documented
	// ones, so this body is decoded leniently, but still size-capped.
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.WriteJSONResponse(w, r, http.StatusBadRequest, types.ChatResponse{Reply: "Invalid request. No data received."})
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		l.WarnContext(ctx, "Empty chat message rejected")
		span.SetStatus(codes.Error, "Empty message")
		api.WriteJSONResponse(w, r, http.StatusBadRequest, types.ChatResponse{Reply: "Please send a valid message."})
		return
	}

	reply, err := h.chatService.SubmitMessage(ctx, req)
	if err != nil {
		if errors.Is(err, ErrAPIKeyMissing) {
			l.ErrorContext(ctx, "Chat endpoint is not configured", slog.Any("error", err))
			span.SetStatus(codes.Error, "Missing API credential")
			api.WriteJSONResponse(w, r, http.StatusInternalServerError, types.ChatResponse{
				Reply: "Groq API key is not configured. Please set GROQ_API_KEY environment variable.",
			})
			return
		}
		// Unexpected internal error: full detail in logs, generic reply out.
		l.ErrorContext(ctx, "Unexpected error handling chat message", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service error")
		api.WriteJSONResponse(w, r, http.StatusOK, types.ChatResponse{Reply: "An unexpected error occurred. Please try again."})
		return
	}

	span.SetStatus(codes.Ok, "Reply sent")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ChatResponse{Reply: reply})
}
