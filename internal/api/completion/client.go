package completion

import (
	"context"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Client is the narrow surface services depend on; the completion API is
// OpenAI-wire-format, so the request/response types come from go-openai.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ Client = (*GroqClient)(nil)

// GroqClient talks to an OpenAI-compatible completion endpoint (Groq by
// default) with bearer-token auth. Calls are rate limited; timeouts are
// the caller's responsibility via ctx.
type GroqClient struct {
	api     *openai.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewGroqClient(apiKey, baseURL string, logger *slog.Logger) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqClient{
		api:     openai.NewClientWithConfig(cfg),
		limiter: rate.NewLimiter(rate.Limit(3), 5), // 3 requests per second, burst of 5
		logger:  logger,
	}
}

func (c *GroqClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.DebugContext(ctx, "Completion request failed",
			slog.String("model", req.Model),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err))
		return resp, err
	}

	c.logger.DebugContext(ctx, "Completion request finished",
		slog.String("model", req.Model),
		slog.Int("choices", len(resp.Choices)),
		slog.Duration("elapsed", time.Since(start)))
	return resp, nil
}
