package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripflow/trip-assistant/internal/types"
)

type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(ai *MockCompletionClient) *ServiceImpl {
	return NewServiceImpl(ai, "llama-3.1-8b-instant", true, testLogger())
}

func validRequest() types.ItineraryRequest {
	return types.ItineraryRequest{
		Destination:     "Goa",
		CurrentLocation: "Mumbai",
		StartDate:       "2024-03-01",
		EndDate:         "2024-03-05",
		Travelers:       2,
		DailyBudget:     2500,
		BudgetRange:     "midrange",
		Interests:       []string{"beaches", "food"},
	}
}

func completionResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestGenerateItinerary_MissingRequiredFields(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := newTestService(ai)

	for _, mutate := range []func(*types.ItineraryRequest){
		func(r *types.ItineraryRequest) { r.Destination = "" },
		func(r *types.ItineraryRequest) { r.StartDate = "" },
		func(r *types.ItineraryRequest) { r.EndDate = "" },
	} {
		req := validRequest()
		mutate(&req)

		_, err := svc.GenerateItinerary(context.Background(), req)

		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
		assert.Contains(t, inputErr.Message, "Missing required fields")
	}
	ai.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
}

func TestGenerateItinerary_InvalidDateIsInputError(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := newTestService(ai)

	req := validRequest()
	req.StartDate = "first of March"

	_, err := svc.GenerateItinerary(context.Background(), req)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, inputErr.Message, "Invalid date format")
	ai.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
}

func TestGenerateItinerary_MissingCredential(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := NewServiceImpl(ai, "llama-3.1-8b-instant", false, testLogger())

	_, err := svc.GenerateItinerary(context.Background(), validRequest())

	require.ErrorIs(t, err, ErrAPIKeyMissing)
	ai.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
}

func TestGenerateItinerary_PromptEncodesInclusiveDayCount(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := newTestService(ai)

	var captured openai.ChatCompletionRequest
	ai.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(openai.ChatCompletionRequest)
		}).
		Return(completionResponse(`{"itinerary": []}`), nil)

	_, err := svc.GenerateItinerary(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "STRICT JSON generator")
	assert.Equal(t, openai.ChatMessageRoleUser, captured.Messages[1].Role)
	// 2024-03-01 .. 2024-03-05 inclusive is five days.
	assert.Contains(t, captured.Messages[1].Content, "Create a detailed 5-day travel itinerary")
	assert.Contains(t, captured.Messages[1].Content, `from "Mumbai" to "Goa"`)
	assert.Contains(t, captured.Messages[1].Content, "- Interests: beaches, food")
	assert.Equal(t, maxItineraryTokens, captured.MaxTokens)
}

func TestGenerateItinerary_AcceptsTimestampDates(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := newTestService(ai)

	var captured openai.ChatCompletionRequest
	ai.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(openai.ChatCompletionRequest)
		}).
		Return(completionResponse(`{"itinerary": []}`), nil)

	req := validRequest()
	req.StartDate = "2024-03-01T00:00:00Z"
	req.EndDate = "2024-03-03T18:30:00Z"

	_, err := svc.GenerateItinerary(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, captured.Messages[1].Content, "Create a detailed 3-day travel itinerary")
}

func TestGenerateItinerary_NormalizesReply(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := newTestService(ai)

	reply := "```json\n" + `{
		"itinerary": [
			{"day": 7, "date": "1999-01-01", "activities": [{"title": "Arrive by train"}]},
			{"day": 8, "date": "1999-01-02", "activities": []}
		],
		"totalEstimatedCost": "₹9000"
	}` + "\n```"
	ai.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(completionResponse(reply), nil)

	doc, err := svc.GenerateItinerary(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, doc.Itinerary, 2)
	assert.Equal(t, 1, doc.Itinerary[0].Day)
	assert.Equal(t, "2024-03-01", doc.Itinerary[0].Date)
	assert.Equal(t, 2, doc.Itinerary[1].Day)
	assert.Equal(t, "2024-03-02", doc.Itinerary[1].Date)
	assert.Equal(t, "Arrive by train", doc.Itinerary[0].Activities[0].Title)
	assert.Equal(t, "Goa", doc.Itinerary[0].Activities[0].Location)
}

func TestGenerateItinerary_TransportFailureIsUpstreamError(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := newTestService(ai)

	ai.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, errors.New("connection reset"))

	_, err := svc.GenerateItinerary(context.Background(), validRequest())

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
}

func TestGenerateItinerary_EmptyChoicesIsUpstreamError(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := newTestService(ai)

	ai.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{}, nil)

	_, err := svc.GenerateItinerary(context.Background(), validRequest())

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Contains(t, err.Error(), "no choices")
}

func TestGenerateItinerary_MalformedReplyIsParseError(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := newTestService(ai)

	ai.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completionResponse("Here is your itinerary: day one..."), nil)

	_, err := svc.GenerateItinerary(context.Background(), validRequest())

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Raw, "Here is your itinerary")
}
