package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripflow/trip-assistant/internal/types"
)

type MockItineraryService struct {
	mock.Mock
}

func (m *MockItineraryService) GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryDocument, error) {
	args := m.Called(ctx, req)
	if doc := args.Get(0); doc != nil {
		return doc.(*types.ItineraryDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

func postItinerary(t *testing.T, handler *HandlerImpl, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate-itinerary", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.GenerateItinerary(rr, req)
	return rr
}

const validBody = `{"destination": "Goa", "currentLocation": "Mumbai", "startDate": "2024-03-01", "endDate": "2024-03-05"}`

func TestGenerateItineraryHandler_Success(t *testing.T) {
	svc := new(MockItineraryService)
	handler := NewItineraryHandlerImpl(svc, testLogger())

	doc := &types.ItineraryDocument{
		Itinerary: []types.ItineraryDay{
			{Day: 1, Date: "2024-03-01", Activities: []types.ItineraryActivity{{Title: "Arrive", Location: "Goa"}}},
		},
	}
	svc.On("GenerateItinerary", mock.Anything, mock.MatchedBy(func(req types.ItineraryRequest) bool {
		return req.Destination == "Goa" && req.StartDate == "2024-03-01"
	})).Return(doc, nil)

	rr := postItinerary(t, handler, validBody)

	require.Equal(t, http.StatusOK, rr.Code)
	var payload struct {
		Success   bool                     `json:"success"`
		Itinerary *types.ItineraryDocument `json:"itinerary"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	require.NotNil(t, payload.Itinerary)
	require.Len(t, payload.Itinerary.Itinerary, 1)
	assert.Equal(t, "2024-03-01", payload.Itinerary.Itinerary[0].Date)
}

func TestGenerateItineraryHandler_MalformedBody(t *testing.T) {
	svc := new(MockItineraryService)
	handler := NewItineraryHandlerImpl(svc, testLogger())

	rr := postItinerary(t, handler, `{"destination": `)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "GenerateItinerary", mock.Anything, mock.Anything)
}

func TestGenerateItineraryHandler_UnknownKeyIs400(t *testing.T) {
	svc := new(MockItineraryService)
	handler := NewItineraryHandlerImpl(svc, testLogger())

	rr := postItinerary(t, handler, `{"destination": "Goa", "startDate": "2024-03-01", "endDate": "2024-03-05", "mood": "relaxed"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `unknown key \"mood\"`)
	svc.AssertNotCalled(t, "GenerateItinerary", mock.Anything, mock.Anything)
}

func TestGenerateItineraryHandler_InputErrorIs400(t *testing.T) {
	svc := new(MockItineraryService)
	handler := NewItineraryHandlerImpl(svc, testLogger())

	svc.On("GenerateItinerary", mock.Anything, mock.Anything).
		Return(nil, &InputError{Message: "Missing required fields: destination, startDate, endDate"})

	rr := postItinerary(t, handler, `{"destination": "Goa"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing required fields")
}

func TestGenerateItineraryHandler_MissingKeyIs500(t *testing.T) {
	svc := new(MockItineraryService)
	handler := NewItineraryHandlerImpl(svc, testLogger())

	svc.On("GenerateItinerary", mock.Anything, mock.Anything).Return(nil, ErrAPIKeyMissing)

	rr := postItinerary(t, handler, validBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "GROQ_API_KEY is not set")
}

func TestGenerateItineraryHandler_ParseErrorCarriesRawResponse(t *testing.T) {
	svc := new(MockItineraryService)
	handler := NewItineraryHandlerImpl(svc, testLogger())

	svc.On("GenerateItinerary", mock.Anything, mock.Anything).
		Return(nil, &ParseError{Raw: "Sure! Here is your trip:", Err: errors.New("invalid character 'S'")})

	rr := postItinerary(t, handler, validBody)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "Failed to parse itinerary response from AI", payload["error"])
	assert.Equal(t, "Sure! Here is your trip:", payload["raw_response"])
}

func TestGenerateItineraryHandler_UpstreamErrorIs500(t *testing.T) {
	svc := new(MockItineraryService)
	handler := NewItineraryHandlerImpl(svc, testLogger())

	svc.On("GenerateItinerary", mock.Anything, mock.Anything).
		Return(nil, &UpstreamError{Err: errors.New("context deadline exceeded")})

	rr := postItinerary(t, handler, validBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Error calling completion API")
}
