package types

import "encoding/json"

// ItineraryRequest is the inbound body of the itinerary endpoint.
type ItineraryRequest struct {
	Destination     string   `json:"destination"`
	CurrentLocation string   `json:"currentLocation"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	Travelers       int      `json:"travelers,omitempty"`
	DailyBudget     float64  `json:"dailyBudget,omitempty"`
	BudgetRange     string   `json:"budgetRange,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	AdditionalNotes string   `json:"additionalNotes,omitempty"`
}

// RawItineraryDocument models the completion API's itinerary reply as a
// partially-known structure: every field the model may omit is optional.
// TotalEstimatedCost and Transportation are passed through untouched.
type RawItineraryDocument struct {
	Itinerary          []RawItineraryDay `json:"itinerary"`
	TotalEstimatedCost json.RawMessage   `json:"totalEstimatedCost"`
	Transportation     json.RawMessage   `json:"transportation"`
}

// RawItineraryDay is one day as the model returned it. Day and Date are
// kept only for diagnostics; normalization discards both and recomputes
// them from the trip start date.
type RawItineraryDay struct {
	Day        *int                   `json:"day"`
	Date       *string                `json:"date"`
	Activities []RawItineraryActivity `json:"activities"`
}

type RawItineraryActivity struct {
	Time          *string `json:"time"`
	Type          *string `json:"type"`
	Title         *string `json:"title"`
	Location      *string `json:"location"`
	Description   *string `json:"description"`
	EstimatedCost *string `json:"estimatedCost"`
	Duration      *string `json:"duration"`
}

// ItineraryDocument is the fully-defaulted document handed to the
// front-end. Day indices are always 1..N and each day's date is derived
// from the trip start date, never taken from the model.
type ItineraryDocument struct {
	Itinerary          []ItineraryDay  `json:"itinerary"`
	TotalEstimatedCost json.RawMessage `json:"totalEstimatedCost"`
	Transportation     json.RawMessage `json:"transportation"`
}

type ItineraryDay struct {
	Day        int                 `json:"day"`
	Date       string              `json:"date"`
	Activities []ItineraryActivity `json:"activities"`
}

type ItineraryActivity struct {
	Time          string `json:"time"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	EstimatedCost string `json:"estimatedCost"`
	Duration      string `json:"duration"`
}
