package types

// TripSummary describes a saved trip. Every field is optional; absent
// fields are skipped when the summary is rendered into prompt context.
type TripSummary struct {
	Destination     string  `json:"destination,omitempty"`
	CurrentLocation string  `json:"currentLocation,omitempty"`
	StartDate       string  `json:"startDate,omitempty"`
	EndDate         string  `json:"endDate,omitempty"`
	Travelers       int     `json:"travelers,omitempty"`
	BudgetRange     string  `json:"budgetRange,omitempty"`
	DailyBudget     float64 `json:"dailyBudget,omitempty"`
}

// TripActivity is one planned activity on a trip. Activities without a
// date group into an "Unknown date" bucket when rendered.
type TripActivity struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

// TripDetails is the payload returned by the trip-data service for
// GET {base}/{tripId}.
type TripDetails struct {
	TripSummary
	Activities []TripActivity `json:"activities"`
}
