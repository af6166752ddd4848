package itinerary

import (
	"fmt"
	"strings"

	"github.com/tripflow/trip-assistant/internal/types"
)

// itinerarySystemPrompt pins the model to a single strict JSON object with
// exactly three top-level keys; the normalizer relies on this shape.
const itinerarySystemPrompt = `You are an expert travel itinerary planner and a STRICT JSON generator.

Always respond with a single valid JSON object.
Do NOT include markdown, comments, or any text outside the JSON.
Do NOT include a top-level "trip" field.
Use only these top-level keys:
- "itinerary" (array of days)
- "totalEstimatedCost" (string)
- "transportation" (object)

All string values MUST be on a single line (no raw newlines inside strings).
Use double quotes for all keys and string values.
Do NOT add trailing commas.
`

// buildItineraryPrompt encodes the day-count-aware structural rules and the
// exact field names and category values the normalizer expects back.
func buildItineraryPrompt(req types.ItineraryRequest, numDays int) string {
	interests := "General travel"
	if len(req.Interests) > 0 {
		interests = strings.Join(req.Interests, ", ")
	}
	notes := "None"
	if req.AdditionalNotes != "" {
		notes = req.AdditionalNotes
	}
	travelers := req.Travelers
	if travelers <= 0 {
		travelers = 1
	}
	budgetRange := req.BudgetRange
	if budgetRange == "" {
		budgetRange = "midrange"
	}

	return fmt.Sprintf(`Create a detailed %d-day travel itinerary for a trip from "%s" to "%s".

Trip Details:
- Destination: %s
- Starting Location: %s
- Start Date: %s
- End Date: %s
- Number of Days: %d
- Number of Travelers: %d
- Daily Budget: ₹%.0f per person
- Budget Range: %s
- Interests: %s
- Additional Notes: %s

Itinerary requirements:

1. Day 1 (Arrival Day):
   - Include transportation from %s to %s (train/bus/flight) depending on budget.
   - Specify departure and arrival times.
   - Include hotel check-in (type = "accommodation").
   - Plan afternoon/evening activities with specific times.
   - Include dinner time and location (type = "meal").

2. Middle Days (if any):
   - Morning activity with specific time.
   - Breakfast time and location (type = "meal").
   - Afternoon activity with time.
   - Lunch time and location (type = "meal").
   - Evening activity with time.
   - Dinner time and location (type = "meal").
   - Activities should be realistic, specific to %s, and match the interests and budget.

3. Last Day (Departure Day):
   - Morning activity if time permits.
   - Check-out from accommodation (type = "accommodation").
   - Transportation back to %s with departure and arrival times.

You MUST return a single JSON object with exactly these top-level keys:
- "itinerary": an array of day objects
- "totalEstimatedCost": string like "₹5800"
- "transportation": an object with "toDestination" and "fromDestination"

Each item in "itinerary" must be an object with:
- "day": integer (1, 2, 3, ...)
- "date": string in "YYYY-MM-DD" format
- "activities": array of activity objects

Each activity object must have:
- "time": "HH:MM AM/PM"
- "type": one of "transportation", "activity", "meal", "accommodation"
- "title": short title on one line
- "location": specific location on one line
- "description": short description on one line (no line breaks)
- "estimatedCost": string like "₹XXX per person"
- "duration": string like "X hours"

Additional rules:
- All times must be in 12-hour format with AM/PM.
- Strings must NOT contain newline characters; keep each value on a single line.
- Do NOT include any extra top-level fields.
- Return ONLY this JSON object, nothing else.
`,
		numDays, req.CurrentLocation, req.Destination,
		req.Destination, req.CurrentLocation, req.StartDate, req.EndDate,
		numDays, travelers, req.DailyBudget, budgetRange, interests, notes,
		req.CurrentLocation, req.Destination,
		req.Destination,
		req.CurrentLocation,
	)
}
