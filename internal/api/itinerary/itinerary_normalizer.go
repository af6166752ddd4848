package itinerary

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tripflow/trip-assistant/internal/types"
)

// rawResponsePreviewLimit caps the copy of the offending model output
// attached to a parse error.
const rawResponsePreviewLimit = 500

const (
	defaultActivityTime     = "9:00 AM"
	defaultActivityType     = "activity"
	defaultActivityTitle    = "Activity"
	defaultActivityDuration = "1 hour"
)

// cleanJSONResponse strips a leading/trailing markdown code fence (with or
// without a language tag) and trims whitespace. This is the only tolerated
// deviation from pure JSON in the model's reply.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}

	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}

	return strings.TrimSpace(response)
}

// NormalizeItinerary parses the raw completion reply and reconciles it into
// a fully-defaulted document. Day indices are reassigned sequentially from 1
// and each day's date is tripStart + (position - 1); whatever day numbers or
// date strings the model produced are discarded. No activity is dropped for
// missing fields.
func NormalizeItinerary(raw string, tripStart time.Time, destination string) (*types.ItineraryDocument, error) {
	clean := cleanJSONResponse(raw)

	var parsed types.RawItineraryDocument
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, &ParseError{Raw: truncate(clean, rawResponsePreviewLimit), Err: err}
	}

	days := make([]types.ItineraryDay, 0, len(parsed.Itinerary))
	for i, day := range parsed.Itinerary {
		activities := make([]types.ItineraryActivity, 0, len(day.Activities))
		for _, act := range day.Activities {
			activities = append(activities, types.ItineraryActivity{
				Time:          orDefault(act.Time, defaultActivityTime),
				Type:          orDefault(act.Type, defaultActivityType),
				Title:         orDefault(act.Title, defaultActivityTitle),
				Location:      orDefault(act.Location, destination),
				Description:   orDefault(act.Description, ""),
				EstimatedCost: orDefault(act.EstimatedCost, ""),
				Duration:      orDefault(act.Duration, defaultActivityDuration),
			})
		}
		days = append(days, types.ItineraryDay{
			Day:        i + 1,
			Date:       tripStart.AddDate(0, 0, i).Format("2006-01-02"),
			Activities: activities,
		})
	}

	return &types.ItineraryDocument{
		Itinerary:          days,
		TotalEstimatedCost: parsed.TotalEstimatedCost,
		Transportation:     parsed.Transportation,
	}, nil
}

func orDefault(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

// truncate cuts s to at most limit bytes without splitting a multi-byte
// rune; model output is full of currency symbols.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
