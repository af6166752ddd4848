package chat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tripflow/trip-assistant/internal/types"
)

// noTripDataContext is returned when neither a trip nor activities are
// available. Prompt assembly relies on the context never being empty.
const noTripDataContext = "No saved trip or activities were provided."

const unknownDateLabel = "Unknown date"

var tripDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formatTripDate renders an ISO-8601 date (with or without a trailing UTC
// marker) as YYYY-MM-DD. On any parse failure the raw input is returned
// unchanged, never an error.
func formatTripDate(raw string) string {
	for _, layout := range tripDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// BuildTripContext renders a trip summary and its activities into the text
// block injected into the chat system prompt. Absent summary fields are
// skipped, never zero-filled. Activities are stably sorted by raw date
// (missing dates sort first as empty keys) and grouped into "Day N (date)"
// sections; the day counter increments only on a date transition.
func BuildTripContext(trip *types.TripSummary, activities []types.TripActivity) string {
	var lines []string

	if trip != nil && *trip != (types.TripSummary{}) {
		lines = append(lines, "Current trip details:")
		if trip.CurrentLocation != "" {
			lines = append(lines, fmt.Sprintf("- From: %s", trip.CurrentLocation))
		}
		if trip.Destination != "" {
			lines = append(lines, fmt.Sprintf("- To: %s", trip.Destination))
		}
		if trip.StartDate != "" && trip.EndDate != "" {
			lines = append(lines, fmt.Sprintf("- Dates: %s to %s", formatTripDate(trip.StartDate), formatTripDate(trip.EndDate)))
		}
		if trip.Travelers > 0 {
			lines = append(lines, fmt.Sprintf("- Travelers: %d", trip.Travelers))
		}
		if trip.BudgetRange != "" {
			lines = append(lines, fmt.Sprintf("- Budget range: %s", trip.BudgetRange))
		}
		if trip.DailyBudget > 0 {
			lines = append(lines, fmt.Sprintf("- Approx daily budget: ₹%s", strconv.FormatFloat(trip.DailyBudget, 'f', -1, 64)))
		}
		lines = append(lines, "")
	}

	if len(activities) > 0 {
		sorted := make([]types.TripActivity, len(activities))
		copy(sorted, activities)
		// A missing date degrades to an empty key, which sorts first.
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date < sorted[j].Date
		})

		lines = append(lines, "Planned activities for this trip:")
		currentDate := ""
		dayCounter := 1

		for _, act := range sorted {
			dateText := unknownDateLabel
			if act.Date != "" {
				dateText = formatTripDate(act.Date)
			}

			if dateText != currentDate {
				lines = append(lines, fmt.Sprintf("\nDay %d (%s):", dayCounter, dateText))
				currentDate = dateText
				dayCounter++
			}

			name := act.Name
			if name == "" {
				name = act.Title
			}
			if name == "" {
				name = "Activity"
			}

			line := "- " + name
			if act.Location != "" {
				line += " at " + act.Location
			}
			if act.Description != "" {
				line += " | " + act.Description
			}
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return noTripDataContext
	}
	return strings.Join(lines, "\n")
}
