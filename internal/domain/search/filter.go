// Package search provides pure predicate filters over an already-fetched
// event collection. It never touches the database.
package search

import (
	"strings"
	"time"

	"github.com/campus-events/server/internal/domain/events"
)

// ByTitle keeps events whose name contains the query, case-insensitively.
func ByTitle(items []events.Event, query string) []events.Event {
	query = strings.ToLower(query)
	return filter(items, func(e events.Event) bool {
		return strings.Contains(strings.ToLower(e.Name), query)
	})
}

// ByDescription keeps events whose description contains the keyword,
// case-insensitively.
func ByDescription(items []events.Event, keyword string) []events.Event {
	keyword = strings.ToLower(keyword)
	return filter(items, func(e events.Event) bool {
		return strings.Contains(strings.ToLower(e.Description), keyword)
	})
}

// ByCategory keeps events whose category is in the given set.
func ByCategory(items []events.Event, categories []string) []events.Event {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return filter(items, func(e events.Event) bool {
		_, ok := set[e.Category]
		return ok
	})
}

// ByDateRange keeps events whose start time falls within [start, end],
// inclusive. Both boundaries are treated as calendar dates: time-of-day is
// ignored on the boundary days.
func ByDateRange(items []events.Event, start, end time.Time) []events.Event {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	return filter(items, func(e events.Event) bool {
		day := truncateToDay(e.StartTime)
		return !day.Before(startDay) && !day.After(endDay)
	})
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func filter(items []events.Event, keep func(events.Event) bool) []events.Event {
	out := make([]events.Event, 0, len(items))
	for _, e := range items {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
