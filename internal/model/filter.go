package model

import "time"

// SortOrder controls how query results are ordered.
type SortOrder string

const (
	SortNewestFirst  SortOrder = "newest_first"
	SortOldestFirst  SortOrder = "oldest_first"
	SortByImportance SortOrder = "by_importance" // importance desc, then newest first
)

// EventFilter is a query descriptor for the store. Zero-valued fields are
// ignored, so the empty filter matches everything.
type EventFilter struct {
	EventTypes    []string        `json:"event_types,omitempty"`
	Categories    []EventCategory `json:"categories,omitempty"`
	StartTime     *time.Time      `json:"start_time,omitempty"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	SystemNames   []string        `json:"system_names,omitempty"`
	ContainsText  string          `json:"contains_text,omitempty"`
	MinImportance int             `json:"min_importance,omitempty"`
	MaxResults    int             `json:"max_results,omitempty"`
	SortOrder     SortOrder       `json:"sort_order,omitempty"`
}
