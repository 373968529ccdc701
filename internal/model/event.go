// Package model provides the shared data model for the starlog pipeline.
// This package is used by classifier, journal, store, hub, and server packages.
package model

import "time"

// UnknownEventType is assigned to records whose event name is missing or invalid.
const UnknownEventType = "Unknown"

// RawRecord is one decoded journal line. The journal has no fixed schema beyond
// the "event" and "timestamp" fields, so everything stays dynamically typed.
type RawRecord map[string]any

// EventCategory is a closed classification label assigned to every event type.
type EventCategory string

const (
	CategorySystem      EventCategory = "System"
	CategoryNavigation  EventCategory = "Navigation"
	CategoryExploration EventCategory = "Exploration"
	CategoryCombat      EventCategory = "Combat"
	CategoryTrading     EventCategory = "Trading"
	CategoryMission     EventCategory = "Mission"
	CategoryEngineering EventCategory = "Engineering"
	CategoryMining      EventCategory = "Mining"
	CategoryPassenger   EventCategory = "Passenger"
	CategorySquadron    EventCategory = "Squadron"
	CategoryPowerplay   EventCategory = "Powerplay"
	CategoryCrew        EventCategory = "Crew"
	CategorySocial      EventCategory = "Social"
	CategoryShip        EventCategory = "Ship"
	CategorySuit        EventCategory = "Suit"
	CategoryCarrier     EventCategory = "Carrier"
	CategoryOther       EventCategory = "Other"
)

// allCategories is the canonical list of categories.
var allCategories = []EventCategory{
	CategorySystem, CategoryNavigation, CategoryExploration, CategoryCombat,
	CategoryTrading, CategoryMission, CategoryEngineering, CategoryMining,
	CategoryPassenger, CategorySquadron, CategoryPowerplay, CategoryCrew,
	CategorySocial, CategoryShip, CategorySuit, CategoryCarrier, CategoryOther,
}

// Categories returns all valid event categories.
func Categories() []EventCategory {
	out := make([]EventCategory, len(allCategories))
	copy(out, allCategories)
	return out
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range allCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ProcessedEvent is one classified, enriched journal event.
// Instances are immutable once created by the classifier.
type ProcessedEvent struct {
	ID               string         `json:"id"`
	EventType        string         `json:"event_type"`
	Timestamp        time.Time      `json:"timestamp"`
	Category         EventCategory  `json:"category"`
	Summary          string         `json:"summary"`
	KeyData          map[string]any `json:"key_data,omitempty"`
	IsValid          bool           `json:"is_valid"`
	ValidationErrors []string       `json:"validation_errors,omitempty"`
	Raw              RawRecord      `json:"raw,omitempty"`
}

// categoryImportance ranks categories for the ByImportance sort order and the
// MinImportance filter. Higher is more important.
var categoryImportance = map[EventCategory]int{
	CategoryCombat:      9,
	CategoryCarrier:     8,
	CategoryMission:     7,
	CategoryTrading:     6,
	CategoryNavigation:  6,
	CategoryExploration: 5,
	CategoryEngineering: 5,
	CategoryMining:      5,
	CategoryShip:        5,
	CategorySuit:        4,
	CategoryPowerplay:   4,
	CategorySquadron:    4,
	CategoryPassenger:   4,
	CategoryCrew:        3,
	CategorySocial:      3,
	CategorySystem:      2,
	CategoryOther:       1,
}

// typeImportance overrides the category rank for a few standout event types.
var typeImportance = map[string]int{
	"Died":          10,
	"Interdicted":   10,
	"HullDamage":    9,
	"FSDJump":       7,
	"CarrierJump":   8,
	"MarketSell":    7,
	"MissionFailed": 8,
}

// Importance returns the event's rank for importance-aware sorting/filtering.
func (e ProcessedEvent) Importance() int {
	if v, ok := typeImportance[e.EventType]; ok {
		return v
	}
	return categoryImportance[e.Category]
}
