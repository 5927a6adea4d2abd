package enums

import "fmt"

// EventType classifies workshop events.
type EventType string

const (
	EventTypeExhibition EventType = "exhibition"
	EventTypeFair       EventType = "fair"
	EventTypeMarket     EventType = "market"
	EventTypeWorkshop   EventType = "workshop"
	EventTypeOther      EventType = "other"
)

var validEventTypes = []EventType{
	EventTypeExhibition,
	EventTypeFair,
	EventTypeMarket,
	EventTypeWorkshop,
	EventTypeOther,
}

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventType.
func (e EventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventType converts raw input into a EventType.
func ParseEventType(value string) (EventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
