package enums

import "fmt"

// PieceStatus tracks where a piece is in its lifecycle.
type PieceStatus string

const (
	PieceStatusInProgress PieceStatus = "in_progress"
	PieceStatusAvailable  PieceStatus = "available"
	PieceStatusReserved   PieceStatus = "reserved"
	PieceStatusInGallery  PieceStatus = "in_gallery"
	PieceStatusAtEvent    PieceStatus = "at_event"
	PieceStatusSold       PieceStatus = "sold"
	PieceStatusDamaged    PieceStatus = "damaged"
)

var validPieceStatuses = []PieceStatus{
	PieceStatusInProgress,
	PieceStatusAvailable,
	PieceStatusReserved,
	PieceStatusInGallery,
	PieceStatusAtEvent,
	PieceStatusSold,
	PieceStatusDamaged,
}

// String implements fmt.Stringer.
func (s PieceStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PieceStatus.
func (s PieceStatus) IsValid() bool {
	for _, candidate := range validPieceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePieceStatus converts raw input into a PieceStatus.
func ParsePieceStatus(value string) (PieceStatus, error) {
	for _, candidate := range validPieceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid piece status %q", value)
}
