package models

import "fmt"

// Status is a production lifecycle state. Statuses form a total order:
// Pending < Cut < Sorted < Assembled < Shipped.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCut       Status = "Cut"
	StatusSorted    Status = "Sorted"
	StatusAssembled Status = "Assembled"
	StatusShipped   Status = "Shipped"
)

// AllStatuses lists the lifecycle in ordinal order.
var AllStatuses = []Status{
	StatusPending,
	StatusCut,
	StatusSorted,
	StatusAssembled,
	StatusShipped,
}

// Ordinal returns the position of s in the lifecycle, or -1 for an unknown status.
func (s Status) Ordinal() int {
	for i, candidate := range AllStatuses {
		if candidate == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is one of the five lifecycle states
func (s Status) IsValid() bool {
	return s.Ordinal() >= 0
}

// Before reports whether s is strictly less advanced than other.
func (s Status) Before(other Status) bool {
	return s.Ordinal() < other.Ordinal()
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts user input into a Status
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown status %q", value)
	}
	return status, nil
}
