package enums

import "fmt"

// LifecycleStatus is the administrative stage of a property.
type LifecycleStatus string

const (
	LifecycleRequested LifecycleStatus = "Requested"
	LifecycleEnlisted  LifecycleStatus = "Enlisted"
	LifecycleSold      LifecycleStatus = "Sold"
	LifecycleRemoved   LifecycleStatus = "Removed"
)

var validLifecycleStatuses = []LifecycleStatus{
	LifecycleRequested,
	LifecycleEnlisted,
	LifecycleSold,
	LifecycleRemoved,
}

// String implements fmt.Stringer.
func (l LifecycleStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LifecycleStatus.
func (l LifecycleStatus) IsValid() bool {
	for _, candidate := range validLifecycleStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLifecycleStatus converts raw input into a LifecycleStatus.
func ParseLifecycleStatus(value string) (LifecycleStatus, error) {
	for _, candidate := range validLifecycleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lifecycle status %q", value)
}

// PropertyStatus is the transactional availability of a property.
type PropertyStatus string

const (
	PropertyStatusPending   PropertyStatus = "Pending"
	PropertyStatusAvailable PropertyStatus = "Available"
	PropertyStatusInactive  PropertyStatus = "Inactive"
	PropertyStatusSold      PropertyStatus = "Sold"
)

var validPropertyStatuses = []PropertyStatus{
	PropertyStatusPending,
	PropertyStatusAvailable,
	PropertyStatusInactive,
	PropertyStatusSold,
}

// String implements fmt.Stringer.
func (p PropertyStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PropertyStatus.
func (p PropertyStatus) IsValid() bool {
	for _, candidate := range validPropertyStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePropertyStatus converts raw input into a PropertyStatus.
func ParsePropertyStatus(value string) (PropertyStatus, error) {
	for _, candidate := range validPropertyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid property status %q", value)
}

// ParkingType describes the parking that comes with a property.
type ParkingType string

const (
	ParkingNone    ParkingType = "None"
	ParkingOpen    ParkingType = "Open"
	ParkingCovered ParkingType = "Covered"
	ParkingGarage  ParkingType = "Garage"
)

var validParkingTypes = []ParkingType{
	ParkingNone,
	ParkingOpen,
	ParkingCovered,
	ParkingGarage,
}

// String implements fmt.Stringer.
func (p ParkingType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ParkingType.
func (p ParkingType) IsValid() bool {
	for _, candidate := range validParkingTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseParkingType converts raw input into a ParkingType. Empty input maps to ParkingNone.
func ParseParkingType(value string) (ParkingType, error) {
	if value == "" {
		return ParkingNone, nil
	}
	for _, candidate := range validParkingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid parking type %q", value)
}
