package enums

import "fmt"

// EnquiryStatus tracks how far an agent has taken a buyer enquiry.
type EnquiryStatus string

const (
	EnquiryStatusOpen       EnquiryStatus = "Open"
	EnquiryStatusInProgress EnquiryStatus = "InProgress"
	EnquiryStatusClosed     EnquiryStatus = "Closed"
)

var validEnquiryStatuses = []EnquiryStatus{
	EnquiryStatusOpen,
	EnquiryStatusInProgress,
	EnquiryStatusClosed,
}

// String implements fmt.Stringer.
func (e EnquiryStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EnquiryStatus.
func (e EnquiryStatus) IsValid() bool {
	for _, candidate := range validEnquiryStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEnquiryStatus converts raw input into an EnquiryStatus.
func ParseEnquiryStatus(value string) (EnquiryStatus, error) {
	for _, candidate := range validEnquiryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid enquiry status %q", value)
}
