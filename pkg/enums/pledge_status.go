package enums

import "fmt"

// PledgeStatus maps to the pledge_status_enum enum in Postgres.
type PledgeStatus string

const (
	PledgeStatusSucceeded PledgeStatus = "succeeded"
	PledgeStatusPending   PledgeStatus = "pending"
	PledgeStatusRefunded  PledgeStatus = "refunded"
)

var validPledgeStatuses = []PledgeStatus{
	PledgeStatusSucceeded,
	PledgeStatusPending,
	PledgeStatusRefunded,
}

// IsValid reports whether the value matches the canonical pledge status enum.
func (s PledgeStatus) IsValid() bool {
	for _, candidate := range validPledgeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePledgeStatus converts raw input into PledgeStatus.
func ParsePledgeStatus(value string) (PledgeStatus, error) {
	for _, candidate := range validPledgeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pledge status %q", value)
}
