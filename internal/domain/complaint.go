package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusRegistered ComplaintStatus = "Registered"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// KnownStatuses lists every recognized status value. Transitions are
// validated by membership: any status may move to any other in this
// set.
var KnownStatuses = []ComplaintStatus{
	ComplaintStatusRegistered,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
}

// Valid reports whether s is one of the recognized status values.
func (s ComplaintStatus) Valid() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Complaint is the aggregate for citizen-submitted complaints. The
// department is assigned exactly once by the classifier at intake and
// never rewritten; ResolvedAt is non-nil exactly while Status is
// Resolved.
type Complaint struct {
	ID           string
	Title        string
	Description  string
	Location     string
	Department   string
	Status       ComplaintStatus
	SubmitterID  string
	RegisteredAt time.Time
	ResolvedAt   *time.Time
}
