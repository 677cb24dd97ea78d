package db

import "time"

// RequestStatus is the persisted lifecycle state of a booking request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
	StatusCompleted RequestStatus = "COMPLETED"
)

// StatusOverdue is never written to the database. It is a read-time
// annotation for APPROVED requests whose end time has passed without a
// checkout.
const StatusOverdue RequestStatus = "OVERDUE"

// allowedTransitions is the directed graph of permitted status changes.
// REJECTED, CANCELLED and COMPLETED are terminal.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCompleted},
	StatusRejected:  {},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition reports whether from -> to is a permitted status change.
func CanTransition(from, to RequestStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DisplayStatus returns the status a reader should see at the given moment:
// APPROVED requests past their end time with no checkout show as OVERDUE,
// everything else shows its stored status.
func (b *BookingRequest) DisplayStatus(now time.Time) RequestStatus {
	if b.Status == StatusApproved && b.CheckOutAt == nil && !now.Before(b.EndTime) {
		return StatusOverdue
	}
	return b.Status
}
