package model

import "fmt"

// BookingStatus is the lifecycle axis of a booking.
type BookingStatus string

const (
	StatusPending         BookingStatus = "pending"
	StatusPendingApproval BookingStatus = "pending_approval"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusDeclined        BookingStatus = "declined"
	StatusCancelled       BookingStatus = "cancelled"
	StatusCompleted       BookingStatus = "completed"
)

// validStatusTransitions defines the booking status state machine.
// pending_approval behaves like pending: it is an initial state used by
// listing types that require explicit owner approval.
var validStatusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:         {StatusConfirmed, StatusDeclined, StatusCancelled},
	StatusPendingApproval: {StatusConfirmed, StatusDeclined, StatusCancelled},
	StatusConfirmed:       {StatusCancelled, StatusCompleted},
	StatusDeclined:        {},
	StatusCancelled:       {},
	StatusCompleted:       {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := validStatusTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validStatusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	allowed, ok := validStatusTransitions[s]
	if !ok {
		return true
	}
	return len(allowed) == 0
}

func (s BookingStatus) String() string {
	return string(s)
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// PaymentStatus is the payment axis, orthogonal to the booking status.
type PaymentStatus string

const (
	PaymentPending      PaymentStatus = "pending"
	PaymentVerification PaymentStatus = "pending_verification"
	PaymentPaid         PaymentStatus = "paid"
	PaymentFailed       PaymentStatus = "failed"
)

// A rejected review returns the booking to pending so the consumer may
// resubmit; failed is a terminal rejection and allows no recovery.
var validPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:      {PaymentVerification},
	PaymentVerification: {PaymentPaid, PaymentPending, PaymentFailed},
	PaymentPaid:         {},
	PaymentFailed:       {},
}

func (p PaymentStatus) IsValid() bool {
	_, ok := validPaymentTransitions[p]
	return ok
}

func (p PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, t := range validPaymentTransitions[p] {
		if t == target {
			return true
		}
	}
	return false
}

func (p PaymentStatus) String() string {
	return string(p)
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return status, nil
}
