package model

import "time"

// BookingEventType names a successful state transition.
type BookingEventType string

const (
	EventBookingCreated   BookingEventType = "booking.created"
	EventBookingConfirmed BookingEventType = "booking.confirmed"
	EventBookingDeclined  BookingEventType = "booking.declined"
	EventBookingCancelled BookingEventType = "booking.cancelled"
	EventBookingCompleted BookingEventType = "booking.completed"
	EventPaymentSubmitted BookingEventType = "payment.submitted"
	EventPaymentVerified  BookingEventType = "payment.verified"
	EventPaymentRejected  BookingEventType = "payment.rejected"
)

// BookingEvent is published to the booking-events topic after every
// successful transition. Downstream observers (notifications, analytics)
// subscribe to it; the core itself sends no notifications.
type BookingEvent struct {
	Type          BookingEventType `json:"type"`
	BookingID     string           `json:"booking_id"`
	BusinessID    string           `json:"business_id"`
	UserID        string           `json:"user_id"`
	BusinessType  BusinessType     `json:"business_type"`
	Status        BookingStatus    `json:"status"`
	PaymentStatus PaymentStatus    `json:"payment_status"`
	ActorID       string           `json:"actor_id,omitempty"`
	ActorRole     string           `json:"actor_role,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
