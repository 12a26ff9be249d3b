package handler

import (
	"context"
	"fmt"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/kafka"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

// EventHandler turns booking transition events into notification dispatches.
// Dispatch here means structured log lines; SMS/email/push providers plug in
// behind the same handler without touching the booking core.
type EventHandler struct {
	log *logger.Logger
}

func NewEventHandler(log *logger.Logger) *EventHandler {
	return &EventHandler{log: log}
}

// Handle implements kafka.MessageHandler.
func (h *EventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		// Malformed payloads go to the DLQ, retrying cannot fix them.
		return fmt.Errorf("failed to decode booking event: %w", err)
	}

	h.log.Info("Booking notification",
		"event_type", event.Type,
		"booking_id", event.BookingID,
		"business_id", event.BusinessID,
		"user_id", event.UserID,
		"status", event.Status,
		"payment_status", event.PaymentStatus,
		"actor_role", event.ActorRole,
		"message", notificationText(event),
	)
	return nil
}

func notificationText(event model.BookingEvent) string {
	switch event.Type {
	case model.EventBookingCreated:
		if event.Status == model.StatusConfirmed {
			return "Your booking is confirmed"
		}
		return "Your booking request was sent to the business"
	case model.EventBookingConfirmed:
		return "Your booking was accepted"
	case model.EventBookingDeclined:
		return "Your booking was declined"
	case model.EventBookingCancelled:
		return "The booking was cancelled"
	case model.EventBookingCompleted:
		return "Your booking is complete, thanks for visiting"
	case model.EventPaymentSubmitted:
		return "A payment is awaiting your verification"
	case model.EventPaymentVerified:
		return "Your payment was verified"
	case model.EventPaymentRejected:
		return "Your payment could not be verified, please resubmit"
	default:
		return "Booking update"
	}
}
