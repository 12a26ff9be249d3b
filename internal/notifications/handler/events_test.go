package handler

import (
	"context"
	"testing"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/kafka"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

func TestHandleDecodesBookingEvent(t *testing.T) {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
	h := NewEventHandler(log)

	msg := kafka.NewMessage().
		WithKey("64b2f0a1c9e77a0001a1b2c3").
		WithValue(model.BookingEvent{
			Type:          model.EventPaymentVerified,
			BookingID:     "64b2f0a1c9e77a0001a1b2c3",
			Status:        model.StatusConfirmed,
			PaymentStatus: model.PaymentPaid,
		}).
		WithEventType(string(model.EventPaymentVerified)).
		Build()

	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
	h := NewEventHandler(log)

	msg := kafka.NewMessage().WithRawValue([]byte("{not json")).Build()

	if err := h.Handle(context.Background(), msg); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNotificationTextCoversAllEvents(t *testing.T) {
	events := []model.BookingEventType{
		model.EventBookingCreated,
		model.EventBookingConfirmed,
		model.EventBookingDeclined,
		model.EventBookingCancelled,
		model.EventBookingCompleted,
		model.EventPaymentSubmitted,
		model.EventPaymentVerified,
		model.EventPaymentRejected,
	}

	for _, eventType := range events {
		text := notificationText(model.BookingEvent{Type: eventType})
		if text == "" || text == "Booking update" {
			t.Errorf("no dedicated text for %s", eventType)
		}
	}
}
