package validator

import (
	"strings"
	"testing"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

func newTestValidator(t *testing.T) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
	return NewBookingValidator(log)
}

func validHotelBooking() *model.Booking {
	return &model.Booking{
		BusinessID:   "507f1f77bcf86cd799439011",
		UserID:       "user-1",
		BusinessType: model.TypeHotel,
		BookingDetails: map[string]string{
			"checkIn":  "2025-06-01",
			"checkOut": "2025-06-03",
			"roomType": "deluxe",
			"guests":   "2",
		},
		Amount:        1500,
		TotalAmount:   15000,
		PaymentOption: model.PayAdvance,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentPending,
	}
}

func TestValidateAcceptsCompleteBooking(t *testing.T) {
	v := newTestValidator(t)
	if err := v.Validate(validHotelBooking()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Booking)
		wantSub string
	}{
		{
			name:    "missing business id",
			mutate:  func(b *model.Booking) { b.BusinessID = "" },
			wantSub: "BusinessID",
		},
		{
			name:    "bad business id format",
			mutate:  func(b *model.Booking) { b.BusinessID = "not-an-oid" },
			wantSub: "ObjectID",
		},
		{
			name:    "missing user",
			mutate:  func(b *model.Booking) { b.UserID = "" },
			wantSub: "UserID",
		},
		{
			name:    "unknown business type",
			mutate:  func(b *model.Booking) { b.BusinessType = "spa" },
			wantSub: "BusinessType",
		},
		{
			name:    "negative amount",
			mutate:  func(b *model.Booking) { b.Amount = -10 },
			wantSub: "Amount",
		},
		{
			name:    "bad status",
			mutate:  func(b *model.Booking) { b.Status = "limbo" },
			wantSub: "Status",
		},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validHotelBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestValidateRequiresPolicyDetails(t *testing.T) {
	v := newTestValidator(t)

	b := validHotelBooking()
	delete(b.BookingDetails, "checkOut")
	delete(b.BookingDetails, "roomType")

	err := v.Validate(b)
	if err == nil {
		t.Fatal("expected validation error for missing details")
	}

	var errs ValidationErrors
	if !asValidationErrors(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateRejectsNonBookableType(t *testing.T) {
	v := newTestValidator(t)

	b := validHotelBooking()
	b.BusinessType = model.TypeShopping
	b.BookingDetails = map[string]string{}

	err := v.Validate(b)
	if err == nil || !strings.Contains(err.Error(), "do not take bookings") {
		t.Fatalf("expected non-bookable rejection, got %v", err)
	}
}

func TestValidateCafeAliasDetails(t *testing.T) {
	v := newTestValidator(t)

	b := validHotelBooking()
	b.BusinessType = model.TypeCafe
	b.BookingDetails = map[string]string{
		"bookingDate":    "2025-06-01",
		"bookingTime":    "16:00",
		"tableType":      "window",
		"numberOfGuests": "2",
	}
	b.Status = model.StatusConfirmed

	if err := v.Validate(b); err != nil {
		t.Fatalf("alias keys must satisfy required details: %v", err)
	}
}

func TestValidateTransactionID(t *testing.T) {
	v := newTestValidator(t)

	if err := v.ValidateTransactionID("UPI123456"); err != nil {
		t.Errorf("valid transaction id rejected: %v", err)
	}
	if err := v.ValidateTransactionID(""); err == nil {
		t.Error("empty transaction id accepted")
	}
	if err := v.ValidateTransactionID(strings.Repeat("A", 65)); err == nil {
		t.Error("oversized transaction id accepted")
	}
}

func asValidationErrors(err error, target *ValidationErrors) bool {
	ve, ok := err.(ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}
