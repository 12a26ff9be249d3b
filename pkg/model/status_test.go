package model

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusDeclined, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPendingApproval, StatusConfirmed, true},
		{StatusPendingApproval, StatusDeclined, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusDeclined, false},
		{StatusDeclined, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: allowed = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestBookingStatusTerminals(t *testing.T) {
	terminals := []BookingStatus{StatusDeclined, StatusCancelled, StatusCompleted}
	for _, s := range terminals {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}

	live := []BookingStatus{StatusPending, StatusPendingApproval, StatusConfirmed}
	for _, s := range live {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentPending, PaymentVerification, true},
		{PaymentPending, PaymentPaid, false},
		{PaymentVerification, PaymentPaid, true},
		{PaymentVerification, PaymentPending, true},
		{PaymentVerification, PaymentFailed, true},
		{PaymentPaid, PaymentPending, false},
		{PaymentPaid, PaymentVerification, false},
		{PaymentFailed, PaymentVerification, false},
		{PaymentFailed, PaymentPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: allowed = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	if _, err := ParseBookingStatus("confirmed"); err != nil {
		t.Errorf("confirmed rejected: %v", err)
	}
	if _, err := ParseBookingStatus("limbo"); err == nil {
		t.Error("unknown status accepted")
	}
}

func TestParsePaymentStatus(t *testing.T) {
	if _, err := ParsePaymentStatus("pending_verification"); err != nil {
		t.Errorf("pending_verification rejected: %v", err)
	}
	if _, err := ParsePaymentStatus("settled"); err == nil {
		t.Error("unknown payment status accepted")
	}
}
