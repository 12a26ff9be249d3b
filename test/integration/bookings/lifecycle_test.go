package integrationtests

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/client"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

// These tests run against live bookings and businesses services plus a seeded
// Mongo. Set TEST_BOOKINGS_URL and TEST_BUSINESSES_URL to enable them.

const (
	ownerID    = "it-owner-1"
	consumerID = "it-consumer-1"
)

func setup(t *testing.T) (*client.BookingClient, *client.BookingClient, *client.BusinessClient) {
	t.Helper()

	bookingsURL := os.Getenv("TEST_BOOKINGS_URL")
	businessesURL := os.Getenv("TEST_BUSINESSES_URL")
	if bookingsURL == "" || businessesURL == "" {
		t.Skip("TEST_BOOKINGS_URL and TEST_BUSINESSES_URL not set, skipping integration tests")
	}

	if err := client.NewHttpClient(bookingsURL).WaitForHealthy(30 * time.Second); err != nil {
		t.Fatalf("bookings service not healthy: %v", err)
	}
	if err := client.NewHttpClient(businessesURL).WaitForHealthy(30 * time.Second); err != nil {
		t.Fatalf("businesses service not healthy: %v", err)
	}

	consumerClient := client.NewBookingClient(bookingsURL).WithActor(consumerID, model.RoleConsumer)
	ownerClient := client.NewBookingClient(bookingsURL).WithActor(ownerID, model.RoleBusiness)
	businessClient := client.NewBusinessClient(businessesURL).WithActor(ownerID, model.RoleBusiness)

	return consumerClient, ownerClient, businessClient
}

func createHotel(t *testing.T, businessClient *client.BusinessClient) *model.Business {
	t.Helper()

	resp, err := businessClient.Create(map[string]any{
		"name":          fmt.Sprintf("Hill View %d", rand.Intn(100000)),
		"business_type": "hotel",
		"upi_id":        "hillview@okaxis",
		"city":          "ooty",
	})
	if err != nil {
		t.Fatalf("create business failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create business status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	business, err := businessClient.DecodeBusiness(resp)
	if err != nil {
		t.Fatal(err)
	}
	return business
}

func createHotelBooking(t *testing.T, consumerClient *client.BookingClient, businessID string) *model.Booking {
	t.Helper()

	resp, err := consumerClient.Create(map[string]any{
		"business_id": businessID,
		"user_id":     consumerID,
		"booking_details": map[string]string{
			"checkIn":  "2025-06-01",
			"checkOut": "2025-06-03",
			"roomType": "deluxe",
			"guests":   "2",
		},
		"total_amount":   15000,
		"payment_option": "advance",
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create booking status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	booking, err := consumerClient.DecodeBooking(resp)
	if err != nil {
		t.Fatal(err)
	}
	return booking
}

func TestHotelBookingLifecycle(t *testing.T) {
	consumerClient, ownerClient, businessClient := setup(t)

	business := createHotel(t, businessClient)
	booking := createHotelBooking(t, consumerClient, business.ID)

	if booking.Status != model.StatusPending {
		t.Fatalf("fresh hotel booking status = %s, want pending", booking.Status)
	}
	if booking.Amount != 1500 {
		t.Errorf("advance amount = %v, want 1500 (10%% of 15000)", booking.Amount)
	}

	// Accept without a room number must fail.
	resp, err := ownerClient.UpdateStatus(booking.ID, "confirmed", "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("accept without room number status = %d, want 422", resp.StatusCode)
	}

	// Accept with a room number.
	resp, err = ownerClient.UpdateStatus(booking.ID, "confirmed", "A-204")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}
	confirmed, err := ownerClient.DecodeBooking(resp)
	if err != nil {
		t.Fatal(err)
	}
	if confirmed.Status != model.StatusConfirmed || confirmed.RoomNumber != "A-204" {
		t.Fatalf("confirmed booking = %+v", confirmed)
	}

	// Consumer submits payment.
	resp, err = consumerClient.SubmitPayment(booking.ID, "UPI987654")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit payment status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	// Owner rejects, payment returns to pending.
	resp, err = ownerClient.ReviewPayment(booking.ID, "reject")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reject review status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}
	rejected, err := ownerClient.DecodeBooking(resp)
	if err != nil {
		t.Fatal(err)
	}
	if rejected.PaymentStatus != model.PaymentPending {
		t.Fatalf("payment status after reject = %s, want pending", rejected.PaymentStatus)
	}

	// Consumer resubmits, owner approves.
	if _, err = consumerClient.SubmitPayment(booking.ID, "UPI987655"); err != nil {
		t.Fatal(err)
	}
	resp, err = ownerClient.ReviewPayment(booking.ID, "approve")
	if err != nil {
		t.Fatal(err)
	}
	paid, err := ownerClient.DecodeBooking(resp)
	if err != nil {
		t.Fatal(err)
	}
	if paid.PaymentStatus != model.PaymentPaid {
		t.Fatalf("payment status after approve = %s, want paid", paid.PaymentStatus)
	}
	if paid.PaymentReviewedBy != ownerID || paid.PaymentReviewedAt == nil {
		t.Errorf("audit fields not stamped: %+v", paid)
	}

	// Owner completes the stay.
	resp, err = ownerClient.UpdateStatus(booking.ID, "completed", "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	// Terminal: further transitions must be rejected.
	resp, err = ownerClient.UpdateStatus(booking.ID, "cancelled", "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("transition from completed status = %d, want 409", resp.StatusCode)
	}
}

func TestPaymentRequiresConfirmedBooking(t *testing.T) {
	consumerClient, _, businessClient := setup(t)

	business := createHotel(t, businessClient)
	booking := createHotelBooking(t, consumerClient, business.ID)

	resp, err := consumerClient.SubmitPayment(booking.ID, "UPI111222")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("payment on pending booking status = %d, want 409", resp.StatusCode)
	}
}

func TestListBookingsByBusiness(t *testing.T) {
	consumerClient, ownerClient, businessClient := setup(t)

	business := createHotel(t, businessClient)
	createHotelBooking(t, consumerClient, business.ID)
	createHotelBooking(t, consumerClient, business.ID)

	resp, err := ownerClient.ListByBusiness(business.ID, "pending", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	bookings, total, err := ownerClient.DecodeBookings(resp)
	if err != nil {
		t.Fatal(err)
	}
	if total < 2 || len(bookings) < 2 {
		t.Fatalf("expected at least 2 pending bookings, got %d (total %d)", len(bookings), total)
	}

	// Newest first.
	for i := 1; i < len(bookings); i++ {
		if bookings[i].CreatedAt.After(bookings[i-1].CreatedAt) {
			t.Errorf("bookings not sorted by created_at descending")
			break
		}
	}
}
