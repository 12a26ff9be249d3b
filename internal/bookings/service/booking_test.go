package service

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/errors"
	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/repository"
	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/validator"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
	mongotx "github.com/Ruthreshjp/tour-app-sub001/pkg/db/mongo"
	apperrors "github.com/Ruthreshjp/tour-app-sub001/pkg/errors"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

const (
	testBookingID  = "64b2f0a1c9e77a0001a1b2c3"
	testBusinessID = "64b2f0a1c9e77a0001a1b2c4"
	testOwnerID    = "owner-1"
	testUserID     = "user-1"
)

// --- fakes ---

type fakeRepo struct {
	createFn       func(ctx context.Context, booking *model.Booking) error
	findByIDFn     func(ctx context.Context, id string) (*model.Booking, error)
	updateFieldsFn func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error)
}

func (f *fakeRepo) Create(ctx context.Context, booking *model.Booking) error {
	return f.createFn(ctx, booking)
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepo) FindByUser(ctx context.Context, userID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (f *fakeRepo) FindByBusiness(ctx context.Context, businessID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (f *fakeRepo) CountByUser(ctx context.Context, userID string, filter model.BookingFilter) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) CountByBusiness(ctx context.Context, businessID string, filter model.BookingFilter) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) UpdateFields(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
	return f.updateFieldsFn(ctx, id, expected, set)
}

func (f *fakeRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type fakeLockRepo struct {
	acquireFn func(ctx context.Context, bookingID, ownerID string) (*model.ReviewLock, error)
	releaseFn func(ctx context.Context, bookingID string) error
}

func (f *fakeLockRepo) Acquire(ctx context.Context, bookingID, ownerID string) (*model.ReviewLock, error) {
	if f.acquireFn != nil {
		return f.acquireFn(ctx, bookingID, ownerID)
	}
	return &model.ReviewLock{ID: bookingID, OwnerID: ownerID}, nil
}

func (f *fakeLockRepo) Release(ctx context.Context, bookingID string) error {
	if f.releaseFn != nil {
		return f.releaseFn(ctx, bookingID)
	}
	return nil
}

type fakeDirectory struct {
	resolveFn func(ctx context.Context, businessID string) (*model.Business, error)
}

func (f *fakeDirectory) Resolve(ctx context.Context, businessID string) (*model.Business, error) {
	return f.resolveFn(ctx, businessID)
}

type capturePublisher struct {
	events []model.BookingEvent
}

func (c *capturePublisher) PublishBookingEvent(ctx context.Context, event model.BookingEvent) error {
	c.events = append(c.events, event)
	return nil
}

// --- harness ---

type harness struct {
	repo      *fakeRepo
	lockRepo  *fakeLockRepo
	directory *fakeDirectory
	publisher *capturePublisher
	svc       BookingService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
	cfg := &config.Config{
		Log:                 log,
		HotelAdvancePercent: 10,
		FlatAdvanceAmount:   200,
	}

	h := &harness{
		repo:      &fakeRepo{},
		lockRepo:  &fakeLockRepo{},
		publisher: &capturePublisher{},
		directory: &fakeDirectory{
			resolveFn: func(ctx context.Context, businessID string) (*model.Business, error) {
				return activeHotel(), nil
			},
		},
	}
	h.svc = NewBookingService(h.repo, h.lockRepo, h.directory, validator.NewBookingValidator(log), h.publisher, cfg)
	return h
}

func activeHotel() *model.Business {
	return &model.Business{
		ID:           testBusinessID,
		OwnerID:      testOwnerID,
		Name:         "Hill View Rooms",
		BusinessType: model.TypeHotel,
		UPIID:        "hillview@okaxis",
		City:         "Ooty",
		Active:       true,
	}
}

func hotelBookingRequest() *model.Booking {
	return &model.Booking{
		BusinessID:   testBusinessID,
		UserID:       testUserID,
		BusinessType: model.TypeHotel,
		BookingDetails: map[string]string{
			"checkIn":  "2025-06-01",
			"checkOut": "2025-06-03",
			"roomType": "deluxe",
			"guests":   "2",
		},
		TotalAmount:   15000,
		PaymentOption: model.PayAdvance,
	}
}

func storedBooking(status model.BookingStatus, payment model.PaymentStatus) *model.Booking {
	b := hotelBookingRequest()
	b.ID = testBookingID
	b.Status = status
	b.PaymentStatus = payment
	b.Amount = 1500
	return b
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

// --- create ---

func TestCreateHotelBookingStartsPending(t *testing.T) {
	h := newHarness(t)

	var created *model.Booking
	h.repo.createFn = func(ctx context.Context, booking *model.Booking) error {
		booking.ID = testBookingID
		created = booking
		return nil
	}

	if err := h.svc.Create(context.Background(), hotelBookingRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != model.StatusPending {
		t.Errorf("hotel booking status = %s, want %s", created.Status, model.StatusPending)
	}
	if created.PaymentStatus != model.PaymentPending {
		t.Errorf("payment status = %s, want %s", created.PaymentStatus, model.PaymentPending)
	}
	if created.Amount != 1500 {
		t.Errorf("advance amount = %v, want 1500", created.Amount)
	}

	if len(h.publisher.events) != 1 || h.publisher.events[0].Type != model.EventBookingCreated {
		t.Errorf("expected a single booking.created event, got %+v", h.publisher.events)
	}
}

func TestCreateRestaurantBookingAutoConfirms(t *testing.T) {
	h := newHarness(t)
	h.directory.resolveFn = func(ctx context.Context, businessID string) (*model.Business, error) {
		b := activeHotel()
		b.BusinessType = model.TypeRestaurant
		return b, nil
	}

	var created *model.Booking
	h.repo.createFn = func(ctx context.Context, booking *model.Booking) error {
		booking.ID = testBookingID
		created = booking
		return nil
	}

	req := hotelBookingRequest()
	req.BookingDetails = map[string]string{
		"reservationDate": "2025-06-01",
		"reservationTime": "19:30",
		"tableType":       "family",
		"numberOfGuests":  "4",
	}
	req.TotalAmount = 2000

	if err := h.svc.Create(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != model.StatusConfirmed {
		t.Errorf("restaurant booking status = %s, want %s", created.Status, model.StatusConfirmed)
	}
	if created.BusinessType != model.TypeRestaurant {
		t.Errorf("business type not taken from listing: %s", created.BusinessType)
	}
	if created.Amount != 200 {
		t.Errorf("flat advance = %v, want 200", created.Amount)
	}
}

func TestCreateRejectsInactiveListing(t *testing.T) {
	h := newHarness(t)
	h.directory.resolveFn = func(ctx context.Context, businessID string) (*model.Business, error) {
		b := activeHotel()
		b.Active = false
		return b, nil
	}

	err := h.svc.Create(context.Background(), hotelBookingRequest())
	wantCode(t, err, apperrors.CodeInvalidOperation)
}

func TestCreateRejectsShoppingListing(t *testing.T) {
	h := newHarness(t)
	h.directory.resolveFn = func(ctx context.Context, businessID string) (*model.Business, error) {
		b := activeHotel()
		b.BusinessType = model.TypeShopping
		return b, nil
	}

	err := h.svc.Create(context.Background(), hotelBookingRequest())
	wantCode(t, err, apperrors.CodeInvalidOperation)
}

func TestCreateRejectsIncompleteDetails(t *testing.T) {
	h := newHarness(t)

	req := hotelBookingRequest()
	delete(req.BookingDetails, "checkOut")

	err := h.svc.Create(context.Background(), req)
	wantCode(t, err, apperrors.CodeValidation)
}

// --- lifecycle ---

func TestAcceptHotelBookingRequiresRoomNumber(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusPending, model.PaymentPending), nil
	}

	actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
	_, err := h.svc.UpdateStatus(context.Background(), testBookingID, model.StatusConfirmed, actor, "")
	wantCode(t, err, apperrors.CodeValidation)

	h.repo.updateFieldsFn = func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
		if set["room_number"] != "A-204" {
			t.Errorf("room_number not set: %+v", set)
		}
		updated := storedBooking(model.StatusConfirmed, model.PaymentPending)
		updated.RoomNumber = "A-204"
		return updated, nil
	}

	updated, err := h.svc.UpdateStatus(context.Background(), testBookingID, model.StatusConfirmed, actor, "A-204")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}
	if got := h.publisher.events[len(h.publisher.events)-1].Type; got != model.EventBookingConfirmed {
		t.Errorf("event = %s, want booking.confirmed", got)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   model.BookingStatus
		target model.BookingStatus
	}{
		{"cancelled is terminal", model.StatusCancelled, model.StatusConfirmed},
		{"declined is terminal", model.StatusDeclined, model.StatusConfirmed},
		{"completed is terminal", model.StatusCompleted, model.StatusCancelled},
		{"pending cannot complete", model.StatusPending, model.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
				return storedBooking(tt.from, model.PaymentPending), nil
			}

			actor := model.Actor{ID: testOwnerID, Role: model.RoleAdmin}
			_, err := h.svc.UpdateStatus(context.Background(), testBookingID, tt.target, actor, "204")
			wantCode(t, err, apperrors.CodeInvalidTransition)
		})
	}
}

func TestConsumerCanOnlyCancelOwnBooking(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusPending, model.PaymentPending), nil
	}

	actor := model.Actor{ID: "someone-else", Role: model.RoleConsumer}
	_, err := h.svc.UpdateStatus(context.Background(), testBookingID, model.StatusCancelled, actor, "")
	wantCode(t, err, apperrors.CodeForbidden)
}

func TestConsumerCannotAcceptBooking(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusPending, model.PaymentPending), nil
	}

	actor := model.Actor{ID: testUserID, Role: model.RoleConsumer}
	_, err := h.svc.UpdateStatus(context.Background(), testBookingID, model.StatusConfirmed, actor, "204")
	wantCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateStatusLosesRaceToConcurrentWriter(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusPending, model.PaymentPending), nil
	}
	h.repo.updateFieldsFn = func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
		// Another writer moved the booking to cancelled between read and write.
		return storedBooking(model.StatusCancelled, model.PaymentPending), bookingserrors.ErrStateConflict
	}

	actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
	_, err := h.svc.UpdateStatus(context.Background(), testBookingID, model.StatusConfirmed, actor, "204")
	wantCode(t, err, apperrors.CodeInvalidTransition)

	if len(h.publisher.events) != 0 {
		t.Errorf("no event must be published for a lost race, got %+v", h.publisher.events)
	}
}

// --- payment ---

func TestSubmitPaymentRequiresConfirmedBooking(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusPending, model.PaymentPending), nil
	}

	actor := model.Actor{ID: testUserID, Role: model.RoleConsumer}
	_, err := h.svc.SubmitPayment(context.Background(), testBookingID, actor, "UPI123")
	wantCode(t, err, apperrors.CodeInvalidOperation)
}

func TestSubmitPaymentMovesToVerification(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentPending), nil
	}
	h.repo.updateFieldsFn = func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
		if set["payment_status"] != model.PaymentVerification {
			t.Errorf("payment_status = %v, want pending_verification", set["payment_status"])
		}
		if set["transaction_id"] != "UPI123456" {
			t.Errorf("transaction_id = %v, want sanitized UPI123456", set["transaction_id"])
		}
		updated := storedBooking(model.StatusConfirmed, model.PaymentVerification)
		updated.TransactionID = "UPI123456"
		return updated, nil
	}

	actor := model.Actor{ID: testUserID, Role: model.RoleConsumer}
	updated, err := h.svc.SubmitPayment(context.Background(), testBookingID, actor, " upi-1234/56 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != model.PaymentVerification {
		t.Errorf("payment status = %s", updated.PaymentStatus)
	}
	if got := h.publisher.events[len(h.publisher.events)-1].Type; got != model.EventPaymentSubmitted {
		t.Errorf("event = %s, want payment.submitted", got)
	}
}

func TestSubmitPaymentRejectsDoubleSubmission(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentPaid), nil
	}

	actor := model.Actor{ID: testUserID, Role: model.RoleConsumer}
	_, err := h.svc.SubmitPayment(context.Background(), testBookingID, actor, "UPI123")
	wantCode(t, err, apperrors.CodeInvalidOperation)
}

func TestReviewPaymentApproveMarksPaidWithAudit(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentVerification), nil
	}
	h.repo.updateFieldsFn = func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
		if set["payment_status"] != model.PaymentPaid {
			t.Errorf("payment_status = %v, want paid", set["payment_status"])
		}
		if set["payment_reviewed_by"] != testOwnerID {
			t.Errorf("payment_reviewed_by = %v, want %s", set["payment_reviewed_by"], testOwnerID)
		}
		if _, ok := set["payment_reviewed_at"]; !ok {
			t.Error("payment_reviewed_at not stamped")
		}
		return storedBooking(model.StatusConfirmed, model.PaymentPaid), nil
	}

	actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
	updated, err := h.svc.ReviewPayment(context.Background(), testBookingID, actor, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != model.PaymentPaid {
		t.Errorf("payment status = %s, want paid", updated.PaymentStatus)
	}
	if got := h.publisher.events[len(h.publisher.events)-1].Type; got != model.EventPaymentVerified {
		t.Errorf("event = %s, want payment.verified", got)
	}
}

func TestReviewPaymentRejectReturnsToPending(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentVerification), nil
	}
	h.repo.updateFieldsFn = func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
		if set["payment_status"] != model.PaymentPending {
			t.Errorf("payment_status = %v, want pending", set["payment_status"])
		}
		if set["transaction_id"] != "" {
			t.Errorf("transaction_id must be cleared on reject, got %v", set["transaction_id"])
		}
		return storedBooking(model.StatusConfirmed, model.PaymentPending), nil
	}

	actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
	_, err := h.svc.ReviewPayment(context.Background(), testBookingID, actor, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := h.publisher.events[len(h.publisher.events)-1].Type; got != model.EventPaymentRejected {
		t.Errorf("event = %s, want payment.rejected", got)
	}
}

func TestReviewPaymentRequiresPendingVerification(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentPending), nil
	}

	actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
	_, err := h.svc.ReviewPayment(context.Background(), testBookingID, actor, true)
	wantCode(t, err, apperrors.CodeInvalidOperation)
}

func TestReviewPaymentRejectedForDeadBookings(t *testing.T) {
	for _, status := range []model.BookingStatus{model.StatusCancelled, model.StatusDeclined} {
		h := newHarness(t)
		h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(status, model.PaymentVerification), nil
		}
		h.repo.updateFieldsFn = func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
			t.Errorf("review of a %s booking must not reach the repository", status)
			return nil, nil
		}

		actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
		_, err := h.svc.ReviewPayment(context.Background(), testBookingID, actor, true)
		wantCode(t, err, apperrors.CodeInvalidOperation)

		if len(h.publisher.events) != 0 {
			t.Errorf("no event must be published for a %s booking, got %+v", status, h.publisher.events)
		}
	}
}

func TestReviewPaymentGuardsBookingStatus(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentVerification), nil
	}
	h.repo.updateFieldsFn = func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
		if len(expected.Statuses) == 0 {
			t.Error("guarded update must pin the booking status")
		}
		for _, s := range expected.Statuses {
			if s == model.StatusCancelled || s == model.StatusDeclined {
				t.Errorf("guarded update must not accept %s, expected statuses = %v", s, expected.Statuses)
			}
		}
		// The booking was cancelled between the read and the write.
		return storedBooking(model.StatusCancelled, model.PaymentVerification), bookingserrors.ErrStateConflict
	}

	actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
	_, err := h.svc.ReviewPayment(context.Background(), testBookingID, actor, true)
	wantCode(t, err, apperrors.CodeInvalidOperation)

	if len(h.publisher.events) != 0 {
		t.Errorf("no event must be published when the booking died mid-review, got %+v", h.publisher.events)
	}
}

func TestReviewPaymentBlockedByActiveLock(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentVerification), nil
	}
	h.lockRepo.acquireFn = func(ctx context.Context, bookingID, ownerID string) (*model.ReviewLock, error) {
		return nil, bookingserrors.ErrReviewLocked
	}

	actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
	_, err := h.svc.ReviewPayment(context.Background(), testBookingID, actor, true)
	wantCode(t, err, apperrors.CodeConflict)
}

func TestReviewPaymentDoubleReviewLosesGuard(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentVerification), nil
	}
	h.repo.updateFieldsFn = func(ctx context.Context, id string, expected repository.ExpectedState, set bson.M) (*model.Booking, error) {
		// A first reviewer already settled the payment.
		return storedBooking(model.StatusConfirmed, model.PaymentPaid), bookingserrors.ErrStateConflict
	}

	actor := model.Actor{ID: testOwnerID, Role: model.RoleBusiness}
	_, err := h.svc.ReviewPayment(context.Background(), testBookingID, actor, true)
	wantCode(t, err, apperrors.CodeInvalidOperation)

	if len(h.publisher.events) != 0 {
		t.Errorf("no event must be published for a lost review race, got %+v", h.publisher.events)
	}
}

func TestReviewPaymentForbiddenForConsumer(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentVerification), nil
	}

	actor := model.Actor{ID: testUserID, Role: model.RoleConsumer}
	_, err := h.svc.ReviewPayment(context.Background(), testBookingID, actor, true)
	wantCode(t, err, apperrors.CodeForbidden)
}

func TestSubmitPaymentValidatesTransactionID(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.StatusConfirmed, model.PaymentPending), nil
	}

	actor := model.Actor{ID: testUserID, Role: model.RoleConsumer}

	_, err := h.svc.SubmitPayment(context.Background(), testBookingID, actor, "   ")
	wantCode(t, err, apperrors.CodeValidation)

	_, err = h.svc.SubmitPayment(context.Background(), testBookingID, actor, strings.Repeat("A", 80))
	wantCode(t, err, apperrors.CodeValidation)
}
