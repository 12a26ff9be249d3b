package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/errors"
	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/repository"
	apperrors "github.com/Ruthreshjp/tour-app-sub001/pkg/errors"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/sanitizer"
)

// SubmitPayment records a UPI transaction reference against a confirmed
// booking and queues it for manual verification by the owner.
func (s *bookingService) SubmitPayment(ctx context.Context, id string, actor model.Actor, transactionID string) (*model.Booking, error) {
	transactionID = sanitizer.SanitizeTransactionID(transactionID)
	if err := s.validator.ValidateTransactionID(transactionID); err != nil {
		return nil, apperrors.Validation("Invalid payment submission", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == model.RoleConsumer && actor.ID != booking.UserID {
		return nil, apperrors.Forbidden("You can only pay for your own bookings")
	}

	if booking.Status != model.StatusConfirmed {
		return nil, apperrors.InvalidOperation("Payment can only be submitted for confirmed bookings")
	}
	if !booking.PaymentStatus.CanTransitionTo(model.PaymentVerification) {
		return nil, apperrors.InvalidOperation("Payment has already been submitted or settled")
	}

	updated, err := s.repo.UpdateFields(ctx, id, repository.ExpectedState{
		Statuses:        []model.BookingStatus{model.StatusConfirmed},
		PaymentStatuses: []model.PaymentStatus{booking.PaymentStatus},
	}, bson.M{
		"payment_status": model.PaymentVerification,
		"transaction_id": transactionID,
	})
	if err != nil {
		return nil, s.translatePaymentError(err, id, updated)
	}

	s.cfg.Log.Info("Payment submitted for verification",
		"id", id,
		"transaction_id", transactionID,
	)

	s.publish(ctx, model.EventPaymentSubmitted, updated, actor)
	return updated, nil
}

// ReviewPayment settles a pending verification. Approval marks the booking
// paid and stamps the audit fields; rejection returns the payment to pending
// so the consumer can resubmit. The advisory lock keeps two reviewers from
// racing each other; the guarded update is the backstop if one slips through.
func (s *bookingService) ReviewPayment(ctx context.Context, id string, actor model.Actor, approve bool) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeReviewer(ctx, booking, actor); err != nil {
		return nil, err
	}

	if booking.PaymentStatus != model.PaymentVerification {
		return nil, apperrors.InvalidOperation("No payment is awaiting verification for this booking")
	}
	// Cancelled and declined bookings must never reach paid, even if a
	// verification was pending when the booking died.
	if booking.Status == model.StatusCancelled || booking.Status == model.StatusDeclined {
		return nil, apperrors.InvalidOperation("Payments on cancelled or declined bookings cannot be reviewed")
	}

	if _, err := s.lockRepo.Acquire(ctx, id, actor.ID); err != nil {
		if errors.Is(err, bookingserrors.ErrReviewLocked) {
			return nil, apperrors.Conflict("This payment is already being reviewed")
		}
		return nil, apperrors.Internal("Failed to acquire review lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, id); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release review lock", "id", id, "error", releaseErr)
		}
	}()

	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"payment_reviewed_at": now,
		"payment_reviewed_by": actor.ID,
	}
	eventType := model.EventPaymentVerified
	if approve {
		set["payment_status"] = model.PaymentPaid
	} else {
		set["payment_status"] = model.PaymentPending
		set["transaction_id"] = ""
		eventType = model.EventPaymentRejected
	}

	updated, err := s.repo.UpdateFields(ctx, id, repository.ExpectedState{
		Statuses:        []model.BookingStatus{model.StatusConfirmed, model.StatusCompleted},
		PaymentStatuses: []model.PaymentStatus{model.PaymentVerification},
	}, set)
	if err != nil {
		return nil, s.translatePaymentError(err, id, updated)
	}

	s.cfg.Log.Info("Payment review completed",
		"id", id,
		"approved", approve,
		"reviewed_by", actor.ID,
	)

	s.publish(ctx, eventType, updated, actor)
	return updated, nil
}

func (s *bookingService) authorizeReviewer(ctx context.Context, booking *model.Booking, actor model.Actor) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}
	if actor.Role != model.RoleBusiness {
		return apperrors.Forbidden("Only the business owner can review payments")
	}
	return s.authorizeOwner(ctx, booking, actor)
}

func (s *bookingService) translatePaymentError(err error, id string, fresh *model.Booking) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrStateConflict):
		current := "unknown"
		if fresh != nil {
			current = fresh.PaymentStatus.String()
		}
		s.cfg.Log.Warn("Payment state moved during update", "id", id, "current", current)
		return apperrors.InvalidOperation("Payment state changed, please re-check the booking")
	default:
		s.cfg.Log.Error("Failed to update payment state", "id", id, "error", err)
		return apperrors.Internal("Failed to update payment state", err)
	}
}
