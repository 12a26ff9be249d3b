package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/errors"
	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/repository"
	apperrors "github.com/Ruthreshjp/tour-app-sub001/pkg/errors"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/sanitizer"
)

var lifecycleEvents = map[model.BookingStatus]model.BookingEventType{
	model.StatusConfirmed: model.EventBookingConfirmed,
	model.StatusDeclined:  model.EventBookingDeclined,
	model.StatusCancelled: model.EventBookingCancelled,
	model.StatusCompleted: model.EventBookingCompleted,
}

// UpdateStatus moves a booking along the lifecycle axis. The write is guarded
// on the status we read, so two racing updates cannot both win.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, target model.BookingStatus, actor model.Actor, roomNumber string) (*model.Booking, error) {
	if !target.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", target))
	}
	if _, ok := lifecycleEvents[target]; !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Bookings cannot be moved to %s directly", target))
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeStatusChange(ctx, booking, target, actor); err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(target) {
		return nil, apperrors.InvalidTransition(booking.Status.String(), target.String())
	}

	set := bson.M{"status": target}

	if target == model.StatusConfirmed && booking.BusinessType == model.TypeHotel {
		roomNumber = sanitizer.SanitizeRoomNumber(roomNumber)
		if roomNumber == "" {
			return nil, apperrors.MissingRoomNumber()
		}
		set["room_number"] = roomNumber
	}

	updated, err := s.repo.UpdateFields(ctx, id, repository.ExpectedState{
		Statuses: []model.BookingStatus{booking.Status},
	}, set)
	if err != nil {
		return nil, s.translateUpdateError(err, id, updated, target)
	}

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", booking.Status,
		"to", target,
		"actor_role", actor.Role,
	)

	s.publish(ctx, lifecycleEvents[target], updated, actor)
	return updated, nil
}

// authorizeStatusChange enforces who may drive each transition: owners accept,
// decline and complete; consumers cancel their own bookings; owners may cancel
// too; admins may do anything.
func (s *bookingService) authorizeStatusChange(ctx context.Context, booking *model.Booking, target model.BookingStatus, actor model.Actor) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}

	switch target {
	case model.StatusConfirmed, model.StatusDeclined, model.StatusCompleted:
		if actor.Role != model.RoleBusiness {
			return apperrors.Forbidden("Only the business owner can perform this action")
		}
		return s.authorizeOwner(ctx, booking, actor)

	case model.StatusCancelled:
		switch actor.Role {
		case model.RoleConsumer:
			if actor.ID != booking.UserID {
				return apperrors.Forbidden("You can only cancel your own bookings")
			}
			return nil
		case model.RoleBusiness:
			return s.authorizeOwner(ctx, booking, actor)
		default:
			return apperrors.Forbidden("Unknown actor role")
		}

	default:
		return apperrors.Forbidden("This transition cannot be requested directly")
	}
}

func (s *bookingService) authorizeOwner(ctx context.Context, booking *model.Booking, actor model.Actor) error {
	business, err := s.directory.Resolve(ctx, booking.BusinessID)
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("Failed to resolve business for authorization", err)
	}
	if business.OwnerID != actor.ID {
		return apperrors.Forbidden("You do not own this listing")
	}
	return nil
}

// translateUpdateError maps repository sentinels to the API error taxonomy.
// On a state conflict the repository hands back the fresh document so the
// message names the state that actually won.
func (s *bookingService) translateUpdateError(err error, id string, fresh *model.Booking, target model.BookingStatus) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrStateConflict):
		from := "unknown"
		if fresh != nil {
			from = fresh.Status.String()
		}
		s.cfg.Log.Warn("Booking state moved during update", "id", id, "current", from, "target", target)
		return apperrors.InvalidTransition(from, target.String())
	default:
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking", err)
	}
}
