package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/errors"
	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/policy"
	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/repository"
	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/validator"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
	apperrors "github.com/Ruthreshjp/tour-app-sub001/pkg/errors"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/events"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/sanitizer"
)

// BusinessDirectory resolves the listing a booking points at. The businesses
// domain implements it; the bookings domain only needs this narrow view.
type BusinessDirectory interface {
	Resolve(ctx context.Context, businessID string) (*model.Business, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByConsumer(ctx context.Context, userID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByBusiness(ctx context.Context, businessID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, target model.BookingStatus, actor model.Actor, roomNumber string) (*model.Booking, error)
	SubmitPayment(ctx context.Context, id string, actor model.Actor, transactionID string) (*model.Booking, error)
	ReviewPayment(ctx context.Context, id string, actor model.Actor, approve bool) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.ReviewLockRepository
	directory BusinessDirectory
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.ReviewLockRepository,
	directory BusinessDirectory,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		directory: directory,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)

	business, err := s.resolveBusiness(ctx, booking.BusinessID)
	if err != nil {
		return err
	}
	if !business.Active {
		return apperrors.InvalidOperation("This listing is not accepting bookings")
	}
	if business.UPIID == "" {
		return apperrors.InvalidOperation("This listing has no payment details configured")
	}

	// The listing, not the request, decides which policy applies.
	booking.BusinessType = business.BusinessType

	p, ok := policy.ForType(booking.BusinessType)
	if !ok || !p.Bookable {
		return apperrors.InvalidOperation("This listing type does not take bookings")
	}

	s.applyDefaults(booking, p)

	if err := s.validate(booking); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"business_id", booking.BusinessID,
		"business_type", booking.BusinessType,
		"status", booking.Status,
	)

	s.publish(ctx, model.EventBookingCreated, booking, model.Actor{ID: booking.UserID, Role: model.RoleConsumer})
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListByConsumer(ctx context.Context, userID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	return s.listPage(ctx,
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByUser(ctx, userID, filter)
		},
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByUser(ctx, userID, filter, limit, offset)
		},
	)
}

func (s *bookingService) ListByBusiness(ctx context.Context, businessID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if businessID == "" {
		return nil, 0, apperrors.InvalidInput("Business ID cannot be empty")
	}

	return s.listPage(ctx,
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByBusiness(ctx, businessID, filter)
		},
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByBusiness(ctx, businessID, filter, limit, offset)
		},
	)
}

func (s *bookingService) listPage(
	ctx context.Context,
	count func(context.Context) (int64, error),
	find func(context.Context) ([]*model.Booking, error),
) ([]*model.Booking, int64, error) {
	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = find(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, total, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.BookingDetails = sanitizer.SanitizeDetails(b.BookingDetails)
	b.SpecialRequests = sanitizer.NormalizeFreeText(b.SpecialRequests)
	b.RoomNumber = sanitizer.SanitizeRoomNumber(b.RoomNumber)
	b.TransactionID = sanitizer.SanitizeTransactionID(b.TransactionID)
}

func (s *bookingService) applyDefaults(b *model.Booking, p policy.Policy) {
	b.ID = ""
	b.Status = p.InitialStatus()
	b.PaymentStatus = model.PaymentPending
	b.PaymentReviewedAt = nil
	b.PaymentReviewedBy = ""

	if b.TotalAmount > 0 && b.PaymentOption != "" {
		b.Amount = p.PayableAmount(b.TotalAmount, b.PaymentOption, s.cfg.HotelAdvancePercent, s.cfg.FlatAdvanceAmount)
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) resolveBusiness(ctx context.Context, businessID string) (*model.Business, error) {
	if businessID == "" {
		return nil, apperrors.InvalidInput("Business ID cannot be empty")
	}

	business, err := s.directory.Resolve(ctx, businessID)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to resolve business", err)
	}
	return business, nil
}

func (s *bookingService) publish(ctx context.Context, eventType model.BookingEventType, b *model.Booking, actor model.Actor) {
	event := model.BookingEvent{
		Type:          eventType,
		BookingID:     b.ID,
		BusinessID:    b.BusinessID,
		UserID:        b.UserID,
		BusinessType:  b.BusinessType,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		OccurredAt:    time.Now().UTC(),
	}

	// Events are observability, not bookkeeping. A failed publish must not
	// roll back a committed transition.
	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.cfg.Log.Warn("Booking event not published",
			"event_type", eventType,
			"booking_id", b.ID,
			"error", err,
		)
	}
}
