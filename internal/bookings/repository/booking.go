package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/errors"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
	mongotx "github.com/Ruthreshjp/tour-app-sub001/pkg/db/mongo"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByUser(ctx context.Context, userID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	FindByBusiness(ctx context.Context, businessID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	CountByUser(ctx context.Context, userID string, filter model.BookingFilter) (int64, error)
	CountByBusiness(ctx context.Context, businessID string, filter model.BookingFilter) (int64, error)
	UpdateFields(ctx context.Context, id string, expected ExpectedState, set bson.M) (*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// ExpectedState is the precondition for a guarded update. Empty slices mean
// "any value" along that axis.
type ExpectedState struct {
	Statuses        []model.BookingStatus
	PaymentStatuses []model.PaymentStatus
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var booking model.Booking
	err = r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByUser(ctx context.Context, userID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return r.findPage(ctx, r.buildListFilter("user_id", userID, filter), limit, offset)
}

func (r *mongoBookingRepository) FindByBusiness(ctx context.Context, businessID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return r.findPage(ctx, r.buildListFilter("business_id", businessID, filter), limit, offset)
}

func (r *mongoBookingRepository) findPage(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Newest first: consumers and owners both read their recent activity.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByUser(ctx context.Context, userID string, filter model.BookingFilter) (int64, error) {
	return r.count(ctx, r.buildListFilter("user_id", userID, filter))
}

func (r *mongoBookingRepository) CountByBusiness(ctx context.Context, businessID string, filter model.BookingFilter) (int64, error) {
	return r.count(ctx, r.buildListFilter("business_id", businessID, filter))
}

func (r *mongoBookingRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) buildListFilter(ownerField, ownerID string, f model.BookingFilter) bson.M {
	filter := bson.M{ownerField: ownerID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter["payment_status"] = f.PaymentStatus
	}
	return filter
}

// UpdateFields applies a $set patch only if the document still holds one of
// the expected statuses. A matched-but-unmodified outcome is impossible here:
// either the filter matched and the patch applied, or we re-fetch to decide
// between not-found and a concurrent state change.
func (r *mongoBookingRepository) UpdateFields(ctx context.Context, id string, expected ExpectedState, set bson.M) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	if len(expected.Statuses) > 0 {
		filter["status"] = bson.M{"$in": expected.Statuses}
	}
	if len(expected.PaymentStatuses) > 0 {
		filter["payment_status"] = bson.M{"$in": expected.PaymentStatuses}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Booking
	err = r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	// Guard failed. Distinguish a missing document from one whose status
	// moved between our read and this write.
	var current model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&current)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &current, bookingserrors.ErrStateConflict
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
