package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/errors"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

// ReviewLockRepository provides operations for advisory payment-review locks
type ReviewLockRepository interface {
	Acquire(ctx context.Context, bookingID, ownerID string) (*model.ReviewLock, error)
	Release(ctx context.Context, bookingID string) error
}

type mongoReviewLockRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
}

func NewReviewLockRepository(cfg *config.Config) ReviewLockRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoReviewLockRepository{
		collection: db.Collection("Review_locks"),
		ttl:        cfg.ReviewLockTTL,
	}
}

// Acquire inserts the lock document. A duplicate key error means another
// reviewer holds the lock.
func (r *mongoReviewLockRepository) Acquire(ctx context.Context, bookingID, ownerID string) (*model.ReviewLock, error) {
	now := time.Now()
	lock := &model.ReviewLock{
		ID:        bookingID,
		OwnerID:   ownerID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrReviewLocked
		}
		return nil, err
	}

	return lock, nil
}

// Release removes an advisory lock
func (r *mongoReviewLockRepository) Release(ctx context.Context, bookingID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": bookingID})
	return err
}
