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

	businesserrors "github.com/Ruthreshjp/tour-app-sub001/internal/businesses/errors"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

const (
	CollectionName = "Businesses"
)

type mongoBusinessRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	FindByID(ctx context.Context, id string) (*model.Business, error)
	FindByCity(ctx context.Context, city string, businessType model.BusinessType, limit int, offset int64) ([]*model.Business, error)
	CountByCity(ctx context.Context, city string, businessType model.BusinessType) (int64, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Business, error)
	Update(ctx context.Context, id string, set bson.M) (*model.Business, error)
}

func NewMongoBusinessRepository(cfg *config.Config) BusinessRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBusinessRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBusinessRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBusinessRepository) Create(ctx context.Context, business *model.Business) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	business.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, business)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		business.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBusinessRepository) FindByID(ctx context.Context, id string) (*model.Business, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", businesserrors.ErrInvalidID, id)
	}

	var business model.Business
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&business)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, businesserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find business: %w", err)
	}

	return &business, nil
}

func (r *mongoBusinessRepository) FindByCity(ctx context.Context, city string, businessType model.BusinessType, limit int, offset int64) ([]*model.Business, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, r.buildCityFilter(city, businessType), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []*model.Business
	if err = cursor.All(ctx, &businesses); err != nil {
		return nil, fmt.Errorf("failed to decode businesses: %w", err)
	}

	return businesses, nil
}

func (r *mongoBusinessRepository) CountByCity(ctx context.Context, city string, businessType model.BusinessType) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, r.buildCityFilter(city, businessType))
	if err != nil {
		return 0, fmt.Errorf("failed to count businesses: %w", err)
	}
	return count, nil
}

func (r *mongoBusinessRepository) buildCityFilter(city string, businessType model.BusinessType) bson.M {
	filter := bson.M{"city": city, "active": true}
	if businessType != "" {
		filter["business_type"] = businessType
	}
	return filter
}

func (r *mongoBusinessRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Business, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to find businesses by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []*model.Business
	if err = cursor.All(ctx, &businesses); err != nil {
		return nil, fmt.Errorf("failed to decode businesses: %w", err)
	}

	return businesses, nil
}

func (r *mongoBusinessRepository) Update(ctx context.Context, id string, set bson.M) (*model.Business, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", businesserrors.ErrInvalidID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Business
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, businesserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update business: %w", err)
	}

	return &updated, nil
}
