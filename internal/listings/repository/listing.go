package repository

import (
	"context"
	"errors"
	"fmt"

	"bouncely/pkg/config"
	mongotx "bouncely/pkg/db/mongo"
	"bouncely/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Listings"

var (
	ErrNotFound  = errors.New("listing not found")
	ErrInvalidID = errors.New("invalid listing ID format")
)

// ListingRepository reads listings owned by the catalogue. Reservations never
// write to it.
type ListingRepository interface {
	FindByID(ctx context.Context, id string) (*model.Listing, error)
}

type mongoListingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoListingRepository(cfg *config.Config) ListingRepository {
	return &mongoListingRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoListingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var listing model.Listing
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return &listing, nil
}
