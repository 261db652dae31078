package repository

import (
	"context"
	"fmt"

	"bouncely/pkg/config"
	mongotx "bouncely/pkg/db/mongo"
	"bouncely/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Notifications"

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error)
}

type mongoNotificationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoNotificationRepository(cfg *config.Config) NotificationRepository {
	return &mongoNotificationRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	notification.ID = ""
	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		notification.ID = oid.Hex()
	}
	return nil
}

func (r *mongoNotificationRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []*model.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}
