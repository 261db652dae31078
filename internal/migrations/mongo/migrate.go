package mongo

import (
	"context"
	"fmt"

	"bouncely/internal/migrations/mongo/validators"
	notificationsrepo "bouncely/internal/notifications/repository"
	reservationsrepo "bouncely/internal/reservations/repository"
	"bouncely/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ReservationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "status_changed_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "end_date", Value: 1}}},
		{Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "created_date", Value: -1}}},
		{Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "created_date", Value: -1}}},
		{
			Keys:    bson.D{{Key: "payment_reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"payment_reference": bson.M{"$type": "string"}}),
		},
	}

	ReservationTransitionsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "reservation_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
	}

	NotificationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists everything the migration owns. Listings and Users belong
// to the marketplace and are only read here.
func Collections() map[string]collectionDef {
	return map[string]collectionDef{
		reservationsrepo.CollectionName: {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		reservationsrepo.TransitionsCollectionName: {
			Indexes:   ReservationTransitionsIndexes,
			Validator: validators.ReservationTransitionValidator,
		},
		notificationsrepo.CollectionName: {
			Indexes:   NotificationsIndexes,
			Validator: validators.NotificationValidator,
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All Mongo migrations applied")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
