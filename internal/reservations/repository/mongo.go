package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "bouncely/internal/reservations/errors"
	"bouncely/pkg/config"
	mongotx "bouncely/pkg/db/mongo"
	"bouncely/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName            = "Reservations"
	TransitionsCollectionName = "ReservationTransitions"
)

type mongoReservationRepository struct {
	cfg         *config.Config
	db          *mongo.Database
	collection  *mongo.Collection
	transitions *mongo.Collection
	txManager   mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:         cfg,
		db:          db,
		collection:  db.Collection(CollectionName),
		transitions: db.Collection(TransitionsCollectionName),
		txManager:   mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.ID = ""
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) FindByParticipant(ctx context.Context, filter ParticipantFilter, limit int, offset int64) ([]*model.Reservation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_date", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, participantFilter(filter), opts)
}

func (r *mongoReservationRepository) CountByParticipant(ctx context.Context, filter ParticipantFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, participantFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) ListByStatus(ctx context.Context, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, bson.M{"status": status}, opts)
}

func (r *mongoReservationRepository) ListAwaitingPaymentBefore(ctx context.Context, cutoff time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	filter := bson.M{
		"status":            model.StatusAwaitingPayment,
		"status_changed_at": bson.M{"$lte": cutoff},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "status_changed_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, filter, opts)
}

func (r *mongoReservationRepository) ListConfirmedEndedBefore(ctx context.Context, now time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	filter := bson.M{
		"status":   model.StatusConfirmed,
		"end_date": bson.M{"$lt": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "end_date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, filter, opts)
}

func (r *mongoReservationRepository) CompareAndSetStatus(ctx context.Context, id string, from model.ReservationStatus, change model.StatusChange) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	return r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		result, err := r.collection.UpdateOne(sessCtx,
			bson.M{"_id": objectID, "status": from},
			bson.M{"$set": statusChangeSet(change)},
		)
		if err != nil {
			return fmt.Errorf("failed to update reservation status: %w", err)
		}

		if result.MatchedCount == 0 {
			count, err := r.collection.CountDocuments(sessCtx, bson.M{"_id": objectID})
			if err != nil {
				return fmt.Errorf("failed to check reservation existence: %w", err)
			}
			if count == 0 {
				return reservationserrors.ErrNotFound
			}
			return fmt.Errorf("%w: expected %s", reservationserrors.ErrStatusConflict, from)
		}

		transition := model.ReservationTransition{
			ReservationID: id,
			From:          from,
			To:            change.To,
			Action:        change.Action,
			ActorID:       change.ActorID,
			OccurredAt:    change.At,
		}
		if _, err := r.transitions.InsertOne(sessCtx, transition); err != nil {
			return fmt.Errorf("failed to record reservation transition: %w", err)
		}
		return nil
	})
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []*model.Reservation{}
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func participantFilter(filter ParticipantFilter) bson.M {
	key := "guest_id"
	if filter.Role == ParticipantHost {
		key = "host_id"
	}

	query := bson.M{key: filter.UserID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

func statusChangeSet(change model.StatusChange) bson.M {
	set := bson.M{
		"status":            change.To,
		"status_changed_at": change.At,
	}
	switch change.To {
	case model.StatusConfirmed:
		set["confirmed_at"] = change.At
		if change.PaymentReference != "" {
			set["payment_reference"] = change.PaymentReference
		}
	case model.StatusCancelled:
		set["cancelled_by"] = change.ActorID
	}
	return set
}
