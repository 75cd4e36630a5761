package repository

import (
	"context"

	"workspace-access/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccessEventRepository stores denied access attempts.
type AccessEventRepository interface {
	Create(ctx context.Context, event *models.AccessEvent) error
	FindByWorkspaceID(ctx context.Context, workspaceID primitive.ObjectID, page, limit int) ([]models.AccessEvent, int, error)
}

type accessEventRepository struct {
	collection *mongo.Collection
}

// NewAccessEventRepository creates a new AccessEventRepository.
func NewAccessEventRepository(db *mongo.Database) AccessEventRepository {
	return &accessEventRepository{
		collection: db.Collection(CollectionAccessEvents),
	}
}

// Create inserts an access event. A preset ID is kept so retries stay idempotent.
func (r *accessEventRepository) Create(ctx context.Context, event *models.AccessEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// FindByWorkspaceID returns one page of events, newest first, and the total count.
func (r *accessEventRepository) FindByWorkspaceID(ctx context.Context, workspaceID primitive.ObjectID, page, limit int) ([]models.AccessEvent, int, error) {
	filter := bson.M{"workspaceId": workspaceID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((page - 1) * limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "occurredAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var events []models.AccessEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, err
	}

	if events == nil {
		events = []models.AccessEvent{}
	}

	return events, int(total), nil
}
