package repository

import (
	"context"
	"errors"
	"time"

	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WorkspaceRepository defines the interface for workspace data operations.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *models.Workspace) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Workspace, error)
	Update(ctx context.Context, id primitive.ObjectID, req *models.UpdateWorkspaceRequest) (*models.Workspace, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type workspaceRepository struct {
	collection *mongo.Collection
}

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository(db *mongo.Database) WorkspaceRepository {
	return &workspaceRepository{
		collection: db.Collection(CollectionWorkspaces),
	}
}

// Create inserts a workspace. Slugs are unique.
func (r *workspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": workspace.Slug})
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrWorkspaceSlugTaken
	}

	workspace.ID = primitive.NewObjectID()
	now := time.Now()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workspace); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrWorkspaceSlugTaken
		}
		return err
	}
	return nil
}

// FindByID returns a workspace by ID.
func (r *workspaceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workspace)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// FindByIDs returns the workspaces matching ids.
func (r *workspaceRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Workspace, error) {
	if len(ids) == 0 {
		return []models.Workspace{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workspaces []models.Workspace
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, err
	}

	if workspaces == nil {
		workspaces = []models.Workspace{}
	}

	return workspaces, nil
}

// Update applies the non-nil fields of req.
func (r *workspaceRepository) Update(ctx context.Context, id primitive.ObjectID, req *models.UpdateWorkspaceRequest) (*models.Workspace, error) {
	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.GSTNumber != nil {
		set["gstNumber"] = *req.GSTNumber
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.ErrWorkspaceNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a workspace and frees its slug.
func (r *workspaceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrWorkspaceNotFound
	}
	return nil
}
