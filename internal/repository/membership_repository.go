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

// MembershipRepository defines the interface for membership data operations.
type MembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	FindByWorkspaceAndUser(ctx context.Context, workspaceID, userID primitive.ObjectID) (*models.Membership, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error)
	FindByWorkspaceID(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Membership, error)
	UpdateGrants(ctx context.Context, workspaceID, userID primitive.ObjectID, modules, permissions []string) error
	UpdateRole(ctx context.Context, workspaceID, userID primitive.ObjectID, role string) error
	Delete(ctx context.Context, workspaceID, userID primitive.ObjectID) error
}

type membershipRepository struct {
	collection *mongo.Collection
}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(db *mongo.Database) MembershipRepository {
	return &membershipRepository{
		collection: db.Collection(CollectionMemberships),
	}
}

// Create inserts a membership. Grant arrays are stored as empty arrays, never null.
func (r *membershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	membership.ID = primitive.NewObjectID()
	now := time.Now()
	membership.JoinedAt = now
	membership.UpdatedAt = now
	if membership.Modules == nil {
		membership.Modules = []string{}
	}
	if membership.Permissions == nil {
		membership.Permissions = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, membership); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// FindByWorkspaceAndUser returns ErrNotWorkspaceMember when no membership exists.
func (r *membershipRepository) FindByWorkspaceAndUser(ctx context.Context, workspaceID, userID primitive.ObjectID) (*models.Membership, error) {
	var membership models.Membership
	err := r.collection.FindOne(ctx, bson.M{"workspaceId": workspaceID, "userId": userID}).Decode(&membership)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotWorkspaceMember
		}
		return nil, err
	}
	return &membership, nil
}

// FindByUserID returns every membership of a user.
func (r *membershipRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// FindByWorkspaceID returns every membership in a workspace.
func (r *membershipRepository) FindByWorkspaceID(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Membership, error) {
	return r.find(ctx, bson.M{"workspaceId": workspaceID})
}

func (r *membershipRepository) find(ctx context.Context, filter bson.M) ([]models.Membership, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var memberships []models.Membership
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}

	if memberships == nil {
		memberships = []models.Membership{}
	}

	return memberships, nil
}

// UpdateGrants replaces the membership's modules and permissions wholesale.
func (r *membershipRepository) UpdateGrants(ctx context.Context, workspaceID, userID primitive.ObjectID, modules, permissions []string) error {
	if modules == nil {
		modules = []string{}
	}
	if permissions == nil {
		permissions = []string{}
	}

	return r.update(ctx, workspaceID, userID, bson.M{
		"modules":     modules,
		"permissions": permissions,
	})
}

// UpdateRole changes the membership's role.
func (r *membershipRepository) UpdateRole(ctx context.Context, workspaceID, userID primitive.ObjectID, role string) error {
	return r.update(ctx, workspaceID, userID, bson.M{"role": role})
}

func (r *membershipRepository) update(ctx context.Context, workspaceID, userID primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"workspaceId": workspaceID, "userId": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrNotWorkspaceMember
	}

	return nil
}

// Delete removes a membership.
func (r *membershipRepository) Delete(ctx context.Context, workspaceID, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"workspaceId": workspaceID, "userId": userID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrNotWorkspaceMember
	}

	return nil
}
