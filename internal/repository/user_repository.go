// Package repository provides data access operations for the application.
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

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mocks workspace-access/internal/repository UserRepository,RefreshTokenRepository,WorkspaceRepository,MembershipRepository,AccessEventRepository

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SetSelectedWorkspace(ctx context.Context, id, workspaceID primitive.ObjectID) error
}

// userRepository implements UserRepository using MongoDB.
type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		collection: db.Collection(CollectionUsers),
	}
}

// Create inserts a new user. The email must not be registered yet.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	existing, _ := r.FindByEmail(ctx, user.Email)
	if existing != nil {
		return apperrors.ErrUserAlreadyExists
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrUserAlreadyExists
		}
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail finds a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns the users matching ids. Unknown ids are skipped.
func (r *userRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	if users == nil {
		users = []models.User{}
	}

	return users, nil
}

// SetSelectedWorkspace stores the user's selected workspace.
// A zero workspaceID clears the selection.
func (r *userRepository) SetSelectedWorkspace(ctx context.Context, id, workspaceID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updatedAt": time.Now(), "selectedWorkspaceId": workspaceID}}
	if workspaceID.IsZero() {
		update = bson.M{
			"$set":   bson.M{"updatedAt": time.Now()},
			"$unset": bson.M{"selectedWorkspaceId": ""},
		}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
