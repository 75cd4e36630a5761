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

// RefreshTokenRepository defines the interface for refresh token data operations.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	FindAllByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
}

// refreshTokenRepository implements RefreshTokenRepository using MongoDB.
// Expired documents are removed by the TTL index from EnsureIndexes.
type refreshTokenRepository struct {
	collection *mongo.Collection
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository.
func NewRefreshTokenRepository(db *mongo.Database) RefreshTokenRepository {
	return &refreshTokenRepository{
		collection: db.Collection(CollectionRefreshTokens),
	}
}

// Create inserts a new refresh token.
func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	token.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		return err
	}

	token.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByToken finds an unexpired refresh token.
func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken

	err := r.collection.FindOne(ctx, bson.M{
		"token":     token,
		"expiresAt": bson.M{"$gt": time.Now()},
	}).Decode(&refreshToken)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}

	return &refreshToken, nil
}

// FindAllByUserID returns a user's unexpired refresh tokens.
func (r *refreshTokenRepository) FindAllByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.RefreshToken, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"userId":    userID,
		"expiresAt": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []models.RefreshToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}

	if tokens == nil {
		tokens = []models.RefreshToken{}
	}

	return tokens, nil
}

// DeleteByToken removes a refresh token. Missing tokens are not an error.
func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"token": token})
	return err
}

// DeleteByUserID removes all refresh tokens for a user.
func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
