package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CollectionUsers         = "users"
	CollectionWorkspaces    = "workspaces"
	CollectionMemberships   = "memberships"
	CollectionAccessEvents  = "access_events"
	CollectionRefreshTokens = "refresh_tokens"
)

// indexSpecs lists every index the repositories rely on.
var indexSpecs = map[string][]mongo.IndexModel{
	CollectionUsers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollectionWorkspaces: {
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
	},
	CollectionMemberships: {
		{
			Keys:    bson.D{{Key: "workspaceId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	},
	CollectionAccessEvents: {
		{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "occurredAt", Value: -1}}},
		// Denials are kept for 90 days.
		{Keys: bson.D{{Key: "occurredAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60)},
	},
	CollectionRefreshTokens: {
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	},
}

// EnsureIndexes creates all indexes. It is safe to run repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range indexSpecs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
