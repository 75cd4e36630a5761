//go:build api

// Package testdb starts the MongoDB and Redis containers API tests run against.
package testdb

import (
	"context"
	"time"

	"workspace-access/internal/repository"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContainer wraps a MongoDB testcontainer for API tests.
type MongoContainer struct {
	Container *mongodb.MongoDBContainer
	URI       string
	Client    *mongo.Client
	Database  *mongo.Database
}

// SetupMongoDB starts a MongoDB testcontainer and creates the application indexes.
// Its lifecycle is managed by TestMain.
func SetupMongoDB(ctx context.Context, dbName string) (*MongoContainer, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, err
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		_ = container.Terminate(ctx)
		return nil, err
	}

	database := client.Database(dbName)
	if err := repository.EnsureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &MongoContainer{
		Container: container,
		URI:       uri,
		Client:    client,
		Database:  database,
	}, nil
}

// Cleanup terminates the MongoDB container.
func (mc *MongoContainer) Cleanup(ctx context.Context) error {
	if mc.Client != nil {
		_ = mc.Client.Disconnect(ctx)
	}
	if mc.Container != nil {
		return mc.Container.Terminate(ctx)
	}
	return nil
}

// CleanupCollections deletes every document but keeps the indexes.
func (mc *MongoContainer) CleanupCollections(ctx context.Context) error {
	collections, err := mc.Database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return err
	}
	for _, collection := range collections {
		if _, err := mc.Database.Collection(collection).DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}
