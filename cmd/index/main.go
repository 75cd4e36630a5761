package main

import (
	"context"
	"log"
	"time"

	"workspace-access/internal/config"
	"workspace-access/internal/database"
	"workspace-access/internal/repository"
)

func main() {
	log.Println("Starting migration...")

	cfg := config.Load()

	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repository.EnsureIndexes(ctx, mongoDB.Database); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully!")
}
