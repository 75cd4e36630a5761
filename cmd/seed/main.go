package main

import (
	"context"
	"log"
	"time"

	"workspace-access/internal/catalog"
	"workspace-access/internal/config"
	"workspace-access/internal/database"
	"workspace-access/internal/models"
	"workspace-access/internal/repository"
	"workspace-access/pkg/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// seedMember is a demo account and its grants in the demo workspace.
type seedMember struct {
	Email       string
	Password    string
	Name        string
	Role        string
	Modules     []string
	Permissions []string
}

func main() {
	log.Println("Starting seed...")

	cfg := config.Load()

	modules, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	clearCollections(ctx, mongoDB.Database)
	if err := repository.EnsureIndexes(ctx, mongoDB.Database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	members := []seedMember{
		{
			Email:       "owner@example.com",
			Password:    "password123",
			Name:        "Asha Mehta",
			Role:        models.RoleOwner,
			Modules:     modules.AllModules(),
			Permissions: modules.AllPermissions(),
		},
		{
			Email:       "sales@example.com",
			Password:    "password456",
			Name:        "Ravi Kumar",
			Role:        models.RoleStaff,
			Modules:     []string{"salesman", "customer"},
			Permissions: []string{"view_salesman", "add_salesman", "update_salesman", "view_customer"},
		},
	}

	seedWorkspace(ctx, mongoDB.Database, members)

	log.Println("Seed completed successfully!")
}

func clearCollections(ctx context.Context, db *mongo.Database) {
	for _, name := range []string{
		repository.CollectionUsers,
		repository.CollectionWorkspaces,
		repository.CollectionMemberships,
		repository.CollectionAccessEvents,
		repository.CollectionRefreshTokens,
	} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", name, err)
		}
	}
}

func seedWorkspace(ctx context.Context, db *mongo.Database, members []seedMember) {
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	users := make([]*models.User, 0, len(members))
	for _, m := range members {
		hash, err := auth.HashPassword(m.Password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user := &models.User{Email: m.Email, Password: hash, Name: m.Name}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to seed user %s: %v", m.Email, err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	workspace := &models.Workspace{
		Name:    "Shree Jewellers",
		Slug:    "shree-jewellers",
		OwnerID: users[0].ID,
	}
	if err := workspaceRepo.Create(ctx, workspace); err != nil {
		log.Fatalf("Failed to seed workspace: %v", err)
	}

	for i, m := range members {
		membership := &models.Membership{
			WorkspaceID: workspace.ID,
			UserID:      users[i].ID,
			Role:        m.Role,
			Modules:     m.Modules,
			Permissions: m.Permissions,
		}
		if err := membershipRepo.Create(ctx, membership); err != nil {
			log.Fatalf("Failed to seed membership for %s: %v", m.Email, err)
		}
		if err := userRepo.SetSelectedWorkspace(ctx, users[i].ID, workspace.ID); err != nil {
			log.Fatalf("Failed to select workspace for %s: %v", m.Email, err)
		}
	}

	log.Printf("Seeded workspace %q with %d members", workspace.Slug, len(members))
}
