//go:build api

// Package testserver provides a fully wired test server for API integration tests.
package testserver

import (
	"context"
	"time"

	"workspace-access/internal/authz"
	"workspace-access/internal/cache"
	"workspace-access/internal/catalog"
	"workspace-access/internal/database"
	"workspace-access/internal/handler"
	"workspace-access/internal/notify"
	"workspace-access/internal/queue"
	"workspace-access/internal/repository"
	"workspace-access/internal/router"
	"workspace-access/internal/service"
	"workspace-access/pkg/auth"
	"workspace-access/test/api/testdb"

	"github.com/gin-gonic/gin"
)

const (
	// TestAccessTokenSecret is the JWT secret used in tests.
	TestAccessTokenSecret = "test-secret-key-for-api-tests"
	// TestAccessTokenExpiry is the access token expiry time used in tests.
	TestAccessTokenExpiry = 15 * time.Minute
	// TestRefreshTokenExpiry is the refresh token expiry time used in tests.
	TestRefreshTokenExpiry = 7 * 24 * time.Hour
	// TestSnapshotTTL is how long session snapshots stay in Redis.
	TestSnapshotTTL = time.Minute
	// TestDBName is the database name used in tests.
	TestDBName = "test_api"
)

// TestServer holds all dependencies for API integration tests.
type TestServer struct {
	// Router is the Gin engine for making HTTP requests.
	Router *gin.Engine

	// Containers
	MongoDB *testdb.MongoContainer
	Redis   *testdb.RedisContainer

	// Repositories (for direct database access in tests)
	UserRepo        repository.UserRepository
	WorkspaceRepo   repository.WorkspaceRepository
	MembershipRepo  repository.MembershipRepository
	AccessEventRepo repository.AccessEventRepository

	Catalog    *catalog.Catalog
	Hub        *notify.Hub
	JWTManager *auth.JWTManager

	auditProcessor *queue.Processor
	cancel         context.CancelFunc
}

// New creates a new test server with all dependencies wired up.
func New(ctx context.Context) (*TestServer, error) {
	gin.SetMode(gin.TestMode)

	modules, err := catalog.Default()
	if err != nil {
		return nil, err
	}

	// Start containers
	mongoDB, err := testdb.SetupMongoDB(ctx, TestDBName)
	if err != nil {
		return nil, err
	}

	redisContainer, err := testdb.SetupRedis(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		return nil, err
	}

	redisCache := cache.NewRedisFromClient(redisContainer.Client)
	jwtManager := auth.NewJWTManager(TestAccessTokenSecret, TestAccessTokenExpiry)

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	refreshTokenRepo := repository.NewRefreshTokenRepository(mongoDB.Database)
	workspaceRepo := repository.NewWorkspaceRepository(mongoDB.Database)
	membershipRepo := repository.NewMembershipRepository(mongoDB.Database)
	accessEventRepo := repository.NewAccessEventRepository(mongoDB.Database)

	authorizer := authz.NewLocalAuthorizer(membershipRepo)
	hub := notify.NewHub()

	// A small queue with one worker keeps audit writes ordered in tests.
	auditQueue := queue.NewMemoryQueue(64)
	auditProcessor := queue.NewProcessor(auditQueue, accessEventRepo, 1)

	// Service layer
	authService := service.NewAuthService(
		userRepo,
		refreshTokenRepo,
		redisCache,
		jwtManager,
		TestAccessTokenExpiry,
		TestRefreshTokenExpiry,
	)
	workspaceService := service.NewWorkspaceService(workspaceRepo, membershipRepo, redisCache, hub, modules)
	membershipService := service.NewMembershipService(membershipRepo, userRepo, redisCache, hub, modules)
	sessionService := service.NewSessionService(userRepo, membershipRepo, redisCache, TestSnapshotTTL)
	auditService := service.NewAuditService(auditQueue, accessEventRepo)

	r := router.Setup(&router.Config{
		AuthHandler:        handler.NewAuthHandler(authService),
		WorkspaceHandler:   handler.NewWorkspaceHandler(workspaceService),
		MembershipHandler:  handler.NewMembershipHandler(membershipService),
		SessionHandler:     handler.NewSessionHandler(sessionService, hub),
		CatalogHandler:     handler.NewCatalogHandler(modules),
		AccessEventHandler: handler.NewAccessEventHandler(auditService),
		TokenManager:       jwtManager,
		Authorizer:         authorizer,
		AccessRecorder:     auditService,
		Database:           &database.MongoDB{Client: mongoDB.Client, Database: mongoDB.Database},
	})

	processorCtx, cancel := context.WithCancel(context.Background())
	auditProcessor.Start(processorCtx)

	return &TestServer{
		Router:          r,
		MongoDB:         mongoDB,
		Redis:           redisContainer,
		UserRepo:        userRepo,
		WorkspaceRepo:   workspaceRepo,
		MembershipRepo:  membershipRepo,
		AccessEventRepo: accessEventRepo,
		Catalog:         modules,
		Hub:             hub,
		JWTManager:      jwtManager,
		auditProcessor:  auditProcessor,
		cancel:          cancel,
	}, nil
}

// Cleanup drains the audit queue and terminates all containers.
func (ts *TestServer) Cleanup(ctx context.Context) {
	if ts.auditProcessor != nil {
		ts.auditProcessor.Stop()
	}
	if ts.cancel != nil {
		ts.cancel()
	}
	if ts.Redis != nil {
		_ = ts.Redis.Cleanup(ctx)
	}
	if ts.MongoDB != nil {
		_ = ts.MongoDB.Cleanup(ctx)
	}
}
