package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workspace-access/internal/authz"
	"workspace-access/internal/cache"
	"workspace-access/internal/catalog"
	"workspace-access/internal/config"
	"workspace-access/internal/database"
	"workspace-access/internal/handler"
	"workspace-access/internal/notify"
	"workspace-access/internal/queue"
	"workspace-access/internal/repository"
	"workspace-access/internal/router"
	"workspace-access/internal/service"
	"workspace-access/internal/validator"
	"workspace-access/pkg/auth"

	"github.com/gin-gonic/gin"
)

// @title           Workspace Access API
// @version         1.0
// @description     Multi-workspace membership and module/permission access checks built with Gin, MongoDB, and Redis.

// @contact.name    API Support
// @contact.email   support@example.com

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("Configuration loaded")

	// Register custom validators
	validator.RegisterCustomValidators()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Module/permission catalog
	modules, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog loaded with %d modules", len(modules.AllModules()))

	// Database
	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	// Redis Cache
	redisCache := cache.NewRedis(cfg.RedisURI)
	defer redisCache.Close()

	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.AccessTokenSecret, cfg.AccessTokenExpiry)

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	refreshTokenRepo := repository.NewRefreshTokenRepository(mongoDB.Database)
	workspaceRepo := repository.NewWorkspaceRepository(mongoDB.Database)
	membershipRepo := repository.NewMembershipRepository(mongoDB.Database)
	accessEventRepo := repository.NewAccessEventRepository(mongoDB.Database)

	// Authorization
	authorizer := authz.NewLocalAuthorizer(membershipRepo)

	// Snapshot change notifications
	hub := notify.NewHub()

	// Audit queue and processor
	auditQueue := queue.NewMemoryQueue(cfg.AuditQueueSize)
	auditProcessor := queue.NewProcessor(auditQueue, accessEventRepo, cfg.AuditWorkers)

	// Service layer
	authService := service.NewAuthService(userRepo, refreshTokenRepo, redisCache, jwtManager, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	workspaceService := service.NewWorkspaceService(workspaceRepo, membershipRepo, redisCache, hub, modules)
	membershipService := service.NewMembershipService(membershipRepo, userRepo, redisCache, hub, modules)
	sessionService := service.NewSessionService(userRepo, membershipRepo, redisCache, cfg.SnapshotCacheTTL)
	auditService := service.NewAuditService(auditQueue, accessEventRepo)

	// Router
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
		Database:           mongoDB,
	})

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditProcessor.Start(ctx)

	// Create HTTP server for graceful shutdown support
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first so no new denials are queued
	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Drain queued access events before disconnecting from MongoDB
	log.Println("Stopping audit processor...")
	auditProcessor.Stop()
	cancel()

	log.Println("Server shutdown complete")
}
