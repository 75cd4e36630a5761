// Package router sets up HTTP routes for the API.
package router

import (
	"context"
	"net/http"
	"time"

	_ "workspace-access/swagger" // Import generated swagger docs

	"workspace-access/internal/access"
	"workspace-access/internal/authz"
	"workspace-access/internal/handler"
	"workspace-access/internal/middleware"
	"workspace-access/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Route requirements inside a workspace.
var (
	RequireCompanyUpdate   = access.RequireModulePermission("company", "update_company")
	RequireMemberView      = access.RequireModulePermission("users", "view_user")
	RequireMemberCreate    = access.RequireModulePermission("users", "create_user")
	RequireMemberUpdate    = access.RequireModulePermission("users", "update_user")
	RequireMemberDelete    = access.RequireModulePermission("users", "delete_user")
	RequireAccessEventView = access.RequireModulePermission("audit", "view_access_event")
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds all dependencies needed to set up routes.
type Config struct {
	AuthHandler        *handler.AuthHandler
	WorkspaceHandler   *handler.WorkspaceHandler
	MembershipHandler  *handler.MembershipHandler
	SessionHandler     *handler.SessionHandler
	CatalogHandler     *handler.CatalogHandler
	AccessEventHandler *handler.AccessEventHandler
	TokenManager       auth.TokenManager
	Authorizer         authz.Authorizer
	AccessRecorder     middleware.AccessRecorder
	Database           Pinger
}

// Setup creates and configures the Gin router.
func Setup(cfg *Config) *gin.Engine {
	r := gin.Default()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	// Swagger docs at /docs
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", health(cfg.Database))

	requireAuth := middleware.Auth(cfg.TokenManager)
	guard := func(q access.Query) gin.HandlerFunc {
		return middleware.WorkspaceAccess(cfg.Authorizer, cfg.AccessRecorder, q)
	}

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", cfg.AuthHandler.Register)
			authRoutes.POST("/login", cfg.AuthHandler.Login)
			authRoutes.POST("/refresh", cfg.AuthHandler.Refresh)
			authRoutes.POST("/logout", requireAuth, cfg.AuthHandler.Logout)
			authRoutes.POST("/logout-all", requireAuth, cfg.AuthHandler.LogoutAll)
		}

		v1.GET("/catalog", requireAuth, cfg.CatalogHandler.ListModules)

		// Session: snapshot, selection and access checks
		session := v1.Group("/session")
		session.Use(requireAuth)
		{
			session.GET("", cfg.SessionHandler.GetSession)
			session.PUT("/workspace", cfg.SessionHandler.SelectWorkspace)
			session.POST("/access-check", cfg.SessionHandler.Check)
			session.POST("/access-check/batch", cfg.SessionHandler.BatchCheck)
			session.GET("/events", cfg.SessionHandler.Events)
		}

		workspaces := v1.Group("/workspaces")
		workspaces.Use(requireAuth)
		{
			workspaces.POST("", cfg.WorkspaceHandler.CreateWorkspace)
			workspaces.GET("", cfg.WorkspaceHandler.ListWorkspaces)

			workspace := workspaces.Group("/:workspaceId")
			{
				workspace.GET("", middleware.WorkspaceMember(cfg.Authorizer, cfg.AccessRecorder), cfg.WorkspaceHandler.GetWorkspace)
				workspace.PUT("", guard(RequireCompanyUpdate), cfg.WorkspaceHandler.UpdateWorkspace)

				members := workspace.Group("/members")
				{
					members.GET("", guard(RequireMemberView), cfg.MembershipHandler.ListMembers)
					members.POST("", guard(RequireMemberCreate), cfg.MembershipHandler.AddMember)
					members.PUT("/:userId/grants", guard(RequireMemberUpdate), cfg.MembershipHandler.UpdateGrants)
					members.PUT("/:userId/role", guard(RequireMemberUpdate), cfg.MembershipHandler.UpdateRole)
					members.DELETE("/:userId", guard(RequireMemberDelete), cfg.MembershipHandler.RemoveMember)
				}

				workspace.GET("/access-events", guard(RequireAccessEventView), cfg.AccessEventHandler.ListAccessEvents)
			}
		}
	}

	return r
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
