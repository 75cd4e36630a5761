package service

import (
	"context"

	"workspace-access/internal/access"
	"workspace-access/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthServicer defines the interface for authentication operations.
type AuthServicer interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, req *models.RefreshRequest) (*models.RefreshResponse, error)
	Logout(ctx context.Context, req *models.LogoutRequest) error
	LogoutAll(ctx context.Context, userID primitive.ObjectID) error
}

// WorkspaceServicer defines the interface for workspace operations.
type WorkspaceServicer interface {
	CreateWorkspace(ctx context.Context, userID primitive.ObjectID, req *models.CreateWorkspaceRequest) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context, userID primitive.ObjectID) (*models.WorkspaceListResponse, error)
	GetWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (*models.Workspace, error)
	UpdateWorkspace(ctx context.Context, workspaceID primitive.ObjectID, req *models.UpdateWorkspaceRequest) (*models.Workspace, error)
}

// MembershipServicer defines the interface for membership operations.
type MembershipServicer interface {
	ListMembers(ctx context.Context, workspaceID primitive.ObjectID) (*models.MemberListResponse, error)
	AddMember(ctx context.Context, workspaceID primitive.ObjectID, req *models.AddMemberRequest) (*models.MembershipWithUser, error)
	UpdateGrants(ctx context.Context, workspaceID, userID primitive.ObjectID, req *models.UpdateGrantsRequest) (*models.Membership, error)
	UpdateRole(ctx context.Context, workspaceID, userID primitive.ObjectID, role string) error
	RemoveMember(ctx context.Context, workspaceID, targetUserID, requestingUserID primitive.ObjectID) error
}

// SessionServicer defines the interface for session snapshot and access checks.
type SessionServicer interface {
	Snapshot(ctx context.Context, userID primitive.ObjectID) ([]access.Membership, error)
	GetSession(ctx context.Context, userID primitive.ObjectID) (*models.SessionResponse, error)
	SelectWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) (*models.SessionResponse, error)
	Check(ctx context.Context, userID primitive.ObjectID, spec access.Spec) (*models.AccessCheckResponse, error)
	BatchCheck(ctx context.Context, userID primitive.ObjectID, checks map[string]access.Spec) (*models.BatchAccessCheckResponse, error)
}

// AuditServicer defines the interface for the access audit.
type AuditServicer interface {
	Record(event models.AccessEvent)
	ListEvents(ctx context.Context, workspaceID primitive.ObjectID, page, limit int) (*models.AccessEventListResponse, error)
}

// Ensure concrete types implement interfaces
var (
	_ AuthServicer       = (*AuthService)(nil)
	_ WorkspaceServicer  = (*WorkspaceService)(nil)
	_ MembershipServicer = (*MembershipService)(nil)
	_ SessionServicer    = (*SessionService)(nil)
	_ AuditServicer      = (*AuditService)(nil)
)
