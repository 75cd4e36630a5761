// Package mocks provides mock implementations of service interfaces for testing.
package mocks

import (
	"context"

	"workspace-access/internal/access"
	"workspace-access/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockAuthService is a mock implementation of AuthServicer.
type MockAuthService struct {
	RegisterFunc  func(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error)
	LoginFunc     func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	RefreshFunc   func(ctx context.Context, req *models.RefreshRequest) (*models.RefreshResponse, error)
	LogoutFunc    func(ctx context.Context, req *models.LogoutRequest) error
	LogoutAllFunc func(ctx context.Context, userID primitive.ObjectID) error
}

func (m *MockAuthService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.RefreshResponse, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Logout(ctx context.Context, req *models.LogoutRequest) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, req)
	}
	return nil
}

func (m *MockAuthService) LogoutAll(ctx context.Context, userID primitive.ObjectID) error {
	if m.LogoutAllFunc != nil {
		return m.LogoutAllFunc(ctx, userID)
	}
	return nil
}

// MockWorkspaceService is a mock implementation of WorkspaceServicer.
type MockWorkspaceService struct {
	CreateWorkspaceFunc func(ctx context.Context, userID primitive.ObjectID, req *models.CreateWorkspaceRequest) (*models.Workspace, error)
	ListWorkspacesFunc  func(ctx context.Context, userID primitive.ObjectID) (*models.WorkspaceListResponse, error)
	GetWorkspaceFunc    func(ctx context.Context, workspaceID primitive.ObjectID) (*models.Workspace, error)
	UpdateWorkspaceFunc func(ctx context.Context, workspaceID primitive.ObjectID, req *models.UpdateWorkspaceRequest) (*models.Workspace, error)
}

func (m *MockWorkspaceService) CreateWorkspace(ctx context.Context, userID primitive.ObjectID, req *models.CreateWorkspaceRequest) (*models.Workspace, error) {
	if m.CreateWorkspaceFunc != nil {
		return m.CreateWorkspaceFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockWorkspaceService) ListWorkspaces(ctx context.Context, userID primitive.ObjectID) (*models.WorkspaceListResponse, error) {
	if m.ListWorkspacesFunc != nil {
		return m.ListWorkspacesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockWorkspaceService) GetWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (*models.Workspace, error) {
	if m.GetWorkspaceFunc != nil {
		return m.GetWorkspaceFunc(ctx, workspaceID)
	}
	return nil, nil
}

func (m *MockWorkspaceService) UpdateWorkspace(ctx context.Context, workspaceID primitive.ObjectID, req *models.UpdateWorkspaceRequest) (*models.Workspace, error) {
	if m.UpdateWorkspaceFunc != nil {
		return m.UpdateWorkspaceFunc(ctx, workspaceID, req)
	}
	return nil, nil
}

// MockMembershipService is a mock implementation of MembershipServicer.
type MockMembershipService struct {
	ListMembersFunc  func(ctx context.Context, workspaceID primitive.ObjectID) (*models.MemberListResponse, error)
	AddMemberFunc    func(ctx context.Context, workspaceID primitive.ObjectID, req *models.AddMemberRequest) (*models.MembershipWithUser, error)
	UpdateGrantsFunc func(ctx context.Context, workspaceID, userID primitive.ObjectID, req *models.UpdateGrantsRequest) (*models.Membership, error)
	UpdateRoleFunc   func(ctx context.Context, workspaceID, userID primitive.ObjectID, role string) error
	RemoveMemberFunc func(ctx context.Context, workspaceID, targetUserID, requestingUserID primitive.ObjectID) error
}

func (m *MockMembershipService) ListMembers(ctx context.Context, workspaceID primitive.ObjectID) (*models.MemberListResponse, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, workspaceID)
	}
	return nil, nil
}

func (m *MockMembershipService) AddMember(ctx context.Context, workspaceID primitive.ObjectID, req *models.AddMemberRequest) (*models.MembershipWithUser, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, workspaceID, req)
	}
	return nil, nil
}

func (m *MockMembershipService) UpdateGrants(ctx context.Context, workspaceID, userID primitive.ObjectID, req *models.UpdateGrantsRequest) (*models.Membership, error) {
	if m.UpdateGrantsFunc != nil {
		return m.UpdateGrantsFunc(ctx, workspaceID, userID, req)
	}
	return nil, nil
}

func (m *MockMembershipService) UpdateRole(ctx context.Context, workspaceID, userID primitive.ObjectID, role string) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, workspaceID, userID, role)
	}
	return nil
}

func (m *MockMembershipService) RemoveMember(ctx context.Context, workspaceID, targetUserID, requestingUserID primitive.ObjectID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, workspaceID, targetUserID, requestingUserID)
	}
	return nil
}

// MockSessionService is a mock implementation of SessionServicer.
type MockSessionService struct {
	SnapshotFunc        func(ctx context.Context, userID primitive.ObjectID) ([]access.Membership, error)
	GetSessionFunc      func(ctx context.Context, userID primitive.ObjectID) (*models.SessionResponse, error)
	SelectWorkspaceFunc func(ctx context.Context, userID, workspaceID primitive.ObjectID) (*models.SessionResponse, error)
	CheckFunc           func(ctx context.Context, userID primitive.ObjectID, spec access.Spec) (*models.AccessCheckResponse, error)
	BatchCheckFunc      func(ctx context.Context, userID primitive.ObjectID, checks map[string]access.Spec) (*models.BatchAccessCheckResponse, error)
}

func (m *MockSessionService) Snapshot(ctx context.Context, userID primitive.ObjectID) ([]access.Membership, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockSessionService) GetSession(ctx context.Context, userID primitive.ObjectID) (*models.SessionResponse, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockSessionService) SelectWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) (*models.SessionResponse, error) {
	if m.SelectWorkspaceFunc != nil {
		return m.SelectWorkspaceFunc(ctx, userID, workspaceID)
	}
	return nil, nil
}

func (m *MockSessionService) Check(ctx context.Context, userID primitive.ObjectID, spec access.Spec) (*models.AccessCheckResponse, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, userID, spec)
	}
	return nil, nil
}

func (m *MockSessionService) BatchCheck(ctx context.Context, userID primitive.ObjectID, checks map[string]access.Spec) (*models.BatchAccessCheckResponse, error) {
	if m.BatchCheckFunc != nil {
		return m.BatchCheckFunc(ctx, userID, checks)
	}
	return nil, nil
}

// MockAuditService is a mock implementation of AuditServicer.
type MockAuditService struct {
	RecordFunc     func(event models.AccessEvent)
	ListEventsFunc func(ctx context.Context, workspaceID primitive.ObjectID, page, limit int) (*models.AccessEventListResponse, error)
}

func (m *MockAuditService) Record(event models.AccessEvent) {
	if m.RecordFunc != nil {
		m.RecordFunc(event)
	}
}

func (m *MockAuditService) ListEvents(ctx context.Context, workspaceID primitive.ObjectID, page, limit int) (*models.AccessEventListResponse, error) {
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx, workspaceID, page, limit)
	}
	return nil, nil
}
