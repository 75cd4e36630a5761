package models

import (
	"workspace-access/internal/access"
)

// SessionResponse is the caller's membership snapshot and selection.
type SessionResponse struct {
	User                UserSummary         `json:"user"`
	SelectedWorkspaceID string              `json:"selectedWorkspaceId" example:"507f1f77bcf86cd799439012"`
	Memberships         []access.Membership `json:"memberships"`
}

// SelectWorkspaceRequest switches the caller's selected workspace.
type SelectWorkspaceRequest struct {
	WorkspaceID string `json:"workspaceId" binding:"required,len=24,hexadecimal" example:"507f1f77bcf86cd799439012"`
}

// AccessCheckRequest evaluates one requirement against the session.
type AccessCheckRequest struct {
	Requirement access.Spec `json:"requirement"`
}

// AccessCheckResponse is the evaluator's decision plus the denial message.
type AccessCheckResponse struct {
	access.Decision
	WorkspaceID string `json:"workspaceId" example:"507f1f77bcf86cd799439012"`
	Message     string `json:"message,omitempty" example:"you do not have permission to perform this action"`
}

// BatchAccessCheckRequest evaluates several named requirements at once.
type BatchAccessCheckRequest struct {
	Checks map[string]access.Spec `json:"checks" binding:"required,min=1,max=100,dive"`
}

// BatchAccessCheckResponse maps each check name to its decision.
type BatchAccessCheckResponse struct {
	WorkspaceID string                         `json:"workspaceId" example:"507f1f77bcf86cd799439012"`
	Results     map[string]AccessCheckResponse `json:"results"`
}
