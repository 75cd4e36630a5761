package models

import (
	"time"

	"workspace-access/internal/access"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership role constants.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Membership is a user's grant set inside one workspace.
type Membership struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	WorkspaceID primitive.ObjectID `json:"workspaceId" bson:"workspaceId" example:"507f1f77bcf86cd799439012"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId" example:"507f1f77bcf86cd799439013"`
	Role        string             `json:"role" bson:"role" example:"staff"`
	Modules     []string           `json:"modules" bson:"modules"`
	Permissions []string           `json:"permissions" bson:"permissions"`
	JoinedAt    time.Time          `json:"joinedAt" bson:"joinedAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// Snapshot converts the stored membership into the evaluator's form.
func (m *Membership) Snapshot() access.Membership {
	return access.Membership{
		WorkspaceID: m.WorkspaceID.Hex(),
		Role:        m.Role,
		Modules:     m.Modules,
		Permissions: m.Permissions,
	}
}

// Snapshots converts a membership list into the evaluator's form.
func Snapshots(memberships []Membership) []access.Membership {
	out := make([]access.Membership, 0, len(memberships))
	for i := range memberships {
		out = append(out, memberships[i].Snapshot())
	}
	return out
}

// MembershipWithUser is a membership with expanded user information.
type MembershipWithUser struct {
	Membership
	User *UserSummary `json:"user,omitempty"`
}

// AddMemberRequest is the payload for adding a user to a workspace.
type AddMemberRequest struct {
	Email       string   `json:"email" binding:"required,email" example:"staff@example.com"`
	Role        string   `json:"role" binding:"required,oneof=admin staff" example:"staff"`
	Modules     []string `json:"modules" binding:"omitempty,dive,accessname"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,accessname"`
}

// UpdateGrantsRequest replaces a member's modules and permissions.
type UpdateGrantsRequest struct {
	Modules     []string `json:"modules" binding:"omitempty,dive,accessname"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,accessname"`
}

// UpdateRoleRequest is the payload for updating a member's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin staff" example:"admin"`
}

// MemberListResponse is the response for listing workspace members.
type MemberListResponse struct {
	Items []MembershipWithUser `json:"items"`
}
