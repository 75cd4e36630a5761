package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessEvent records a denied access attempt.
type AccessEvent struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	RequestID             string             `json:"requestId" bson:"requestId" example:"3f1c9d0e-6a8b-4c1e-9d2f-7b5a4e3c2d1f"`
	WorkspaceID           primitive.ObjectID `json:"workspaceId" bson:"workspaceId" example:"507f1f77bcf86cd799439012"`
	UserID                primitive.ObjectID `json:"userId" bson:"userId" example:"507f1f77bcf86cd799439013"`
	Method                string             `json:"method" bson:"method" example:"DELETE"`
	Path                  string             `json:"path" bson:"path" example:"/api/v1/workspaces/:workspaceId/members/:userId"`
	Requirement           string             `json:"requirement" bson:"requirement" example:"module=users permission=delete_user"`
	ModuleCheckFailed     bool               `json:"moduleCheckFailed" bson:"moduleCheckFailed"`
	PermissionCheckFailed bool               `json:"permissionCheckFailed" bson:"permissionCheckFailed"`
	NotMember             bool               `json:"notMember" bson:"notMember"`
	OccurredAt            time.Time          `json:"occurredAt" bson:"occurredAt" example:"2024-01-15T09:30:00Z"`
}

// AccessEventListResponse is the paginated response for access events.
type AccessEventListResponse struct {
	Items      []AccessEvent `json:"items"`
	Pagination Pagination    `json:"pagination"`
}
