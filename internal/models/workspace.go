package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace is a company the dashboard scopes grants to.
type Workspace struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Name      string             `json:"name" bson:"name" example:"Shree Jewellers"`
	Slug      string             `json:"slug" bson:"slug" example:"shree-jewellers"`
	GSTNumber string             `json:"gstNumber,omitempty" bson:"gstNumber,omitempty" example:"27AAPFU0939F1ZV"`
	OwnerID   primitive.ObjectID `json:"ownerId" bson:"ownerId" example:"507f1f77bcf86cd799439012"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// CreateWorkspaceRequest is the payload for creating a workspace.
type CreateWorkspaceRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100" example:"Shree Jewellers"`
	Slug      string `json:"slug" binding:"required,min=2,max=50,slug" example:"shree-jewellers"`
	GSTNumber string `json:"gstNumber" binding:"omitempty,len=15,alphanum" example:"27AAPFU0939F1ZV"`
}

// UpdateWorkspaceRequest is the payload for updating a workspace.
type UpdateWorkspaceRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=100" example:"Shree Jewellers Pvt Ltd"`
	GSTNumber *string `json:"gstNumber" binding:"omitempty,len=15,alphanum" example:"27AAPFU0939F1ZV"`
}

// WorkspaceListResponse is the response for listing the caller's workspaces.
type WorkspaceListResponse struct {
	Items []WorkspaceWithRole `json:"items"`
}

// WorkspaceWithRole is a workspace along with the caller's role in it.
type WorkspaceWithRole struct {
	Workspace
	Role string `json:"role" example:"owner"`
}

// Pagination contains pagination metadata.
type Pagination struct {
	Page       int `json:"page" example:"1"`
	Limit      int `json:"limit" example:"10"`
	TotalItems int `json:"totalItems" example:"42"`
	TotalPages int `json:"totalPages" example:"5"`
}
