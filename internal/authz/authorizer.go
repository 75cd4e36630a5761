// Package authz answers access questions for a user inside one workspace.
package authz

import (
	"context"

	"workspace-access/internal/access"
	"workspace-access/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -destination=mocks/mock_authorizer.go -package=mocks workspace-access/internal/authz Authorizer

// Authorizer defines the interface for authorization checks.
type Authorizer interface {
	// GetMembership returns the user's membership in a workspace.
	// It returns apperrors.ErrNotWorkspaceMember when there is none.
	GetMembership(ctx context.Context, userID, workspaceID primitive.ObjectID) (*models.Membership, error)

	// Authorize evaluates q against the user's grants in the workspace.
	// Whenever err is non-nil the decision is denied. A non-member gets
	// apperrors.ErrNotWorkspaceMember and the flags of an empty grant set.
	Authorize(ctx context.Context, userID, workspaceID primitive.ObjectID, q access.Query) (*models.Membership, access.Decision, error)
}
