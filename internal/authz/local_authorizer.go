package authz

import (
	"context"
	"errors"

	"workspace-access/internal/access"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipFinder is the lookup LocalAuthorizer needs from the membership store.
type MembershipFinder interface {
	FindByWorkspaceAndUser(ctx context.Context, workspaceID, userID primitive.ObjectID) (*models.Membership, error)
}

// LocalAuthorizer implements Authorizer using database lookups.
type LocalAuthorizer struct {
	memberships MembershipFinder
}

var _ Authorizer = (*LocalAuthorizer)(nil)

// NewLocalAuthorizer creates a new LocalAuthorizer.
func NewLocalAuthorizer(memberships MembershipFinder) *LocalAuthorizer {
	return &LocalAuthorizer{
		memberships: memberships,
	}
}

// GetMembership returns the user's membership in a workspace.
func (a *LocalAuthorizer) GetMembership(ctx context.Context, userID, workspaceID primitive.ObjectID) (*models.Membership, error) {
	return a.memberships.FindByWorkspaceAndUser(ctx, workspaceID, userID)
}

// Authorize evaluates q for the user inside the workspace.
func (a *LocalAuthorizer) Authorize(ctx context.Context, userID, workspaceID primitive.ObjectID, q access.Query) (*models.Membership, access.Decision, error) {
	member, err := a.GetMembership(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotWorkspaceMember) {
			// Empty grants give the failure flags; an open query would still pass.
			decision := access.Evaluate(nil, workspaceID.Hex(), q)
			decision.Granted = false
			return nil, decision, err
		}
		return nil, access.Decision{}, err
	}

	return member, access.EvaluateMembership(member.Snapshot(), q), nil
}
