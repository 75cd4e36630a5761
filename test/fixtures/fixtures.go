// Package fixtures provides test data builders for API tests.
package fixtures

import (
	"fmt"
	"time"

	"workspace-access/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PasswordHash is a bcrypt hash stored on seeded users. Seeded users get
// tokens from the JWT manager directly and never log in.
const PasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func suffix() string {
	return primitive.NewObjectID().Hex()[16:]
}

// ===== User Fixtures =====

// UserBuilder provides fluent API for building test users.
type UserBuilder struct {
	user models.User
}

// NewUser creates a new UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		user: models.User{
			Name:     "Test User",
			Email:    fmt.Sprintf("user-%s@example.com", suffix()),
			Password: PasswordHash,
		},
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) BuildPtr() *models.User {
	u := b.user
	return &u
}

// ===== Workspace Fixtures =====

// WorkspaceBuilder provides fluent API for building test workspaces.
type WorkspaceBuilder struct {
	workspace models.Workspace
}

// NewWorkspace creates a workspace owned by ownerID.
func NewWorkspace(ownerID primitive.ObjectID) *WorkspaceBuilder {
	return &WorkspaceBuilder{
		workspace: models.Workspace{
			Name:    "Test Workspace",
			Slug:    "ws-" + suffix(),
			OwnerID: ownerID,
		},
	}
}

func (b *WorkspaceBuilder) WithName(name string) *WorkspaceBuilder {
	b.workspace.Name = name
	return b
}

func (b *WorkspaceBuilder) WithSlug(slug string) *WorkspaceBuilder {
	b.workspace.Slug = slug
	return b
}

func (b *WorkspaceBuilder) BuildPtr() *models.Workspace {
	w := b.workspace
	return &w
}

// ===== Membership Fixtures =====

// MembershipBuilder provides fluent API for building test memberships.
type MembershipBuilder struct {
	membership models.Membership
}

// NewMembership creates a staff membership with no grants.
func NewMembership(workspaceID, userID primitive.ObjectID) *MembershipBuilder {
	return &MembershipBuilder{
		membership: models.Membership{
			WorkspaceID: workspaceID,
			UserID:      userID,
			Role:        models.RoleStaff,
			Modules:     []string{},
			Permissions: []string{},
			JoinedAt:    time.Now(),
		},
	}
}

func (b *MembershipBuilder) WithRole(role string) *MembershipBuilder {
	b.membership.Role = role
	return b
}

func (b *MembershipBuilder) WithModules(modules ...string) *MembershipBuilder {
	b.membership.Modules = modules
	return b
}

func (b *MembershipBuilder) WithPermissions(permissions ...string) *MembershipBuilder {
	b.membership.Permissions = permissions
	return b
}

func (b *MembershipBuilder) BuildPtr() *models.Membership {
	m := b.membership
	return &m
}
