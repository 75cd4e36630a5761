//go:build api

package testserver

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"workspace-access/internal/models"
	"workspace-access/test/fixtures"
	"workspace-access/test/testutil"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterUser registers a user through the API and returns the auth payload.
func (ts *TestServer) RegisterUser(t *testing.T, name, email, password string) map[string]interface{} {
	t.Helper()

	req := models.CreateUserRequest{Name: name, Email: email, Password: password}
	w := testutil.MakeRequest(t, ts.Router, http.MethodPost, "/api/v1/auth/register", req)
	require.Equal(t, http.StatusCreated, w.Code, "register should return 201, got: %s", w.Body.String())

	resp := testutil.ParseAPIResponse(t, w)
	require.True(t, resp.Success, "register response should be successful")
	return resp.Data
}

// Login logs in a user and returns the auth payload containing tokens.
func (ts *TestServer) Login(t *testing.T, email, password string) map[string]interface{} {
	t.Helper()

	req := models.LoginRequest{Email: email, Password: password}
	w := testutil.MakeRequest(t, ts.Router, http.MethodPost, "/api/v1/auth/login", req)
	require.Equal(t, http.StatusOK, w.Code, "login should return 200, got: %s", w.Body.String())

	resp := testutil.ParseAPIResponse(t, w)
	require.True(t, resp.Success, "login response should be successful")
	return resp.Data
}

// SeedUser inserts a user directly and returns it with a signed access token.
func (ts *TestServer) SeedUser(t *testing.T, b *fixtures.UserBuilder) (*models.User, string) {
	t.Helper()

	user := b.BuildPtr()
	require.NoError(t, ts.UserRepo.Create(context.Background(), user), "failed to seed user")

	token, err := ts.JWTManager.GenerateToken(user.ID.Hex())
	require.NoError(t, err)
	return user, token
}

// SeedWorkspace inserts a workspace with an owner membership holding every grant.
func (ts *TestServer) SeedWorkspace(t *testing.T, owner *models.User) *models.Workspace {
	t.Helper()
	ctx := context.Background()

	workspace := fixtures.NewWorkspace(owner.ID).BuildPtr()
	require.NoError(t, ts.WorkspaceRepo.Create(ctx, workspace), "failed to seed workspace")

	ts.SeedMembership(t, fixtures.NewMembership(workspace.ID, owner.ID).
		WithRole(models.RoleOwner).
		WithModules(ts.Catalog.AllModules()...).
		WithPermissions(ts.Catalog.AllPermissions()...))

	return workspace
}

// SeedMembership inserts a membership directly.
func (ts *TestServer) SeedMembership(t *testing.T, b *fixtures.MembershipBuilder) *models.Membership {
	t.Helper()

	membership := b.BuildPtr()
	require.NoError(t, ts.MembershipRepo.Create(context.Background(), membership), "failed to seed membership")
	return membership
}

// CreateWorkspace creates a workspace through the API and returns its ID.
func (ts *TestServer) CreateWorkspace(t *testing.T, token, name string) string {
	t.Helper()

	req := models.CreateWorkspaceRequest{
		Name: name,
		Slug: strings.ToLower(strings.ReplaceAll(name, " ", "-")),
	}
	w := testutil.MakeAuthRequest(t, ts.Router, http.MethodPost, "/api/v1/workspaces", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create workspace should return 201, got: %s", w.Body.String())

	return GetIDFromResponse(t, testutil.ParseAPIResponse(t, w).Data)
}

// SelectWorkspace switches the caller's selected workspace.
func (ts *TestServer) SelectWorkspace(t *testing.T, token string, workspaceID primitive.ObjectID) {
	t.Helper()

	req := models.SelectWorkspaceRequest{WorkspaceID: workspaceID.Hex()}
	w := testutil.MakeAuthRequest(t, ts.Router, http.MethodPut, "/api/v1/session/workspace", token, req)
	require.Equal(t, http.StatusOK, w.Code, "select workspace should return 200, got: %s", w.Body.String())
}

// GetIDFromResponse extracts the ID from response data.
// It handles both direct ID fields and nested user objects (for auth responses).
func GetIDFromResponse(t *testing.T, data map[string]interface{}) string {
	t.Helper()

	if id, ok := data["id"].(string); ok {
		return id
	}
	if user, ok := data["user"].(map[string]interface{}); ok {
		if id, ok := user["id"].(string); ok {
			return id
		}
	}

	t.Fatal("id should be a string in response data (checked: id, user.id)")
	return ""
}
