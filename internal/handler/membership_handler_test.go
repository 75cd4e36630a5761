package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"workspace-access/internal/catalog"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"
	"workspace-access/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func membershipRouter(m *mocks.MockMembershipService, callerID string, workspaceID primitive.ObjectID) *gin.Engine {
	h := NewMembershipHandler(m)
	router := gin.New()
	members := router.Group("/workspaces/:workspaceId/members", setUserID(callerID), setWorkspaceID(workspaceID))
	members.GET("", h.ListMembers)
	members.POST("", h.AddMember)
	members.PUT("/:userId/grants", h.UpdateGrants)
	members.PUT("/:userId/role", h.UpdateRole)
	members.DELETE("/:userId", h.RemoveMember)
	return router
}

func TestMembershipHandler_ListMembers(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	m := &mocks.MockMembershipService{
		ListMembersFunc: func(_ context.Context, id primitive.ObjectID) (*models.MemberListResponse, error) {
			assert.Equal(t, workspaceID, id)
			return &models.MemberListResponse{Items: []models.MembershipWithUser{
				{Membership: models.Membership{Role: models.RoleOwner}},
				{Membership: models.Membership{Role: models.RoleStaff}},
			}}, nil
		},
	}

	w := performJSON(membershipRouter(m, primitive.NewObjectID().Hex(), workspaceID), http.MethodGet, fmt.Sprintf("/workspaces/%s/members", workspaceID.Hex()), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.MemberListResponse
	decodeData(t, w, &resp)
	assert.Len(t, resp.Items, 2)
}

func TestMembershipHandler_AddMember(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	path := fmt.Sprintf("/workspaces/%s/members", workspaceID.Hex())
	valid := models.AddMemberRequest{
		Email:       "staff@example.com",
		Role:        models.RoleStaff,
		Modules:     []string{"salesman"},
		Permissions: []string{"add_salesman"},
	}

	tests := []struct {
		name           string
		body           interface{}
		err            error
		expectedStatus int
	}{
		{"added", valid, nil, http.StatusCreated},
		{"owner role rejected by binding", models.AddMemberRequest{Email: "a@example.com", Role: models.RoleOwner}, nil, http.StatusBadRequest},
		{"malformed grant name", models.AddMemberRequest{Email: "a@example.com", Role: models.RoleStaff, Modules: []string{"Sales Man"}}, nil, http.StatusBadRequest},
		{"unknown module", valid, fmt.Errorf("%w: six", catalog.ErrUnknownModule), http.StatusBadRequest},
		{"unknown permission", valid, fmt.Errorf("%w: fly", catalog.ErrUnknownPermission), http.StatusBadRequest},
		{"user not found", valid, apperrors.ErrUserNotFound, http.StatusNotFound},
		{"already member", valid, apperrors.ErrAlreadyMember, http.StatusConflict},
		{"store error", valid, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockMembershipService{
				AddMemberFunc: func(_ context.Context, _ primitive.ObjectID, req *models.AddMemberRequest) (*models.MembershipWithUser, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.MembershipWithUser{
						Membership: models.Membership{Role: req.Role, Modules: req.Modules, Permissions: req.Permissions},
						User:       &models.UserSummary{Email: req.Email},
					}, nil
				},
			}

			w := performJSON(membershipRouter(m, primitive.NewObjectID().Hex(), workspaceID), http.MethodPost, path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.err != nil && tt.expectedStatus != http.StatusInternalServerError {
				assert.Equal(t, tt.err.Error(), errorMessage(t, w))
			}
		})
	}
}

func TestMembershipHandler_UpdateGrants(t *testing.T) {
	workspaceID, userID := primitive.NewObjectID(), primitive.NewObjectID()
	path := fmt.Sprintf("/workspaces/%s/members/%s/grants", workspaceID.Hex(), userID.Hex())

	tests := []struct {
		name           string
		path           string
		body           interface{}
		err            error
		expectedStatus int
	}{
		{"replaced", path, models.UpdateGrantsRequest{Modules: []string{"karigar"}}, nil, http.StatusOK},
		{"clear all grants", path, models.UpdateGrantsRequest{}, nil, http.StatusOK},
		{"invalid user id", fmt.Sprintf("/workspaces/%s/members/nope/grants", workspaceID.Hex()), models.UpdateGrantsRequest{}, nil, http.StatusBadRequest},
		{"not a member", path, models.UpdateGrantsRequest{}, apperrors.ErrNotWorkspaceMember, http.StatusNotFound},
		{"unknown module", path, models.UpdateGrantsRequest{Modules: []string{"six"}}, catalog.ErrUnknownModule, http.StatusBadRequest},
		{"owner grants are fixed", path, models.UpdateGrantsRequest{}, apperrors.ErrCannotChangeOwnerGrants, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockMembershipService{
				UpdateGrantsFunc: func(_ context.Context, ws, user primitive.ObjectID, req *models.UpdateGrantsRequest) (*models.Membership, error) {
					assert.Equal(t, workspaceID, ws)
					assert.Equal(t, userID, user)
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.Membership{WorkspaceID: ws, UserID: user, Modules: req.Modules}, nil
				},
			}

			w := performJSON(membershipRouter(m, primitive.NewObjectID().Hex(), workspaceID), http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestMembershipHandler_UpdateRole(t *testing.T) {
	workspaceID, userID := primitive.NewObjectID(), primitive.NewObjectID()
	path := fmt.Sprintf("/workspaces/%s/members/%s/role", workspaceID.Hex(), userID.Hex())

	tests := []struct {
		name           string
		body           interface{}
		err            error
		expectedStatus int
	}{
		{"promoted", models.UpdateRoleRequest{Role: models.RoleAdmin}, nil, http.StatusOK},
		{"owner role rejected by binding", models.UpdateRoleRequest{Role: models.RoleOwner}, nil, http.StatusBadRequest},
		{"owner cannot change", models.UpdateRoleRequest{Role: models.RoleStaff}, apperrors.ErrCannotChangeOwnerRole, http.StatusBadRequest},
		{"not a member", models.UpdateRoleRequest{Role: models.RoleStaff}, apperrors.ErrNotWorkspaceMember, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockMembershipService{
				UpdateRoleFunc: func(context.Context, primitive.ObjectID, primitive.ObjectID, string) error {
					return tt.err
				},
			}

			w := performJSON(membershipRouter(m, primitive.NewObjectID().Hex(), workspaceID), http.MethodPut, path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestMembershipHandler_RemoveMember(t *testing.T) {
	workspaceID, callerID, targetID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	path := fmt.Sprintf("/workspaces/%s/members/%s", workspaceID.Hex(), targetID.Hex())

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"removed", nil, http.StatusOK},
		{"owner", apperrors.ErrCannotRemoveOwner, http.StatusBadRequest},
		{"self", apperrors.ErrCannotRemoveSelf, http.StatusBadRequest},
		{"not a member", apperrors.ErrNotWorkspaceMember, http.StatusNotFound},
		{"store error", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockMembershipService{
				RemoveMemberFunc: func(_ context.Context, ws, target, requester primitive.ObjectID) error {
					assert.Equal(t, workspaceID, ws)
					assert.Equal(t, targetID, target)
					assert.Equal(t, callerID, requester)
					return tt.err
				},
			}

			w := performJSON(membershipRouter(m, callerID.Hex(), workspaceID), http.MethodDelete, path, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
