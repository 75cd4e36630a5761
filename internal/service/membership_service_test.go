package service

import (
	"context"
	"testing"

	cachemocks "workspace-access/internal/cache/mocks"
	"workspace-access/internal/catalog"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"
	repomocks "workspace-access/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type membershipFixture struct {
	memberships *repomocks.MockMembershipRepository
	users       *repomocks.MockUserRepository
	cache       *cachemocks.MockCache
	notifier    *recordingNotifier
	service     *MembershipService
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	ctrl := gomock.NewController(t)

	f := &membershipFixture{
		memberships: repomocks.NewMockMembershipRepository(ctrl),
		users:       repomocks.NewMockUserRepository(ctrl),
		cache:       cachemocks.NewMockCache(ctrl),
		notifier:    &recordingNotifier{},
	}
	f.service = NewMembershipService(f.memberships, f.users, f.cache, f.notifier, testCatalog(t))
	return f
}

func (f *membershipFixture) expectInvalidated(userID primitive.ObjectID) {
	f.cache.EXPECT().InvalidateSnapshot(gomock.Any(), userID.Hex()).Return(nil)
}

func TestMembershipService_ListMembers(t *testing.T) {
	f := newMembershipFixture(t)
	workspaceID := primitive.NewObjectID()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	f.memberships.EXPECT().FindByWorkspaceID(gomock.Any(), workspaceID).Return([]models.Membership{
		{WorkspaceID: workspaceID, UserID: alice, Role: models.RoleOwner},
		{WorkspaceID: workspaceID, UserID: bob, Role: models.RoleStaff},
	}, nil)
	f.users.EXPECT().FindByIDs(gomock.Any(), []primitive.ObjectID{alice, bob}).Return([]models.User{
		{ID: alice, Email: "alice@example.com", Name: "Alice"},
	}, nil)

	resp, err := f.service.ListMembers(context.Background(), workspaceID)

	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Alice", resp.Items[0].User.Name)
	assert.Nil(t, resp.Items[1].User)
}

func TestMembershipService_AddMember(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	user := &models.User{ID: primitive.NewObjectID(), Email: "staff@example.com", Name: "Staff"}

	t.Run("normalizes grants", func(t *testing.T) {
		f := newMembershipFixture(t)
		req := &models.AddMemberRequest{
			Email:       user.Email,
			Role:        models.RoleStaff,
			Modules:     []string{"salesman", "customer", "salesman"},
			Permissions: []string{"view_customer", "add_salesman"},
		}

		f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.memberships.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *models.Membership) error {
				assert.Equal(t, []string{"customer", "salesman"}, m.Modules)
				assert.Equal(t, []string{"add_salesman", "view_customer"}, m.Permissions)
				return nil
			})
		f.expectInvalidated(user.ID)

		member, err := f.service.AddMember(context.Background(), workspaceID, req)

		require.NoError(t, err)
		assert.Equal(t, user.Email, member.User.Email)
		assert.Equal(t, []notification{{user.ID.Hex(), workspaceID.Hex()}}, f.notifier.sent())
	})

	tests := []struct {
		name      string
		req       *models.AddMemberRequest
		setupMock func(f *membershipFixture)
		wantErr   error
	}{
		{
			name:    "owner role not assignable",
			req:     &models.AddMemberRequest{Email: user.Email, Role: models.RoleOwner},
			wantErr: apperrors.ErrInvalidRole,
		},
		{
			name:    "unknown module",
			req:     &models.AddMemberRequest{Email: user.Email, Role: models.RoleStaff, Modules: []string{"six"}},
			wantErr: catalog.ErrUnknownModule,
		},
		{
			name:    "unknown permission",
			req:     &models.AddMemberRequest{Email: user.Email, Role: models.RoleStaff, Permissions: []string{"fly"}},
			wantErr: catalog.ErrUnknownPermission,
		},
		{
			name: "user not found",
			req:  &models.AddMemberRequest{Email: "nobody@example.com", Role: models.RoleStaff},
			setupMock: func(f *membershipFixture) {
				f.users.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").Return(nil, apperrors.ErrUserNotFound)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
		{
			name: "already a member",
			req:  &models.AddMemberRequest{Email: user.Email, Role: models.RoleAdmin},
			setupMock: func(f *membershipFixture) {
				f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
				f.memberships.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperrors.ErrAlreadyMember)
			},
			wantErr: apperrors.ErrAlreadyMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMembershipFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			member, err := f.service.AddMember(context.Background(), workspaceID, tt.req)

			assert.Nil(t, member)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.sent())
		})
	}
}

func TestMembershipService_UpdateGrants(t *testing.T) {
	workspaceID, userID := primitive.NewObjectID(), primitive.NewObjectID()

	t.Run("replaces grants and invalidates", func(t *testing.T) {
		f := newMembershipFixture(t)
		req := &models.UpdateGrantsRequest{Modules: []string{"karigar"}}
		updated := &models.Membership{WorkspaceID: workspaceID, UserID: userID, Modules: []string{"karigar"}, Permissions: []string{}}

		gomock.InOrder(
			f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, userID).Return(&models.Membership{Role: models.RoleStaff}, nil),
			f.memberships.EXPECT().UpdateGrants(gomock.Any(), workspaceID, userID, []string{"karigar"}, []string{}).Return(nil),
			f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, userID).Return(updated, nil),
		)
		f.expectInvalidated(userID)

		membership, err := f.service.UpdateGrants(context.Background(), workspaceID, userID, req)

		require.NoError(t, err)
		assert.Equal(t, updated, membership)
		assert.Len(t, f.notifier.sent(), 1)
	})

	t.Run("not a member", func(t *testing.T) {
		f := newMembershipFixture(t)
		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, userID).Return(nil, apperrors.ErrNotWorkspaceMember)

		_, err := f.service.UpdateGrants(context.Background(), workspaceID, userID, &models.UpdateGrantsRequest{})

		assert.ErrorIs(t, err, apperrors.ErrNotWorkspaceMember)
		assert.Empty(t, f.notifier.sent())
	})

	t.Run("owner grants are fixed", func(t *testing.T) {
		f := newMembershipFixture(t)
		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, userID).Return(&models.Membership{Role: models.RoleOwner}, nil)
		// No UpdateGrants expectation: gomock fails the test if the owner's document is written.

		_, err := f.service.UpdateGrants(context.Background(), workspaceID, userID, &models.UpdateGrantsRequest{})

		assert.ErrorIs(t, err, apperrors.ErrCannotChangeOwnerGrants)
		assert.Empty(t, f.notifier.sent())
	})

	t.Run("unknown grants are rejected before any lookup", func(t *testing.T) {
		f := newMembershipFixture(t)

		_, err := f.service.UpdateGrants(context.Background(), workspaceID, userID, &models.UpdateGrantsRequest{Modules: []string{"six"}})

		assert.ErrorIs(t, err, catalog.ErrUnknownModule)
	})
}

func TestMembershipService_UpdateRole(t *testing.T) {
	workspaceID, userID := primitive.NewObjectID(), primitive.NewObjectID()

	t.Run("changes role", func(t *testing.T) {
		f := newMembershipFixture(t)
		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, userID).Return(&models.Membership{Role: models.RoleStaff}, nil)
		f.memberships.EXPECT().UpdateRole(gomock.Any(), workspaceID, userID, models.RoleAdmin).Return(nil)
		f.expectInvalidated(userID)

		assert.NoError(t, f.service.UpdateRole(context.Background(), workspaceID, userID, models.RoleAdmin))
	})

	t.Run("owner role is fixed", func(t *testing.T) {
		f := newMembershipFixture(t)
		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, userID).Return(&models.Membership{Role: models.RoleOwner}, nil)

		err := f.service.UpdateRole(context.Background(), workspaceID, userID, models.RoleStaff)
		assert.ErrorIs(t, err, apperrors.ErrCannotChangeOwnerRole)
	})

	t.Run("cannot promote to owner", func(t *testing.T) {
		f := newMembershipFixture(t)

		err := f.service.UpdateRole(context.Background(), workspaceID, userID, models.RoleOwner)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})
}

func TestMembershipService_RemoveMember(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	caller, target := primitive.NewObjectID(), primitive.NewObjectID()

	t.Run("removes member and clears their selection", func(t *testing.T) {
		f := newMembershipFixture(t)
		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, target).Return(&models.Membership{Role: models.RoleStaff}, nil)
		f.memberships.EXPECT().Delete(gomock.Any(), workspaceID, target).Return(nil)
		f.users.EXPECT().FindByID(gomock.Any(), target).Return(&models.User{ID: target, SelectedWorkspaceID: workspaceID}, nil)
		f.users.EXPECT().SetSelectedWorkspace(gomock.Any(), target, primitive.NilObjectID).Return(nil)
		f.expectInvalidated(target)

		require.NoError(t, f.service.RemoveMember(context.Background(), workspaceID, target, caller))
		assert.Equal(t, []notification{{target.Hex(), workspaceID.Hex()}}, f.notifier.sent())
	})

	t.Run("keeps selection of another workspace", func(t *testing.T) {
		f := newMembershipFixture(t)
		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, target).Return(&models.Membership{Role: models.RoleAdmin}, nil)
		f.memberships.EXPECT().Delete(gomock.Any(), workspaceID, target).Return(nil)
		f.users.EXPECT().FindByID(gomock.Any(), target).Return(&models.User{ID: target, SelectedWorkspaceID: primitive.NewObjectID()}, nil)
		f.expectInvalidated(target)

		assert.NoError(t, f.service.RemoveMember(context.Background(), workspaceID, target, caller))
	})

	t.Run("cannot remove self", func(t *testing.T) {
		f := newMembershipFixture(t)

		err := f.service.RemoveMember(context.Background(), workspaceID, caller, caller)
		assert.ErrorIs(t, err, apperrors.ErrCannotRemoveSelf)
	})

	t.Run("cannot remove owner", func(t *testing.T) {
		f := newMembershipFixture(t)
		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, target).Return(&models.Membership{Role: models.RoleOwner}, nil)

		err := f.service.RemoveMember(context.Background(), workspaceID, target, caller)
		assert.ErrorIs(t, err, apperrors.ErrCannotRemoveOwner)
	})
}
