package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"workspace-access/internal/access"
	"workspace-access/internal/cache"
	cachemocks "workspace-access/internal/cache/mocks"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"
	repomocks "workspace-access/internal/repository/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

const testSnapshotTTL = 5 * time.Minute

type sessionFixture struct {
	users       *repomocks.MockUserRepository
	memberships *repomocks.MockMembershipRepository
	cache       *cachemocks.MockCache
	service     *SessionService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	ctrl := gomock.NewController(t)

	f := &sessionFixture{
		users:       repomocks.NewMockUserRepository(ctrl),
		memberships: repomocks.NewMockMembershipRepository(ctrl),
		cache:       cachemocks.NewMockCache(ctrl),
	}
	f.service = NewSessionService(f.users, f.memberships, f.cache, testSnapshotTTL)
	return f
}

// expectCachedSnapshot serves snapshot from the session cache.
func (f *sessionFixture) expectCachedSnapshot(userID primitive.ObjectID, snapshot []access.Membership) {
	f.cache.EXPECT().
		Get(gomock.Any(), cache.SessionCacheKey(userID.Hex()), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dest interface{}) (bool, error) {
			*dest.(*[]access.Membership) = snapshot
			return true, nil
		})
}

func storeMemberships(workspaceID primitive.ObjectID) []models.Membership {
	return []models.Membership{{
		WorkspaceID: workspaceID,
		Role:        models.RoleStaff,
		Modules:     []string{"salesman"},
		Permissions: []string{"add_salesman", "update_salesman"},
	}}
}

func TestSessionService_Snapshot(t *testing.T) {
	userID := primitive.NewObjectID()
	workspaceID := primitive.NewObjectID()
	uid := userID.Hex()
	key := cache.SessionCacheKey(uid)

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newSessionFixture(t)
		cached := models.Snapshots(storeMemberships(workspaceID))
		f.expectCachedSnapshot(userID, cached)

		snapshot, err := f.service.Snapshot(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, cached, snapshot)
	})

	t.Run("cache miss loads and stores at the observed generation", func(t *testing.T) {
		f := newSessionFixture(t)
		stored := storeMemberships(workspaceID)

		gomock.InOrder(
			f.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(false, nil),
			f.cache.EXPECT().SnapshotGeneration(gomock.Any(), uid).Return(int64(4), nil),
			f.memberships.EXPECT().FindByUserID(gomock.Any(), userID).Return(stored, nil),
			f.cache.EXPECT().SetSnapshot(gomock.Any(), uid, int64(4), models.Snapshots(stored), testSnapshotTTL).Return(true, nil),
		)

		snapshot, err := f.service.Snapshot(context.Background(), userID)

		require.NoError(t, err)
		require.Len(t, snapshot, 1)
		assert.Equal(t, workspaceID.Hex(), snapshot[0].WorkspaceID)
	})

	t.Run("cache errors fall back to the database", func(t *testing.T) {
		f := newSessionFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(false, errors.New("connection refused"))
		f.cache.EXPECT().SnapshotGeneration(gomock.Any(), uid).Return(int64(0), nil)
		f.memberships.EXPECT().FindByUserID(gomock.Any(), userID).Return(nil, nil)
		f.cache.EXPECT().SetSnapshot(gomock.Any(), uid, int64(0), gomock.Any(), testSnapshotTTL).Return(false, errors.New("connection refused"))

		snapshot, err := f.service.Snapshot(context.Background(), userID)

		require.NoError(t, err)
		assert.NotNil(t, snapshot)
		assert.Empty(t, snapshot)
	})

	t.Run("unknown generation skips the cache write", func(t *testing.T) {
		f := newSessionFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(false, nil)
		f.cache.EXPECT().SnapshotGeneration(gomock.Any(), uid).Return(int64(0), errors.New("connection refused"))
		f.memberships.EXPECT().FindByUserID(gomock.Any(), userID).Return(storeMemberships(workspaceID), nil)
		// No SetSnapshot expectation: an unchecked write could restore revoked grants.

		snapshot, err := f.service.Snapshot(context.Background(), userID)

		require.NoError(t, err)
		assert.Len(t, snapshot, 1)
	})

	t.Run("database error", func(t *testing.T) {
		f := newSessionFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(false, nil)
		f.cache.EXPECT().SnapshotGeneration(gomock.Any(), uid).Return(int64(0), nil)
		f.memberships.EXPECT().FindByUserID(gomock.Any(), userID).Return(nil, errors.New("db down"))

		_, err := f.service.Snapshot(context.Background(), userID)
		assert.Error(t, err)
	})
}

// A grant change that commits while a reader is between the store read and
// the cache write must not leave the reader's older snapshot in the cache.
func TestSessionService_SnapshotRevocationDuringLoad(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	userID := primitive.NewObjectID()
	workspaceID := primitive.NewObjectID()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	redisCache := cache.NewRedisFromClient(client)

	users := repomocks.NewMockUserRepository(ctrl)
	memberships := repomocks.NewMockMembershipRepository(ctrl)
	notifier := &recordingNotifier{}
	service := NewSessionService(users, memberships, redisCache, testSnapshotTTL)

	before := storeMemberships(workspaceID)
	after := []models.Membership{{WorkspaceID: workspaceID, Role: models.RoleStaff}}

	gomock.InOrder(
		memberships.EXPECT().
			FindByUserID(gomock.Any(), userID).
			DoAndReturn(func(ctx context.Context, _ primitive.ObjectID) ([]models.Membership, error) {
				// The revocation commits after this read and invalidates.
				grantsChanged(ctx, redisCache, notifier, userID, workspaceID)
				return before, nil
			}),
		memberships.EXPECT().FindByUserID(gomock.Any(), userID).Return(after, nil),
	)

	stale, err := service.Snapshot(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"salesman"}, stale[0].Modules, "the in-flight read still answers with what it loaded")
	assert.False(t, mr.Exists(cache.SessionCacheKey(userID.Hex())), "stale snapshot must not be cached")

	fresh, err := service.Snapshot(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, fresh[0].Modules)
	assert.False(t, access.Evaluate(fresh, workspaceID.Hex(), access.RequireModule("salesman")).Granted)
	assert.True(t, mr.Exists(cache.SessionCacheKey(userID.Hex())))
	assert.Len(t, notifier.sent(), 1)
}

func TestSessionService_GetSession(t *testing.T) {
	workspaceID := primitive.NewObjectID()

	tests := []struct {
		name     string
		selected primitive.ObjectID
		expected string
	}{
		{"selection is a membership", workspaceID, workspaceID.Hex()},
		{"stale selection reported empty", primitive.NewObjectID(), ""},
		{"no selection", primitive.NilObjectID, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			user := &models.User{ID: primitive.NewObjectID(), Email: "a@example.com", SelectedWorkspaceID: tt.selected}

			f.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
			f.expectCachedSnapshot(user.ID, models.Snapshots(storeMemberships(workspaceID)))

			session, err := f.service.GetSession(context.Background(), user.ID)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, session.SelectedWorkspaceID)
			assert.Equal(t, user.Email, session.User.Email)
			assert.Len(t, session.Memberships, 1)
		})
	}
}

func TestSessionService_SelectWorkspace(t *testing.T) {
	userID, workspaceID := primitive.NewObjectID(), primitive.NewObjectID()

	t.Run("member switches selection", func(t *testing.T) {
		f := newSessionFixture(t)

		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, userID).Return(&models.Membership{}, nil)
		f.users.EXPECT().SetSelectedWorkspace(gomock.Any(), userID, workspaceID).Return(nil)
		f.users.EXPECT().FindByID(gomock.Any(), userID).Return(&models.User{ID: userID, SelectedWorkspaceID: workspaceID}, nil)
		f.expectCachedSnapshot(userID, models.Snapshots(storeMemberships(workspaceID)))

		session, err := f.service.SelectWorkspace(context.Background(), userID, workspaceID)

		require.NoError(t, err)
		assert.Equal(t, workspaceID.Hex(), session.SelectedWorkspaceID)
	})

	t.Run("non-member rejected", func(t *testing.T) {
		f := newSessionFixture(t)

		f.memberships.EXPECT().FindByWorkspaceAndUser(gomock.Any(), workspaceID, userID).Return(nil, apperrors.ErrNotWorkspaceMember)

		session, err := f.service.SelectWorkspace(context.Background(), userID, workspaceID)

		assert.Nil(t, session)
		assert.ErrorIs(t, err, apperrors.ErrNotWorkspaceMember)
	})
}

func TestSessionService_Check(t *testing.T) {
	workspaceID := primitive.NewObjectID()

	tests := []struct {
		name     string
		selected primitive.ObjectID
		spec     access.Spec
		granted  bool
		message  string
	}{
		{"granted", workspaceID, access.Spec{Module: "salesman", Permission: "add_salesman"}, true, ""},
		{"permission denied", workspaceID, access.Spec{Permission: "delete_salesman"}, false, access.MessagePermissionDenied},
		{"module denied", workspaceID, access.Spec{Modules: []string{"karigar", "metal"}}, false, access.MessageModuleDenied},
		{"no selection fails closed", primitive.NilObjectID, access.Spec{Module: "salesman"}, false, access.MessageModuleDenied},
		{"open requirement without selection", primitive.NilObjectID, access.Spec{}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			userID := primitive.NewObjectID()

			f.users.EXPECT().FindByID(gomock.Any(), userID).Return(&models.User{ID: userID, SelectedWorkspaceID: tt.selected}, nil)
			f.expectCachedSnapshot(userID, models.Snapshots(storeMemberships(workspaceID)))

			result, err := f.service.Check(context.Background(), userID, tt.spec)

			require.NoError(t, err)
			assert.Equal(t, tt.granted, result.Granted)
			assert.Equal(t, tt.message, result.Message)
		})
	}

	t.Run("ambiguous requirement", func(t *testing.T) {
		f := newSessionFixture(t)

		_, err := f.service.Check(context.Background(), primitive.NewObjectID(), access.Spec{Module: "a", Modules: []string{"b"}})
		assert.ErrorIs(t, err, access.ErrAmbiguousRequirement)
	})
}

func TestSessionService_BatchCheck(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	t.Run("evaluates every check against one session", func(t *testing.T) {
		f := newSessionFixture(t)

		f.users.EXPECT().FindByID(gomock.Any(), userID).Return(&models.User{ID: userID, SelectedWorkspaceID: workspaceID}, nil).Times(1)
		f.expectCachedSnapshot(userID, models.Snapshots(storeMemberships(workspaceID)))

		resp, err := f.service.BatchCheck(context.Background(), userID, map[string]access.Spec{
			"canAddSalesman":    {Permission: "add_salesman"},
			"canDeleteSalesman": {Permission: "delete_salesman"},
			"salesOrCustomer":   {Modules: []string{"salesman", "customer"}},
		})

		require.NoError(t, err)
		assert.Equal(t, workspaceID.Hex(), resp.WorkspaceID)
		assert.True(t, resp.Results["canAddSalesman"].Granted)
		assert.False(t, resp.Results["canDeleteSalesman"].Granted)
		assert.True(t, resp.Results["canDeleteSalesman"].PermissionCheckFailed)
		assert.True(t, resp.Results["salesOrCustomer"].Granted)
	})

	t.Run("ambiguous check names the offender", func(t *testing.T) {
		f := newSessionFixture(t)

		_, err := f.service.BatchCheck(context.Background(), userID, map[string]access.Spec{
			"broken": {Permission: "x", Permissions: []string{"y"}},
		})

		assert.ErrorIs(t, err, access.ErrAmbiguousRequirement)
		assert.Contains(t, err.Error(), `"broken"`)
	})
}
