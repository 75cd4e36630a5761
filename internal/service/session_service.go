package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"workspace-access/internal/access"
	"workspace-access/internal/cache"
	"workspace-access/internal/models"
	"workspace-access/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionService serves the caller's membership snapshot and evaluates requirements against it.
type SessionService struct {
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	cache          cache.Cache
	snapshotTTL    time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	cache cache.Cache,
	snapshotTTL time.Duration,
) *SessionService {
	return &SessionService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
		snapshotTTL:    snapshotTTL,
	}
}

// Snapshot returns the user's memberships, read through the cache.
// Cache failures fall back to the database. The generation is read before
// the database so a write that raced with an invalidation is discarded.
func (s *SessionService) Snapshot(ctx context.Context, userID primitive.ObjectID) ([]access.Membership, error) {
	uid := userID.Hex()

	var cached []access.Membership
	found, err := s.cache.Get(ctx, cache.SessionCacheKey(uid), &cached)
	if err != nil {
		log.Printf("Session cache read failed for user %s: %v", uid, err)
	}
	if found {
		return cached, nil
	}

	generation, genErr := s.cache.SnapshotGeneration(ctx, uid)
	if genErr != nil {
		log.Printf("Session generation read failed for user %s: %v", uid, genErr)
	}

	memberships, err := s.membershipRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot := models.Snapshots(memberships)

	// Without a generation the write cannot be checked, so skip it.
	if genErr == nil {
		if _, err := s.cache.SetSnapshot(ctx, uid, generation, snapshot, s.snapshotTTL); err != nil {
			log.Printf("Session cache write failed for user %s: %v", uid, err)
		}
	}

	return snapshot, nil
}

// GetSession returns the user, their snapshot and their selected workspace.
// A selection the user is no longer a member of is reported as empty.
func (s *SessionService) GetSession(ctx context.Context, userID primitive.ObjectID) (*models.SessionResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	selected := ""
	if !user.SelectedWorkspaceID.IsZero() {
		if _, ok := access.Find(snapshot, user.SelectedWorkspaceID.Hex()); ok {
			selected = user.SelectedWorkspaceID.Hex()
		}
	}

	return &models.SessionResponse{
		User:                models.UserSummary{ID: user.ID, Email: user.Email, Name: user.Name},
		SelectedWorkspaceID: selected,
		Memberships:         snapshot,
	}, nil
}

// SelectWorkspace switches the selected workspace. The user must be a member of it.
func (s *SessionService) SelectWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) (*models.SessionResponse, error) {
	if _, err := s.membershipRepo.FindByWorkspaceAndUser(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.SetSelectedWorkspace(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	return s.GetSession(ctx, userID)
}

// Check evaluates one requirement against the session's selected workspace.
func (s *SessionService) Check(ctx context.Context, userID primitive.ObjectID, spec access.Spec) (*models.AccessCheckResponse, error) {
	q, err := spec.Query()
	if err != nil {
		return nil, err
	}

	session, err := s.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := evaluate(session, q)
	return &result, nil
}

// BatchCheck evaluates named requirements against one session read.
func (s *SessionService) BatchCheck(ctx context.Context, userID primitive.ObjectID, checks map[string]access.Spec) (*models.BatchAccessCheckResponse, error) {
	queries := make(map[string]access.Query, len(checks))
	for name, spec := range checks {
		q, err := spec.Query()
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", name, err)
		}
		queries[name] = q
	}

	session, err := s.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make(map[string]models.AccessCheckResponse, len(queries))
	for name, q := range queries {
		results[name] = evaluate(session, q)
	}

	return &models.BatchAccessCheckResponse{
		WorkspaceID: session.SelectedWorkspaceID,
		Results:     results,
	}, nil
}

func evaluate(session *models.SessionResponse, q access.Query) models.AccessCheckResponse {
	decision := access.Evaluate(session.Memberships, session.SelectedWorkspaceID, q)
	return models.AccessCheckResponse{
		Decision:    decision,
		WorkspaceID: session.SelectedWorkspaceID,
		Message:     decision.Message(),
	}
}
