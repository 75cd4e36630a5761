package service

import (
	"context"
	"errors"
	"log"
	"time"

	"workspace-access/internal/models"
	"workspace-access/internal/queue"
	"workspace-access/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditService records denied access attempts and lists them.
type AuditService struct {
	queue queue.Queue
	repo  repository.AccessEventRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(q queue.Queue, repo repository.AccessEventRepository) *AuditService {
	return &AuditService{queue: q, repo: repo}
}

// Record enqueues an event without blocking. A full queue drops the event.
func (s *AuditService) Record(event models.AccessEvent) {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if err := s.queue.Enqueue(queue.AuditJob{Event: event}); err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			log.Printf("Audit queue full, dropping access event %s", event.RequestID)
			return
		}
		log.Printf("Failed to enqueue access event %s: %v", event.RequestID, err)
	}
}

// ListEvents returns one page of a workspace's access events.
func (s *AuditService) ListEvents(ctx context.Context, workspaceID primitive.ObjectID, page, limit int) (*models.AccessEventListResponse, error) {
	events, total, err := s.repo.FindByWorkspaceID(ctx, workspaceID, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := total / limit
	if total%limit > 0 {
		totalPages++
	}

	return &models.AccessEventListResponse{
		Items: events,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}
