// Package queue buffers access audit events and persists them in the background.
package queue

import (
	"context"
	"sync"

	"workspace-access/internal/models"
)

// AuditJob is one denied access attempt waiting to be stored.
type AuditJob struct {
	Event      models.AccessEvent
	RetryCount int
}

// MemoryQueue is a bounded in-memory job queue.
type MemoryQueue struct {
	jobs     chan AuditJob
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewMemoryQueue creates a new in-memory queue with the given capacity.
func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{
		jobs:     make(chan AuditJob, capacity),
		capacity: capacity,
	}
}

// Enqueue adds a job without blocking. Returns ErrQueueFull or ErrQueueClosed.
// The read lock is held for the whole send so Close cannot race it.
func (q *MemoryQueue) Enqueue(job AuditJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue blocks until a job is available, ctx is done, or the queue is closed and drained.
func (q *MemoryQueue) Dequeue(ctx context.Context) (AuditJob, error) {
	select {
	case <-ctx.Done():
		return AuditJob{}, ctx.Err()
	case job, ok := <-q.jobs:
		if !ok {
			return AuditJob{}, ErrQueueClosed
		}
		return job, nil
	}
}

// Close closes the queue. Buffered jobs can still be dequeued.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}

// Len returns the current number of jobs in the queue.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

// Capacity returns the queue capacity.
func (q *MemoryQueue) Capacity() int {
	return q.capacity
}
