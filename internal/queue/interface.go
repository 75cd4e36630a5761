package queue

import (
	"context"
	"errors"
)

var (
	// ErrQueueFull means the buffer is at capacity and the event was not taken.
	ErrQueueFull = errors.New("queue is full")
	// ErrQueueClosed is returned once Close has been called.
	ErrQueueClosed = errors.New("queue is closed")
)

// Queue buffers access events between the request path and the writer.
// Enqueue never blocks; Dequeue blocks until a job arrives, the queue is
// closed and drained, or ctx is done.
type Queue interface {
	Enqueue(job AuditJob) error
	Dequeue(ctx context.Context) (AuditJob, error)
	Close()
	Len() int
	Capacity() int
}

var _ Queue = (*MemoryQueue)(nil)
