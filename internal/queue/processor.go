package queue

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"workspace-access/internal/models"
)

const (
	// MaxRetries is the number of attempts made to store one event.
	MaxRetries = 3
	// RetryDelay is the base delay between retries (exponential backoff).
	RetryDelay = 500 * time.Millisecond
	// WriteTimeout bounds a single store write.
	WriteTimeout = 5 * time.Second
)

// EventRecorder persists access events.
type EventRecorder interface {
	Create(ctx context.Context, event *models.AccessEvent) error
}

// Processor drains the audit queue with a fixed pool of workers.
type Processor struct {
	queue        Queue
	recorder     EventRecorder
	workerCount  int
	retryDelay   time.Duration
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewProcessor creates a new audit processor.
func NewProcessor(queue Queue, recorder EventRecorder, workerCount int) *Processor {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Processor{
		queue:       queue,
		recorder:    recorder,
		workerCount: workerCount,
		retryDelay:  RetryDelay,
		shutdownCh:  make(chan struct{}),
	}
}

// Start begins processing jobs with the configured number of workers.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	log.Printf("Audit processor started with %d workers", p.workerCount)
}

// Stop closes the queue and waits for workers to drain it.
func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownCh)
		p.queue.Close()
	})
	p.wg.Wait()
	log.Println("Audit processor stopped")
}

func (p *Processor) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || errors.Is(err, context.Canceled) {
				return
			}
			continue
		}
		p.processJob(job)
	}
}

func (p *Processor) processJob(job AuditJob) {
	ctx, cancel := context.WithTimeout(context.Background(), WriteTimeout)
	defer cancel()

	event := job.Event
	if err := p.recorder.Create(ctx, &event); err != nil {
		log.Printf("Failed to store access event %s: %v", event.RequestID, err)
		p.handleFailure(job)
	}
}

func (p *Processor) handleFailure(job AuditJob) {
	job.RetryCount++

	if job.RetryCount >= MaxRetries {
		log.Printf("Dropping access event %s after %d attempts", job.Event.RequestID, job.RetryCount)
		return
	}

	delay := p.retryDelay * time.Duration(1<<uint(job.RetryCount-1))

	go func() {
		select {
		case <-p.shutdownCh:
			// The queue is closing; store the event inline one last time.
			p.processFinal(job)
		case <-time.After(delay):
			if err := p.queue.Enqueue(job); err != nil {
				log.Printf("Failed to re-enqueue access event %s: %v", job.Event.RequestID, err)
			}
		}
	}()
}

func (p *Processor) processFinal(job AuditJob) {
	ctx, cancel := context.WithTimeout(context.Background(), WriteTimeout)
	defer cancel()

	event := job.Event
	if err := p.recorder.Create(ctx, &event); err != nil {
		log.Printf("Dropping access event %s during shutdown: %v", event.RequestID, err)
	}
}
