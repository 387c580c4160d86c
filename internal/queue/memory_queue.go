// Package queue geocodes listing addresses in the background.
package queue

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeocodeJob asks for a listing's address to be resolved to coordinates.
type GeocodeJob struct {
	ListingID  primitive.ObjectID
	Address    string
	RetryCount int
}

func (j GeocodeJob) key() jobKey {
	return jobKey{listingID: j.ListingID, address: strings.TrimSpace(j.Address)}
}

type jobKey struct {
	listingID primitive.ObjectID
	address   string
}

// MemoryQueue is a bounded in-memory queue of geocode jobs. A listing address
// is held at most once while it waits; a saved listing that is edited twice
// before a worker reaches it costs one lookup.
type MemoryQueue struct {
	jobs     chan GeocodeJob
	capacity int
	mu       sync.Mutex
	pending  map[jobKey]struct{}
	closed   bool
}

// NewMemoryQueue creates a queue holding at most capacity jobs.
func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{
		jobs:     make(chan GeocodeJob, capacity),
		capacity: capacity,
		pending:  make(map[jobKey]struct{}, capacity),
	}
}

// Enqueue adds a job without blocking. It fails with ErrInvalidJob,
// ErrAlreadyQueued, ErrQueueFull or ErrQueueClosed.
func (q *MemoryQueue) Enqueue(job GeocodeJob) error {
	key := job.key()
	if key.listingID.IsZero() || key.address == "" {
		return ErrInvalidJob
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if _, ok := q.pending[key]; ok {
		return ErrAlreadyQueued
	}

	select {
	case q.jobs <- job:
		q.pending[key] = struct{}{}
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue blocks until a job is available, ctx ends or the queue is closed
// and drained.
func (q *MemoryQueue) Dequeue(ctx context.Context) (GeocodeJob, error) {
	select {
	case <-ctx.Done():
		return GeocodeJob{}, ctx.Err()
	case job, ok := <-q.jobs:
		if !ok {
			return GeocodeJob{}, ErrQueueClosed
		}
		q.mu.Lock()
		delete(q.pending, job.key())
		q.mu.Unlock()
		return job, nil
	}
}

// Close stops further enqueues. Jobs already queued can still be dequeued.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}

// Len returns the number of waiting jobs.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

// Capacity returns the queue capacity.
func (q *MemoryQueue) Capacity() int {
	return q.capacity
}
