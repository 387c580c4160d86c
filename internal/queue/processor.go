package queue

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"zeme/internal/geocode"
	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxRetries is the maximum number of attempts for a geocode job.
	MaxRetries = 3
	// RetryDelay is the base delay between retries (exponential backoff).
	RetryDelay = 5 * time.Second
)

// CoordinateSetter stores geocoding results on listings.
type CoordinateSetter interface {
	SetCoordinates(ctx context.Context, id primitive.ObjectID, address string, coords models.Coordinates) (bool, error)
}

// Processor processes geocode jobs from the queue.
type Processor struct {
	queue        *MemoryQueue
	geocoder     geocode.Service
	setter       CoordinateSetter
	workerCount  int
	retryDelay   time.Duration
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}

	resolved atomic.Int64
	dropped  atomic.Int64
}

// NewProcessor creates a new geocode job processor.
func NewProcessor(queue *MemoryQueue, geocoder geocode.Service, setter CoordinateSetter, workerCount int) *Processor {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Processor{
		queue:       queue,
		geocoder:    geocoder,
		setter:      setter,
		workerCount: workerCount,
		retryDelay:  RetryDelay,
		shutdownCh:  make(chan struct{}),
	}
}

// Submit enqueues a geocode job for a listing. Failures are logged, never returned:
// a listing without coordinates is still valid and the nightly backfill picks it up.
func (p *Processor) Submit(listingID primitive.ObjectID, address string) {
	err := p.queue.Enqueue(GeocodeJob{ListingID: listingID, Address: address})
	switch {
	case err == nil, errors.Is(err, ErrAlreadyQueued), errors.Is(err, ErrInvalidJob):
	default:
		log.Printf("Failed to enqueue geocode job for listing %s: %v", listingID.Hex(), err)
	}
}

// Start begins processing jobs with the configured number of workers.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	log.Printf("Geocode processor started with %d workers", p.workerCount)
}

// Stop gracefully stops the processor, waiting for workers to finish.
func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownCh)
		p.queue.Close()
	})
	p.wg.Wait()
	log.Println("Geocode processor stopped")
}

// Resolved returns how many jobs stored coordinates.
func (p *Processor) Resolved() int64 { return p.resolved.Load() }

// Dropped returns how many jobs were abandoned.
func (p *Processor) Dropped() int64 { return p.dropped.Load() }

func (p *Processor) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	log.Printf("Worker %d started", id)

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || ctx.Err() != nil {
				log.Printf("Worker %d shutting down", id)
				return
			}
			continue
		}
		p.processJob(ctx, job)
	}
}

func (p *Processor) processJob(ctx context.Context, job GeocodeJob) {
	log.Printf("Geocoding listing %s (attempt %d)", job.ListingID.Hex(), job.RetryCount+1)

	candidates, err := p.geocoder.Search(ctx, job.Address)
	if err != nil {
		log.Printf("Geocoding failed for listing %s: %v", job.ListingID.Hex(), err)
		p.handleFailure(job)
		return
	}
	if len(candidates) == 0 {
		log.Printf("No geocoding match for listing %s", job.ListingID.Hex())
		p.dropped.Add(1)
		return
	}

	best := candidates[0]
	updated, err := p.setter.SetCoordinates(ctx, job.ListingID, job.Address, models.Coordinates{Lat: best.Lat, Lng: best.Lng})
	if err != nil {
		log.Printf("Failed to store coordinates for listing %s: %v", job.ListingID.Hex(), err)
		p.handleFailure(job)
		return
	}
	if !updated {
		// Address changed or coordinates were set meanwhile.
		log.Printf("Listing %s no longer needs coordinates", job.ListingID.Hex())
		p.dropped.Add(1)
		return
	}

	p.resolved.Add(1)
	log.Printf("Geocoding completed for listing %s", job.ListingID.Hex())
}

func (p *Processor) handleFailure(job GeocodeJob) {
	job.RetryCount++

	if job.RetryCount >= MaxRetries {
		log.Printf("Max retries reached for listing %s, giving up", job.ListingID.Hex())
		p.dropped.Add(1)
		return
	}

	delay := p.retryDelay * time.Duration(1<<uint(job.RetryCount-1))
	log.Printf("Retrying listing %s in %v (attempt %d/%d)", job.ListingID.Hex(), delay, job.RetryCount+1, MaxRetries)

	// Uses shutdownCh instead of ctx so pending retries end with the processor.
	go func() {
		select {
		case <-p.shutdownCh:
			log.Printf("Shutdown during retry delay for listing %s, dropping job", job.ListingID.Hex())
			p.dropped.Add(1)
		case <-time.After(delay):
			err := p.queue.Enqueue(job)
			if errors.Is(err, ErrAlreadyQueued) {
				// A fresh submission for the same address is already waiting.
				return
			}
			if err != nil {
				log.Printf("Failed to re-enqueue job for listing %s: %v", job.ListingID.Hex(), err)
				p.dropped.Add(1)
			}
		}
	}()
}
