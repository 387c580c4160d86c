// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"zeme/internal/models"
	"zeme/internal/queue"

	"github.com/robfig/cron/v3"
)

const (
	// BackfillBatchSize caps the listings enqueued per run.
	BackfillBatchSize = 200
	// BackfillTimeout bounds a single run.
	BackfillTimeout = 2 * time.Minute
)

// MissingCoordinatesFinder lists published listings without coordinates.
type MissingCoordinatesFinder interface {
	FindPublishedMissingCoordinates(ctx context.Context, limit int64) ([]models.Listing, error)
}

// Backfill periodically enqueues geocode jobs for listings that never got coordinates.
type Backfill struct {
	finder   MissingCoordinatesFinder
	queue    queue.Queue
	schedule string
	cron     *cron.Cron
}

// NewBackfill creates a backfill job. schedule is a six-field cron expression
// (seconds first).
func NewBackfill(finder MissingCoordinatesFinder, q queue.Queue, schedule string) *Backfill {
	return &Backfill{
		finder:   finder,
		queue:    q,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start registers the job and starts the cron runner.
func (b *Backfill) Start() error {
	_, err := b.cron.AddFunc(b.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), BackfillTimeout)
		defer cancel()

		if _, err := b.Run(ctx); err != nil {
			log.Printf("Geocode backfill failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", b.schedule, err)
	}

	b.cron.Start()
	log.Printf("Geocode backfill scheduled (%s)", b.schedule)
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (b *Backfill) Stop() {
	<-b.cron.Stop().Done()
}

// Run enqueues one batch and returns how many jobs were queued. It stops early
// when the queue is full.
func (b *Backfill) Run(ctx context.Context) (int, error) {
	listings, err := b.finder.FindPublishedMissingCoordinates(ctx, BackfillBatchSize)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, l := range listings {
		if l.BasicInformation.Address == "" {
			continue
		}
		err := b.queue.Enqueue(queue.GeocodeJob{ListingID: l.ID, Address: l.BasicInformation.Address})
		if errors.Is(err, queue.ErrAlreadyQueued) {
			continue
		}
		if errors.Is(err, queue.ErrQueueFull) {
			log.Printf("Geocode queue full, backfill resumes next run")
			break
		}
		if err != nil {
			return queued, err
		}
		queued++
	}

	log.Printf("Geocode backfill queued %d of %d listings", queued, len(listings))
	return queued, nil
}
