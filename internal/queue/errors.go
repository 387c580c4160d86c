package queue

import "errors"

var (
	// ErrQueueFull is returned when no geocode slot is free.
	ErrQueueFull = errors.New("geocode queue is full")
	// ErrQueueClosed is returned once the processor has shut the queue.
	ErrQueueClosed = errors.New("geocode queue is closed")
	// ErrInvalidJob is returned for a job without a listing id or address.
	ErrInvalidJob = errors.New("geocode job needs a listing id and an address")
	// ErrAlreadyQueued is returned when the same listing and address are
	// already waiting to be geocoded.
	ErrAlreadyQueued = errors.New("geocode job already queued")
)
