package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	geocodemocks "zeme/internal/geocode/mocks"
	"zeme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

// MockSetter implements CoordinateSetter for testing.
type MockSetter struct {
	mu       sync.Mutex
	coords   map[string]models.Coordinates
	calls    int
	errors   map[string]error
	notFound map[string]bool
}

func NewMockSetter() *MockSetter {
	return &MockSetter{
		coords:   make(map[string]models.Coordinates),
		errors:   make(map[string]error),
		notFound: make(map[string]bool),
	}
}

func (m *MockSetter) SetCoordinates(ctx context.Context, id primitive.ObjectID, address string, coords models.Coordinates) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	key := id.Hex()
	if err, ok := m.errors[key]; ok {
		return false, err
	}
	if m.notFound[key] {
		return false, nil
	}
	m.coords[key] = coords
	return true, nil
}

func (m *MockSetter) GetCoordinates(id primitive.ObjectID) (models.Coordinates, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coords[id.Hex()]
	return c, ok
}

func (m *MockSetter) GetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestNewProcessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := NewMemoryQueue(10)
	mockGeocoder := geocodemocks.NewMockService(ctrl)
	mockSetter := NewMockSetter()

	processor := NewProcessor(queue, mockGeocoder, mockSetter, 2)

	assert.NotNil(t, processor)
	assert.Equal(t, queue, processor.queue)
	assert.Equal(t, mockGeocoder, processor.geocoder)
	assert.Equal(t, mockSetter, processor.setter)
	assert.Equal(t, 2, processor.workerCount)
	assert.Equal(t, RetryDelay, processor.retryDelay)

	t.Run("at least one worker", func(t *testing.T) {
		p := NewProcessor(queue, mockGeocoder, mockSetter, 0)
		assert.Equal(t, 1, p.workerCount)
	})
}

func TestProcessor_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := NewMemoryQueue(1)
	processor := NewProcessor(queue, geocodemocks.NewMockService(ctrl), NewMockSetter(), 1)

	processor.Submit(primitive.NewObjectID(), "")
	assert.Equal(t, 0, queue.Len(), "empty address is not queued")

	id := primitive.NewObjectID()
	processor.Submit(id, "350 5th Ave")
	require.Equal(t, 1, queue.Len())

	processor.Submit(id, "350 5th Ave")
	assert.Equal(t, 1, queue.Len(), "waiting address is coalesced")

	// Full queue is logged and ignored
	processor.Submit(primitive.NewObjectID(), "1 Main St")
	assert.Equal(t, 1, queue.Len())

	job, err := queue.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, job.ListingID)
	assert.Equal(t, "350 5th Ave", job.Address)
	assert.Equal(t, 0, job.RetryCount)
}

func TestProcessor_StartStop(t *testing.T) {
	t.Run("starts and stops cleanly", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		processor := NewProcessor(queue, geocodemocks.NewMockService(ctrl), NewMockSetter(), 3)

		processor.Start(context.Background())
		time.Sleep(50 * time.Millisecond)

		done := make(chan struct{})
		go func() {
			processor.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Stop() timed out")
		}
	})

	t.Run("workers exit when the context deadline passes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		processor := NewProcessor(NewMemoryQueue(10), geocodemocks.NewMockService(ctrl), NewMockSetter(), 2)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		processor.Start(ctx)

		// Workers must be gone without Stop closing the queue.
		done := make(chan struct{})
		go func() {
			processor.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("workers kept running after the deadline")
		}
		processor.Stop()
	})

		t.Run("stop is idempotent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		processor := NewProcessor(NewMemoryQueue(10), geocodemocks.NewMockService(ctrl), NewMockSetter(), 1)
		processor.Start(context.Background())

		processor.Stop()
		processor.Stop()
		processor.Stop()
	})
}

func TestProcessor_ProcessJob(t *testing.T) {
	t.Run("stores the best candidate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		mockGeocoder := geocodemocks.NewMockService(ctrl)
		mockSetter := NewMockSetter()
		processor := NewProcessor(queue, mockGeocoder, mockSetter, 1)

		listingID := primitive.NewObjectID()
		mockGeocoder.EXPECT().
			Search(gomock.Any(), "350 5th Ave").
			Return([]models.Candidate{
				{DisplayName: "Empire State Building", Lat: 40.7484, Lng: -73.9857},
				{DisplayName: "Somewhere else", Lat: 1, Lng: 2},
			}, nil)

		_ = queue.Enqueue(GeocodeJob{ListingID: listingID, Address: "350 5th Ave"})

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)
		time.Sleep(200 * time.Millisecond)
		cancel()
		processor.Stop()

		coords, ok := mockSetter.GetCoordinates(listingID)
		require.True(t, ok)
		assert.Equal(t, models.Coordinates{Lat: 40.7484, Lng: -73.9857}, coords)
		assert.Equal(t, int64(1), processor.Resolved())
		assert.Equal(t, int64(0), processor.Dropped())
	})

	t.Run("drops job without matches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		mockGeocoder := geocodemocks.NewMockService(ctrl)
		mockSetter := NewMockSetter()
		processor := NewProcessor(queue, mockGeocoder, mockSetter, 1)

		mockGeocoder.EXPECT().
			Search(gomock.Any(), "nowhere").
			Return([]models.Candidate{}, nil)

		_ = queue.Enqueue(GeocodeJob{ListingID: primitive.NewObjectID(), Address: "nowhere"})

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)
		time.Sleep(200 * time.Millisecond)
		cancel()
		processor.Stop()

		assert.Equal(t, 0, mockSetter.GetCalls())
		assert.Equal(t, int64(1), processor.Dropped())
	})

	t.Run("drops job when listing no longer needs coordinates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		mockGeocoder := geocodemocks.NewMockService(ctrl)
		mockSetter := NewMockSetter()
		processor := NewProcessor(queue, mockGeocoder, mockSetter, 1)

		listingID := primitive.NewObjectID()
		mockSetter.notFound[listingID.Hex()] = true
		mockGeocoder.EXPECT().
			Search(gomock.Any(), gomock.Any()).
			Return([]models.Candidate{{Lat: 1, Lng: 1}}, nil)

		_ = queue.Enqueue(GeocodeJob{ListingID: listingID, Address: "old address"})

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)
		time.Sleep(200 * time.Millisecond)
		cancel()
		processor.Stop()

		assert.Equal(t, 1, mockSetter.GetCalls())
		assert.Equal(t, int64(0), processor.Resolved())
		assert.Equal(t, int64(1), processor.Dropped())
	})

	t.Run("retries after geocoder failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		mockGeocoder := geocodemocks.NewMockService(ctrl)
		mockSetter := NewMockSetter()
		processor := NewProcessor(queue, mockGeocoder, mockSetter, 1)
		processor.retryDelay = 10 * time.Millisecond

		listingID := primitive.NewObjectID()
		gomock.InOrder(
			mockGeocoder.EXPECT().Search(gomock.Any(), "350 5th Ave").Return(nil, assert.AnError),
			mockGeocoder.EXPECT().Search(gomock.Any(), "350 5th Ave").Return([]models.Candidate{{Lat: 40.7, Lng: -73.9}}, nil),
		)

		_ = queue.Enqueue(GeocodeJob{ListingID: listingID, Address: "350 5th Ave"})

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)
		time.Sleep(300 * time.Millisecond)
		cancel()
		processor.Stop()

		coords, ok := mockSetter.GetCoordinates(listingID)
		require.True(t, ok)
		assert.Equal(t, 40.7, coords.Lat)
		assert.Equal(t, int64(1), processor.Resolved())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		mockGeocoder := geocodemocks.NewMockService(ctrl)
		mockSetter := NewMockSetter()
		processor := NewProcessor(queue, mockGeocoder, mockSetter, 1)

		mockGeocoder.EXPECT().
			Search(gomock.Any(), gomock.Any()).
			Return(nil, assert.AnError)

		_ = queue.Enqueue(GeocodeJob{
			ListingID:  primitive.NewObjectID(),
			Address:    "350 5th Ave",
			RetryCount: MaxRetries - 1,
		})

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)
		time.Sleep(200 * time.Millisecond)
		cancel()
		processor.Stop()

		assert.Equal(t, 0, queue.Len())
		assert.Equal(t, int64(1), processor.Dropped())
	})

	t.Run("store failure is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		mockGeocoder := geocodemocks.NewMockService(ctrl)
		mockSetter := NewMockSetter()
		processor := NewProcessor(queue, mockGeocoder, mockSetter, 1)

		listingID := primitive.NewObjectID()
		mockSetter.errors[listingID.Hex()] = assert.AnError
		mockGeocoder.EXPECT().
			Search(gomock.Any(), gomock.Any()).
			Return([]models.Candidate{{Lat: 1, Lng: 1}}, nil)

		_ = queue.Enqueue(GeocodeJob{ListingID: listingID, Address: "350 5th Ave", RetryCount: MaxRetries - 1})

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)
		time.Sleep(200 * time.Millisecond)
		cancel()
		processor.Stop()

		assert.Equal(t, 1, mockSetter.GetCalls())
		assert.Equal(t, int64(1), processor.Dropped())
	})
}

func TestProcessor_RetryDelay(t *testing.T) {
	// retryDelay * 2^(retryCount-1)
	delays := []time.Duration{
		RetryDelay * time.Duration(1<<0),
		RetryDelay * time.Duration(1<<1),
	}

	assert.Equal(t, 5*time.Second, delays[0])
	assert.Equal(t, 10*time.Second, delays[1])
}

func TestProcessor_PendingRetryDroppedOnShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := NewMemoryQueue(10)
	mockGeocoder := geocodemocks.NewMockService(ctrl)
	processor := NewProcessor(queue, mockGeocoder, NewMockSetter(), 1)
	processor.retryDelay = time.Hour

	mockGeocoder.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	_ = queue.Enqueue(GeocodeJob{ListingID: primitive.NewObjectID(), Address: "350 5th Ave"})

	processor.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	processor.Stop()

	assert.Eventually(t, func() bool { return processor.Dropped() == 1 }, time.Second, 10*time.Millisecond)
}

func TestProcessor_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := NewMemoryQueue(100)
	mockGeocoder := geocodemocks.NewMockService(ctrl)
	mockSetter := NewMockSetter()
	processor := NewProcessor(queue, mockGeocoder, mockSetter, 5)

	jobCount := 10
	ids := make([]primitive.ObjectID, jobCount)

	mockGeocoder.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		Return([]models.Candidate{{Lat: 40.7, Lng: -73.9}}, nil).
		Times(jobCount)

	for i := 0; i < jobCount; i++ {
		ids[i] = primitive.NewObjectID()
		_ = queue.Enqueue(GeocodeJob{ListingID: ids[i], Address: "350 5th Ave"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	processor.Start(ctx)
	time.Sleep(500 * time.Millisecond)
	cancel()
	processor.Stop()

	for _, id := range ids {
		_, ok := mockSetter.GetCoordinates(id)
		assert.True(t, ok, "Job for listing %s was not processed", id.Hex())
	}
	assert.Equal(t, int64(jobCount), processor.Resolved())
}
