package scheduler

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_TrackNew(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	task, ok := r.TrackNew(id)
	require.True(t, ok)
	require.NotNil(t, task)
	assert.True(t, r.IsTracked(id))

	// A second task for the same id must be refused while the first is live.
	dup, ok := r.TrackNew(id)
	assert.False(t, ok)
	assert.Nil(t, dup)

	r.Done(task)
	assert.False(t, r.IsTracked(id))

	_, ok = r.TrackNew(id)
	assert.True(t, ok)
}

func TestRegistry_AddKeepsIDTracked(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	first, ok := r.TrackNew(id)
	require.True(t, ok)

	retryTask := r.Add(id)
	r.Done(first)

	// The retry task keeps the id tracked after the original finishes.
	assert.True(t, r.IsTracked(id))

	r.Done(retryTask)
	assert.False(t, r.IsTracked(id))
}

func TestRegistry_CancelAll(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()
	other := uuid.New()

	first, ok := r.TrackNew(id)
	require.True(t, ok)
	second := r.Add(id)

	otherTask, ok := r.TrackNew(other)
	require.True(t, ok)

	r.CancelAll(id)

	assert.True(t, first.Cancelled())
	assert.True(t, second.Cancelled())
	assert.False(t, r.IsTracked(id))

	// Tasks of other notifications are unaffected.
	assert.False(t, otherTask.Cancelled())
	assert.True(t, r.IsTracked(other))
}

func TestRegistry_ConcurrentTrackNew(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	const racers = 32

	var wg sync.WaitGroup
	var mu sync.Mutex
	tracked := 0

	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()

			if _, ok := r.TrackNew(id); ok {
				mu.Lock()
				tracked++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Concurrent poll cycles must never double-track a notification.
	assert.Equal(t, 1, tracked)
	assert.True(t, r.IsTracked(id))
}

func TestTask_CancelIsIdempotent(t *testing.T) {
	task := newTask(uuid.New())

	require.False(t, task.Cancelled())
	task.Cancel()
	task.Cancel()
	assert.True(t, task.Cancelled())
}
