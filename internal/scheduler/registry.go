package scheduler

import (
	"sync"

	"github.com/google/uuid"
)

// Task is the handle for one in-flight delivery or retry attempt.
//
// Cancellation is advisory: a cancelled task that is already past its check
// point finishes its current attempt rather than being interrupted
// mid-transaction.
type Task struct {
	id     uuid.UUID
	cancel chan struct{}
	once   sync.Once
}

func newTask(id uuid.UUID) *Task {
	return &Task{id: id, cancel: make(chan struct{})}
}

// Cancel marks the task as cancelled. Safe to call more than once.
func (t *Task) Cancel() {
	t.once.Do(func() { close(t.cancel) })
}

// Cancelled reports whether the task has been cancelled.
func (t *Task) Cancelled() bool {
	select {
	case <-t.cancel:
		return true
	default:
		return false
	}
}

// Registry tracks the active delivery tasks per notification id. It exists
// to keep a second concurrent task from being scheduled for a notification
// that already has one in flight, and to cancel stale tasks once a terminal
// state is reached.
//
// The raw mapping is never exposed; the poll cycle and completing tasks
// mutate it concurrently.
type Registry struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]map[*Task]struct{}
}

func NewRegistry() *Registry {
	return &Registry{tasks: make(map[uuid.UUID]map[*Task]struct{})}
}

// TrackNew atomically creates and tracks a task for an id that has no active
// tasks. It returns false when the id is already tracked, so concurrent poll
// cycles can never double-schedule a notification.
func (r *Registry) TrackNew(id uuid.UUID) (*Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; ok {
		return nil, false
	}

	t := newTask(id)
	r.tasks[id] = map[*Task]struct{}{t: {}}

	return t, true
}

// Add creates and tracks an additional task for an already-tracked id.
// Retry tasks are added before the finishing attempt untracks itself, so the
// id never looks idle in between.
func (r *Registry) Add(id uuid.UUID) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := newTask(id)
	if _, ok := r.tasks[id]; !ok {
		r.tasks[id] = make(map[*Task]struct{})
	}
	r.tasks[id][t] = struct{}{}

	return t
}

// Done removes a single task handle, dropping the id once no tasks remain.
func (r *Registry) Done(t *Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles, ok := r.tasks[t.id]
	if !ok {
		return
	}

	delete(handles, t)
	if len(handles) == 0 {
		delete(r.tasks, t.id)
	}
}

// CancelAll cancels every tracked task for the id and drops the id. Tasks of
// other notifications are unaffected.
func (r *Registry) CancelAll(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for t := range r.tasks[id] {
		t.Cancel()
	}
	delete(r.tasks, id)
}

// IsTracked reports whether the id has at least one active task.
func (r *Registry) IsTracked(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tasks[id]
	return ok
}
