package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/pkg/cerr"
)

// taskRecord is the simulator's view of one task: the wire record, its
// conversation, and the channels the scripted lifecycle synchronizes on.
type taskRecord struct {
	task api.Task
	log  []*api.LogEntry

	// approve wakes a cycle parked in needs_approval. Buffered so an
	// approval arriving just before the cycle parks is not lost.
	approve chan struct{}

	// pendingResubmit holds the message of a failed task awaiting
	// approval to run again.
	pendingResubmit string

	// changed is closed and replaced on every status transition;
	// wait_for_completion callers block on it.
	changed chan struct{}
}

// transition changes the task's status and wakes anyone blocked on the
// change. Callers must hold the store lock.
func (rec *taskRecord) transition(status api.TaskStatus, lastMessage string) {
	rec.task.Status = status
	if lastMessage != "" {
		rec.task.LastMessage = lastMessage
	}
	close(rec.changed)
	rec.changed = make(chan struct{})
}

// taskStore owns all task state plus the server-side "current task" pointer.
type taskStore struct {
	mu      sync.RWMutex
	tasks   map[string]*taskRecord
	order   []string // creation order, oldest first
	current string
}

func newTaskStore() *taskStore {
	return &taskStore{
		tasks: make(map[string]*taskRecord),
	}
}

// create registers a new task and makes it current. Tasks created without an
// initial message start in needs_input.
func (s *taskStore) create(message string) api.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &taskRecord{
		task: api.Task{
			ID:     ulid.Make().String(),
			Status: api.StatusInProgress,
		},
		approve: make(chan struct{}, 1),
		changed: make(chan struct{}),
	}
	if message == "" {
		rec.task.Status = api.StatusNeedsInput
		rec.task.LastMessage = "What would you like me to do?"
	} else {
		rec.log = append(rec.log, &api.LogEntry{
			Role: api.RoleUser,
			Text: message,
			Ts:   time.Now(),
		})
	}
	s.tasks[rec.task.ID] = rec
	s.order = append(s.order, rec.task.ID)
	s.current = rec.task.ID
	return rec.task
}

// resolve maps an optional task ID to a concrete one: the empty ID means the
// current task.
func (s *taskStore) resolve(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == "" {
		if s.current == "" {
			return "", cerr.NewError(cerr.NotFound, "no current task", nil)
		}
		return s.current, nil
	}
	if _, ok := s.tasks[id]; !ok {
		return "", cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return id, nil
}

func (s *taskStore) get(id string) (api.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tasks[id]
	if !ok {
		return api.Task{}, cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return rec.task, nil
}

// list returns up to limit tasks, newest first.
func (s *taskStore) list(limit int) []*api.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*api.Task, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		t := s.tasks[s.order[i]].task
		out = append(out, &t)
	}
	return out
}

func (s *taskStore) logs(id string) ([]*api.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tasks[id]
	if !ok {
		return nil, cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	out := make([]*api.LogEntry, len(rec.log))
	copy(out, rec.log)
	return out, nil
}

func (s *taskStore) appendLog(id, role, text string, images []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tasks[id]
	if !ok {
		return
	}
	rec.log = append(rec.log, &api.LogEntry{
		Role:   role,
		Text:   text,
		Images: images,
		Ts:     time.Now(),
	})
}

// setStatus transitions a task and wakes anyone blocked on the change.
func (s *taskStore) setStatus(id string, status api.TaskStatus, lastMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tasks[id]
	if !ok {
		return
	}
	rec.transition(status, lastMessage)
}

func (s *taskStore) approveChan(id string) (chan struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tasks[id]
	if !ok {
		return nil, cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return rec.approve, nil
}

// withTask runs fn with the record locked, for decisions that depend on the
// task's current state.
func (s *taskStore) withTask(id string, fn func(rec *taskRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tasks[id]
	if !ok {
		return cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return fn(rec)
}

// waitNotInProgress blocks until the task leaves in_progress, the timeout
// elapses, or ctx is done, and returns the record at that point.
func (s *taskStore) waitNotInProgress(ctx context.Context, id string, timeout time.Duration) (api.Task, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		s.mu.RLock()
		rec, ok := s.tasks[id]
		if !ok {
			s.mu.RUnlock()
			return api.Task{}, cerr.NewError(cerr.NotFound, "task not found", nil)
		}
		t := rec.task
		changed := rec.changed
		s.mu.RUnlock()

		if t.Status != api.StatusInProgress {
			return t, nil
		}
		select {
		case <-changed:
		case <-deadline.C:
			return t, nil
		case <-ctx.Done():
			return t, ctx.Err()
		}
	}
}
