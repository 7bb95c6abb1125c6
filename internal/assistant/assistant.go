// Package assistant implements a local stand-in for the task automation
// assistant's HTTP API. It mimics the task lifecycle, the approval gates
// and the configuration surface so that clients can be exercised without
// the real assistant running.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sourcegraph/conc"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/pkg/cerr"
	"github.com/taskpilot/taskpilot/pkg/panicerr"
)

// fixturesDebounce lets rapid editor save events settle before reloading.
const fixturesDebounce = 100 * time.Millisecond

type Assistant struct {
	env      *config.SimEnv
	registry *Registry
	tasks    *taskStore
	wg       conc.WaitGroup
	ctx      context.Context
}

func New(env *config.SimEnv, fx *Fixtures) *Assistant {
	return &Assistant{
		env:      env,
		registry: NewRegistry(fx),
		tasks:    newTaskStore(),
		ctx:      context.Background(),
	}
}

// Registry exposes the configuration state for handlers.
func (a *Assistant) Registry() *Registry {
	return a.registry
}

// Start adopts ctx as the base context for task lifecycles and, when a
// fixtures file is configured, begins watching it for changes.
func (a *Assistant) Start(ctx context.Context) error {
	a.ctx = ctx
	if a.env.Fixtures != "" {
		a.spawn(a.watchFixtures)
	}
	return nil
}

// Wait blocks until all task lifecycle goroutines have finished.
func (a *Assistant) Wait() {
	a.wg.Wait()
}

func (a *Assistant) spawn(fn func(ctx context.Context) error) {
	a.wg.Go(func() {
		if err := panicerr.SafeContext(fn)(a.ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("background routine failed", slog.Any("error", err))
		}
	})
}

// CreateTask registers a new task. A task created with an initial message
// starts processing immediately; one created without waits for input. When
// the request asks to wait, the call blocks until the task leaves
// in_progress or the wait timeout elapses.
func (a *Assistant) CreateTask(ctx context.Context, req *api.CreateTaskRequest) (api.Task, error) {
	if req.Mode != "" {
		if _, err := a.registry.SwitchMode(req.Mode); err != nil {
			return api.Task{}, err
		}
	}
	if req.Profile != "" {
		if _, err := a.registry.SwitchProfile(req.Profile); err != nil {
			return api.Task{}, err
		}
	}

	t := a.tasks.create(req.Message)
	if req.Message != "" {
		id, message := t.ID, req.Message
		a.spawn(func(ctx context.Context) error {
			return a.cycle(ctx, id, message)
		})
	}
	if req.WaitForCompletion {
		return a.tasks.waitNotInProgress(ctx, t.ID, a.env.WaitTimeout)
	}
	return t, nil
}

func (a *Assistant) ListTasks(limit int) []*api.Task {
	return a.tasks.list(limit)
}

func (a *Assistant) GetTask(id string) (api.Task, error) {
	resolved, err := a.tasks.resolve(id)
	if err != nil {
		return api.Task{}, err
	}
	return a.tasks.get(resolved)
}

func (a *Assistant) GetTaskLogs(id string) ([]*api.LogEntry, error) {
	resolved, err := a.tasks.resolve(id)
	if err != nil {
		return nil, err
	}
	return a.tasks.logs(resolved)
}

// SendMessage delivers an operator message to a task. Tasks waiting for
// input or already completed pick the message up as a new request; a failed
// task is resubmitted, gated on approval unless resubmits are auto-approved.
func (a *Assistant) SendMessage(ctx context.Context, id string, req *api.SendMessageRequest) (api.Task, error) {
	if req.Message == "" {
		return api.Task{}, cerr.NewError(cerr.InvalidArgument, "message is required", nil)
	}
	resolved, err := a.tasks.resolve(id)
	if err != nil {
		return api.Task{}, err
	}

	var launch string
	err = a.tasks.withTask(resolved, func(rec *taskRecord) error {
		rec.log = append(rec.log, &api.LogEntry{
			Role:   api.RoleUser,
			Text:   req.Message,
			Images: req.Images,
			Ts:     time.Now(),
		})
		switch rec.task.Status {
		case api.StatusNeedsInput, api.StatusCompleted:
			rec.transition(api.StatusInProgress, "")
			launch = req.Message
		case api.StatusError:
			if a.registry.autoApproved(actionResubmit) {
				rec.transition(api.StatusInProgress, "")
				launch = req.Message
			} else {
				rec.pendingResubmit = req.Message
				rec.transition(api.StatusNeedsApproval, "Approval required to retry after the previous failure.")
			}
		default:
			// Queued into the conversation only; the running cycle is not
			// interrupted.
		}
		return nil
	})
	if err != nil {
		return api.Task{}, err
	}
	if launch != "" {
		message := launch
		a.spawn(func(ctx context.Context) error {
			return a.cycle(ctx, resolved, message)
		})
	}
	return a.tasks.get(resolved)
}

// Respond delivers an operator decision to a waiting task. On needs_approval
// only "approve" lets the task proceed; anything else denies it. On
// needs_input the response text is taken as the requested input.
func (a *Assistant) Respond(ctx context.Context, id string, req *api.RespondRequest) (api.Task, error) {
	if req.Response == "" {
		return api.Task{}, cerr.NewError(cerr.InvalidArgument, "response is required", nil)
	}
	resolved, err := a.tasks.resolve(id)
	if err != nil {
		return api.Task{}, err
	}

	var launch string
	err = a.tasks.withTask(resolved, func(rec *taskRecord) error {
		switch rec.task.Status {
		case api.StatusNeedsApproval:
			if req.Response == api.ResponseApprove {
				rec.transition(api.StatusInProgress, "")
				if rec.pendingResubmit != "" {
					launch = rec.pendingResubmit
					rec.pendingResubmit = ""
				} else {
					select {
					case rec.approve <- struct{}{}:
					default:
					}
				}
			} else {
				rec.pendingResubmit = ""
				rec.log = append(rec.log, &api.LogEntry{
					Role: api.RoleAssistant,
					Text: "The request was denied.",
					Ts:   time.Now(),
				})
				rec.transition(api.StatusError, "request denied by operator")
				select {
				case rec.approve <- struct{}{}:
				default:
				}
			}
		case api.StatusNeedsInput:
			rec.log = append(rec.log, &api.LogEntry{
				Role: api.RoleUser,
				Text: req.Response,
				Ts:   time.Now(),
			})
			rec.transition(api.StatusInProgress, "")
			launch = req.Response
		default:
			return cerr.NewError(cerr.FailedPrecondition, "task is not waiting for a response", nil)
		}
		return nil
	})
	if err != nil {
		return api.Task{}, err
	}
	if launch != "" {
		message := launch
		a.spawn(func(ctx context.Context) error {
			return a.cycle(ctx, resolved, message)
		})
	}
	return a.tasks.get(resolved)
}

// watchFixtures reloads the fixtures file when it changes on disk. The
// parent directory is watched because editors and deploy tools replace
// files atomically, which changes the inode.
func (a *Assistant) watchFixtures(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(a.env.Fixtures)
	name := filepath.Base(a.env.Fixtures)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	slog.Info("watching fixtures", slog.String("path", a.env.Fixtures))

	var debounce *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(fixturesDebounce, func() {
				fx, err := LoadFixtures(a.env.Fixtures)
				if err != nil {
					slog.Warn("failed to reload fixtures", slog.Any("error", err))
					return
				}
				a.registry.Replace(fx)
				slog.Info("fixtures reloaded")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("fixtures watcher error", slog.Any("error", err))
		case <-ctx.Done():
			return nil
		}
	}
}
