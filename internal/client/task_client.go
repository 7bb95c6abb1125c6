package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/taskpilot/taskpilot/internal/api"
)

// Task-scoped calls take a task ID; the empty ID addresses the server-side
// "current task" via the unsuffixed endpoints.

// CreateTask starts a new task. With WaitForCompletion set the server blocks
// until the task first leaves in_progress before answering.
func (c *Client) CreateTask(ctx context.Context, req *api.CreateTaskRequest) (*api.Task, error) {
	var t api.Task
	if err := c.post(ctx, "/api/tasks", req, &t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &t, nil
}

// ListTasks lists recent tasks, newest first. limit <= 0 means server default.
func (c *Client) ListTasks(ctx context.Context, limit int) ([]*api.Task, error) {
	path := "/api/tasks"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var tasks []*api.Task
	if err := c.get(ctx, path, &tasks); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTaskStatus fetches the status record of a task.
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*api.Task, error) {
	var t api.Task
	if err := c.get(ctx, taskPath(taskID, "status"), &t); err != nil {
		return nil, fmt.Errorf("failed to get task status: %w", err)
	}
	return &t, nil
}

// GetTaskLogs fetches the ordered conversation history of a task.
func (c *Client) GetTaskLogs(ctx context.Context, taskID string) ([]*api.LogEntry, error) {
	var logs []*api.LogEntry
	if err := c.get(ctx, taskPath(taskID, "logs"), &logs); err != nil {
		return nil, fmt.Errorf("failed to get task logs: %w", err)
	}
	return logs, nil
}

// Respond submits an operator response to a waiting task.
func (c *Client) Respond(ctx context.Context, taskID, response string) (*api.Task, error) {
	var t api.Task
	req := &api.RespondRequest{Response: response}
	if err := c.post(ctx, taskPath(taskID, "respond"), req, &t); err != nil {
		return nil, fmt.Errorf("failed to respond to task: %w", err)
	}
	return &t, nil
}

// ApproveTask approves a task awaiting approval.
func (c *Client) ApproveTask(ctx context.Context, taskID string) (*api.Task, error) {
	return c.Respond(ctx, taskID, api.ResponseApprove)
}

// SendMessage appends a message to a task's conversation.
func (c *Client) SendMessage(ctx context.Context, taskID string, req *api.SendMessageRequest) (*api.Task, error) {
	path := "/api/messages"
	if taskID != "" {
		path += "/" + url.PathEscape(taskID)
	}
	var t api.Task
	if err := c.post(ctx, path, req, &t); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &t, nil
}

// WaitForTask polls the task status at the configured interval until the
// task is terminal or waiting on the operator. It gives up with
// ErrPollTimeout after the configured number of attempts; no other call is
// ever retried.
func (c *Client) WaitForTask(ctx context.Context, taskID string) (*api.Task, error) {
	for attempt := 0; attempt < c.maxPollAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.pollInterval); err != nil {
				return nil, err
			}
		}
		t, err := c.GetTaskStatus(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if t.Status != api.StatusInProgress {
			return t, nil
		}
	}
	return nil, ErrPollTimeout
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func taskPath(taskID, suffix string) string {
	if taskID == "" {
		return "/api/tasks/" + suffix
	}
	return "/api/tasks/" + url.PathEscape(taskID) + "/" + suffix
}
