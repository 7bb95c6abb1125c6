package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/client"
)

var (
	statusInProgress = color.New(color.FgCyan)
	statusWaiting    = color.New(color.FgYellow)
	statusCompleted  = color.New(color.FgGreen)
	statusError      = color.New(color.FgRed)
)

func coloredStatus(s api.TaskStatus) string {
	switch {
	case s == api.StatusCompleted:
		return statusCompleted.Sprint(s)
	case s == api.StatusError:
		return statusError.Sprint(s)
	case s.Waiting():
		return statusWaiting.Sprint(s)
	default:
		return statusInProgress.Sprint(s)
	}
}

func printTask(t *api.Task) {
	fmt.Printf("%s  %s", t.ID, coloredStatus(t.Status))
	if t.LastMessage != "" {
		fmt.Printf("  %s", t.LastMessage)
	}
	fmt.Println()
}

func handleProbe(ctx context.Context, c *client.Client) error {
	if err := c.Ping(ctx); err != nil {
		return err
	}
	fmt.Printf("Assistant API reachable at %s\n", c.BaseURL())
	return nil
}

func handleTaskCreate(ctx context.Context, c *client.Client, message, mode, profile string, wait bool) error {
	t, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           message,
		Mode:              mode,
		Profile:           profile,
		WaitForCompletion: wait,
	})
	if err != nil {
		return err
	}
	printTask(t)
	return nil
}

func handleTaskList(ctx context.Context, c *client.Client, limit int) error {
	tasks, err := c.ListTasks(ctx, limit)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, t := range tasks {
		printTask(t)
	}
	return nil
}

func handleTaskStatus(ctx context.Context, c *client.Client, id string) error {
	t, err := c.GetTaskStatus(ctx, id)
	if err != nil {
		return err
	}
	printTask(t)
	return nil
}

func handleTaskLogs(ctx context.Context, c *client.Client, id string) error {
	logs, err := c.GetTaskLogs(ctx, id)
	if err != nil {
		return err
	}
	for _, entry := range logs {
		fmt.Printf("[%s] %s: %s\n", entry.Ts.Format("15:04:05"), entry.Role, entry.Text)
	}
	return nil
}

func handleTaskWait(ctx context.Context, c *client.Client, id string) error {
	t, err := c.WaitForTask(ctx, id)
	if errors.Is(err, client.ErrPollTimeout) {
		fmt.Println("Timed out waiting for the task to settle.")
		return nil
	}
	if err != nil {
		return err
	}
	printTask(t)
	return nil
}

func handleTaskApprove(ctx context.Context, c *client.Client, id string) error {
	t, err := c.ApproveTask(ctx, id)
	if err != nil {
		return err
	}
	printTask(t)
	return nil
}

func handleTaskRespond(ctx context.Context, c *client.Client, id, response string) error {
	t, err := c.Respond(ctx, id, response)
	if err != nil {
		return err
	}
	printTask(t)
	return nil
}

func handleMessage(ctx context.Context, c *client.Client, id, text string, images []string) error {
	t, err := c.SendMessage(ctx, id, &api.SendMessageRequest{
		Message: text,
		Images:  images,
	})
	if err != nil {
		return err
	}
	printTask(t)
	return nil
}
