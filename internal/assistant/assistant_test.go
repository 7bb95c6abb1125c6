package assistant

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/client"
	"github.com/taskpilot/taskpilot/internal/config"
)

// newTestClient brings up a full simulator on an ephemeral port and returns
// a client pointed at it.
func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	env := &config.SimEnv{
		Env:          "test",
		StepInterval: 5 * time.Millisecond,
		WaitTimeout:  2 * time.Second,
	}
	a := New(env, DefaultFixtures())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, a.Start(ctx))

	srv := httptest.NewServer(NewServer(env, a).Handler())
	t.Cleanup(srv.Close)
	return client.New(srv.URL, client.WithPollInterval(5*time.Millisecond))
}

func TestCreateTaskWaitForCompletion(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           "Hello!",
		WaitForCompletion: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, api.StatusCompleted, task.Status)
	require.Equal(t, "Hi! How can I help?", task.LastMessage)

	// Terminal records read back unchanged.
	again, err := c.GetTaskStatus(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, task, again)
}

func TestCreateTaskWithoutMessageNeedsInput(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{})
	require.NoError(t, err)
	require.Equal(t, api.StatusNeedsInput, task.Status)

	// The response to needs_input is taken as the requested input.
	task, err = c.Respond(ctx, task.ID, "say hello please")
	require.NoError(t, err)
	require.Equal(t, api.StatusInProgress, task.Status)

	task, err = c.WaitForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, api.StatusCompleted, task.Status)
}

func TestApprovalFlow(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           "Create a script and run it",
		WaitForCompletion: true,
	})
	require.NoError(t, err)
	require.Equal(t, api.StatusNeedsApproval, task.Status)

	task, err = c.ApproveTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, api.StatusInProgress, task.Status)

	task, err = c.WaitForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, api.StatusCompleted, task.Status)
	require.Equal(t, "Done. The command ran successfully.", task.LastMessage)
}

func TestDenialFlow(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           "delete the build directory",
		WaitForCompletion: true,
	})
	require.NoError(t, err)
	require.Equal(t, api.StatusNeedsApproval, task.Status)

	task, err = c.Respond(ctx, task.ID, "no")
	require.NoError(t, err)
	require.Equal(t, api.StatusError, task.Status)
	require.Equal(t, "request denied by operator", task.LastMessage)
}

func TestRespondOnSettledTaskFails(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           "Hello!",
		WaitForCompletion: true,
	})
	require.NoError(t, err)
	require.Equal(t, api.StatusCompleted, task.Status)

	_, err = c.ApproveTask(ctx, task.ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "failed_precondition", apiErr.Code)
}

func TestAutoApproveSkipsApprovalGate(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.SetAutoApproveEnabled(ctx, true)
	require.NoError(t, err)
	allow := true
	settings, err := c.UpdateAutoApprove(ctx, &api.AutoApproveUpdate{AlwaysAllowExecute: &allow})
	require.NoError(t, err)
	require.True(t, settings.AutoApprovalEnabled)
	require.True(t, settings.AlwaysAllowExecute)

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           "run the tests",
		WaitForCompletion: true,
	})
	require.NoError(t, err)
	require.Equal(t, api.StatusCompleted, task.Status)
}

func TestAutoApproveMergeSemantics(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.SetAutoApproveEnabled(ctx, true)
	require.NoError(t, err)

	// A partial update leaves every omitted flag untouched.
	allow := true
	settings, err := c.UpdateAutoApprove(ctx, &api.AutoApproveUpdate{AlwaysAllowWrite: &allow})
	require.NoError(t, err)
	require.True(t, settings.AutoApprovalEnabled)
	require.True(t, settings.AlwaysAllowWrite)
	require.False(t, settings.AlwaysAllowExecute)
	require.False(t, settings.AlwaysAllowReadOnly)

	got, err := c.GetAutoApprove(ctx)
	require.NoError(t, err)
	require.Equal(t, settings, got)
}

func TestFailedTaskResubmitNeedsApproval(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           "this will fail",
		WaitForCompletion: true,
	})
	require.NoError(t, err)
	require.Equal(t, api.StatusError, task.Status)

	task, err = c.SendMessage(ctx, task.ID, &api.SendMessageRequest{Message: "try again"})
	require.NoError(t, err)
	require.Equal(t, api.StatusNeedsApproval, task.Status)

	task, err = c.ApproveTask(ctx, task.ID)
	require.NoError(t, err)

	task, err = c.WaitForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, api.StatusCompleted, task.Status)
}

func TestFailedTaskResubmitAutoApproved(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.SetAutoApproveEnabled(ctx, true)
	require.NoError(t, err)
	allow := true
	_, err = c.UpdateAutoApprove(ctx, &api.AutoApproveUpdate{AlwaysApproveResubmit: &allow})
	require.NoError(t, err)

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           "this will fail",
		WaitForCompletion: true,
	})
	require.NoError(t, err)
	require.Equal(t, api.StatusError, task.Status)

	task, err = c.SendMessage(ctx, task.ID, &api.SendMessageRequest{Message: "try again"})
	require.NoError(t, err)
	require.Equal(t, api.StatusInProgress, task.Status)

	task, err = c.WaitForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, api.StatusCompleted, task.Status)
}

func TestCurrentTaskPointer(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	first, err := c.CreateTask(ctx, &api.CreateTaskRequest{Message: "Hello!", WaitForCompletion: true})
	require.NoError(t, err)
	second, err := c.CreateTask(ctx, &api.CreateTaskRequest{Message: "Hello again!", WaitForCompletion: true})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	current, err := c.GetTaskStatus(ctx, "")
	require.NoError(t, err)
	require.Equal(t, second.ID, current.ID)
}

func TestListTasksNewestFirst(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	first, err := c.CreateTask(ctx, &api.CreateTaskRequest{Message: "Hello!", WaitForCompletion: true})
	require.NoError(t, err)
	second, err := c.CreateTask(ctx, &api.CreateTaskRequest{Message: "Hello again!", WaitForCompletion: true})
	require.NoError(t, err)

	tasks, err := c.ListTasks(ctx, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, second.ID, tasks[0].ID)
	require.Equal(t, first.ID, tasks[1].ID)

	tasks, err = c.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, second.ID, tasks[0].ID)
}

func TestTaskLogsRecordConversation(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{Message: "Hello!", WaitForCompletion: true})
	require.NoError(t, err)

	logs, err := c.GetTaskLogs(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, api.RoleUser, logs[0].Role)
	require.Equal(t, "Hello!", logs[0].Text)
	require.Equal(t, api.RoleAssistant, logs[1].Role)
}

func TestModeAndProfileSwitching(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	modes, err := c.ListModes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, modes)

	m, err := c.SwitchMode(ctx, "architect")
	require.NoError(t, err)
	require.Equal(t, "architect", m.Slug)

	current, err := c.CurrentMode(ctx)
	require.NoError(t, err)
	require.Equal(t, "architect", current.Slug)

	_, err = c.SwitchMode(ctx, "nonexistent")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "not_found", apiErr.Code)

	p, err := c.SwitchProfile(ctx, "fast")
	require.NoError(t, err)
	require.Equal(t, "fast", p.Name)

	_, err = c.SwitchProfile(ctx, "nonexistent")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "not_found", apiErr.Code)
}

func TestCreateTaskWithUnknownModeFails(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreateTask(ctx, &api.CreateTaskRequest{Message: "Hello!", Mode: "nonexistent"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "not_found", apiErr.Code)
}

func TestCreateTaskAdoptsModeAndProfile(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreateTask(ctx, &api.CreateTaskRequest{
		Message:           "Hello!",
		Mode:              "debug",
		Profile:           "fast",
		WaitForCompletion: true,
	})
	require.NoError(t, err)

	m, err := c.CurrentMode(ctx)
	require.NoError(t, err)
	require.Equal(t, "debug", m.Slug)
	p, err := c.CurrentProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, "fast", p.Name)
}

func TestMCPRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	mcps, err := c.ListMCPs(ctx)
	require.NoError(t, err)
	require.Len(t, mcps, 2)

	details, err := c.GetMCP(ctx, "filesystem")
	require.NoError(t, err)
	require.Equal(t, api.MCPEnabled, details.Status)
	require.NotEmpty(t, details.Tools)

	details, err = c.SetMCPStatus(ctx, "filesystem", false)
	require.NoError(t, err)
	require.Equal(t, api.MCPDisabled, details.Status)

	details, err = c.GetMCP(ctx, "filesystem")
	require.NoError(t, err)
	require.Equal(t, api.MCPDisabled, details.Status)

	details, err = c.SetMCPStatus(ctx, "filesystem", true)
	require.NoError(t, err)
	require.Equal(t, api.MCPEnabled, details.Status)

	_, err = c.GetMCP(ctx, "nonexistent")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "not_found", apiErr.Code)
}

func TestInstructionsProbe(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.Ping(context.Background()))
}

func TestSendMessageRequiresText(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &api.CreateTaskRequest{Message: "Hello!", WaitForCompletion: true})
	require.NoError(t, err)

	_, err = c.SendMessage(ctx, task.ID, &api.SendMessageRequest{})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid_argument", apiErr.Code)
}
