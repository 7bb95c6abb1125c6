package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/taskpilot/taskpilot/internal/client"
	"github.com/taskpilot/taskpilot/internal/config"
)

var (
	app = kingpin.New("taskpilot", "Drive a task automation assistant through its HTTP API")
	url = app.Flag("url", "Base URL of the assistant API (overrides TASKPILOT_API_HOST/PORT)").String()

	// Connectivity
	probeCmd = app.Command("probe", "Check that the assistant API is reachable")

	// Task commands
	taskCmd = app.Command("task", "Task management commands")

	taskCreateCmd     = taskCmd.Command("create", "Create a new task")
	taskCreateMessage = taskCreateCmd.Arg("message", "Initial request").String()
	taskCreateMode    = taskCreateCmd.Flag("mode", "Mode to run the task in").String()
	taskCreateProfile = taskCreateCmd.Flag("profile", "Profile to run the task with").String()
	taskCreateWait    = taskCreateCmd.Flag("wait", "Block until the task leaves in_progress").Bool()

	taskListCmd   = taskCmd.Command("list", "List recent tasks")
	taskListLimit = taskListCmd.Flag("limit", "Maximum number of tasks").Default("10").Int()

	taskStatusCmd = taskCmd.Command("status", "Show task status")
	taskStatusID  = taskStatusCmd.Arg("id", "Task ID (defaults to the current task)").String()

	taskLogsCmd = taskCmd.Command("logs", "Show a task's conversation")
	taskLogsID  = taskLogsCmd.Arg("id", "Task ID (defaults to the current task)").String()

	taskWaitCmd = taskCmd.Command("wait", "Poll a task until it leaves in_progress")
	taskWaitID  = taskWaitCmd.Arg("id", "Task ID (defaults to the current task)").String()

	taskApproveCmd = taskCmd.Command("approve", "Approve a task waiting for approval")
	taskApproveID  = taskApproveCmd.Arg("id", "Task ID (defaults to the current task)").String()

	taskRespondCmd      = taskCmd.Command("respond", "Send a decision or input to a waiting task")
	taskRespondResponse = taskRespondCmd.Arg("response", "Response text").Required().String()
	taskRespondID       = taskRespondCmd.Flag("task", "Task ID (defaults to the current task)").String()

	// Messages
	messageCmd    = app.Command("message", "Send a message to a task")
	messageText   = messageCmd.Arg("text", "Message text").Required().String()
	messageID     = messageCmd.Flag("task", "Task ID (defaults to the current task)").String()
	messageImages = messageCmd.Flag("image", "Image data URI to attach (repeatable)").Strings()

	// Mode commands
	modeCmd = app.Command("mode", "Mode management commands")

	modeListCmd    = modeCmd.Command("list", "List available modes")
	modeCurrentCmd = modeCmd.Command("current", "Show the current mode")

	modeSwitchCmd  = modeCmd.Command("switch", "Switch to another mode")
	modeSwitchSlug = modeSwitchCmd.Arg("slug", "Mode slug").Required().String()

	// Profile commands
	profileCmd = app.Command("profile", "Profile management commands")

	profileListCmd    = profileCmd.Command("list", "List available profiles")
	profileCurrentCmd = profileCmd.Command("current", "Show the current profile")

	profileSwitchCmd  = profileCmd.Command("switch", "Switch to another profile")
	profileSwitchName = profileSwitchCmd.Arg("name", "Profile name").Required().String()

	// Auto-approve commands
	autoApproveCmd = app.Command("auto-approve", "Auto-approve settings commands")

	autoApproveShowCmd    = autoApproveCmd.Command("show", "Show the current auto-approve settings")
	autoApproveEnableCmd  = autoApproveCmd.Command("enable", "Turn the auto-approve master switch on")
	autoApproveDisableCmd = autoApproveCmd.Command("disable", "Turn the auto-approve master switch off")

	// Flags omitted from "set" keep their server-side value, so each one
	// takes an explicit true/false instead of acting as a switch.
	autoApproveSetCmd      = autoApproveCmd.Command("set", "Update individual auto-approve flags")
	autoApproveSetEnabled  = autoApproveSetCmd.Flag("enabled", "Master switch (true/false)").String()
	autoApproveSetReadOnly = autoApproveSetCmd.Flag("read-only", "Auto-approve read-only actions (true/false)").String()
	autoApproveSetWrite    = autoApproveSetCmd.Flag("write", "Auto-approve write actions (true/false)").String()
	autoApproveSetExecute  = autoApproveSetCmd.Flag("execute", "Auto-approve command execution (true/false)").String()
	autoApproveSetBrowser  = autoApproveSetCmd.Flag("browser", "Auto-approve browser use (true/false)").String()
	autoApproveSetMcp      = autoApproveSetCmd.Flag("mcp", "Auto-approve MCP tool calls (true/false)").String()
	autoApproveSetResubmit = autoApproveSetCmd.Flag("resubmit", "Auto-approve resubmits after failure (true/false)").String()

	// MCP commands
	mcpCmd = app.Command("mcp", "MCP integration commands")

	mcpListCmd = mcpCmd.Command("list", "List MCP integrations")

	mcpShowCmd = mcpCmd.Command("show", "Show one MCP's details")
	mcpShowID  = mcpShowCmd.Arg("id", "MCP ID").Required().String()

	mcpEnableCmd = mcpCmd.Command("enable", "Enable an MCP")
	mcpEnableID  = mcpEnableCmd.Arg("id", "MCP ID").Required().String()

	mcpDisableCmd = mcpCmd.Command("disable", "Disable an MCP")
	mcpDisableID  = mcpDisableCmd.Arg("id", "MCP ID").Required().String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := newClient()
	if err != nil {
		fail(err)
	}

	switch command {
	case probeCmd.FullCommand():
		err = handleProbe(ctx, c)
	case taskCreateCmd.FullCommand():
		err = handleTaskCreate(ctx, c, *taskCreateMessage, *taskCreateMode, *taskCreateProfile, *taskCreateWait)
	case taskListCmd.FullCommand():
		err = handleTaskList(ctx, c, *taskListLimit)
	case taskStatusCmd.FullCommand():
		err = handleTaskStatus(ctx, c, *taskStatusID)
	case taskLogsCmd.FullCommand():
		err = handleTaskLogs(ctx, c, *taskLogsID)
	case taskWaitCmd.FullCommand():
		err = handleTaskWait(ctx, c, *taskWaitID)
	case taskApproveCmd.FullCommand():
		err = handleTaskApprove(ctx, c, *taskApproveID)
	case taskRespondCmd.FullCommand():
		err = handleTaskRespond(ctx, c, *taskRespondID, *taskRespondResponse)
	case messageCmd.FullCommand():
		err = handleMessage(ctx, c, *messageID, *messageText, *messageImages)
	case modeListCmd.FullCommand():
		err = handleModeList(ctx, c)
	case modeCurrentCmd.FullCommand():
		err = handleModeCurrent(ctx, c)
	case modeSwitchCmd.FullCommand():
		err = handleModeSwitch(ctx, c, *modeSwitchSlug)
	case profileListCmd.FullCommand():
		err = handleProfileList(ctx, c)
	case profileCurrentCmd.FullCommand():
		err = handleProfileCurrent(ctx, c)
	case profileSwitchCmd.FullCommand():
		err = handleProfileSwitch(ctx, c, *profileSwitchName)
	case autoApproveShowCmd.FullCommand():
		err = handleAutoApproveShow(ctx, c)
	case autoApproveEnableCmd.FullCommand():
		err = handleAutoApproveEnabled(ctx, c, true)
	case autoApproveDisableCmd.FullCommand():
		err = handleAutoApproveEnabled(ctx, c, false)
	case autoApproveSetCmd.FullCommand():
		err = handleAutoApproveSet(ctx, c)
	case mcpListCmd.FullCommand():
		err = handleMCPList(ctx, c)
	case mcpShowCmd.FullCommand():
		err = handleMCPShow(ctx, c, *mcpShowID)
	case mcpEnableCmd.FullCommand():
		err = handleMCPStatus(ctx, c, *mcpEnableID, true)
	case mcpDisableCmd.FullCommand():
		err = handleMCPStatus(ctx, c, *mcpDisableID, false)
	}
	if err != nil {
		fail(err)
	}
}

func newClient() (*client.Client, error) {
	base := *url
	if base == "" {
		env, err := config.LoadEnv()
		if err != nil {
			return nil, err
		}
		base = env.BaseURL()
	}
	return client.New(base), nil
}

// fail reports the error and exits. Connection failures additionally print
// the checks an operator should run.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var connErr *client.ConnectionError
	if errors.As(err, &connErr) {
		for _, hint := range connErr.Hints() {
			fmt.Fprintf(os.Stderr, "  - %s\n", hint)
		}
	}
	os.Exit(1)
}
