package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/taskpilot/taskpilot/internal/api"
)

// actionCategory is the simulator's guess at what kind of action a request
// implies, used to decide which auto-approve flag gates it.
type actionCategory int

const (
	actionNone actionCategory = iota
	actionReadOnly
	actionWrite
	actionExecute
	actionBrowser
	actionMCP
	actionResubmit
)

var categoryKeywords = []struct {
	cat      actionCategory
	keywords []string
}{
	{actionExecute, []string{"run", "execute", "install", "delete", "command", "shell"}},
	{actionMCP, []string{"mcp", "tool"}},
	{actionBrowser, []string{"browse", "browser", "website", "http://", "https://"}},
	{actionWrite, []string{"write", "create", "edit", "save"}},
	{actionReadOnly, []string{"read", "list", "show", "search"}},
}

// classify picks the first category whose keywords appear in the message.
// Messages with no actionable keywords complete without approval.
func classify(message string) actionCategory {
	lower := strings.ToLower(message)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.cat
			}
		}
	}
	return actionNone
}

// simulatedFailure lets callers provoke the error status on demand.
func simulatedFailure(message string) bool {
	return strings.Contains(strings.ToLower(message), "fail")
}

func approvalPrompt(cat actionCategory) string {
	switch cat {
	case actionReadOnly:
		return "Approval required to read workspace files."
	case actionWrite:
		return "Approval required to modify workspace files."
	case actionExecute:
		return "Approval required to execute a command."
	case actionBrowser:
		return "Approval required to use the browser."
	case actionMCP:
		return "Approval required to invoke an MCP tool."
	default:
		return "Approval required to continue."
	}
}

func replyFor(message string, cat actionCategory) string {
	lower := strings.ToLower(message)
	if cat == actionNone && (strings.Contains(lower, "hello") || strings.HasPrefix(lower, "hi")) {
		return "Hi! How can I help?"
	}
	switch cat {
	case actionExecute:
		return "Done. The command ran successfully."
	case actionWrite:
		return "Done. The requested changes are in place."
	case actionBrowser:
		return "Done. I gathered the requested information from the web."
	case actionMCP:
		return "Done. The tool call succeeded."
	case actionReadOnly:
		return "Done. Here is what I found in the workspace."
	default:
		return "All done. Let me know if there is anything else."
	}
}

// cycle drives one pass of a task's scripted lifecycle: simulated work,
// an approval gate when the request implies a gated action, then completion.
func (a *Assistant) cycle(ctx context.Context, id, message string) error {
	step := a.env.StepInterval

	if err := sleepCtx(ctx, step); err != nil {
		return nil
	}

	if simulatedFailure(message) {
		a.tasks.appendLog(id, api.RoleAssistant, "I ran into a problem and had to stop.", nil)
		a.tasks.setStatus(id, api.StatusError, "task failed: "+truncate(message, 64))
		return nil
	}

	cat := classify(message)
	if cat != actionNone && !a.registry.autoApproved(cat) {
		prompt := approvalPrompt(cat)
		a.tasks.appendLog(id, api.RoleAssistant, prompt, nil)
		a.tasks.setStatus(id, api.StatusNeedsApproval, prompt)

		approve, err := a.tasks.approveChan(id)
		if err != nil {
			return err
		}
		select {
		case <-approve:
		case <-ctx.Done():
			return nil
		}
		// A denial moves the task to error before signaling; stop there.
		t, err := a.tasks.get(id)
		if err != nil || t.Status.Terminal() {
			return err
		}
		if err := sleepCtx(ctx, step); err != nil {
			return nil
		}
	}

	reply := replyFor(message, cat)
	a.tasks.appendLog(id, api.RoleAssistant, reply, nil)
	a.tasks.setStatus(id, api.StatusCompleted, reply)
	return nil
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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
