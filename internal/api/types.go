// Package api holds the wire types of the assistant's external HTTP API.
// Field names follow the JSON the assistant speaks, so the same structs are
// shared by the client and the simulator. YAML tags serve the simulator's
// fixture files.
package api

import "time"

// TaskStatus is the lifecycle state of a task as reported by the assistant.
type TaskStatus string

const (
	StatusInProgress    TaskStatus = "in_progress"
	StatusNeedsInput    TaskStatus = "needs_input"
	StatusNeedsApproval TaskStatus = "needs_approval"
	StatusCompleted     TaskStatus = "completed"
	StatusError         TaskStatus = "error"
)

// Valid reports whether s is one of the defined statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusNeedsInput, StatusNeedsApproval, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Terminal reports whether the task is finished (successfully or not).
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Waiting reports whether the task is blocked on the operator.
func (s TaskStatus) Waiting() bool {
	return s == StatusNeedsInput || s == StatusNeedsApproval
}

type Task struct {
	ID          string     `json:"id"`
	Status      TaskStatus `json:"status"`
	LastMessage string     `json:"lastMessage,omitempty"`
}

type CreateTaskRequest struct {
	Message           string `json:"message,omitempty"`
	Mode              string `json:"mode,omitempty"`
	Profile           string `json:"profile,omitempty"`
	WaitForCompletion bool   `json:"wait_for_completion,omitempty"`
}

type SendMessageRequest struct {
	Message string   `json:"message"`
	Images  []string `json:"images,omitempty"`
}

// RespondRequest carries an operator decision for a waiting task.
type RespondRequest struct {
	Response string `json:"response"`
}

// ResponseApprove is the decision that lets a needs_approval task proceed.
const ResponseApprove = "approve"

// LogEntry is one element of a task's ordered conversation history.
type LogEntry struct {
	Role   string    `json:"role"`
	Text   string    `json:"text"`
	Images []string  `json:"images,omitempty"`
	Ts     time.Time `json:"ts"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Mode is a named operating profile governing how tasks are processed.
// Exactly one mode is current at a time.
type Mode struct {
	Slug string `json:"slug" yaml:"slug"`
	Name string `json:"name" yaml:"name"`
}

type SwitchModeRequest struct {
	Mode string `json:"mode"`
}

// Profile is a named configuration bundle, distinct from Mode.
type Profile struct {
	Name string `json:"name" yaml:"name"`
}

type SwitchProfileRequest struct {
	Name string `json:"name"`
}

// AutoApproveSettings is the full flag record held as server-wide state.
type AutoApproveSettings struct {
	AutoApprovalEnabled   bool `json:"autoApprovalEnabled" yaml:"auto_approval_enabled"`
	AlwaysAllowReadOnly   bool `json:"alwaysAllowReadOnly" yaml:"always_allow_read_only"`
	AlwaysAllowWrite      bool `json:"alwaysAllowWrite" yaml:"always_allow_write"`
	AlwaysAllowExecute    bool `json:"alwaysAllowExecute" yaml:"always_allow_execute"`
	AlwaysAllowBrowser    bool `json:"alwaysAllowBrowser" yaml:"always_allow_browser"`
	AlwaysAllowMcp        bool `json:"alwaysAllowMcp" yaml:"always_allow_mcp"`
	AlwaysApproveResubmit bool `json:"alwaysApproveResubmit" yaml:"always_approve_resubmit"`
}

// AutoApproveUpdate is a partial settings record. Nil fields are left
// unchanged by the server (merge semantics).
type AutoApproveUpdate struct {
	AutoApprovalEnabled   *bool `json:"autoApprovalEnabled,omitempty"`
	AlwaysAllowReadOnly   *bool `json:"alwaysAllowReadOnly,omitempty"`
	AlwaysAllowWrite      *bool `json:"alwaysAllowWrite,omitempty"`
	AlwaysAllowExecute    *bool `json:"alwaysAllowExecute,omitempty"`
	AlwaysAllowBrowser    *bool `json:"alwaysAllowBrowser,omitempty"`
	AlwaysAllowMcp        *bool `json:"alwaysAllowMcp,omitempty"`
	AlwaysApproveResubmit *bool `json:"alwaysApproveResubmit,omitempty"`
}

type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// MCPStatus is the availability of a tool integration.
type MCPStatus string

const (
	MCPEnabled  MCPStatus = "enabled"
	MCPDisabled MCPStatus = "disabled"
)

// MCP is a pluggable tool integration the assistant can invoke.
type MCP struct {
	ID     string    `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Status MCPStatus `json:"status" yaml:"status"`
}

// MCPDetails is the full metadata for one MCP.
type MCPDetails struct {
	MCP         `yaml:",inline"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Tools       []MCPTool `json:"tools,omitempty" yaml:"tools"`
}

type MCPTool struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
}
