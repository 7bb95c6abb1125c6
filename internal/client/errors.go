package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrPollTimeout is returned when WaitForTask exhausts its attempt bound
// without the task leaving in_progress.
var ErrPollTimeout = errors.New("timed out waiting for task status")

// APIError is a non-2xx response from the assistant, decoded from the
// {code, message} error body when present.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error [%s]: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api error: %s (HTTP %d)", e.Message, e.StatusCode)
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	var wire struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Message != "" {
		apiErr.Code = wire.Code
		apiErr.Message = wire.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

// ConnectionError means the assistant could not be reached at all, as
// opposed to answering with an error status.
type ConnectionError struct {
	BaseURL string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to %s: %v", e.BaseURL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Hints lists the usual causes of an unreachable assistant, suitable for
// printing to an operator.
func (e *ConnectionError) Hints() []string {
	return []string{
		"the assistant's external API is enabled in its settings",
		fmt.Sprintf("the port in %s matches the assistant's configuration", e.BaseURL),
		"the assistant is running and its API server has started",
	}
}
