package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/api"
)

func TestWaitForTaskChecksOncePerAttempt(t *testing.T) {
	// Three busy reads plus the final one that sees completed.
	const busyChecks = 3
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tasks/t1/status", r.URL.Path)
		status := api.StatusInProgress
		if calls.Add(1) > busyChecks {
			status = api.StatusCompleted
		}
		_ = json.NewEncoder(w).Encode(api.Task{ID: "t1", Status: status})
	}))
	defer srv.Close()

	c := New(srv.URL, WithPollInterval(time.Millisecond))
	task, err := c.WaitForTask(context.Background(), "t1")
	require.NoError(t, err)
	require.Equal(t, api.StatusCompleted, task.Status)
	require.EqualValues(t, busyChecks+1, calls.Load())
}

func TestWaitForTaskStopsOnWaitingStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.Task{ID: "t1", Status: api.StatusNeedsApproval})
	}))
	defer srv.Close()

	c := New(srv.URL, WithPollInterval(time.Millisecond))
	task, err := c.WaitForTask(context.Background(), "t1")
	require.NoError(t, err)
	require.Equal(t, api.StatusNeedsApproval, task.Status)
}

func TestWaitForTaskTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(api.Task{ID: "t1", Status: api.StatusInProgress})
	}))
	defer srv.Close()

	c := New(srv.URL, WithPollInterval(time.Millisecond), WithMaxPollAttempts(5))
	_, err := c.WaitForTask(context.Background(), "t1")
	require.ErrorIs(t, err, ErrPollTimeout)
	require.EqualValues(t, 5, calls.Load())
}

func TestCurrentTaskPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.Task{ID: "t1", Status: api.StatusCompleted})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	_, err := c.GetTaskStatus(ctx, "")
	require.NoError(t, err)
	_, err = c.Respond(ctx, "", "approve")
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, "", &api.SendMessageRequest{Message: "hi"})
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, "t1", &api.SendMessageRequest{Message: "hi"})
	require.NoError(t, err)

	require.Equal(t, []string{
		"/api/tasks/status",
		"/api/tasks/respond",
		"/api/messages",
		"/api/messages/t1",
	}, paths)
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"not_found","message":"task not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetTaskStatus(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "not_found", apiErr.Code)
	require.Equal(t, "task not found", apiErr.Message)
}

func TestAPIErrorRawBodyFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Ping(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "upstream exploded")
}

func TestConnectionErrorHints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	err := c.Ping(context.Background())
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, srv.URL, connErr.BaseURL)
	require.NotEmpty(t, connErr.Hints())
}

func TestWaitForTaskContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.Task{ID: "t1", Status: api.StatusInProgress})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(srv.URL, WithPollInterval(time.Hour))
	_, err := c.WaitForTask(ctx, "t1")
	require.True(t, errors.Is(err, context.Canceled))
}
