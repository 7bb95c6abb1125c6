package assistant

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/pkg/cerr"
	"github.com/taskpilot/taskpilot/pkg/clog"
)

const defaultListLimit = 10

// getInstructions is the connectivity probe clients hit before anything else.
func (s *Server) getInstructions(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), map[string]string{
		"instructions": "Use the /api endpoints to create and drive tasks.",
	})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := s.assistant.CreateTask(ctx, &req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	clog.AddAttribute(ctx, "task_id", t.ID)
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "limit must be a non-negative integer", err)
			return
		}
		limit = n
	}
	cerr.SetJSONResponse(ctx, s.assistant.ListTasks(limit))
}

func (s *Server) getTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.assistant.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) getTaskLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logs, err := s.assistant.GetTaskLogs(chi.URLParam(r, "taskID"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, logs)
}

func (s *Server) respondTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.RespondRequest
	if err := decodeJSON(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := s.assistant.Respond(ctx, chi.URLParam(r, "taskID"), &req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := s.assistant.SendMessage(ctx, chi.URLParam(r, "taskID"), &req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, t)
}
