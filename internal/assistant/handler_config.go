package assistant

import (
	"net/http"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/pkg/cerr"
)

func (s *Server) listModes(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), s.assistant.registry.Modes())
}

func (s *Server) currentMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m, err := s.assistant.registry.CurrentMode()
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, m)
}

func (s *Server) switchMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.SwitchModeRequest
	if err := decodeJSON(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	m, err := s.assistant.registry.SwitchMode(req.Mode)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, m)
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), s.assistant.registry.Profiles())
}

func (s *Server) currentProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.assistant.registry.CurrentProfile()
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, p)
}

func (s *Server) switchProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.SwitchProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	p, err := s.assistant.registry.SwitchProfile(req.Name)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, p)
}

func (s *Server) getAutoApprove(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), s.assistant.registry.AutoApprove())
}

// updateAutoApprove merges the supplied flags into the current record and
// returns the result; omitted flags keep their value.
func (s *Server) updateAutoApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.AutoApproveUpdate
	if err := decodeJSON(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, s.assistant.registry.UpdateAutoApprove(&req))
}

func (s *Server) setAutoApproveEnabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.SetEnabledRequest
	if err := decodeJSON(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, s.assistant.registry.SetAutoApproveEnabled(req.Enabled))
}
