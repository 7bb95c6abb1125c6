package assistant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/pkg/cerr"
)

func (s *Server) listMCPs(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), s.assistant.registry.MCPs())
}

func (s *Server) getMCP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m, err := s.assistant.registry.MCP(chi.URLParam(r, "mcpID"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, m)
}

func (s *Server) setMCPStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.SetEnabledRequest
	if err := decodeJSON(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	m, err := s.assistant.registry.SetMCPStatus(chi.URLParam(r, "mcpID"), req.Enabled)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, m)
}
