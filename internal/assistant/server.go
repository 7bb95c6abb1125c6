package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/pkg/cerr"
	"github.com/taskpilot/taskpilot/pkg/clog"
)

// Server exposes the assistant's HTTP API.
type Server struct {
	server    *http.Server
	env       *config.SimEnv
	assistant *Assistant
}

func NewServer(env *config.SimEnv, a *Assistant) *Server {
	return &Server{
		env:       env,
		assistant: a,
	}
}

// Handler builds the full route tree. Exposed separately from
// ListenAndServe so tests can mount it on httptest servers.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(
			clog.SlogChiMiddleware(),
			cerr.NewJSONResponseChiMiddleware(),
		)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})

		r.Get("/instructions", s.getInstructions)

		r.Get("/tasks", s.listTasks)
		r.Post("/tasks", s.createTask)
		r.Get("/tasks/status", s.getTaskStatus)
		r.Get("/tasks/{taskID}/status", s.getTaskStatus)
		r.Get("/tasks/logs", s.getTaskLogs)
		r.Get("/tasks/{taskID}/logs", s.getTaskLogs)
		r.Post("/tasks/respond", s.respondTask)
		r.Post("/tasks/{taskID}/respond", s.respondTask)
		r.Post("/messages", s.sendMessage)
		r.Post("/messages/{taskID}", s.sendMessage)

		r.Get("/modes", s.listModes)
		r.Get("/modes/current", s.currentMode)
		r.Post("/modes/switch", s.switchMode)
		r.Get("/profiles", s.listProfiles)
		r.Get("/profiles/current", s.currentProfile)
		r.Post("/profiles/switch", s.switchProfile)

		r.Get("/auto-approve", s.getAutoApprove)
		r.Post("/auto-approve", s.updateAutoApprove)
		r.Post("/auto-approve/enabled", s.setAutoApproveEnabled)

		r.Get("/mcps", s.listMCPs)
		r.Get("/mcps/{mcpID}", s.getMCP)
		r.Post("/mcps/{mcpID}/status", s.setMCPStatus)
	})

	mux := http.NewServeMux()
	mux.Handle("/health", &healthChecker{})
	mux.Handle("/api/", r)
	return mux
}

// ListenAndServe starts the HTTP server. The provided context is used as the
// base context for all incoming requests via http.Server.BaseContext, so
// cancelling it on shutdown also cancels any blocked wait_for_completion
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting simulator", "addr", addr)

	s.server = &http.Server{
		Addr: addr,
		Handler: h2c.NewHandler(cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(s.Handler()), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type healthChecker struct{}

func (hc *healthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeJSON reads a request body into out, reporting malformed input as an
// invalid_argument error.
func decodeJSON(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return cerr.NewError(cerr.InvalidArgument, "invalid request body", err)
	}
	return nil
}
