package server

import (
	"log/slog"
	"net/http"

	"breakeven-simulator/internal/handlers"
	"breakeven-simulator/internal/services"
)

type Server struct {
	simulator    *services.Simulator
	mux          *http.ServeMux
	logger       *slog.Logger
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	pageHandlers *handlers.PageHandlers
}

func NewServer(simulator *services.Simulator, logger *slog.Logger) *Server {
	s := &Server{
		simulator:    simulator,
		mux:          http.NewServeMux(),
		logger:       logger,
		apiHandlers:  handlers.NewAPIHandlers(simulator, logger),
		sseHandlers:  handlers.NewSSEHandlers(simulator, logger),
		pageHandlers: handlers.NewPageHandlers(simulator, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/scenarios", s.apiHandlers.HandleScenarios)
	s.mux.HandleFunc("GET /api/scenarios/{key}", s.apiHandlers.HandleScenario)
	s.mux.HandleFunc("GET /api/scenarios/{key}/projection.csv", s.apiHandlers.HandleProjectionCSV)
	s.mux.HandleFunc("POST /api/scenarios/{key}/what-if", s.apiHandlers.HandleWhatIf)
	s.mux.HandleFunc("POST /api/simulate", s.apiHandlers.HandleSimulate)

	// Datastar SSE endpoints
	s.mux.HandleFunc("POST /sse/simulate", s.sseHandlers.HandleSimulate)
	s.mux.HandleFunc("GET /sse/scenarios/{key}/reset", s.sseHandlers.HandleReset)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
