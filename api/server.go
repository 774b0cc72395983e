package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aristel/arcana-server/game/lobby"
	"github.com/aristel/arcana-server/transport/websocket"
)

// Server represents the HTTP server.
type Server struct {
	reg    *lobby.Registry
	bridge *websocket.Bridge
	router *mux.Router
}

// NewServer creates the HTTP server over the registry. bridge may be
// nil to disable the /ws endpoint.
func NewServer(reg *lobby.Registry, bridge *websocket.Bridge) *Server {
	s := &Server{
		reg:    reg,
		bridge: bridge,
		router: mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	if s.bridge != nil {
		s.router.Handle("/ws", s.bridge)
	}
}

// Handle mounts an extra handler on the router, used for the /mcp
// endpoint wired in main.
func (s *Server) Handle(path string, h http.Handler) {
	s.router.Handle(path, h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	states := s.reg.Describe()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(states),
		"rooms": states,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rm, ok := s.reg.Find(id)
	if !ok {
		respondError(w, http.StatusNotFound, "room not found")
		return
	}
	respondJSON(w, http.StatusOK, rm.Describe())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"rooms":  s.reg.Count(),
	})
}
