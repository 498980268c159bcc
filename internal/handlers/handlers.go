package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"swamp-ledger/internal/engine"
	"swamp-ledger/internal/middleware"
	"swamp-ledger/internal/utils"
	"swamp-ledger/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Hub            *websocket.Hub
	Auth           *middleware.Authenticator
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	ledgerEngine *engine.Engine,
	metrics *utils.MetricsCollector,
	hub *websocket.Hub,
	auth *middleware.Authenticator,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         ledgerEngine,
		Metrics:        metrics,
		Hub:            hub,
		Auth:           auth,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// request sends a message to an actor and unwraps application errors from
// the response.
func (s *Server) request(pid *actor.PID, msg interface{}) (interface{}, *utils.AppError) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError("engine")
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAppError(w http.ResponseWriter, appErr *utils.AppError) {
	http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
}
