package handlers

import (
	"log"
	"net/http"

	ws "swamp-ledger/internal/websocket"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin filtering happens in the CORS layer
	},
}

// HandleWebSocket upgrades the connection and streams committed ledger
// events to the client. Browsers cannot set headers on websocket dials, so
// the token rides in the query string.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}
		claims, err := s.Auth.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := &ws.Client{
			Hub:       s.Hub,
			AccountID: claims.AccountID,
			Conn:      conn,
			Send:      make(chan []byte, 256),
		}
		s.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
