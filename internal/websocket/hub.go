// Package websocket fans committed ledger events out to connected clients.
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"swamp-ledger/internal/models"
)

// Hub maintains the set of active clients and broadcasts ledger events.
type Hub struct {
	// Registered clients.
	Clients map[*Client]bool

	// Inbound event payloads to fan out to every client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Mutex to protect concurrent access to the clients map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
	}
}

// PublishEvent encodes a ledger event and queues it for broadcast. Safe to
// call from the contract actor.
func (h *Hub) PublishEvent(event models.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Hub: failed to encode event: %v", err)
		return
	}
	select {
	case h.Broadcast <- payload:
	default:
		log.Printf("Hub: broadcast queue full, dropping %s event", event.Type)
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket Hub started.")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			log.Printf("WebSocket Client registered for account %s. Total connections: %d", client.AccountID, len(h.Clients))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				log.Printf("WebSocket Client unregistered for account %s. Remaining connections: %d", client.AccountID, len(h.Clients))
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					log.Printf("Broadcast send buffer full for client of account %s", client.AccountID)
				}
			}
			h.mu.RUnlock()
		}
	}
}
