package main

import (
	"fmt"
	"log"
	"net/http"

	"swamp-ledger/internal/config"
	"swamp-ledger/internal/database"
	"swamp-ledger/internal/engine"
	"swamp-ledger/internal/handlers"
	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/middleware"
	"swamp-ledger/internal/utils"
	"swamp-ledger/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func openStore(cfg *config.StoreConfig) (kv.Store, error) {
	switch cfg.Type {
	case "memory":
		log.Printf("Using in-memory store; state will not survive restarts")
		return kv.NewMemory(), nil
	case "sqlite":
		return database.NewSQLiteStore(cfg.SQLitePath)
	case "mongo":
		return database.NewMongoStore(cfg.MongoURI)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Type, err)
	}

	metrics := utils.NewMetricsCollector()
	auth := middleware.NewAuthenticator(cfg.JWTSecret)

	hub := websocket.NewHub()
	go hub.Run()

	// Initialize actor system and engine
	system := actor.NewActorSystem()
	ledgerEngine := engine.NewEngine(system, store, cfg.Contract.MaxContentBytes, metrics, hub.PublishEvent)

	server := handlers.NewServer(system, ledgerEngine, metrics, hub, auth)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ApplyCORS(h, corsConfig)
	}
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ApplyCORS(auth.Protect(h), corsConfig)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", public(server.HandleHealth()))
	mux.HandleFunc("/account/register", public(server.HandleRegister()))
	mux.HandleFunc("/account/login", public(server.HandleLogin()))
	mux.HandleFunc("/post", protected(server.HandlePost()))
	mux.HandleFunc("/post/react", protected(server.HandleReact()))
	mux.HandleFunc("/reaction", protected(server.HandleReaction()))
	mux.HandleFunc("/ws", server.HandleWebSocket())
	if cfg.Server.MetricsEnabled {
		mux.HandleFunc("/metrics", public(server.HandleMetrics()))
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting host on %s (store: %s)", serverAddr, cfg.Store.Type)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
