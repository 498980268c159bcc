package main

import (
	"context"
	"log"
	"time"

	"swamp-ledger/simulator"
)

func main() {
	config := simulator.SimConfig{
		NumAccounts:  10,
		NumPosts:     25,
		NumReactions: 500,
		RemoveRate:   0.1,
		CommentRate:  0.3,
		Seed:         time.Now().UnixNano(),
		HostURL:      "http://localhost:8080",
	}

	sim := simulator.NewSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Printf("Starting simulation with configuration:")
	log.Printf("- Host URL: %s", config.HostURL)
	log.Printf("- Accounts: %d", config.NumAccounts)
	log.Printf("- Posts: %d", config.NumPosts)
	log.Printf("- Reaction calls: %d", config.NumReactions)
	log.Printf("- Removal rate: %.2f", config.RemoveRate)
	log.Printf("- Comment rate: %.2f", config.CommentRate)
	log.Printf("- Seed: %d", config.Seed)

	stats, err := sim.Run(ctx)
	if err != nil {
		log.Printf("Stats: %s", stats.Summary())
		log.Fatalf("Simulation failed: %v", err)
	}

	log.Printf("Simulation completed, counters consistent with reaction records")
	log.Printf("Stats: %s", stats.Summary())
}
