package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"

	"github.com/osse101/Ascend_Go/internal/config"
	"github.com/osse101/Ascend_Go/internal/database"
	"github.com/osse101/Ascend_Go/internal/database/postgres"
	"github.com/osse101/Ascend_Go/internal/event"
)

// Dumps outbox state and dead-lettered events for troubleshooting the relay.
func main() {
	limit := flag.Int("limit", 20, "number of recent outbox events to show")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), 2, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// Pending count
	pending, err := postgres.NewStore(dbPool).CountPending(ctx)
	if err != nil {
		log.Printf("Failed to count pending events: %v", err)
	} else {
		fmt.Printf("--- Outbox ---\nPending: %d\n", pending)
	}

	// Recent events
	fmt.Println("\n--- Recent Outbox Events ---")
	rows, err := dbPool.Query(ctx, `
		SELECT id, type, created_at, dispatched_at
		FROM outbox_events ORDER BY id DESC LIMIT $1`, *limit)
	if err != nil {
		log.Printf("Failed to query outbox: %v", err)
	} else {
		defer rows.Close()
		for rows.Next() {
			var id int64
			var eventType string
			var createdAt, dispatchedAt interface{}
			if err := rows.Scan(&id, &eventType, &createdAt, &dispatchedAt); err != nil {
				log.Printf("Failed to scan outbox event: %v", err)
				continue
			}
			fmt.Printf("ID: %d, Type: %s, CreatedAt: %v, DispatchedAt: %v\n", id, eventType, createdAt, dispatchedAt)
		}
	}

	// Dead letters
	fmt.Printf("\n--- Dead Letters (%s) ---\n", cfg.DeadLetterPath)
	entries, err := event.ReadDeadLetters(cfg.DeadLetterPath)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Println("No dead-letter file.")
		return
	}
	if err != nil {
		log.Printf("Failed to read dead letters: %v", err)
	}
	for _, e := range entries {
		outboxID, _ := e.Event.OutboxID()
		fmt.Printf("%s Type: %s, OutboxID: %d, Attempts: %d, Error: %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Event.Type, outboxID, e.Attempts, e.LastError)
	}
}
