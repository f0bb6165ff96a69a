package main

import (
	"context"
	"log"
	"os"

	"jobmarket/internal/database"
	"jobmarket/internal/domain/chat"
	"jobmarket/internal/domain/contractor"
	"jobmarket/internal/domain/job"
)

// One-shot chat-room reconciliation. The API runs the same sweep on a cron
// schedule; this binary exists for manual repair and migrations.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	svc := chat.NewService(
		chat.NewRepository(db),
		job.NewRepository(db),
		contractor.NewRepository(db),
		nil, // no websocket hub
		nil, // no push notifier
	)

	result, err := svc.ReconcileAssignedJobs(context.Background())
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}

	for _, e := range result.Errors {
		log.Printf("reconcile error: job_id=%s err=%s", e.JobID, e.Error)
	}
	log.Printf("chat reconcile completed: created=%d existing=%d errors=%d",
		result.Created, result.Existing, len(result.Errors))
}
