package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtside/internal/config"
	"courtside/internal/database"
	"courtside/internal/jobs"
	"courtside/internal/logger"
	"courtside/internal/messaging"
	"courtside/internal/repository"
	"courtside/internal/service"
)

func main() {
	log.Println("Starting background jobs...")

	cfg := config.Load()
	cfg.NATS.ClientID = "courtside-jobs"

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, domain events disabled", "error", err)
		natsClient = nil
	} else {
		defer natsClient.Close()
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	completionJob := jobs.NewBookingCompletionJob(services.Bookings, 5*time.Minute)
	completionJob.Start(ctx)

	statusJob := jobs.NewActivityStatusJob(services.Activities, 5*time.Minute)
	statusJob.Start(ctx)

	log.Println("Background jobs started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down background jobs...")
	completionJob.Stop()
	statusJob.Stop()
	log.Println("Background jobs stopped")
}
