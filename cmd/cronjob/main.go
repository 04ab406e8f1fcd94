package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"expoevents-backend/internal/config"
	"expoevents-backend/internal/jobs"
	"expoevents-backend/internal/logger"
	"expoevents-backend/internal/notification"
	"expoevents-backend/internal/qr"
	"expoevents-backend/internal/repository/postgres"
	"expoevents-backend/internal/scheduler"
	"expoevents-backend/internal/service"
	"expoevents-backend/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'purge-expired-invites', 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ExpoEvents cronjob runner...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	assetStore, err := storage.New(cfg.Storage.Type, cfg.Storage.UploadDir, cfg.Storage.BaseURL)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	qrGen := qr.NewGenerator(assetStore)

	notifier := notification.NewNotifier(
		notification.NewEmailSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName),
		notification.NewSMSSender(cfg.SMS.GatewayURL, cfg.SMS.APIKey, cfg.SMS.SenderID, cfg.SMS.DefaultCountry),
	)
	eventSvc := service.NewEventService(store.EventRepository, store.SchemaRepository, qrGen, notifier, cfg)

	// The GST verification cache and rate limiter live in the API server
	// process; this binary has no state to sweep.
	jobRunner := jobs.NewJobRunner(store.InviteRepository, nil, eventSvc, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "purge-expired-invites":
		jobRunner.PurgeExpiredInvites()
	case "backfill-event-qr":
		jobRunner.BackfillEventQR()
	case "all":
		jobRunner.RunAllMaintenanceJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - purge-expired-invites\n")
		fmt.Printf("  - backfill-event-qr\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
