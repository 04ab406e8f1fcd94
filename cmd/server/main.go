package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "expoevents-backend/internal/api/http"
	"expoevents-backend/internal/config"
	"expoevents-backend/internal/gst"
	"expoevents-backend/internal/jobs"
	"expoevents-backend/internal/logger"
	"expoevents-backend/internal/notification"
	"expoevents-backend/internal/qr"
	"expoevents-backend/internal/repository/postgres"
	"expoevents-backend/internal/scheduler"
	"expoevents-backend/internal/service"
	"expoevents-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ExpoEvents backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		log.Fatalf("Failed to open database: %v", err)
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
	logger.Info("Storage initialized", "type", cfg.Storage.Type, "upload_dir", cfg.Storage.UploadDir)

	qrGen := qr.NewGenerator(assetStore)

	emailSender := notification.NewEmailSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	smsSender := notification.NewSMSSender(cfg.SMS.GatewayURL, cfg.SMS.APIKey, cfg.SMS.SenderID, cfg.SMS.DefaultCountry)
	notifier := notification.NewNotifier(emailSender, smsSender)

	var gstLookup gst.Lookup
	if cfg.GST.APIKey != "" {
		gstLookup = gst.NewClient(cfg.GST.BaseURL, cfg.GST.APIKey, time.Duration(cfg.GST.TimeoutSeconds)*time.Second)
	} else {
		logger.Info("GST verification running in demo mode: no API key configured")
	}
	gstCache := gst.NewCache(time.Duration(cfg.GST.CacheTTLHours) * time.Hour)
	gstLimiter := gst.NewRateLimiter(cfg.GST.RateLimit, time.Duration(cfg.GST.RateWindowSecs)*time.Second)
	gstSvc := gst.NewService(cfg.GST.APIKey, gstLookup, gstCache, gstLimiter)

	orgSvc := service.NewOrganizationService(store.OrganizationRepository, store.InviteRepository, store.SchemaRepository, notifier, cfg)
	eventSvc := service.NewEventService(store.EventRepository, store.SchemaRepository, qrGen, notifier, cfg)
	exhibitorSvc := service.NewExhibitorService(store.ExhibitorRepository, store.EventRepository, store.SchemaRepository, notifier, cfg)
	visitorSvc := service.NewVisitorService(store.VisitorRepository, store.EventRepository, store.SchemaRepository, qrGen, notifier, cfg)
	leadSvc := service.NewLeadService(store.LeadRepository, store.SchemaRepository)
	planSvc := service.NewPlanService(store.PlanRepository)
	invoiceSvc := service.NewInvoiceService(store.InvoiceRepository)

	jobRunner := jobs.NewJobRunner(store.InviteRepository, gstSvc, eventSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	router := httpapi.NewRouter(httpapi.Handlers{
		Organizations: httpapi.NewOrganizationHandler(orgSvc),
		Events:        httpapi.NewEventHandler(eventSvc),
		Exhibitors:    httpapi.NewExhibitorHandler(exhibitorSvc),
		Visitors:      httpapi.NewVisitorHandler(visitorSvc),
		Leads:         httpapi.NewLeadHandler(leadSvc),
		Plans:         httpapi.NewPlanHandler(planSvc),
		Invoices:      httpapi.NewInvoiceHandler(invoiceSvc),
		GST:           httpapi.NewGSTHandler(gstSvc),
		Uploads:       httpapi.NewUploadHandler(assetStore, eventSvc),
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("HTTP server error: %v", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
