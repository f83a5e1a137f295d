package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/api"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/editor"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/worker"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common/security"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/config"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/database"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/objectstore"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/queue"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/translate"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

func main() {
	// 1. Load Configuration
	config.Load()
	cfg := config.AppConfig
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Load the tenant registry
	registry, err := tenant.LoadRegistry(cfg.TenantRegistryPath)
	if err != nil {
		log.Fatalf("Could not load tenant registry: %v", err)
	}
	detector := tenant.NewDetector(registry)
	fmt.Printf("Tenant registry loaded: %d active tenants.\n", len(registry.Active()))

	// 4. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 5. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 6. Object storage
	objects, err := objectstore.Open(cfg.ObjectStorePath, cfg.PublicBaseURL, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("Could not open object store: %v", err)
	}
	defer objects.Close()
	fmt.Println("Object store opened.")

	// 7. Translation endpoint, cached in Redis
	translator := translate.NewCachedTranslator(
		translate.NewClient(cfg.TranslateBaseURL, cfg.TranslateEmail, cfg.TranslateTimeout),
		queue.RDB, cfg.TranslateCacheTTL,
	)

	// 8. Initialize Repositories
	docs := repository.NewSQLDocumentRepository(database.DB, cfg.DBDriver)
	userRepo := repository.NewSQLUserRepository(database.DB, cfg.DBDriver)
	jobRepo := repository.NewSQLTranslationJobRepository(database.DB, cfg.DBDriver)

	// 9. Initialize Services
	memberService := service.NewMemberService(docs, objects)
	noticeService := service.NewNoticeService(docs)
	settingsService := service.NewSettingsService(docs, objects, registry)
	backfillService := service.NewBackfillService(docs, jobRepo, translator, queue.RDB, cfg.BackfillQueueName)
	services := api.Services{
		Auth:        service.NewAuthService(userRepo, registry),
		Members:     memberService,
		Services:    service.NewServicesService(docs),
		Schemes:     service.NewSchemeService(docs),
		Notices:     noticeService,
		Settings:    settingsService,
		Public:      service.NewPublicService(registry, settingsService, noticeService, memberService),
		Translation: service.NewTranslationService(translator),
		Backfill:    backfillService,

		Objects:  objects,
		Detector: detector,
		Editor: editor.Config{
			Translator: translator,
			Debounce:   cfg.TranslateDebounce,
			Timeout:    cfg.TranslateTimeout,
			MaxFields:  cfg.EditorMaxFieldsPerConn,
		},
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	// 10. Initialize Backfill Worker (as a goroutine)
	backfillWorker := worker.NewBackfillWorker(queue.RDB, jobRepo, backfillService, worker.Options{
		QueueName:    cfg.BackfillQueueName,
		LockTTL:      cfg.BackfillLockTTL,
		PollInterval: cfg.BackfillPollInterval,
		RetryDelay:   cfg.BackfillRetryDelay,
	})
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	workerDone := make(chan struct{})
	go func() {
		backfillWorker.Start(workerCtx)
		close(workerDone)
	}()
	fmt.Println("Backfill worker started.")

	// 11. Initialize Router & HTTP Server
	router := api.NewRouter(services)

	// No WriteTimeout: editor websockets are long-lived. Plain requests are
	// bounded by the router's timeout middleware.
	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 12. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server shutdown failed: %v", err)
	}
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Println("WARN: Backfill worker did not stop in time")
	}

	log.Println("Server and worker stopped gracefully.")
}
