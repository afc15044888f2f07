// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/unclebandit/campaign-intake/internal/config"
	"github.com/unclebandit/campaign-intake/internal/controller"
	"github.com/unclebandit/campaign-intake/internal/db"
	"github.com/unclebandit/campaign-intake/internal/handler"
	"github.com/unclebandit/campaign-intake/internal/repository"
	"github.com/unclebandit/campaign-intake/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Printf("Starting campaign intake in %s mode (store: %s)", cfg.App.Environment, cfg.Store.Backend)

	store, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}()

	campaignRepo := &repository.CampaignRepository{
		Store:        store,
		DatabaseID:   cfg.Appwrite.DatabaseID,
		CollectionID: cfg.Collections.Campaigns,
	}

	submissionController := &controller.SubmissionController{
		Service: &service.SubmissionService{CampaignRepo: campaignRepo},
	}
	healthHandler := handler.NewHealthHandler(store, cfg.Store.Backend)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Campaign form
	r.Get("/", submissionController.Form)
	r.Post("/campaigns", submissionController.Submit)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/store", healthHandler.StoreHealth)
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:           cfg.Server.GetServerAddr(),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Handler:        h2c.NewHandler(r, &http2.Server{}),
	}

	go func() {
		log.Printf("🚀 Server running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}
