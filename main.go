package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"attribution/api/config"
	"attribution/api/database"
	"attribution/api/handlers"
	"attribution/api/middleware"
	"attribution/api/store"
	"attribution/api/utils"
)

func main() {
	cfg := config.Load()

	logCloser := utils.SetupLogging(cfg.LogFile)
	defer logCloser.Close()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL (conversions, products, journeys) ---
	dbClient, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	if cfg.BootstrapSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.EnsureSchema(ctx, dbClient.DB); err != nil {
			log.Printf("Error ensuring database schema: %v", err)
		}
		cancel()
	}

	// --- Initialize Stores ---
	conversionStore := store.NewConversionStore(dbClient.DB, cfg.AtomicWrites)
	campaignStore := store.NewCampaignStore(dbClient.DB)
	orderStore := store.NewOrderStore(dbClient.DB)

	// --- Initialize Handlers ---
	conversionHandlers := handlers.NewConversionHandlers(conversionStore, campaignStore, orderStore, cfg.RequestTimeout)
	var analyticsHandlers *handlers.AnalyticsHandlers

	// --- Optional ClickHouse event mirror ---
	if cfg.ClickHouse.Enabled() {
		chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
		if err != nil {
			log.Printf("ClickHouse event mirror disabled: %v", err)
		} else {
			defer chClient.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := chClient.EnsureEventsTable(ctx); err != nil {
				log.Printf("Error ensuring ClickHouse events table: %v", err)
			}
			cancel()

			eventStore := store.NewEventStore(chClient)
			conversionHandlers.WithEventMirror(eventStore)
			analyticsHandlers = handlers.NewAnalyticsHandlers(eventStore, cfg.RequestTimeout)
		}
	}

	metrics := middleware.NewMetrics()

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(metrics.Middleware())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	handlers.RegisterRoutes(r, conversionHandlers, analyticsHandlers)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Attribution tracking server starting on http://localhost:%s", cfg.Port)
		log.Println("API endpoints:")
		log.Println("   POST /api/track-conversion")
		log.Println("   GET  /api/conversions/by-campaign")
		log.Println("   GET  /api/order/:orderId")
		if analyticsHandlers != nil {
			log.Println("   GET  /api/conversions/over-time")
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
