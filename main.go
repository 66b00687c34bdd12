package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kasir/internal/app"
	"kasir/internal/config"
	"kasir/internal/database"
	"kasir/internal/events"
	"kasir/internal/realtime"
	"kasir/internal/storage"
	"kasir/pkg/rabbitmq"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"gorm.io/gorm/logger"
)

func main() {
	// --- Configuration ---
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment only")
	}
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, logger.Warn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	images, err := storage.NewDiskImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Realtime hub ---
	hub := realtime.NewHub()
	go hub.Run(ctx)

	// --- Event bus: websocket clients plus RabbitMQ when configured ---
	sinks := []events.Sink{hub}
	if mqClient := connectRabbitMQ(cfg.RabbitMQURL); mqClient != nil {
		defer mqClient.Close()
		sinks = append(sinks, mqClient)
	}
	bus := events.NewBus(sinks...)

	application := app.New(app.Options{
		Config:     cfg,
		DB:         db,
		Images:     images,
		Hub:        hub,
		Publisher:  bus,
		RequestLog: true,
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := application.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// connectRabbitMQ returns nil when no broker is configured or reachable; the
// application then runs with websocket notifications only.
func connectRabbitMQ(url string) *rabbitmq.Client {
	if url == "" {
		log.Println("RABBITMQ_URL not set, domain events stay in-process")
		return nil
	}

	mqClient, err := rabbitmq.NewClient(rabbitmq.DefaultConfig(url))
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, continuing without it: %v", err)
		return nil
	}

	// The audit consumer logs every domain event that went through the exchange.
	err = mqClient.Consume(func(msg amqp.Delivery) error {
		log.Printf("Audit event %s: %s", msg.RoutingKey, string(msg.Body))
		return nil
	})
	if err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}
	return mqClient
}
