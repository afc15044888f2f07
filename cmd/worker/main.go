// cmd/worker/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/unclebandit/campaign-intake/internal/config"
	"github.com/unclebandit/campaign-intake/internal/queue"
	"github.com/unclebandit/campaign-intake/internal/service"
	"github.com/unclebandit/campaign-intake/internal/whatsapp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to RabbitMQ
	q, err := queue.DialAMQP(cfg.Queue.URL)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	defer q.Close()

	worker := service.NewWorker(whatsapp.NewSender(cfg.WhatsApp), cfg.Sender.DelayDuration())
	if err := worker.Subscribe(ctx, q); err != nil {
		log.Fatalf("❌ Failed to register consumer: %v", err)
	}

	log.Printf("🚀 Worker running, one message every %s, waiting for messages...", cfg.Sender.DelayDuration())
	<-ctx.Done()
	log.Println("Worker stopped")
}
