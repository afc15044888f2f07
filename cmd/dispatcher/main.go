// cmd/dispatcher/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/unclebandit/campaign-intake/internal/config"
	"github.com/unclebandit/campaign-intake/internal/db"
	appErrors "github.com/unclebandit/campaign-intake/internal/errors"
	"github.com/unclebandit/campaign-intake/internal/queue"
	"github.com/unclebandit/campaign-intake/internal/repository"
	"github.com/unclebandit/campaign-intake/internal/service"
	"github.com/unclebandit/campaign-intake/internal/whatsapp"
)

func main() {
	inline := flag.Bool("inline", false, "send in this process instead of publishing to RabbitMQ")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	store, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer closeStore()

	var (
		q    queue.Queue
		wait = func() {}
	)
	if *inline {
		mem := queue.NewInMemoryQueue()
		worker := service.NewWorker(whatsapp.NewSender(cfg.WhatsApp), cfg.Sender.DelayDuration())
		if err := worker.Subscribe(ctx, mem); err != nil {
			log.Fatalf("❌ Failed to start inline worker: %v", err)
		}
		q, wait = mem, mem.Wait
	} else {
		amqpQueue, err := queue.DialAMQP(cfg.Queue.URL)
		if err != nil {
			log.Fatal("❌ ", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
	}

	if cfg.Sender.TestMode {
		log.Println("🧪 TEST_MODE on: sending to the first contact only")
	}

	svc := &service.DispatchService{
		CampaignRepo: &repository.CampaignRepository{
			Store:        store,
			DatabaseID:   cfg.Appwrite.DatabaseID,
			CollectionID: cfg.Collections.Campaigns,
		},
		ContactRepo: &repository.ContactRepository{
			Store:        store,
			DatabaseID:   cfg.Appwrite.DatabaseID,
			CollectionID: cfg.Collections.Contacts,
		},
		Queue:       q,
		DefaultLink: cfg.Sender.DefaultLink,
		CountryCode: cfg.Sender.DefaultCountryCode,
		TestMode:    cfg.Sender.TestMode,
	}

	result, err := svc.Dispatch(ctx)
	if errors.Is(err, appErrors.ErrNoReadyCampaign) {
		log.Println("🚫 No campaigns with status 'ready-to-send'.")
		return
	}
	if err != nil {
		log.Println("❌", err)
		stop()
		closeStore()
		os.Exit(1)
	}

	log.Printf("📬 Campaign %s: %d queued, %d skipped", result.CampaignID, result.Queued, result.Skipped)
	wait()
}
