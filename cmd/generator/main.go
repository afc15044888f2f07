// cmd/generator/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/unclebandit/campaign-intake/internal/config"
	"github.com/unclebandit/campaign-intake/internal/db"
	"github.com/unclebandit/campaign-intake/internal/llm"
	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/repository"
	"github.com/unclebandit/campaign-intake/internal/service"
)

func main() {
	campaignID := flag.String("campaign", "", "generate for this campaign id instead of asking")
	advance := flag.Bool("advance", false, "first move stale ready-to-send campaigns back to ready")
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

	svc := &service.GeneratorService{
		CampaignRepo: &repository.CampaignRepository{
			Store:        store,
			DatabaseID:   cfg.Appwrite.DatabaseID,
			CollectionID: cfg.Collections.Campaigns,
		},
		LLM: llm.NewOllamaClient(cfg.Ollama.URL, cfg.Ollama.Model),
	}

	if err := run(ctx, svc, *campaignID, *advance); err != nil {
		log.Println("❌", err)
		stop()
		closeStore()
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *service.GeneratorService, campaignID string, advance bool) error {
	if advance {
		n, err := svc.AdvanceStale(ctx)
		if err != nil {
			return err
		}
		log.Printf("⏩ %d stale campaign(s) moved back to ready", n)
	}

	campaign, err := chooseCampaign(ctx, svc, campaignID)
	if err != nil || campaign == nil {
		return err
	}

	fmt.Printf("\n✍️ Generating messages for: %s\n", campaign.BusinessName)
	messages, err := svc.Generate(ctx, campaign)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		log.Println("⚠️ No messages generated.")
		return nil
	}
	log.Printf("✅ %d AI messages generated and saved to campaign.", len(messages))
	return nil
}

// chooseCampaign resolves the campaign to work on, asking on stdin when no
// id was given. A nil campaign with a nil error means there is nothing to do.
func chooseCampaign(ctx context.Context, svc *service.GeneratorService, campaignID string) (*model.Campaign, error) {
	if campaignID != "" {
		return svc.CampaignRepo.GetByID(ctx, campaignID)
	}

	campaigns, err := svc.ReadyCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		log.Println("🚫 No campaigns with 'ready' status found.")
		return nil, nil
	}

	fmt.Println("\nReady Campaigns:")
	for i, c := range campaigns {
		fmt.Println(service.CampaignLine(i, c))
	}
	fmt.Print("\nEnter the number of the campaign to generate messages for: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("read choice: %w", err)
	}
	return service.SelectCampaign(campaigns, line)
}
