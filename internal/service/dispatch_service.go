// internal/service/dispatch_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	appErrors "github.com/unclebandit/campaign-intake/internal/errors"
	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/queue"
	"github.com/unclebandit/campaign-intake/internal/repository"
)

type DispatchService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	Queue        queue.Queue

	DefaultLink string
	CountryCode string
	// TestMode queues a single message to the first contact and leaves the
	// campaign status alone.
	TestMode bool
	Pick     func(n int) int
}

// Result struct for Dispatch
type DispatchResult struct {
	CampaignID string
	Queued     int
	Skipped    int
	MarkedSent bool
}

func (s *DispatchService) pick(n int) int {
	if s.Pick != nil {
		return s.Pick(n)
	}
	return rand.IntN(n)
}

// NormalizePhone prefixes countryCode to numbers without a leading "+".
// An empty number stays empty.
func NormalizePhone(raw, countryCode string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return ""
	}
	if !strings.HasPrefix(phone, "+") {
		phone = countryCode + phone
	}
	return phone
}

// AddCTA appends the campaign link unless the message already carries one.
func AddCTA(message, link string) string {
	if !strings.Contains(message, "http") {
		return fmt.Sprintf("%s 👉 %s", message, link)
	}
	return message
}

// Dispatch queues one message per contact for the first ready-to-send
// campaign, then marks it sent.
func (s *DispatchService) Dispatch(ctx context.Context) (*DispatchResult, error) {
	campaigns, err := s.CampaignRepo.ListByStatus(ctx, model.StatusReadyToSend)
	if err != nil {
		return nil, fmt.Errorf("list ready-to-send campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		return nil, appErrors.ErrNoReadyCampaign
	}
	campaign := campaigns[0]
	result := &DispatchResult{CampaignID: campaign.ID}

	log.Printf("📤 Launching campaign for: %s", campaign.BusinessName)

	if len(campaign.Messages) == 0 {
		log.Println("⚠️ No messages found in campaign.")
		return result, nil
	}

	contacts, err := s.ContactRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	if len(contacts) == 0 {
		log.Println("🚫 No contacts found.")
		return result, nil
	}

	link := campaign.Link
	if link == "" {
		link = s.DefaultLink
	}
	if s.TestMode {
		contacts = contacts[:1]
	}

	for _, contact := range contacts {
		phone := NormalizePhone(contact.Number, s.CountryCode)
		if phone == "" {
			result.Skipped++
			continue
		}

		job := model.SendJob{
			CampaignID:  campaign.ID,
			ContactName: contact.Name,
			Phone:       phone,
			Message:     AddCTA(campaign.Messages[s.pick(len(campaign.Messages))], link),
		}
		body, err := json.Marshal(job)
		if err != nil {
			return nil, err
		}
		if err := s.Queue.Publish(queue.TopicCampaignSends, body); err != nil {
			log.Printf("⚠️ failed to enqueue message for %s: %v", phone, err)
			result.Skipped++
			continue
		}
		result.Queued++
	}

	if s.TestMode {
		return result, nil
	}

	if err := s.CampaignRepo.UpdateStatus(ctx, campaign.ID, model.StatusSent); err != nil {
		return result, fmt.Errorf("mark campaign sent: %w", err)
	}
	result.MarkedSent = true
	log.Println("✅ Campaign marked as sent.")
	return result, nil
}
