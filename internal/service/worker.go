package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/unclebandit/campaign-intake/internal/metrics"
	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/queue"
	"github.com/unclebandit/campaign-intake/internal/whatsapp"
)

// Worker sends queued WhatsApp messages, at most one per delay.
type Worker struct {
	Sender  whatsapp.Sender
	Limiter *rate.Limiter
}

// Constructor
func NewWorker(sender whatsapp.Sender, delay time.Duration) *Worker {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Worker{
		Sender:  sender,
		Limiter: rate.NewLimiter(limit, 1),
	}
}

// Handle sends one job. A body that is not a SendJob is dropped without
// error so the queue does not retry it.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job model.SendJob
	if err := json.Unmarshal(body, &job); err != nil {
		log.Println("⚠️ Invalid job:", err)
		return nil
	}
	if job.Phone == "" || job.Message == "" {
		log.Printf("⚠️ Incomplete job for campaign %s, dropping", job.CampaignID)
		return nil
	}

	log.Printf("📩 Sending to %s (%s)", job.ContactName, job.Phone)

	if err := w.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}

	if err := w.Sender.Send(ctx, job.Phone, job.Message); err != nil {
		log.Printf("❌ Failed to send message to %s: %v", job.Phone, err)
		metrics.RecordSent(metrics.OutcomeFailure)
		return err
	}

	log.Println("✅ Message sent to", job.Phone)
	metrics.RecordSent(metrics.OutcomeSuccess)
	return nil
}

// Subscribe attaches the worker to the campaign send topic.
func (w *Worker) Subscribe(ctx context.Context, q queue.Queue) error {
	return q.Subscribe(queue.TopicCampaignSends, func(body []byte) error {
		return w.Handle(ctx, body)
	})
}
