// internal/service/submission_service.go
package service

import (
	"context"
	"log"
	"time"

	appErrors "github.com/unclebandit/campaign-intake/internal/errors"
	"github.com/unclebandit/campaign-intake/internal/form"
	"github.com/unclebandit/campaign-intake/internal/metrics"
	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/repository"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type SubmissionService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Now          func() time.Time
}

func (s *SubmissionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// FormatTimestamp renders t in TimestampLayout, rounding up to the next
// millisecond so the stamp is never earlier than t.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if ms := t.Truncate(time.Millisecond); ms.Before(t) {
		t = ms.Add(time.Millisecond)
	}
	return t.Format(TimestampLayout)
}

// NewSubmission builds the record for one form submission.
func NewSubmission(v form.Values, at time.Time) *model.Submission {
	return &model.Submission{
		BusinessName: v.BusinessName,
		Description:  v.Description,
		Category:     v.ResolvedCategory(),
		Target:       v.ResolvedTarget(),
		Status:       model.StatusPending,
		Timestamp:    FormatTimestamp(at),
	}
}

// Submit persists one campaign submission. Any store failure comes back as
// appErrors.ErrSubmissionFailed; nothing is retried.
func (s *SubmissionService) Submit(ctx context.Context, v form.Values) (*model.Campaign, error) {
	began := time.Now()
	sub := NewSubmission(v, s.now())

	campaign, err := s.CampaignRepo.Create(ctx, sub)
	if err != nil {
		log.Println("❌ Error saving campaign:", err)
		metrics.RecordSubmission(metrics.OutcomeFailure, time.Since(began).Seconds())
		return nil, appErrors.NewSubmissionFailed(err)
	}

	log.Println("✅ Campaign created:", campaign.ID)
	metrics.RecordSubmission(metrics.OutcomeSuccess, time.Since(began).Seconds())
	return campaign, nil
}
