package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unclebandit/campaign-intake/internal/docstore"
	appErrors "github.com/unclebandit/campaign-intake/internal/errors"
	"github.com/unclebandit/campaign-intake/internal/model"
)

// listLimit bounds every listing; the jobs handle a handful of campaigns.
const listLimit = 500

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, s *model.Submission) (*model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	ListByStatus(ctx context.Context, status string) ([]*model.Campaign, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateMessages(ctx context.Context, id string, messages []string, generatedAt time.Time) error
}

// CampaignRepository stores campaigns as documents of one collection.
type CampaignRepository struct {
	Store        docstore.Store
	DatabaseID   string
	CollectionID string
}

// ====================== Campaign CRUD ======================

// Create writes a new campaign document and lets the store pick its id.
func (r *CampaignRepository) Create(ctx context.Context, s *model.Submission) (*model.Campaign, error) {
	doc, err := r.Store.CreateDocument(ctx, r.DatabaseID, r.CollectionID, docstore.UniqueID, s)
	if err != nil {
		return nil, err
	}
	return decodeCampaign(doc)
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	doc, err := r.Store.GetDocument(ctx, r.DatabaseID, r.CollectionID, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return decodeCampaign(doc)
}

func (r *CampaignRepository) ListByStatus(ctx context.Context, status string) ([]*model.Campaign, error) {
	list, err := r.Store.ListDocuments(ctx, r.DatabaseID, r.CollectionID,
		docstore.Equal("status", status), docstore.Limit(listLimit))
	if err != nil {
		return nil, err
	}

	campaigns := make([]*model.Campaign, 0, len(list.Documents))
	for i := range list.Documents {
		c, err := decodeCampaign(&list.Documents[i])
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, map[string]any{"status": status})
}

// UpdateMessages stores generated messages and marks the campaign ready to send.
func (r *CampaignRepository) UpdateMessages(ctx context.Context, id string, messages []string, generatedAt time.Time) error {
	return r.update(ctx, id, map[string]any{
		"messages":     messages,
		"status":       model.StatusReadyToSend,
		"generated_at": generatedAt.UTC().Format(time.RFC3339),
	})
}

func (r *CampaignRepository) update(ctx context.Context, id string, data map[string]any) error {
	_, err := r.Store.UpdateDocument(ctx, r.DatabaseID, r.CollectionID, id, data)
	if errors.Is(err, docstore.ErrNotFound) {
		return appErrors.NewCampaignNotFound(id)
	}
	return err
}

func decodeCampaign(doc *docstore.Document) (*model.Campaign, error) {
	var c model.Campaign
	if err := doc.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode campaign %s: %w", doc.ID, err)
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
