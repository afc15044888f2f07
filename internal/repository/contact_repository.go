package repository

import (
	"context"
	"fmt"

	"github.com/unclebandit/campaign-intake/internal/docstore"
	"github.com/unclebandit/campaign-intake/internal/model"
)

// ContactRepositoryInterface defines methods used by the dispatcher and seeder
type ContactRepositoryInterface interface {
	ListAll(ctx context.Context) ([]model.Contact, error)
	Create(ctx context.Context, c *model.Contact) error
}

// ContactRepository reads the WhatsApp contacts collection
type ContactRepository struct {
	Store        docstore.Store
	DatabaseID   string
	CollectionID string
}

// ListAll fetches all contacts
func (r *ContactRepository) ListAll(ctx context.Context) ([]model.Contact, error) {
	list, err := r.Store.ListDocuments(ctx, r.DatabaseID, r.CollectionID, docstore.Limit(listLimit))
	if err != nil {
		return nil, err
	}

	contacts := make([]model.Contact, 0, len(list.Documents))
	for _, doc := range list.Documents {
		var c model.Contact
		if err := doc.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode contact %s: %w", doc.ID, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) error {
	doc, err := r.Store.CreateDocument(ctx, r.DatabaseID, r.CollectionID, docstore.UniqueID, map[string]any{
		"name":   c.Name,
		"number": c.Number,
	})
	if err != nil {
		return err
	}
	c.ID = doc.ID
	return nil
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
