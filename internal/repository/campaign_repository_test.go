package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/campaign-intake/internal/docstore"
	appErrors "github.com/unclebandit/campaign-intake/internal/errors"
	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/repository"
)

func newCampaignRepo() *repository.CampaignRepository {
	return &repository.CampaignRepository{Store: docstore.NewMemoryStore(), DatabaseID: "db", CollectionID: "campaigns"}
}

func TestCampaignRepositoryCreate(t *testing.T) {
	repo := newCampaignRepo()
	ctx := context.Background()

	c, err := repo.Create(ctx, &model.Submission{
		BusinessName: "Acme",
		Description:  "desc",
		Category:     "Pets",
		Target:       "Dogs",
		Status:       model.StatusPending,
		Timestamp:    "2026-10-18T09:30:00.123Z",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Acme", c.BusinessName)
	assert.Equal(t, "Pets", c.Category)
	assert.Equal(t, "Dogs", c.Target)
	assert.Equal(t, model.StatusPending, c.Status)
	assert.Equal(t, "2026-10-18T09:30:00.123Z", c.Timestamp)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestCampaignRepositoryLifecycle(t *testing.T) {
	repo := newCampaignRepo()
	ctx := context.Background()

	c, err := repo.Create(ctx, &model.Submission{BusinessName: "Acme", Status: model.StatusPending})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, c.ID, model.StatusReady))

	ready, err := repo.ListByStatus(ctx, model.StatusReady)
	require.NoError(t, err)
	require.Len(t, ready, 1)

	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateMessages(ctx, c.ID, []string{"One", "Two"}, at))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReadyToSend, got.Status)
	assert.Equal(t, []string{"One", "Two"}, got.Messages)
	assert.Equal(t, "2026-10-18T12:00:00Z", got.GeneratedAt)

	pending, err := repo.ListByStatus(ctx, model.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCampaignRepositoryNotFound(t *testing.T) {
	repo := newCampaignRepo()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	var notFound *appErrors.ErrCampaignNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.CampaignID)

	err = repo.UpdateStatus(ctx, "missing", model.StatusSent)
	assert.True(t, errors.As(err, &notFound))
}

func TestContactRepository(t *testing.T) {
	repo := &repository.ContactRepository{Store: docstore.NewMemoryStore(), DatabaseID: "db", CollectionID: "contacts"}
	ctx := context.Background()

	asha := &model.Contact{Name: "Asha", Number: "9876543210"}
	require.NoError(t, repo.Create(ctx, asha))
	require.NoError(t, repo.Create(ctx, &model.Contact{Name: "Ben", Number: "+15551234567"}))
	assert.NotEmpty(t, asha.ID)

	contacts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Asha", contacts[0].Name)
	assert.Equal(t, "9876543210", contacts[0].Number)
	assert.Equal(t, asha.ID, contacts[0].ID)
}
