package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	appErrors "github.com/unclebandit/campaign-intake/internal/errors"
	"github.com/unclebandit/campaign-intake/internal/model"
)

// MockCampaignRepo stores campaigns in memory
type MockCampaignRepo struct {
	mu        sync.Mutex
	created   []*model.Submission
	campaigns map[string]*model.Campaign
	order     []string
	createErr error
	updateErr error
}

func NewMockCampaignRepo(campaigns ...*model.Campaign) *MockCampaignRepo {
	m := &MockCampaignRepo{campaigns: map[string]*model.Campaign{}}
	for _, c := range campaigns {
		m.campaigns[c.ID] = c
		m.order = append(m.order, c.ID)
	}
	return m
}

func (m *MockCampaignRepo) Create(ctx context.Context, s *model.Submission) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, s)
	return &model.Campaign{
		ID:           "doc-1",
		BusinessName: s.BusinessName,
		Description:  s.Description,
		Category:     s.Category,
		Target:       s.Target,
		Status:       s.Status,
		Timestamp:    s.Timestamp,
	}, nil
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *MockCampaignRepo) ListByStatus(ctx context.Context, status string) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Campaign
	for _, id := range m.order {
		if c := m.campaigns[id]; c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCampaignRepo) UpdateStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	c, ok := m.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.Status = status
	return nil
}

func (m *MockCampaignRepo) UpdateMessages(ctx context.Context, id string, messages []string, generatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.Messages = messages
	c.Status = model.StatusReadyToSend
	c.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)
	return nil
}

// MockContactRepo returns a fixed contact list
type MockContactRepo struct {
	contacts []model.Contact
	err      error
}

func (m *MockContactRepo) ListAll(ctx context.Context) ([]model.Contact, error) {
	return m.contacts, m.err
}

func (m *MockContactRepo) Create(ctx context.Context, c *model.Contact) error {
	m.contacts = append(m.contacts, *c)
	return nil
}

// MockQueue records published bodies
type MockQueue struct {
	mu        sync.Mutex
	published [][]byte
	failOn    int // 1-based publish that fails, 0 = never
}

func (q *MockQueue) Publish(topic string, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failOn > 0 && len(q.published)+1 == q.failOn {
		q.failOn = 0
		return errors.New("queue down")
	}
	q.published = append(q.published, body)
	return nil
}

func (q *MockQueue) Subscribe(topic string, handler func(body []byte) error) error {
	return nil
}
