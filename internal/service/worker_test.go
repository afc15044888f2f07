package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/queue"
	"github.com/unclebandit/campaign-intake/internal/service"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, phone, message string) error {
	return m.Called(ctx, phone, message).Error(0)
}

func jobBody(t *testing.T, job model.SendJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestWorkerSends(t *testing.T) {
	sender := &MockSender{}
	sender.On("Send", mock.Anything, "+911", "hi 👉 x").Return(nil).Once()

	w := service.NewWorker(sender, 0)
	err := w.Handle(context.Background(), jobBody(t, model.SendJob{CampaignID: "c1", Phone: "+911", Message: "hi 👉 x"}))

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestWorkerReturnsSendError(t *testing.T) {
	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("rate limited"))

	w := service.NewWorker(sender, 0)
	err := w.Handle(context.Background(), jobBody(t, model.SendJob{Phone: "+911", Message: "hi"}))

	assert.ErrorContains(t, err, "rate limited")
}

func TestWorkerDropsBadJobs(t *testing.T) {
	sender := &MockSender{}
	w := service.NewWorker(sender, 0)

	assert.NoError(t, w.Handle(context.Background(), []byte("not json")))
	assert.NoError(t, w.Handle(context.Background(), jobBody(t, model.SendJob{Message: "no phone"})))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerPacesSends(t *testing.T) {
	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	delay := 50 * time.Millisecond
	w := service.NewWorker(sender, delay)
	body := jobBody(t, model.SendJob{Phone: "+911", Message: "hi"})

	start := time.Now()
	require.NoError(t, w.Handle(context.Background(), body))
	require.NoError(t, w.Handle(context.Background(), body))

	assert.GreaterOrEqual(t, time.Since(start), delay-5*time.Millisecond)
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestWorkerWithInMemoryQueue(t *testing.T) {
	sender := &MockSender{}
	sender.On("Send", mock.Anything, "+911", "hi").Return(nil).Once()

	q := queue.NewInMemoryQueue()
	w := service.NewWorker(sender, 0)
	require.NoError(t, w.Subscribe(context.Background(), q))

	require.NoError(t, q.Publish(queue.TopicCampaignSends, jobBody(t, model.SendJob{Phone: "+911", Message: "hi"})))
	q.Wait()

	sender.AssertExpectations(t)
}
