package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/campaign-intake/internal/config"
)

func TestCloudSenderSend(t *testing.T) {
	var path, auth string
	var got textMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	s := NewCloudSender(srv.URL, "12345", "tok")
	require.NoError(t, s.Send(context.Background(), "+919876543210", "hello"))

	assert.Equal(t, "/12345/messages", path)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "919876543210", got.To)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "hello", got.Text.Body)
}

func TestCloudSenderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid recipient"}}`))
	}))
	defer srv.Close()

	err := NewCloudSender(srv.URL, "1", "tok").Send(context.Background(), "+1", "x")
	assert.ErrorContains(t, err, "status 400")
}

func TestNewSenderSelectsBackend(t *testing.T) {
	assert.IsType(t, LogSender{}, NewSender(config.WhatsAppConfig{}))
	assert.IsType(t, LogSender{}, NewSender(config.WhatsAppConfig{Token: "tok"}))

	s := NewSender(config.WhatsAppConfig{APIURL: "https://graph.example/v19.0/", PhoneNumberID: "12345", Token: "tok"})
	cloud, ok := s.(*CloudSender)
	require.True(t, ok)
	assert.Equal(t, "https://graph.example/v19.0", cloud.APIURL)
	assert.Equal(t, "12345", cloud.PhoneNumberID)
}
