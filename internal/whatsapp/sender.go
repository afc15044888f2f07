// internal/whatsapp/sender.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/unclebandit/campaign-intake/internal/config"
)

// Sender delivers one text message to a phone number in E.164 form.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// CloudSender posts text messages through the WhatsApp Cloud API.
type CloudSender struct {
	APIURL        string
	PhoneNumberID string
	Token         string
	HTTPClient    *http.Client
}

func NewCloudSender(apiURL, phoneNumberID, token string) *CloudSender {
	return &CloudSender{
		APIURL:        strings.TrimRight(apiURL, "/"),
		PhoneNumberID: phoneNumberID,
		Token:         token,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

func (s *CloudSender) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		// the API wants the number without the leading plus
		To:   strings.TrimPrefix(phone, "+"),
		Type: "text",
		Text: textBody{PreviewURL: true, Body: message},
	})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/%s/messages", s.APIURL, s.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send to %s: %w", phone, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("whatsapp send to %s: status %d: %s", phone, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

// NewSender picks the Cloud API sender when credentials are configured and
// the log-only sender otherwise.
func NewSender(cfg config.WhatsAppConfig) Sender {
	if cfg.Token == "" || cfg.PhoneNumberID == "" {
		log.Println("⚠️ WHATSAPP_TOKEN not set, messages are only logged")
		return LogSender{}
	}
	return NewCloudSender(cfg.APIURL, cfg.PhoneNumberID, cfg.Token)
}

// LogSender only logs; used when no API token is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, phone, message string) error {
	log.Printf("📨 [dry-run] to %s: %s", phone, message)
	return nil
}

var (
	_ Sender = (*CloudSender)(nil)
	_ Sender = LogSender{}
)
