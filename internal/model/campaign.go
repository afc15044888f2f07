// internal/model/campaign.go
package model

// Campaign statuses. The submit path only ever writes StatusPending.
const (
	StatusPending     = "pending"
	StatusReady       = "ready"
	StatusReadyToSend = "ready-to-send"
	StatusSent        = "sent"
)

// Submission is the record written by the campaign form.
type Submission struct {
	BusinessName string `json:"business_name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Target       string `json:"target"`
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
}

// Campaign is a stored submission plus what the backend jobs attach to it.
type Campaign struct {
	ID           string   `json:"$id"`
	BusinessName string   `json:"business_name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Target       string   `json:"target"`
	Status       string   `json:"status"`
	Timestamp    string   `json:"timestamp"`
	Messages     []string `json:"messages,omitempty"`
	GeneratedAt  string   `json:"generated_at,omitempty"`
	Link         string   `json:"link,omitempty"`
}
