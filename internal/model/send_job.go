// internal/model/send_job.go
package model

// SendJob is one WhatsApp message queued for a single contact.
type SendJob struct {
	CampaignID  string `json:"campaign_id"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Message     string `json:"message"`
}
