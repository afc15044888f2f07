// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrSubmissionFailed is the only error the campaign form surfaces. Every
// store failure on the submit path is collapsed into it.
var ErrSubmissionFailed = errors.New("submission failed")

// ErrNoReadyCampaign means no campaign is in the status a job needs.
var ErrNoReadyCampaign = errors.New("no campaign ready")

// ErrCampaignNotFound is returned when a campaign id does not resolve
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// NewSubmissionFailed wraps cause so that errors.Is(err, ErrSubmissionFailed)
// holds while the cause stays available for logging.
func NewSubmissionFailed(cause error) error {
	return fmt.Errorf("%w: %w", ErrSubmissionFailed, cause)
}
