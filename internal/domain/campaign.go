package domain

import (
	"fmt"
	"time"
)

// Campaign is one outbound phishing-simulation send. It is created when an
// administrator launches a send and is immutable afterwards, except for the
// single rename that embeds the generated id into the name.
type Campaign struct {
	ID          int64       `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Subject     string      `json:"subject" db:"subject"`
	TemplateKey TemplateKey `json:"template_key,omitempty" db:"template_key"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// PlaceholderCampaignName is written on insert, before the id is known.
const PlaceholderCampaignName = "Pending campaign"

// CampaignName builds the final campaign name once the id has been assigned.
func CampaignName(id int64, displayName string) string {
	return fmt.Sprintf("Campaign #%d - %s", id, displayName)
}

// RecipientSelector chooses who a campaign is sent to: every recipient that
// belongs to some department, or the union of the listed departments.
type RecipientSelector struct {
	UseAll        bool    `json:"use_all"`
	DepartmentIDs []int64 `json:"department_ids"`
}

// Validate rejects an explicit selection that names no department.
func (s RecipientSelector) Validate() error {
	if s.UseAll {
		return nil
	}
	if len(s.DepartmentIDs) == 0 {
		return &ValidationError{Field: "department_ids", Message: "select at least one department or choose all recipients"}
	}
	for _, id := range s.DepartmentIDs {
		if id <= 0 {
			return &ValidationError{Field: "department_ids", Message: fmt.Sprintf("invalid department id %d", id)}
		}
	}
	return nil
}
