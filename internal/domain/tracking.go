package domain

import (
	"fmt"
	"time"
)

// EventType enumerates the facts recorded about a (campaign, recipient) pair.
type EventType string

const (
	EventDelivered EventType = "delivered"
	EventClicked   EventType = "clicked"
	EventReported  EventType = "reported"
)

// EventTypes lists every known event type in display order.
var EventTypes = []EventType{EventDelivered, EventClicked, EventReported}

// ParseEventType validates a raw event type string.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventDelivered, EventClicked, EventReported:
		return t, nil
	}
	return "", &ValidationError{Field: "event_type", Message: fmt.Sprintf("unknown event type %q", s)}
}

// Deduplicated reports whether at most one event of this type may exist per
// (campaign, recipient) pair.
func (t EventType) Deduplicated() bool {
	return t == EventClicked || t == EventReported
}

// Event is a timestamped fact about a (campaign, recipient) pair.
type Event struct {
	ID          int64     `json:"id" db:"id"`
	CampaignID  int64     `json:"campaign_id" db:"campaign_id"`
	RecipientID int64     `json:"recipient_id" db:"recipient_id"`
	Type        EventType `json:"event_type" db:"event_type"`
	IP          *string   `json:"ip" db:"ip"`
	Timestamp   time.Time `json:"ts" db:"ts"`
}

// EventRow is an event joined with its campaign name and recipient email,
// as shown on the results page and in exports.
type EventRow struct {
	EventID        int64     `json:"event_id"`
	CampaignID     int64     `json:"campaign_id"`
	CampaignName   string    `json:"campaign_name"`
	RecipientEmail string    `json:"recipient_email"`
	Type           EventType `json:"event_type"`
	IP             string    `json:"ip"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventFilter narrows an event listing.
type EventFilter struct {
	CampaignID       *int64
	InteractionsOnly bool // only clicked and reported
}

// Summary holds the three headline counts for one campaign or all campaigns.
type Summary struct {
	Delivered int `json:"delivered"`
	Clicked   int `json:"clicked"`
	Reported  int `json:"reported"`
}

// ClickRate returns clicked/delivered as a percentage.
func (s Summary) ClickRate() float64 {
	if s.Delivered == 0 {
		return 0
	}
	return float64(s.Clicked) / float64(s.Delivered) * 100
}

// ReportRate returns reported/delivered as a percentage.
func (s Summary) ReportRate() float64 {
	if s.Delivered == 0 {
		return 0
	}
	return float64(s.Reported) / float64(s.Delivered) * 100
}

// DailyCount is the number of events on one calendar day (YYYY-MM-DD, UTC).
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// CampaignRate compares delivered and reported counts for one campaign.
type CampaignRate struct {
	CampaignID   int64   `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	Delivered    int     `json:"delivered"`
	Reported     int     `json:"reported"`
	ReportRate   float64 `json:"report_rate"`
}

// UnassignedDepartment labels recipients that belong to no department.
const UnassignedDepartment = "Unassigned"

// DepartmentCount is the number of clicked events attributed to one department.
type DepartmentCount struct {
	DepartmentID   *int64 `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Clicked        int    `json:"clicked"`
}

// RecipientHistory is the full event history of one recipient.
type RecipientHistory struct {
	Recipient Recipient         `json:"recipient"`
	Events    []EventRow        `json:"events"`
	Totals    map[EventType]int `json:"totals"`
}
