package domain

import "time"

// Department groups recipients and is the unit of campaign targeting.
type Department struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	RecipientCount int       `json:"recipient_count" db:"recipient_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Recipient is a person who can be targeted by a campaign. A recipient
// belongs to at most one department.
type Recipient struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Name           string    `json:"name,omitempty" db:"name"`
	DepartmentID   *int64    `json:"department_id" db:"department_id"`
	DepartmentName string    `json:"department_name,omitempty" db:"department_name"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DisplayName returns the recipient's name, falling back to the email.
func (r *Recipient) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Email
}
