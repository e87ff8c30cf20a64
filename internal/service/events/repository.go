package events

import (
	"context"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// Repository persists events.
type Repository interface {
	// InsertEvent appends e, or does nothing when e.Type is deduplicated and
	// an event of that type already exists for the pair. It reports whether
	// a row was written. Missing campaign or recipient returns
	// domain.ErrNotFound.
	InsertEvent(ctx context.Context, e *domain.Event) (bool, error)
}

// Observer is notified after every Record call that reached the database.
type Observer interface {
	EventRecorded(t domain.EventType, created bool)
}
