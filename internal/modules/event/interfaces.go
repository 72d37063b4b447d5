package event

import (
	"context"

	"eventhub/internal/domain"
)

// EventRepository defines the storage operations the coordinator needs.
// Register and Cancel return (false, nil) for expected business failures —
// event missing/inactive/full, duplicate registration, no registration —
// and reserve the error for real store trouble.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id int64, userID int64) (*domain.Event, error)
	List(ctx context.Context, offset, limit int, userID int64) ([]domain.Event, error)
	GetUserEvents(ctx context.Context, userID int64) ([]domain.Event, error)
	Register(ctx context.Context, userID, eventID int64) (bool, error)
	Cancel(ctx context.Context, userID, eventID int64) (bool, error)
}
