package event

import (
	"context"
	"errors"

	"eventhub/internal/domain"

	"gorm.io/gorm"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type Service struct {
	events EventRepository
}

func NewService(events EventRepository) *Service {
	return &Service{events: events}
}

func (s *Service) CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.Event, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrValidation
	}
	if req.MaxParticipants < 1 {
		return nil, ErrValidation
	}

	e := &domain.Event{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		IsActive:        true,
	}

	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) GetEvent(ctx context.Context, eventID, userID int64) (*domain.Event, error) {
	e, err := s.events.GetByID(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *Service) ListEvents(ctx context.Context, offset, limit int, userID int64) ([]domain.Event, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.events.List(ctx, offset, limit, userID)
}

func (s *Service) UserEvents(ctx context.Context, userID int64) ([]domain.Event, error) {
	return s.events.GetUserEvents(ctx, userID)
}

// Register claims a seat. A false result means the event is missing,
// inactive, full, or the user already holds a seat — all expected outcomes,
// none of them errors.
func (s *Service) Register(ctx context.Context, userID, eventID int64) (bool, error) {
	return s.events.Register(ctx, userID, eventID)
}

// Cancel releases the user's seat; false when there is nothing to cancel.
func (s *Service) Cancel(ctx context.Context, userID, eventID int64) (bool, error) {
	return s.events.Cancel(ctx, userID, eventID)
}
