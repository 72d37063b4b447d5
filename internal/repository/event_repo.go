package repository

import (
	"context"
	"errors"

	"eventhub/internal/domain"

	"gorm.io/gorm"
)

// errNotRegistrable covers event missing, inactive or full — the guarded
// UPDATE below cannot tell them apart and the caller does not need to.
var errNotRegistrable = errors.New("event not registrable")

var errNoRegistration = errors.New("no registration for user/event")

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id int64, userID int64) (*domain.Event, error) {
	var e domain.Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	if userID > 0 {
		var count int64
		err := r.db.WithContext(ctx).Model(&domain.EventRegistration{}).
			Where("user_id = ? AND event_id = ?", userID, id).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		e.IsUserRegistered = count > 0
	}
	return &e, nil
}

// List returns events newest first. When userID > 0 each event carries an
// is_user_registered flag computed in the same query.
func (r *EventRepository) List(ctx context.Context, offset, limit int, userID int64) ([]domain.Event, error) {
	type eventRow struct {
		domain.Event
		Registered bool `gorm:"column:registered"`
	}

	var rows []eventRow
	tx := r.db.WithContext(ctx).Table("events").
		Select(
			"events.*, EXISTS(SELECT 1 FROM event_registrations r WHERE r.user_id = ? AND r.event_id = events.id) AS registered",
			userID,
		).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		e := row.Event
		e.IsUserRegistered = row.Registered
		events = append(events, e)
	}
	return events, nil
}

func (r *EventRepository) GetUserEvents(ctx context.Context, userID int64) ([]domain.Event, error) {
	var events []domain.Event
	tx := r.db.WithContext(ctx).
		Joins("JOIN event_registrations r ON r.event_id = events.id").
		Where("r.user_id = ?", userID).
		Order("events.start_time").
		Find(&events)
	if tx.Error != nil {
		return nil, tx.Error
	}
	for i := range events {
		events[i].IsUserRegistered = true
	}
	return events, nil
}

// Register claims one seat for the user. The seat counter moves through a
// conditional UPDATE guarded on capacity, so two concurrent calls can never
// both pass a stale capacity check; the composite unique index on
// (user_id, event_id) turns double-registration into a rollback. Counter
// increment and registration row commit together or not at all.
func (r *EventRepository) Register(ctx context.Context, userID, eventID int64) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE events
			 SET current_participants = current_participants + 1
			 WHERE id = ? AND is_active = ? AND current_participants < max_participants`,
			eventID, true,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotRegistrable
		}

		reg := domain.EventRegistration{UserID: userID, EventID: eventID}
		if err := tx.Create(&reg).Error; err != nil {
			// Duplicate registration: rollback also undoes the
			// increment above.
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errNotRegistrable) || isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Cancel releases the user's seat. The decrement never takes the counter
// below zero.
func (r *EventRepository) Cancel(ctx context.Context, userID, eventID int64) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND event_id = ?", userID, eventID).
			Delete(&domain.EventRegistration{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNoRegistration
		}

		return tx.Exec(
			`UPDATE events
			 SET current_participants = CASE
			     WHEN current_participants > 0 THEN current_participants - 1
			     ELSE 0
			 END
			 WHERE id = ?`,
			eventID,
		).Error
	})
	if err != nil {
		if errors.Is(err, errNoRegistration) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
