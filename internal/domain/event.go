package domain

import "time"

type Event struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Invariant: 0 <= CurrentParticipants <= MaxParticipants.
	// The counter is only ever moved by the conditional updates in
	// repository.EventRepository, never by read-modify-write.
	CurrentParticipants int `json:"current_participants" gorm:"default:0"`
	MaxParticipants     int `json:"max_participants" gorm:"not null"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`

	// Filled per-query for the requesting user, not a column.
	IsUserRegistered bool `json:"is_user_registered" gorm:"-"`
}

func (Event) TableName() string { return "events" }

func (e *Event) HasFreeSeats() bool {
	return e.CurrentParticipants < e.MaxParticipants
}

// EventRegistration is a user's claim on one seat of an event's capacity.
// The composite unique index makes double-registration a constraint
// violation instead of a racy application check.
type EventRegistration struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID  int64 `json:"user_id" gorm:"uniqueIndex:idx_user_event;not null"`
	EventID int64 `json:"event_id" gorm:"uniqueIndex:idx_user_event;not null"`

	User  User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Event Event `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

func (EventRegistration) TableName() string { return "event_registrations" }
