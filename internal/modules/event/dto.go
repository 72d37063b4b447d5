package event

import "time"

type CreateEventRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time" binding:"required"`
	MaxParticipants int       `json:"max_participants" binding:"required,min=1"`
}

type ListEventsQuery struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}
