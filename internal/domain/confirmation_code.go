package domain

import "time"

// EmailConfirmationCode holds the pending 6-digit confirmation code for a
// user. Only the peppered hash is stored; one row per user, overwritten on
// resend.
type EmailConfirmationCode struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID   int64  `json:"user_id" gorm:"uniqueIndex;not null"`
	CodeHash string `json:"-" gorm:"size:64;not null"`

	Attempts    int `json:"attempts" gorm:"default:0"`
	ResendCount int `json:"resend_count" gorm:"default:0"`

	LastSentAt time.Time  `json:"last_sent_at"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"index;not null"`
	UsedAt     *time.Time `json:"used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (EmailConfirmationCode) TableName() string { return "email_confirmation_codes" }
