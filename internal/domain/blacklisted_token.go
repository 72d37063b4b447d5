package domain

import "time"

// BlacklistedToken is an access token invalidated before its natural expiry
// (logout). The set is append-only; expired rows are removed by the offline
// cleanup job, never on the request path.
type BlacklistedToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`

	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlacklistedToken) TableName() string { return "blacklisted_tokens" }
