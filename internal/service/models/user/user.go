package user

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a user lookup by telegram id misses.
var ErrNotFound = errors.New("user not found")

// User is the platform identity of a customer or administrator. The row is
// owned by the identity-sync path and upserted on every inbound bot update.
type User struct {
	TelegramID int64     `json:"telegramId"`
	Username   string    `json:"username"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IsAdmin    bool      `json:"isAdmin"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DisplayName returns the best human-readable name for the user.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return "@" + u.Username
	}

	return "клиент"
}
