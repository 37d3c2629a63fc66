package domain

import (
	"strconv"
	"time"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChatID is the opaque conversational identity the dialogue engine keys
// sessions and carts by.
func (u *User) ChatID() string {
	return strconv.FormatInt(u.ID, 10)
}
