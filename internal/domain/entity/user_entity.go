package entity

import (
	"time"
)

// User is a registered author. PasswordHash holds a bcrypt hash,
// never the plaintext password.
type User struct {
	ID           int64
	Name         string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
