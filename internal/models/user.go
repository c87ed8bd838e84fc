package models

import "time"

// User is a registered account. PasswordHash holds a bcrypt digest, never
// the plaintext.
type User struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
}
