// Package models defines server-side data models persisted in the database
// and returned by the JSON API.
package models

import "time"

// User is an account holder. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}
