// Package models defines server-side records persisted in PostgreSQL.
package models

import "time"

// User is an account. PasswordHash is empty for federated accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Provider     string
	Picture      string
	CreatedAt    time.Time
}
