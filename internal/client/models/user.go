// Package models holds the client-side WealFlow records exchanged with the
// API and kept in the local cache.
package models

// User is the account record returned by the who-am-I endpoint.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider,omitempty"`
	Picture  string `json:"picture,omitempty"`
}
