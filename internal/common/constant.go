// Package common contains constants and sentinel errors shared by the
// WealFlow client and server.
package common

// Session cookie names. The server sets both as HttpOnly; the client never
// reads their values, it only replays them.
const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
)

// Authentication providers stored on user records.
const (
	ProviderPassword = "common"
	ProviderGoogle   = "google"
)
