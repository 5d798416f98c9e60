// Package metadata persists small client-side values (the session snapshot,
// the theme, the first-run flag, session cookies) in the local SQLite file.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyUser           = "user"
	KeyTheme          = "theme"
	KeyVisited        = "has_visited_before"
	KeySessionCookies = "session_cookies"
)

// Repository is a byte-valued key/value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
