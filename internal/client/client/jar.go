package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/wealflow/wealflow/internal/client/repositories/metadata"
	"github.com/wealflow/wealflow/internal/logging"
)

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is an http.CookieJar that mirrors the API origin's cookies
// into the metadata table under metadata.KeySessionCookies.
type PersistentJar struct {
	mu     sync.Mutex
	inner  *cookiejar.Jar
	repo   metadata.Repository
	origin *url.URL
	logger logging.Logger
}

// NewPersistentJar restores any cookies saved by a previous run.
func NewPersistentJar(ctx context.Context, repo metadata.Repository, baseURL string, logger logging.Logger) (*PersistentJar, error) {
	origin, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	j := &PersistentJar{inner: inner, repo: repo, origin: origin, logger: logger}

	var saved []storedCookie
	found, err := metadata.GetJSON(ctx, repo, metadata.KeySessionCookies, &saved)
	if err != nil {
		logger.Warn(ctx, "discarding unreadable session cookies", "error", err)
		_ = repo.Delete(ctx, metadata.KeySessionCookies)
		return j, nil
	}
	if found {
		cookies := make([]*http.Cookie, 0, len(saved))
		for _, c := range saved {
			cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
		}
		inner.SetCookies(origin, cookies)
	}
	return j, nil
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
	if u.Hostname() != j.origin.Hostname() {
		return
	}
	if err := j.persist(context.Background()); err != nil {
		j.logger.Warn(context.Background(), "failed to persist session cookies", "error", err)
	}
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Clear drops every cookie, in memory and on disk.
func (j *PersistentJar) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.inner = inner
	return j.repo.Delete(ctx, metadata.KeySessionCookies)
}

// persist must be called with j.mu held.
func (j *PersistentJar) persist(ctx context.Context) error {
	current := j.inner.Cookies(j.origin)
	if len(current) == 0 {
		return j.repo.Delete(ctx, metadata.KeySessionCookies)
	}
	saved := make([]storedCookie, 0, len(current))
	for _, c := range current {
		saved = append(saved, storedCookie{Name: c.Name, Value: c.Value})
	}
	return metadata.SetJSON(ctx, j.repo, metadata.KeySessionCookies, saved)
}
