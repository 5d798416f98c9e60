package services

import (
	"context"
	"fmt"

	"github.com/wealflow/wealflow/internal/client/repositories/metadata"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"

	DefaultTheme = ThemeLight
)

// Preferences holds the small per-installation settings.
type Preferences struct {
	repo metadata.Repository
}

func NewPreferences(repo metadata.Repository) *Preferences {
	return &Preferences{repo: repo}
}

// Theme returns the stored theme, or DefaultTheme when none is stored or
// the stored value is not recognised.
func (p *Preferences) Theme(ctx context.Context) (Theme, error) {
	raw, err := p.repo.Get(ctx, metadata.KeyTheme)
	if err != nil {
		return DefaultTheme, err
	}
	switch t := Theme(raw); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return DefaultTheme, nil
}

// SetTheme stores light or dark. System clears the stored value so the
// default applies.
func (p *Preferences) SetTheme(ctx context.Context, t Theme) error {
	switch t {
	case ThemeLight, ThemeDark:
		return p.repo.Set(ctx, metadata.KeyTheme, []byte(t))
	case ThemeSystem:
		return p.repo.Delete(ctx, metadata.KeyTheme)
	}
	return fmt.Errorf("%w: unknown theme %q", ErrValidation, t)
}

// FirstVisit reports whether the welcome banner has never been acknowledged.
func (p *Preferences) FirstVisit(ctx context.Context) (bool, error) {
	raw, err := p.repo.Get(ctx, metadata.KeyVisited)
	if err != nil {
		return false, err
	}
	return raw == nil, nil
}

func (p *Preferences) MarkVisited(ctx context.Context) error {
	return p.repo.Set(ctx, metadata.KeyVisited, []byte("true"))
}
