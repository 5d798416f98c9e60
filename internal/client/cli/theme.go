package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wealflow/wealflow/internal/client/services"
)

type palette struct {
	income  lipgloss.Color
	expense lipgloss.Color
	accent  lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
}

// Catppuccin Latte and Mocha.
var palettes = map[services.Theme]palette{
	services.ThemeLight: {income: "#40a02b", expense: "#d20f39", accent: "#8839ef", muted: "#6c6f85", border: "#9ca0b0"},
	services.ThemeDark:  {income: "#a6e3a1", expense: "#f38ba8", accent: "#cba6f7", muted: "#7f849c", border: "#585b70"},
}

type styles struct {
	theme   services.Theme
	r       *lipgloss.Renderer
	title   lipgloss.Style
	income  lipgloss.Style
	expense lipgloss.Style
	muted   lipgloss.Style
	border  lipgloss.Style
	header  lipgloss.Style
}

// newStyles renders for w; colours are dropped when w is not a terminal.
func newStyles(w io.Writer, theme services.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		theme, p = services.DefaultTheme, palettes[services.DefaultTheme]
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		theme:   theme,
		r:       r,
		title:   r.NewStyle().Bold(true).Foreground(p.accent),
		income:  r.NewStyle().Foreground(p.income),
		expense: r.NewStyle().Foreground(p.expense),
		muted:   r.NewStyle().Foreground(p.muted),
		border:  r.NewStyle().Foreground(p.border),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
	}
}

func (s styles) table(headers ...string) *table.Table {
	cell := s.r.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return cell
		})
}

// Theme shows or changes the colour theme: theme [light|dark|system].
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cur, err := a.prefs.Theme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Theme: %s\n", cur)
		return nil
	}

	if err := a.prefs.SetTheme(ctx, services.Theme(args[0])); err != nil {
		return err
	}
	cur, err := a.prefs.Theme(ctx)
	if err != nil {
		return err
	}
	a.styles = newStyles(a.out, cur)
	fmt.Fprintf(a.out, "Theme set to %s\n", cur)
	return nil
}
