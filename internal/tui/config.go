package tui

import "github.com/Veraticus/spend-squad/internal/tui/themes"

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Width        int
	Height       int
	MaxNotices   int
	ShowFullHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:      themes.Default,
		Width:      80,
		Height:     24,
		MaxNotices: 3,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithFullHelp starts with the full help view expanded.
func WithFullHelp(enabled bool) Option {
	return func(c *Config) {
		c.ShowFullHelp = enabled
	}
}
