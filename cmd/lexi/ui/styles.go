// Package ui provides the visual styling and pages for the lexi terminal
// app: the onboarding wizard, the daily card deck, and the stats view.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. One warm accent against an ink foreground in light mode,
// flipped in dark mode.
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#faf7f2") // Warm paper
	LightForeground = lipgloss.Color("#2b2333") // Ink
	LightPrimary    = lipgloss.Color("#6d4aff") // Violet
	LightAccent     = lipgloss.Color("#ff8f5e") // Apricot
	LightSecondary  = lipgloss.Color("#ece7de")
	LightMuted      = lipgloss.Color("#8d8596")
	LightBorder     = lipgloss.Color("#ddd6ca")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#1b1526")
	DarkForeground = lipgloss.Color("#efeaf4")
	DarkPrimary    = lipgloss.Color("#a78bfa") // Violet (lifted)
	DarkAccent     = lipgloss.Color("#ffa36c") // Apricot (lifted)
	DarkSecondary  = lipgloss.Color("#2a2238")
	DarkMuted      = lipgloss.Color("#7d7489")
	DarkBorder     = lipgloss.Color("#3a3048")
	DarkCard       = lipgloss.Color("#241d31")

	// Semantic Colors (same in both modes)
	Success = lipgloss.Color("#5fb97a")
	Danger  = lipgloss.Color("#e05d5d")
	Warning = lipgloss.Color("#e0b357")
	Info    = lipgloss.Color("#5e9fe0")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks light or dark from terminal hints, defaulting to dark.
func DetectTheme() Theme {
	if os.Getenv("LEXI_LIGHT_MODE") == "1" {
		return LightTheme()
	}

	// COLORFGBG is usually "foreground;background"; low background indices
	// mean a dark terminal.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if bgIdx >= 7 && bgIdx != 8 {
					return LightTheme()
				}
			}
		}
	}

	return DarkTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Card faces
	Card     lipgloss.Style
	CardTerm lipgloss.Style
	Phonetic lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Badge    lipgloss.Style
	Selected lipgloss.Style
	Divider  lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Padding(0, 1).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 3).
			Align(lipgloss.Center),

		CardTerm: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Phonetic: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Italic(true),

		Success: lipgloss.NewStyle().Foreground(Success).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(Danger).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(Warning),
		Info:    lipgloss.NewStyle().Foreground(Info),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(theme.Background).
			Padding(0, 1).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles for the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
