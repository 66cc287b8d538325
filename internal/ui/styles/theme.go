// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble  lipgloss.Style
	BotBubble   lipgloss.Style
	ErrorBubble lipgloss.Style
	BubbleTime  lipgloss.Style
	BubbleRole  lipgloss.Style
	MetaBadge   lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionTitle        lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusOnline lipgloss.Style
	StatusAnon   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// WELCOME SCREEN STYLES
	// ==========================================================================

	WelcomeBox       lipgloss.Style
	WelcomeLogo      lipgloss.Style
	WelcomeInfo      lipgloss.Style
	SuggestedItem    lipgloss.Style
	SuggestedChosen  lipgloss.Style
	WelcomePressKey  lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormBox      lipgloss.Style
	FormTitle    lipgloss.Style
	FormLabel    lipgloss.Style
	FormError    lipgloss.Style
	FormHint     lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		Background(BotBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 2).
		MarginRight(4)

	t.BubbleTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.BubbleRole = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.MetaBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(SurfaceDim).
		Padding(0, 1)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.SessionItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SessionItemSelected = lipgloss.NewStyle().
		Background(Indigo).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SessionTitle = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusOnline = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusAnon = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner / thinking
	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Welcome screen
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SuggestedItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SuggestedChosen = lipgloss.NewStyle().
		Background(Teal).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.WelcomePressKey = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GlamourStyle picks the glamour style name for the configured theme.
func GlamourStyle(theme string, isDark bool) string {
	switch theme {
	case "dark":
		return "dark"
	case "light":
		return "light"
	default:
		if isDark {
			return "dark"
		}
		return "light"
	}
}
