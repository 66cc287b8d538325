// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mlibbot TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Teal - Brand color, headers, user highlights
var Teal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

// Indigo - Assistant accents, selections
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// Emerald - Success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, the apology bubble
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, anonymous-mode hints
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Headers and footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User bubble - Teal tones
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#CCFBF1", Dark: "#115E59"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#134E4A", Dark: "#CCFBF1"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#14B8A6", Dark: "#14B8A6"}

// Bot bubble - Soft indigo tones
var BotBubbleBg = lipgloss.AdaptiveColor{Light: "#EEF2FF", Dark: "#32304A"}
var BotBubbleFg = lipgloss.AdaptiveColor{Light: "#3730A3", Dark: "#E0E7FF"}
var BotBubbleBorder = lipgloss.AdaptiveColor{Light: "#A5B4FC", Dark: "#818CF8"}

// Error bubble - Rose tones for the synthetic failure reply
var ErrorBubbleBg = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#881337"}
var ErrorBubbleFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text indicators for status states. ASCII
// shapes carry the state for colorblind users.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators provides shape indicators alongside colors.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders a success line with its indicator.
func RenderSuccess(message string) string {
	style := lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	return style.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error line with its indicator.
func RenderError(message string) string {
	style := lipgloss.NewStyle().Foreground(Rose).Bold(true)
	return style.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning line with its indicator.
func RenderWarning(message string) string {
	style := lipgloss.NewStyle().Foreground(Amber).Bold(true)
	return style.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info line with its indicator.
func RenderInfo(message string) string {
	style := lipgloss.NewStyle().Foreground(Indigo).Bold(true)
	return style.Render(StatusIndicators.Info + " " + message)
}
