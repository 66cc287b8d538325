// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small string helpers shared by the UI layers.
package util

import "github.com/mattn/go-runewidth"

// TruncateRunes truncates a string to a maximum number of runes, appending
// "..." when something was cut. Safe for UTF-8: it counts characters, not
// bytes.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// TruncateWidth truncates a string to a maximum display width, accounting
// for double-width characters.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// CutWidth returns the longest prefix of s that fits in the given display
// width, with no ellipsis.
func CutWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "")
}

// StringWidth returns the display width of a string. Double-width
// characters count as 2 columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadRight pads a string with spaces to the given display width.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
