// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"time"
)

// =============================================================================
// RELATIVE TIME
// =============================================================================

// TimeAgo renders a session timestamp for the sidebar. Recent activity is
// relative, older activity is an absolute date.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Hour:
		return "just now"
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}
