// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the hande TUI.

This package defines the color palette and theme used throughout the
application. All colors use Lip Gloss AdaptiveColor for automatic
light/dark terminal detection.

# Color System (colors.go)

## Accent Colors

  - Purple - Primary accent for assistant messages and selections
  - Cyan - Brand color for prompts and user highlights
  - Emerald - Success states
  - Amber - Warnings and transient status lines
  - Rose - Errors and cancelled generations

## Surface Colors

Layered surface system for depth:

	Surface    - Main background
	SurfaceDim - Subtle backgrounds (headers, status bars)
	Overlay    - Borders and separators

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	if theme.HasTrueColor {
		// Terminal supports 16M colors
	}

# Usage Example

	import "github.com/jeranaias/hande-tui/internal/ui/styles"

	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)
*/
package styles
