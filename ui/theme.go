package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme paints the window in the panel background.
type CustomTheme struct {
	fyne.Theme
	background color.Color
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme(background color.Color) fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme(), background: background}
}

// Color returns the panel background for the window background and defers
// everything else to the default theme.
func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground && t.background != nil {
		return t.background
	}
	return t.Theme.Color(name, variant)
}
