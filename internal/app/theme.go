package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AtlasTheme provides a custom theme for the application.
type AtlasTheme struct{}

var _ fyne.Theme = (*AtlasTheme)(nil)

func (t *AtlasTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF} // Matches the region outline blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xA0, B: 0x00, A: 0x80} // Orange, as selected outlines
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *AtlasTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *AtlasTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *AtlasTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13 // Denser lists in the side panels
	default:
		return theme.DefaultTheme().Size(name)
	}
}
