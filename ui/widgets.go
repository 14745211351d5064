package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a thin progress bar for a [0, 1] value.
func (r *Renderer) DrawBar(x, y, width int32, value float32, fill rl.Color) {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	rl.DrawRectangle(x, y, width, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(x, y, int32(float32(width)*value), r.Theme.BarHeight, fill)
}

// DrawSwatch draws a small color square.
func (r *Renderer) DrawSwatch(x, y int32, color rl.Color) {
	rl.DrawRectangle(x, y+1, 10, 10, color)
}

// Truncate shortens text to fit maxWidth pixels at the theme font size.
func (r *Renderer) Truncate(text string, maxWidth int32) string {
	if rl.MeasureText(text, r.Theme.FontSize) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		s := string(runes) + ".."
		if rl.MeasureText(s, r.Theme.FontSize) <= maxWidth {
			return s
		}
	}
	return string(runes)
}
