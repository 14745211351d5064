// Package ui draws the race HUD and viewer controls.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Gold           rl.Color
	Silver         rl.Color
	Bronze         rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Gold:           rl.Color{R: 255, G: 215, B: 0, A: 255},
		Silver:         rl.Color{R: 192, G: 192, B: 192, A: 255},
		Bronze:         rl.Color{R: 205, G: 127, B: 50, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// RankColor returns the text color for a 1-based rank.
func (t Theme) RankColor(rank int) rl.Color {
	switch rank {
	case 1:
		return t.Gold
	case 2:
		return t.Silver
	case 3:
		return t.Bronze
	}
	return t.LabelColor
}
