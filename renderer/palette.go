// Package renderer draws the race view with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/agent"
)

// Palette holds one body color per agent color key.
var Palette = [agent.PaletteSize]rl.Color{
	{R: 255, G: 214, B: 10, A: 255},
	{R: 255, G: 159, B: 28, A: 255},
	{R: 255, G: 99, B: 71, A: 255},
	{R: 230, G: 57, B: 70, A: 255},
	{R: 239, G: 71, B: 111, A: 255},
	{R: 255, G: 133, B: 161, A: 255},
	{R: 199, G: 125, B: 255, A: 255},
	{R: 131, G: 56, B: 236, A: 255},
	{R: 58, G: 134, B: 255, A: 255},
	{R: 76, G: 201, B: 240, A: 255},
	{R: 6, G: 214, B: 160, A: 255},
	{R: 56, G: 176, B: 0, A: 255},
	{R: 158, G: 240, B: 26, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
	{R: 173, G: 181, B: 189, A: 255},
	{R: 121, G: 85, B: 72, A: 255},
	{R: 244, G: 162, B: 97, A: 255},
	{R: 42, G: 157, B: 143, A: 255},
	{R: 233, G: 196, B: 106, A: 255},
	{R: 38, G: 70, B: 83, A: 255},
}

// ColorFor returns the palette color for a color key.
func ColorFor(key int) rl.Color {
	if key < 0 {
		key = -key
	}
	return Palette[key%agent.PaletteSize]
}
