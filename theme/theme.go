package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// File browser
	Selected rune // ▶ entry under the encoder
	Dir      rune // ▸ sub-directory
	File     rune // ♪ playable file

	// Channel strip
	ChannelIdle    rune // · not driven
	ChannelRunning rune // ● stepping
	ChannelHeld    rune // ○ tuned but stopped
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Selected: '▶',
			Dir:      '▸',
			File:     '♪',

			ChannelIdle:    '·',
			ChannelRunning: '●',
			ChannelHeld:    '○',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG        = 0.0     // dark grey
	RoleMuted     = 1.0 / 6 // between background and text
	RoleFG        = 1.0 / 3 // pale blue
	RoleSelection = 2.0 / 3 // pale pink, text on the selected row
	RoleAccent    = 1.0     // orange
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Selection() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSelection))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// RGB returns raw RGB for any normalized value
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
