package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-stepper/motor"
	"go-stepper/theme"
)

// FormatFrequency renders milli-Hz as Hz with two decimals
func FormatFrequency(milliHz uint32) string {
	return fmt.Sprintf("%d.%02d Hz", milliHz/1000, milliHz%1000/10)
}

// ChannelSymbol picks the strip symbol for one channel
func ChannelSymbol(st motor.ChannelStatus, sym theme.Symbols) rune {
	switch {
	case st.Running:
		return sym.ChannelRunning
	case st.Frequency != 0:
		return sym.ChannelHeld
	default:
		return sym.ChannelIdle
	}
}

// RenderChannelStrip renders one line per motor channel: index, activity
// symbol and the frequency it was last driven at.
func RenderChannelStrip(status []motor.ChannelStatus, th *theme.Theme) string {
	running := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	idle := lipgloss.NewStyle().Foreground(th.Muted())
	text := lipgloss.NewStyle().Foreground(th.FG())

	var lines []string
	for i, st := range status {
		style := idle
		if st.Running {
			style = running
		}
		freq := "-"
		if st.Frequency != 0 {
			freq = FormatFrequency(st.Frequency)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			text.Render(fmt.Sprintf("ch%d", i+1)),
			style.Render(string(ChannelSymbol(st, th.Symbols))),
			text.Render(fmt.Sprintf("%12s", freq))))
	}
	return strings.Join(lines, "\n")
}

// RenderSwatch renders the palette as a row of colored blocks
func RenderSwatch(p *theme.Palette) string {
	var out strings.Builder
	for i, c := range p.Colors {
		if i > 0 {
			out.WriteString(" ")
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(c)))
		out.WriteString(style.Render("■"))
	}
	return out.String()
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
