package ui

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
)

// lazyDetect wraps detect so it runs on first call only.
func lazyDetect(detect func() bool) func() bool {
	return sync.OnceValue(detect)
}

// isDarkBg queries the terminal on first use. The query reads the reply
// from stdin, so the first styled output must happen before stdin is
// consumed line by line.
var isDarkBg = lazyDetect(func() bool {
	return lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
})

// AdaptiveColor picks between a light-mode and dark-mode hex color string
// based on the detected terminal background.
func AdaptiveColor(light, dark string) color.Color {
	if isDarkBg() {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

// IsDarkBackground returns the cached terminal background detection result.
func IsDarkBackground() bool {
	return isDarkBg()
}

var currentTheme = sync.OnceValue(DefaultTheme)

// GetTheme returns the active theme.
func GetTheme() Theme {
	return currentTheme()
}

// Theme holds the semantic colors used for terminal output.
type Theme struct {
	Primary   color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Info      color.Color
	Assistant color.Color
	User      color.Color
	Text      color.Color
	Muted     color.Color
}

// DefaultTheme returns the Catppuccin Latte (light) / Mocha (dark) palette.
func DefaultTheme() Theme {
	return Theme{
		Primary:   AdaptiveColor("#8839ef", "#cba6f7"), // Mauve
		Success:   AdaptiveColor("#40a02b", "#a6e3a1"), // Green
		Warning:   AdaptiveColor("#df8e1d", "#f9e2af"), // Yellow
		Error:     AdaptiveColor("#d20f39", "#f38ba8"), // Red
		Info:      AdaptiveColor("#1e66f5", "#89b4fa"), // Blue
		Assistant: AdaptiveColor("#1e66f5", "#89b4fa"), // Blue
		User:      AdaptiveColor("#179299", "#94e2d5"), // Teal
		Text:      AdaptiveColor("#4c4f69", "#cdd6f4"),
		Muted:     AdaptiveColor("#6c6f85", "#a6adc8"),
	}
}

// StyleSuccess is bold green, used for completed steps.
func StyleSuccess(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
}

// StyleWarning is yellow, used for prompts and non-fatal notices.
func StyleWarning(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Warning)
}

// StyleError is bold red.
func StyleError(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
}

// StyleSpeaker labels a conversation turn.
func StyleSpeaker(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// StyleMuted is de-emphasized italic text.
func StyleMuted(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Muted).Italic(true)
}

// CreateSeparator draws a horizontal rule of width repetitions of char.
func CreateSeparator(width int, char string, c color.Color) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat(char, width))
}

func interpolateColor(a, b color.Color, pos float64) color.Color {
	r1, g1, b1, _ := a.RGBA()
	r2, g2, b2, _ := b.RGBA()
	lerp := func(x, y uint32) uint32 {
		return uint32(float64(x>>8) + pos*(float64(y>>8)-float64(x>>8)))
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", lerp(r1, r2), lerp(g1, g2), lerp(b1, b2)))
}

// ApplyGradient colors text from colorA to colorB in at most eight segments.
func ApplyGradient(text string, colorA, colorB color.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}

	const maxStops = 8
	segmentSize := len(runes) / maxStops
	if segmentSize < 1 {
		segmentSize = 1
	}

	var result strings.Builder
	for i := 0; i < len(runes); i += segmentSize {
		end := min(i+segmentSize, len(runes))
		c := interpolateColor(colorA, colorB, float64(i)/float64(len(runes)))
		result.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(runes[i:end])))
	}
	return result.String()
}
