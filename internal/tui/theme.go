package tui

import (
	"strings"

	"tempo-cli/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "63", Dark: "99"}
	colorRunning = lipgloss.AdaptiveColor{Light: "28", Dark: "78"}
	colorDone    = lipgloss.AdaptiveColor{Light: "243", Dark: "245"}
	colorFaint   = lipgloss.AdaptiveColor{Light: "250", Dark: "238"}

	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleFooter  = lipgloss.NewStyle().Faint(true)
	styleRunning = lipgloss.NewStyle().Foreground(colorRunning).Bold(true)
	styleDone    = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	styleSection = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// heatStyles maps intensity buckets (hours tracked in a day) to cell
// styles, mirroring the desktop heatmap's five levels.
var heatStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(colorFaint),
	lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "153", Dark: "60"}),
	lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "111", Dark: "62"}),
	lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "69", Dark: "99"}),
	lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "57", Dark: "135"}),
}

func heatStyle(ms int64) lipgloss.Style {
	hours := float64(ms) / 3600000
	switch {
	case ms == 0:
		return heatStyles[0]
	case hours < 1:
		return heatStyles[1]
	case hours < 3:
		return heatStyles[2]
	case hours < 5:
		return heatStyles[3]
	default:
		return heatStyles[4]
	}
}

// applyThemePreference forces light/dark when configured; otherwise
// lipgloss keeps its own background detection.
func applyThemePreference() {
	cfg, err := store.LoadConfig()
	if err != nil || cfg.TUI == nil {
		return
	}
	switch strings.ToLower(strings.TrimSpace(cfg.TUI.Theme)) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}
