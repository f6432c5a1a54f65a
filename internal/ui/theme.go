package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Guildfit theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconFlex    = "💪"
	IconRun     = "🏃"
	IconBolt    = "⚡"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconFire    = "🔥"
	IconFreeze  = "🧊"
	IconSkull   = "💀"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconWater   = "💧"
	IconSteps   = "👟"
	IconProtein = "🍗"
	IconSleep   = "😴"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// ProgressBar renders a fixed-width bar for XP progress toward the next level.
func ProgressBar(current, required, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if required > 0 {
		filled = current * width / required
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

// QuestIcon maps a quest name to its emoji.
func QuestIcon(quest string) string {
	switch quest {
	case "hydration":
		return IconWater
	case "steps":
		return IconSteps
	case "protein":
		return IconProtein
	case "sleep":
		return IconSleep
	default:
		return IconSparkle
	}
}
