package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"monsterpet/internal/pet"
)

type styles struct {
	title    lipgloss.Style
	status   lipgloss.Style
	menu     lipgloss.Style
	disabled lipgloss.Style
	menuBox  lipgloss.Style
	stats    lipgloss.Style
	bar      lipgloss.Style
	anim     lipgloss.Style
	result   lipgloss.Style
}

// newStyles builds the styles around the configured accent color
func newStyles(color string) styles {
	accent := lipgloss.Color(color)

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1),

		status: lipgloss.NewStyle().
			Foreground(accent).
			Width(44),

		stats: lipgloss.NewStyle().
			Foreground(accent).
			Width(44),

		bar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),

		menu: lipgloss.NewStyle().
			Foreground(accent),

		disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),

		menuBox: lipgloss.NewStyle().
			Padding(0, 2),

		anim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true).
			Padding(0, 2),

		result: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(0, 2),
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}

	snap := m.Engine.Snapshot()
	if snap.Revealed() {
		return m.resultView(snap)
	}

	status := pet.GetStatus(snap)
	title := m.styles.title.Render(status + " " + m.Name)

	sections := []string{
		title,
		"",
		m.renderStats(snap),
		"",
		m.styles.status.Render("Status: " + pet.GetStatusWithLabel(snap)),
	}

	if m.Animation.Type != AnimNone {
		sections = append(sections, m.styles.anim.Render(GetAnimationFrame(m.Animation)))
	}

	sections = append(sections, "", m.renderBadges(snap), m.renderInventory(snap))

	if m.Message != "" && timeNow().Before(m.MessageExpires) {
		sections = append(sections, "", m.styles.status.Render(m.Message))
	}

	helpText := "arrows to move • enter to select • q to quit"
	if len(snap.HeldItems()) > 0 {
		helpText = "1-4 use item • " + helpText
	}

	sections = append(sections,
		"",
		m.renderMenu(snap),
		"",
		m.styles.status.Render(helpText),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// makeBar draws one cell per stat point
func makeBar(value int) string {
	filled := max(0, min(value, pet.MaxStat))
	return strings.Repeat("█", filled) + strings.Repeat("░", pet.MaxStat-filled)
}

func (m Model) renderStats(snap pet.Snapshot) string {
	stats := []struct {
		name  string
		value int
	}{
		{"Hunger", snap.Stats.Hunger},
		{"Happiness", snap.Stats.Happiness},
		{"Energy", snap.Stats.Energy},
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-10s %s %2d (%d%%)",
			stat.name+":", m.styles.bar.Render(makeBar(stat.value)), stat.value, pet.StatPercent(stat.value)))
	}
	lines = append(lines, fmt.Sprintf("%-10s %d/%d", "Actions:", snap.ActionCount, pet.RevealActionThreshold))

	return m.styles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderBadges(snap pet.Snapshot) string {
	var names []string
	for _, def := range snap.EarnedBadges() {
		emoji := ""
		if item := pet.GetItemDefinition(def.Item); item != nil {
			emoji = item.Emoji + " "
		}
		names = append(names, emoji+def.Name)
	}
	if len(names) == 0 {
		names = []string{"None yet"}
	}
	return m.styles.status.Render("Badges: " + strings.Join(names, ", "))
}

func (m Model) renderInventory(snap pet.Snapshot) string {
	held := snap.HeldItems()
	if len(held) == 0 {
		return m.styles.status.Render("Inventory: empty")
	}

	lines := []string{"Inventory:"}
	for i, def := range held {
		lines = append(lines, fmt.Sprintf("  [%d] %s %s: %s", i+1, def.Emoji, def.Name, def.Effects))
	}
	return m.styles.status.Render(strings.Join(lines, "\n"))
}

// menuEntries returns the menu labels and whether each entry is enabled
func menuEntries(snap pet.Snapshot) ([]string, []bool) {
	var labels []string
	var enabled []bool

	for _, def := range pet.GetActionDefinitions() {
		labels = append(labels, def.Label)
		enabled = append(enabled, !snap.ActionsLocked)
	}

	reveal := "Reveal"
	if !snap.RevealEligible {
		reveal = fmt.Sprintf("Reveal (%d more)", snap.ActionsRemaining())
	}
	labels = append(labels, reveal, "Quit")
	enabled = append(enabled, snap.RevealEligible, true)

	return labels, enabled
}

func (m Model) renderMenu(snap pet.Snapshot) string {
	labels, enabled := menuEntries(snap)
	var menuItems []string

	for i, label := range labels {
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s", cursor, label)
		if enabled[i] {
			line = m.styles.menu.Render(line)
		} else {
			line = m.styles.disabled.Render(line)
		}
		menuItems = append(menuItems, line)
	}

	return m.styles.menuBox.Render(strings.Join(menuItems, "\n"))
}
