package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"monsterpet/internal/pet"
)

// resultView shows the revealed monster with a restart option
func (m Model) resultView(snap pet.Snapshot) string {
	def := pet.GetMonsterDefinition(snap.Monster)
	emoji := ""
	if def != nil {
		emoji = def.Emoji
	}
	revelation := pet.NewRevelation(snap.Monster)

	var badges []string
	for _, b := range snap.EarnedBadges() {
		badges = append(badges, b.Name)
	}
	badgeDisplay := strings.Join(badges, ", ")
	if badgeDisplay == "" {
		badgeDisplay = "None"
	}

	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s %s is a %s! %s\n\n", emoji, m.Name, snap.Monster, emoji))
	s.WriteString(revelation.Message + "\n\n")
	s.WriteString(fmt.Sprintf("Hunger:    [%s] %2d\n", makeBar(snap.Stats.Hunger), snap.Stats.Hunger))
	s.WriteString(fmt.Sprintf("Happiness: [%s] %2d\n", makeBar(snap.Stats.Happiness), snap.Stats.Happiness))
	s.WriteString(fmt.Sprintf("Energy:    [%s] %2d\n", makeBar(snap.Stats.Energy), snap.Stats.Energy))
	s.WriteString(fmt.Sprintf("Badges:    %s", badgeDisplay))

	options := []struct {
		label  string
		choice bool
	}{
		{"Start Over", m.Choice != ChoiceQuit},
		{"Quit", m.Choice == ChoiceQuit},
	}
	var menuItems []string
	for _, opt := range options {
		cursor := " "
		if opt.choice {
			cursor = ">"
		}
		menuItems = append(menuItems, m.styles.menu.Render(fmt.Sprintf("%s %s", cursor, opt.label)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("✨ Your monster hatched! ✨"),
		"",
		m.styles.result.Render(s.String()),
		"",
		m.styles.menuBox.Render(strings.Join(menuItems, "\n")),
		"",
		m.styles.status.Render("r to start over • q to quit"),
	)
}
