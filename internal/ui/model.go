package ui

import (
	"log"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"monsterpet/internal/pet"
)

// Testable time function
var timeNow = time.Now

// Menu entries, in display order
const (
	ChoiceFeed = iota
	ChoicePlay
	ChoiceSleep
	ChoiceClean
	ChoiceReveal
	ChoiceQuit
)

var menuActions = map[int]pet.Action{
	ChoiceFeed:  pet.ActionFeed,
	ChoicePlay:  pet.ActionPlay,
	ChoiceSleep: pet.ActionSleep,
	ChoiceClean: pet.ActionClean,
}

// Model represents the game screen. It renders from engine snapshots and
// never holds game state of its own.
type Model struct {
	Engine         *pet.Engine
	Name           string
	Choice         int
	Quitting       bool
	Message        string
	MessageExpires time.Time
	Animation      Animation
	styles         styles
}

type animTickMsg struct {
	started time.Time
}

// NewModel creates a game screen over engine
func NewModel(engine *pet.Engine, name, color string) Model {
	if name == "" {
		name = pet.DefaultPetName
	}
	return Model{
		Engine: engine,
		Name:   name,
		Choice: ChoiceFeed,
		styles: newStyles(color),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Input is never blocked by an animation
		key := msg.String()
		switch key {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.Engine.Snapshot().Revealed() {
				m.Choice = ChoiceFeed
			} else if m.Choice > 0 {
				m.Choice--
			}
		case "down", "j":
			if m.Engine.Snapshot().Revealed() {
				m.Choice = ChoiceQuit
			} else if m.Choice < ChoiceQuit {
				m.Choice++
			}
		case "r":
			if m.Engine.Snapshot().Revealed() {
				return m, m.restart()
			}
		case "1", "2", "3", "4":
			n, _ := strconv.Atoi(key)
			return m, m.useItem(n - 1)
		case "enter", " ":
			return m.selectChoice()
		}

	case animTickMsg:
		// Drop ticks that belong to an older animation (e.g., if a new action started)
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}

		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			return m, nil
		}

		return m, animTick(m.Animation.StartTime)
	}

	return m, nil
}

func (m Model) selectChoice() (tea.Model, tea.Cmd) {
	snap := m.Engine.Snapshot()

	if snap.Revealed() {
		// The result screen only offers restart and quit
		if m.Choice == ChoiceQuit {
			m.Quitting = true
			return m, tea.Quit
		}
		return m, m.restart()
	}

	switch m.Choice {
	case ChoiceFeed, ChoicePlay, ChoiceSleep, ChoiceClean:
		return m, m.act(menuActions[m.Choice])
	case ChoiceReveal:
		return m, m.reveal()
	case ChoiceQuit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = timeNow().Add(3 * time.Second)
}

func (m *Model) startAnimation(animType AnimationType, emoji string) tea.Cmd {
	m.Animation = Animation{
		Type:      animType,
		Frame:     0,
		StartTime: timeNow(),
		Emoji:     emoji,
	}
	return animTick(m.Animation.StartTime)
}

// act applies a care action unless the action budget is spent
func (m *Model) act(a pet.Action) tea.Cmd {
	if m.Engine.Snapshot().ActionsLocked {
		m.setMessage("🥚 The egg is ready. Time to reveal!")
		return nil
	}

	events, err := m.Engine.ApplyAction(a)
	if err != nil {
		log.Printf("Error applying %s: %v", a, err)
		return nil
	}

	// A badge pop wins over the action animation
	for _, ev := range events {
		if ev.Kind == pet.EventBadgeEarned {
			m.setMessage(ev.Message())
			emoji := ""
			if def := pet.GetItemDefinition(ev.Item); def != nil {
				emoji = def.Emoji
			}
			return m.startAnimation(AnimBadge, emoji)
		}
	}

	m.setMessage(events[0].Message())
	return m.startAnimation(AnimationForAction(a), "")
}

// useItem activates the n-th held item as listed in the inventory
func (m *Model) useItem(n int) tea.Cmd {
	held := m.Engine.Snapshot().HeldItems()
	if n < 0 || n >= len(held) {
		return nil
	}

	def := held[n]
	events, err := m.Engine.ActivateItem(def.Item)
	if err != nil {
		log.Printf("Error using %s: %v", def.Item, err)
		return nil
	}
	if len(events) == 0 {
		return nil
	}

	m.setMessage(events[0].Message())
	return m.startAnimation(AnimItem, def.Emoji)
}

func (m *Model) reveal() tea.Cmd {
	if !m.Engine.IsRevealEligible() {
		m.setMessage("🥚 Not ready to hatch yet...")
		return nil
	}

	revelation := m.Engine.Reveal()
	m.setMessage(revelation.Message)
	m.Animation = Animation{}
	m.Choice = ChoiceFeed
	return nil
}

func (m *Model) restart() tea.Cmd {
	m.Engine.Reset()
	m.Animation = Animation{}
	m.Message = ""
	m.Choice = ChoiceFeed
	return nil
}
