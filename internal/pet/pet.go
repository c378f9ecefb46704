package pet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownItem   = errors.New("unknown item")
)

// Delta is a signed change to each stat
type Delta struct {
	Hunger    int `json:"hunger"`
	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
}

// Stats represents the monster's three needs, each within [MinStat, MaxStat]
type Stats struct {
	Hunger    int `json:"hunger"`
	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
}

// Apply adds d to every stat and clamps the result
func (s Stats) Apply(d Delta) Stats {
	return Stats{
		Hunger:    clampStat(s.Hunger + d.Hunger),
		Happiness: clampStat(s.Happiness + d.Happiness),
		Energy:    clampStat(s.Energy + d.Energy),
	}
}

func clampStat(v int) int {
	return max(MinStat, min(v, MaxStat))
}

// StatPercent converts a stat to the width of its bar, 0-100
func StatPercent(v int) int {
	return clampStat(v) * 100 / MaxStat
}

// Action is one of the four care actions
type Action string

const (
	ActionFeed  Action = "feed"
	ActionPlay  Action = "play"
	ActionSleep Action = "sleep"
	ActionClean Action = "clean"
)

// ActionDefinition describes an action's label and stat changes
type ActionDefinition struct {
	Action Action
	Label  string
	Emoji  string
	Delta  Delta
}

// GetActionDefinitions returns the care actions in menu order
func GetActionDefinitions() []ActionDefinition {
	return []ActionDefinition{
		{
			Action: ActionFeed,
			Label:  "Feed",
			Emoji:  "🍖",
			Delta:  Delta{Hunger: FeedHungerIncrease, Energy: -FeedEnergyDecrease},
		},
		{
			Action: ActionPlay,
			Label:  "Play",
			Emoji:  "🎾",
			Delta:  Delta{Happiness: PlayHappinessIncrease, Energy: -PlayEnergyDecrease},
		},
		{
			Action: ActionSleep,
			Label:  "Sleep",
			Emoji:  "😴",
			Delta:  Delta{Hunger: -SleepHungerDecrease, Energy: SleepEnergyIncrease},
		},
		{
			// Cleaning only counts towards the action budget
			Action: ActionClean,
			Label:  "Clean",
			Emoji:  "🧽",
		},
	}
}

// GetActionDefinition returns the definition for a given action
func GetActionDefinition(a Action) *ActionDefinition {
	for _, def := range GetActionDefinitions() {
		if def.Action == a {
			return &def
		}
	}
	return nil
}

// ParseAction resolves an action name, ignoring case
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if GetActionDefinition(a) == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Engine owns the state of one game and applies its rules. It is not safe
// for concurrent use; callers serialize access.
type Engine struct {
	stats       Stats
	actionCount int
	badges      BadgeSet
	inventory   Inventory
	monster     MonsterType
	listener    Listener
}

// NewEngine creates a game in its initial state
func NewEngine() *Engine {
	return &Engine{}
}

// SetListener registers fn to receive every event the engine produces, in
// order and synchronously. Hosts use it for logging and pushing updates.
// Passing nil removes the listener.
func (e *Engine) SetListener(fn Listener) {
	e.listener = fn
}

// ApplyAction performs a care action. The action counter always advances,
// including past RevealActionThreshold; locking the controls is the
// renderer's job.
func (e *Engine) ApplyAction(a Action) ([]Event, error) {
	def := GetActionDefinition(a)
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}

	e.stats = e.stats.Apply(def.Delta)
	e.actionCount++

	events := []Event{e.newEvent(EventActionApplied, func(ev *Event) { ev.Action = a })}
	events = append(events, e.checkBadges()...)
	e.emit(events...)
	return events, nil
}

// ActivateItem consumes a held inventory item and applies its effect.
// Using an item does not count as an action and does not unlock badges.
// Activating an item that is not held does nothing.
func (e *Engine) ActivateItem(i Item) ([]Event, error) {
	def := GetItemDefinition(i)
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, i)
	}
	if !e.inventory.Holds(i) {
		return nil, nil
	}

	e.stats = e.stats.Apply(def.Delta)
	e.inventory.set(i, false)

	events := []Event{e.newEvent(EventItemUsed, func(ev *Event) { ev.Item = i })}
	e.emit(events...)
	return events, nil
}

// checkBadges unlocks every badge whose predicate now holds and grants its item
func (e *Engine) checkBadges() []Event {
	var events []Event
	for _, def := range GetBadgeDefinitions() {
		if e.badges.Has(def.Badge) || !def.Unlocked(e.stats) {
			continue
		}
		e.badges.set(def.Badge, true)
		e.inventory.set(def.Item, true)
		events = append(events, e.newEvent(EventBadgeEarned, func(ev *Event) {
			ev.Badge = def.Badge
			ev.Item = def.Item
		}))
	}
	return events
}

// IsRevealEligible reports whether enough actions have been taken to reveal the monster
func (e *Engine) IsRevealEligible() bool {
	return e.actionCount >= RevealActionThreshold
}

// Reveal classifies the monster. Eligibility is not enforced. The first call
// fixes the type; later calls return the same revelation without side effects.
func (e *Engine) Reveal() Revelation {
	if e.monster != MonsterNone {
		return NewRevelation(e.monster)
	}

	e.monster = ClassifyMonster(e.stats, e.badges)
	e.emit(e.newEvent(EventRevealed, func(ev *Event) { ev.Monster = e.monster }))
	return NewRevelation(e.monster)
}

// Reset returns the game to its initial state
func (e *Engine) Reset() {
	e.stats = Stats{}
	e.actionCount = 0
	e.badges = BadgeSet{}
	e.inventory = Inventory{}
	e.monster = MonsterNone
	e.emit(e.newEvent(EventReset, nil))
}

// Snapshot returns a copy of the current state for rendering
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Stats:          e.stats,
		ActionCount:    e.actionCount,
		Badges:         e.badges,
		Inventory:      e.inventory,
		Monster:        e.monster,
		RevealEligible: e.IsRevealEligible(),
		ActionsLocked:  e.actionCount >= RevealActionThreshold,
	}
}

func (e *Engine) newEvent(kind EventKind, fill func(*Event)) Event {
	ev := Event{
		Kind:        kind,
		Stats:       e.stats,
		ActionCount: e.actionCount,
	}
	if fill != nil {
		fill(&ev)
	}
	return ev
}

func (e *Engine) emit(events ...Event) {
	if e.listener == nil {
		return
	}
	for _, ev := range events {
		e.listener(ev)
	}
}
