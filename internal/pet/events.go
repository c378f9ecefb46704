package pet

import "fmt"

// EventKind identifies what changed in the engine
type EventKind string

// Event kind constants
const (
	EventActionApplied EventKind = "action_applied"
	EventBadgeEarned   EventKind = "badge_earned"
	EventItemUsed      EventKind = "item_used"
	EventRevealed      EventKind = "revealed"
	EventReset         EventKind = "reset"
)

// Event reports a state change to renderers. Stats and ActionCount are the
// values right after the change.
type Event struct {
	Kind        EventKind   `json:"kind"`
	Action      Action      `json:"action,omitempty"`
	Badge       Badge       `json:"badge,omitempty"`
	Item        Item        `json:"item,omitempty"`
	Monster     MonsterType `json:"monster,omitempty"`
	Stats       Stats       `json:"stats"`
	ActionCount int         `json:"action_count"`
}

// Listener receives engine events synchronously
type Listener func(Event)

// Describe returns a one-line description of the event
func (ev Event) Describe() string {
	state := fmt.Sprintf("hunger=%d happiness=%d energy=%d actions=%d",
		ev.Stats.Hunger, ev.Stats.Happiness, ev.Stats.Energy, ev.ActionCount)

	switch ev.Kind {
	case EventActionApplied:
		return fmt.Sprintf("Action: %s (%s)", ev.Action, state)
	case EventBadgeEarned:
		name := string(ev.Badge)
		if def := GetBadgeDefinition(ev.Badge); def != nil {
			name = def.Name
		}
		return fmt.Sprintf("Badge earned: %s, %s added to inventory", name, ev.Item)
	case EventItemUsed:
		return fmt.Sprintf("Item used: %s (%s)", ev.Item, state)
	case EventRevealed:
		return fmt.Sprintf("Monster revealed: %s", ev.Monster)
	case EventReset:
		return "Game reset"
	default:
		return fmt.Sprintf("Event %s (%s)", ev.Kind, state)
	}
}

// Message returns the text a renderer shows the player for the event, or
// an empty string when the event needs no message.
func (ev Event) Message() string {
	switch ev.Kind {
	case EventActionApplied:
		switch ev.Action {
		case ActionFeed:
			return "🍖 Yum!"
		case ActionPlay:
			return "🎾 Wheee!"
		case ActionSleep:
			return "😴 Zzz..."
		case ActionClean:
			return "🧽 Squeaky clean!"
		}
	case EventBadgeEarned:
		if def := GetItemDefinition(ev.Item); def != nil {
			return fmt.Sprintf("🏅 Earned badge: %s %s", def.Emoji, def.Name)
		}
	case EventItemUsed:
		if def := GetItemDefinition(ev.Item); def != nil {
			return fmt.Sprintf("%s Used %s (%s)", def.Emoji, def.Name, def.Effects)
		}
	case EventRevealed:
		return NewRevelation(ev.Monster).Message
	}
	return ""
}
