package pet

import "strings"

// GetStatus returns the status emoji(s) for the monster
func GetStatus(s Snapshot) string {
	if def := GetMonsterDefinition(s.Monster); def != nil {
		return def.Emoji
	}

	// Icon 1: what the monster looks like right now
	activity := StatusEmojiEgg
	if s.ActionCount > 0 {
		activity = StatusEmojiCracked
	}
	if s.ActionCount == 0 {
		return activity
	}

	// Icon 2: most critical need
	lowestStat := s.Stats.Energy
	lowestFeeling := StatusEmojiTired

	if s.Stats.Hunger < lowestStat {
		lowestStat = s.Stats.Hunger
		lowestFeeling = StatusEmojiHungry
	}
	if s.Stats.Happiness < lowestStat {
		lowestStat = s.Stats.Happiness
		lowestFeeling = StatusEmojiSad
	}

	if lowestStat < LowStatThreshold {
		return activity + lowestFeeling
	}
	return activity + StatusEmojiHappy
}

// GetStatusWithLabel returns status with a text label for the UI
func GetStatusWithLabel(s Snapshot) string {
	status := GetStatus(s)

	switch {
	case s.Revealed():
		return status + " " + string(s.Monster)
	case status == StatusEmojiEgg:
		return status + " Waiting to hatch"
	case strings.Contains(status, StatusEmojiHungry):
		return status + " Hungry"
	case strings.Contains(status, StatusEmojiTired):
		return status + " Tired"
	case strings.Contains(status, StatusEmojiSad):
		return status + " Sad"
	default:
		return status + " Happy"
	}
}
