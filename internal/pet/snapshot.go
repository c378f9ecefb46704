package pet

// Snapshot is an immutable view of an engine's state
type Snapshot struct {
	Stats          Stats       `json:"stats"`
	ActionCount    int         `json:"action_count"`
	Badges         BadgeSet    `json:"badges"`
	Inventory      Inventory   `json:"inventory"`
	Monster        MonsterType `json:"monster,omitempty"`
	RevealEligible bool        `json:"reveal_eligible"`
	ActionsLocked  bool        `json:"actions_locked"`
}

// Revealed reports whether the monster type has been assigned
func (s Snapshot) Revealed() bool {
	return s.Monster != MonsterNone
}

// ActionsRemaining returns how many actions are left before the reveal
func (s Snapshot) ActionsRemaining() int {
	return max(RevealActionThreshold-s.ActionCount, 0)
}

// HeldItems returns the held items in inventory order
func (s Snapshot) HeldItems() []ItemDefinition {
	var held []ItemDefinition
	for _, def := range GetItemDefinitions() {
		if s.Inventory.Holds(def.Item) {
			held = append(held, def)
		}
	}
	return held
}

// EarnedBadges returns the earned badges in display order
func (s Snapshot) EarnedBadges() []BadgeDefinition {
	var earned []BadgeDefinition
	for _, def := range GetBadgeDefinitions() {
		if s.Badges.Has(def.Badge) {
			earned = append(earned, def)
		}
	}
	return earned
}

// Portrait returns which picture of the monster to show
func (s Snapshot) Portrait() Portrait {
	if def := GetMonsterDefinition(s.Monster); def != nil {
		return def.Portrait
	}
	if s.ActionCount > 0 {
		return PortraitCracked
	}
	return PortraitEgg
}
