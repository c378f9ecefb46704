package pet

import (
	"fmt"
	"strings"
)

// Item is a consumable granted by a badge
type Item string

const (
	ItemCookie  Item = "cookie"
	ItemToy     Item = "toy"
	ItemPillow  Item = "pillow"
	ItemVitamin Item = "vitamin"
)

// ItemDefinition describes an item's display and effect
type ItemDefinition struct {
	Item    Item
	Name    string
	Emoji   string
	Effects string
	Delta   Delta
}

// GetItemDefinitions returns all items in inventory order
func GetItemDefinitions() []ItemDefinition {
	return []ItemDefinition{
		{
			Item:    ItemCookie,
			Name:    "Cookie",
			Emoji:   "🍪",
			Effects: "Hunger +2, Happiness +2, Energy -1",
			Delta:   Delta{Hunger: 2, Happiness: 2, Energy: -1},
		},
		{
			Item:    ItemToy,
			Name:    "Toy",
			Emoji:   "🧸",
			Effects: "Happiness +3, Energy -2",
			Delta:   Delta{Happiness: 3, Energy: -2},
		},
		{
			Item:    ItemPillow,
			Name:    "Pillow",
			Emoji:   "🛏️",
			Effects: "Energy +3, Hunger -1",
			Delta:   Delta{Hunger: -1, Energy: 3},
		},
		{
			Item:    ItemVitamin,
			Name:    "Vitamin",
			Emoji:   "💊",
			Effects: "Hunger +1, Happiness +1, Energy +1",
			Delta:   Delta{Hunger: 1, Happiness: 1, Energy: 1},
		},
	}
}

// GetItemDefinition returns the definition for a given item
func GetItemDefinition(i Item) *ItemDefinition {
	for _, def := range GetItemDefinitions() {
		if def.Item == i {
			return &def
		}
	}
	return nil
}

// ParseItem resolves an item name, ignoring case
func ParseItem(s string) (Item, error) {
	i := Item(strings.ToLower(strings.TrimSpace(s)))
	if GetItemDefinition(i) == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownItem, s)
	}
	return i, nil
}

// Badge is a milestone unlocked by a stat threshold
type Badge string

const (
	BadgeFullBelly    Badge = "fullBelly"
	BadgePlayPal      Badge = "playPal"
	BadgeWellRested   Badge = "wellRested"
	BadgeBalancedCare Badge = "balancedCare"
)

// BadgeDefinition describes a badge's unlock predicate and reward
type BadgeDefinition struct {
	Badge    Badge
	Name     string
	Item     Item
	Unlocked func(s Stats) bool
}

// GetBadgeDefinitions returns all badges in display order
func GetBadgeDefinitions() []BadgeDefinition {
	return []BadgeDefinition{
		{
			Badge: BadgeFullBelly,
			Name:  "Full Belly",
			Item:  ItemCookie,
			Unlocked: func(s Stats) bool {
				return s.Hunger >= FullBellyThreshold
			},
		},
		{
			Badge: BadgePlayPal,
			Name:  "Play Pal",
			Item:  ItemToy,
			Unlocked: func(s Stats) bool {
				return s.Happiness >= PlayPalThreshold
			},
		},
		{
			Badge: BadgeWellRested,
			Name:  "Well Rested",
			Item:  ItemPillow,
			Unlocked: func(s Stats) bool {
				return s.Energy >= WellRestedThreshold
			},
		},
		{
			Badge: BadgeBalancedCare,
			Name:  "Balanced Care",
			Item:  ItemVitamin,
			Unlocked: func(s Stats) bool {
				return s.Hunger >= BalancedCareThreshold &&
					s.Happiness >= BalancedCareThreshold &&
					s.Energy >= BalancedCareThreshold
			},
		},
	}
}

// GetBadgeDefinition returns the definition for a given badge
func GetBadgeDefinition(b Badge) *BadgeDefinition {
	for _, def := range GetBadgeDefinitions() {
		if def.Badge == b {
			return &def
		}
	}
	return nil
}

// BadgeSet records which badges have been earned this game
type BadgeSet struct {
	FullBelly    bool `json:"fullBelly"`
	PlayPal      bool `json:"playPal"`
	WellRested   bool `json:"wellRested"`
	BalancedCare bool `json:"balancedCare"`
}

// Has reports whether b has been earned
func (bs BadgeSet) Has(b Badge) bool {
	switch b {
	case BadgeFullBelly:
		return bs.FullBelly
	case BadgePlayPal:
		return bs.PlayPal
	case BadgeWellRested:
		return bs.WellRested
	case BadgeBalancedCare:
		return bs.BalancedCare
	default:
		return false
	}
}

func (bs *BadgeSet) set(b Badge, v bool) {
	switch b {
	case BadgeFullBelly:
		bs.FullBelly = v
	case BadgePlayPal:
		bs.PlayPal = v
	case BadgeWellRested:
		bs.WellRested = v
	case BadgeBalancedCare:
		bs.BalancedCare = v
	}
}

// Inventory records which items are currently held
type Inventory struct {
	Cookie  bool `json:"cookie"`
	Toy     bool `json:"toy"`
	Pillow  bool `json:"pillow"`
	Vitamin bool `json:"vitamin"`
}

// Holds reports whether i is in the inventory
func (inv Inventory) Holds(i Item) bool {
	switch i {
	case ItemCookie:
		return inv.Cookie
	case ItemToy:
		return inv.Toy
	case ItemPillow:
		return inv.Pillow
	case ItemVitamin:
		return inv.Vitamin
	default:
		return false
	}
}

func (inv *Inventory) set(i Item, v bool) {
	switch i {
	case ItemCookie:
		inv.Cookie = v
	case ItemToy:
		inv.Toy = v
	case ItemPillow:
		inv.Pillow = v
	case ItemVitamin:
		inv.Vitamin = v
	}
}
