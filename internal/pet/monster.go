package pet

// MonsterType is the outcome of the reveal. MonsterNone means not revealed yet.
type MonsterType string

const (
	MonsterNone    MonsterType = ""
	MonsterGlutton MonsterType = "Glutton"
	MonsterZoomer  MonsterType = "Zoomer"
	MonsterDozer   MonsterType = "Dozer"
	MonsterHarmoni MonsterType = "Harmoni"
	MonsterChaoti  MonsterType = "Chaoti"
)

// MonsterDefinition describes how a monster type is presented
type MonsterDefinition struct {
	Type     MonsterType
	Emoji    string
	Portrait Portrait
	Message  string
}

// GetMonsterDefinitions returns every monster type
func GetMonsterDefinitions() []MonsterDefinition {
	return []MonsterDefinition{
		{
			Type:     MonsterHarmoni,
			Emoji:    "🌈",
			Portrait: PortraitHarmoni,
			Message:  "Your monster evolved into Harmoni! A perfect balance of all traits!",
		},
		{
			Type:     MonsterGlutton,
			Emoji:    "🍔",
			Portrait: PortraitGlutton,
			Message:  "Your monster evolved into Glutton! It loves to eat!",
		},
		{
			Type:     MonsterZoomer,
			Emoji:    "⚡",
			Portrait: PortraitZoomer,
			Message:  "Your monster evolved into Zoomer! Always ready to play!",
		},
		{
			Type:     MonsterDozer,
			Emoji:    "💤",
			Portrait: PortraitDozer,
			Message:  "Your monster evolved into Dozer! It needs its beauty sleep!",
		},
		{
			Type:     MonsterChaoti,
			Emoji:    "🌀",
			Portrait: PortraitChaoti,
			Message:  "Your monster evolved into Chaoti! It's a wild one!",
		},
	}
}

// GetMonsterDefinition returns the definition for a given monster type
func GetMonsterDefinition(t MonsterType) *MonsterDefinition {
	for _, def := range GetMonsterDefinitions() {
		if def.Type == t {
			return &def
		}
	}
	return nil
}

// Revelation is the result of revealing the monster
type Revelation struct {
	Type    MonsterType `json:"type"`
	Message string      `json:"message"`
}

// NewRevelation builds the revelation for t
func NewRevelation(t MonsterType) Revelation {
	r := Revelation{Type: t}
	if def := GetMonsterDefinition(t); def != nil {
		r.Message = def.Message
	}
	return r
}

// ClassifyMonster decides the monster type. Balanced care wins outright;
// otherwise a stat must lead both others by more than DominanceMargin.
func ClassifyMonster(s Stats, badges BadgeSet) MonsterType {
	switch {
	case badges.BalancedCare:
		return MonsterHarmoni
	case dominates(s.Hunger, s.Happiness, s.Energy):
		return MonsterGlutton
	case dominates(s.Happiness, s.Hunger, s.Energy):
		return MonsterZoomer
	case dominates(s.Energy, s.Hunger, s.Happiness):
		return MonsterDozer
	default:
		return MonsterChaoti
	}
}

func dominates(v, a, b int) bool {
	return v > a+DominanceMargin && v > b+DominanceMargin
}
