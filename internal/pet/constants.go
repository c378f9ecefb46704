package pet

// Game constants
const (
	DefaultPetName = "Monster Egg"
	MaxStat        = 10
	MinStat        = 0

	// Number of care actions before the monster can be revealed. Action
	// controls are locked from this count onwards.
	RevealActionThreshold = 12

	// Action stat changes
	FeedHungerIncrease    = 2
	FeedEnergyDecrease    = 1
	PlayHappinessIncrease = 2
	PlayEnergyDecrease    = 1
	SleepHungerDecrease   = 1
	SleepEnergyIncrease   = 3

	// Badge thresholds
	FullBellyThreshold    = 5
	PlayPalThreshold      = 5
	WellRestedThreshold   = 5
	BalancedCareThreshold = 4 // every stat must reach it

	// Stats below this show a need in the status line
	LowStatThreshold = 3

	// A stat dominates another when it leads by more than this margin
	DominanceMargin = 1

	// Status emojis
	StatusEmojiEgg     = "🥚"
	StatusEmojiCracked = "🐣"
	StatusEmojiHappy   = "😸"
	StatusEmojiHungry  = "🙀"
	StatusEmojiSad     = "😿"
	StatusEmojiTired   = "😾"
)

// Portrait names the picture a renderer should show for the monster
type Portrait string

const (
	PortraitEgg     Portrait = "egg"
	PortraitCracked Portrait = "cracked"
	PortraitHarmoni Portrait = "harmoni"
	PortraitGlutton Portrait = "glutton"
	PortraitZoomer  Portrait = "zoomer"
	PortraitDozer   Portrait = "dozer"
	PortraitChaoti  Portrait = "chaoti"
)
