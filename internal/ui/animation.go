package ui

import (
	"fmt"
	"time"

	"monsterpet/internal/pet"
)

// AnimationType represents the type of action animation
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFeed
	AnimPlay
	AnimSleep
	AnimClean
	AnimBadge
	AnimItem
)

// Animation holds the current animation state. Animations are cosmetic:
// the engine state has already changed when one starts.
type Animation struct {
	Type      AnimationType
	Frame     int
	StartTime time.Time
	// Emoji shown by badge and item animations
	Emoji string
}

// AnimationFrames contains ASCII art frames for each animation type.
// %s in badge and item frames is replaced with the animation's emoji.
var AnimationFrames = map[AnimationType][]string{
	AnimFeed: {
		`
   🍖
     \
      🐣
`,
		`

   🍖→🐣

`,
		`

     🐣
   *nom*
`,
	},
	AnimPlay: {
		`
  🎾        🐣
`,
		`
     🎾     🐣
`,
		`
        🎾  🐣
              *boing*
`,
		`
  🎾        🐣
              *catch!*
`,
	},
	AnimSleep: {
		`
     🐣
`,
		`
     🐣
      z
`,
		`
     🐣
     z
      z
`,
	},
	AnimClean: {
		`
  🧽       🐣
`,
		`
     🧽    🐣
`,
		`
        🧽 🐣
        *scrub*
`,
		`
           🐣
        ✨ ✨ ✨
`,
	},
	AnimBadge: {
		`
       %s
`,
		`
      ✨%s✨
`,
		`
     ✨ %s ✨
      *pop!*
`,
	},
	AnimItem: {
		`
  %s       🐣
`,
		`
     %s→ 🐣
`,
		`
           🐣
          ✨
`,
	},
}

// AnimationFrameDuration is how long each frame displays
const AnimationFrameDuration = 200 * time.Millisecond

// actionAnimations maps care actions to their animation
var actionAnimations = map[pet.Action]AnimationType{
	pet.ActionFeed:  AnimFeed,
	pet.ActionPlay:  AnimPlay,
	pet.ActionSleep: AnimSleep,
	pet.ActionClean: AnimClean,
}

// AnimationForAction returns the animation played after a care action
func AnimationForAction(a pet.Action) AnimationType {
	if anim, ok := actionAnimations[a]; ok {
		return anim
	}
	return AnimNone
}

// GetAnimationFrame returns the current frame for an animation
func GetAnimationFrame(anim Animation) string {
	frames := AnimationFrames[anim.Type]
	if len(frames) == 0 {
		return ""
	}
	frame := frames[len(frames)-1]
	if anim.Frame < len(frames) {
		frame = frames[anim.Frame]
	}
	if anim.Type == AnimBadge || anim.Type == AnimItem {
		frame = fmt.Sprintf(frame, anim.Emoji)
	}
	return frame
}

// IsAnimationComplete returns true if the animation has finished
func IsAnimationComplete(anim Animation) bool {
	frames := AnimationFrames[anim.Type]
	return anim.Frame >= len(frames)
}

// AnimationTotalFrames returns the number of frames for an animation type
func AnimationTotalFrames(animType AnimationType) int {
	return len(AnimationFrames[animType])
}
