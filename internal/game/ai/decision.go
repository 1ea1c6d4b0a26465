// Package ai implements the tactical decision each combatant makes when it acts.
package ai

import (
	"github.com/cory-johannsen/wasteland/internal/game/dice"
)

// TargetPriority is the policy used to pick an attack target.
type TargetPriority int

const (
	TargetRandom TargetPriority = iota
	TargetClosest
	TargetWeakest
	TargetStrongest
)

// String returns the priority label used in logs and doctrine scripts.
func (p TargetPriority) String() string {
	switch p {
	case TargetClosest:
		return "closest"
	case TargetWeakest:
		return "weakest"
	case TargetStrongest:
		return "strongest"
	default:
		return "random"
	}
}

// ParseTargetPriority maps a label back to a priority.
func ParseTargetPriority(s string) (TargetPriority, bool) {
	switch s {
	case "random":
		return TargetRandom, true
	case "closest":
		return TargetClosest, true
	case "weakest":
		return TargetWeakest, true
	case "strongest":
		return TargetStrongest, true
	default:
		return TargetRandom, false
	}
}

// Decision is one combatant's tactical choice for the action it is about to take.
type Decision struct {
	TakeCover           bool
	AttemptFlank        bool
	UseTerrainAdvantage bool
	Target              TargetPriority
	Rationale           string
	Roll                float64
}

// SelectTarget applies priority to foes and returns the chosen living foe,
// or nil when none is alive. Only the random priority consumes a draw.
func SelectTarget(priority TargetPriority, foes []*CombatantState, src dice.Source) *CombatantState {
	switch priority {
	case TargetClosest:
		return NearestEnemy(foes)
	case TargetWeakest:
		return WeakestEnemy(foes)
	case TargetStrongest:
		return StrongestEnemy(foes)
	default:
		l := living(foes)
		if len(l) == 0 {
			return nil
		}
		return dice.Pick(src, l)
	}
}
