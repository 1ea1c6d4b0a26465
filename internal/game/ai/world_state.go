package ai

import "github.com/cory-johannsen/wasteland/internal/game/environment"

// CombatantState captures a combatant's decision-relevant state at planning time.
type CombatantState struct {
	ID           string
	Name         string
	Health       int
	MaxHealth    int
	Overall      float64
	Intelligence float64
	Doctrine     string // empty = intelligence only
	Down         bool   // knocked out or eliminated
}

// HealthPercent returns current health as a percentage of MaxHealth; 0 if MaxHealth == 0.
func (c *CombatantState) HealthPercent() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth) * 100
}

// WorldState is the snapshot handed to the planner for one acting combatant.
// Allies and Enemies are in roster order and may include downed combatants.
//
// Invariant: Self must not be nil.
type WorldState struct {
	Self    *CombatantState
	Allies  []*CombatantState // excludes Self
	Enemies []*CombatantState
	Terrain environment.Category
}

func living(cs []*CombatantState) []*CombatantState {
	var out []*CombatantState
	for _, c := range cs {
		if !c.Down {
			out = append(out, c)
		}
	}
	return out
}

// LivingEnemies returns the enemies still in the fight, in roster order.
func (ws *WorldState) LivingEnemies() []*CombatantState { return living(ws.Enemies) }

// SideSize returns the number of living combatants on Self's side, Self included.
func (ws *WorldState) SideSize() int { return len(living(ws.Allies)) + 1 }

// NearestEnemy returns the first living enemy (by roster order), or nil.
func NearestEnemy(foes []*CombatantState) *CombatantState {
	if l := living(foes); len(l) > 0 {
		return l[0]
	}
	return nil
}

// WeakestEnemy returns the living foe with the lowest health percentage, or nil.
//
// Postcondition: ties broken by roster order.
func WeakestEnemy(foes []*CombatantState) *CombatantState {
	l := living(foes)
	if len(l) == 0 {
		return nil
	}
	weakest := l[0]
	for _, e := range l[1:] {
		if e.HealthPercent() < weakest.HealthPercent() {
			weakest = e
		}
	}
	return weakest
}

// StrongestEnemy returns the living foe with the highest overall score, or nil.
//
// Postcondition: ties broken by roster order.
func StrongestEnemy(foes []*CombatantState) *CombatantState {
	l := living(foes)
	if len(l) == 0 {
		return nil
	}
	strongest := l[0]
	for _, e := range l[1:] {
		if e.Overall > strongest.Overall {
			strongest = e
		}
	}
	return strongest
}
