// Package combat implements the tick simulator and the event reporter of the
// wasteland combat engine.
package combat

import (
	"github.com/cory-johannsen/wasteland/internal/game/stats"
)

// Team distinguishes squad combatants from enemies.
type Team int

const (
	TeamSquad Team = iota
	TeamEnemy
)

// String returns a human-readable team label.
func (t Team) String() string {
	switch t {
	case TeamSquad:
		return "squad"
	case TeamEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Status is a combatant's standing in the fight.
type Status int

const (
	StatusActive Status = iota
	// StatusKnockedOut is terminal for squad combatants; health rests at the floor.
	StatusKnockedOut
	// StatusEliminated is terminal for enemies; health is exactly 0.
	StatusEliminated
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusKnockedOut:
		return "knocked out"
	case StatusEliminated:
		return "eliminated"
	default:
		return "unknown"
	}
}

// Combatant is one participant of a single run. It is owned by the State
// that holds it and discarded with it.
//
// Invariant: 0 <= Health <= MaxHealth; squad combatants never reach 0.
type Combatant struct {
	ID          string
	Name        string
	Team        Team
	Stats       stats.CombatStats
	Health      int
	MaxHealth   int
	StartHealth int
	Status      Status
	Morale      float64
	Defense     float64 // effective defense; degrades when armor is damaged
	ArmorID     string  // equipped armor, squad only
	Doctrine    string  // scripted doctrine name, enemies only

	InCover          bool
	TerrainAdvantage bool
	LastAction       int
}

// NewCombatant builds a combatant from resolved stats.
//
// Postcondition: Health == StartHealth == st.Health; Status == StatusActive.
func NewCombatant(id, name string, team Team, st stats.CombatStats) Combatant {
	return Combatant{
		ID:          id,
		Name:        name,
		Team:        team,
		Stats:       st,
		Health:      st.Health,
		MaxHealth:   st.MaxHealth,
		StartHealth: st.Health,
		Morale:      st.Morale,
		Defense:     st.Defense,
	}
}

// IsActive reports whether the combatant can still act and be targeted.
func (c *Combatant) IsActive() bool { return c.Status == StatusActive }

// HealthFraction returns Health / MaxHealth, or 0 when MaxHealth is 0.
func (c *Combatant) HealthFraction() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth)
}
