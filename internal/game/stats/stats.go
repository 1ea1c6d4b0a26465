// Package stats resolves characters and enemies into the single normalized
// CombatStats record the tactical AI and the tick simulator consume.
package stats

import (
	"math"

	"github.com/cory-johannsen/wasteland/internal/game/environment"
	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

// CombatStats is the fully stacked, clamped stat block of one combatant.
//
// Invariant: Interval >= 1; 1 <= Health <= MaxHealth; Accuracy, Stealth,
// Movement, Morale, Intelligence in [0, 100]; Defense in [0, 90]; FireRate >= 0;
// CritChance in [0, 1].
type CombatStats struct {
	Damage       float64
	Accuracy     float64
	FireRate     float64
	Interval     int // ticks between actions
	Overall      float64
	Health       int // starting pool
	MaxHealth    int
	Defense      float64
	Stealth      float64
	Movement     float64
	Morale       float64
	Intelligence float64
	// CritChance is added to the engine's base critical-hit chance.
	CritChance float64
	// TerrainEffects holds the terrain and weather deltas that were applied.
	TerrainEffects modifier.Set
	// TraitBonuses holds the trait deltas that were applied.
	TraitBonuses modifier.Set
}

// Options toggles the optional modifier sources. Equipment always applies.
//
// The zero value reproduces the equipment-only resolution; Full enables all.
type Options struct {
	Effects     bool `mapstructure:"effects"`
	Perks       bool `mapstructure:"perks"`
	Traits      bool `mapstructure:"traits"`
	Environment bool `mapstructure:"environment"`
}

// Full returns Options with every modifier source enabled.
func Full() Options {
	return Options{Effects: true, Perks: true, Traits: true, Environment: true}
}

// Tuning holds the resolver constants.
type Tuning struct {
	// IntervalConstant is K in interval = round(K / fireRate).
	IntervalConstant float64 `mapstructure:"interval_constant"`
	// UnarmedInterval is the interval used when fire rate is zero.
	UnarmedInterval int `mapstructure:"unarmed_interval"`
	// UnarmedPenalty scales the combat-attribute damage of an unarmed character.
	UnarmedPenalty float64 `mapstructure:"unarmed_penalty"`
	// MinCharacterDamage is the floor for any character's damage.
	MinCharacterDamage float64 `mapstructure:"min_character_damage"`
	// LuckCrit is the critical-hit chance added per point of Luck.
	LuckCrit float64 `mapstructure:"luck_crit"`
}

// DefaultTuning returns the stock resolver constants.
func DefaultTuning() Tuning {
	return Tuning{
		IntervalConstant:   20,
		UnarmedInterval:    20,
		UnarmedPenalty:     0.25,
		MinCharacterDamage: 0.5,
		LuckCrit:           0.0005,
	}
}

// Interval converts a fire rate into a positive attack interval.
//
// Postcondition: returns >= 1 for every input, including NaN and values <= 0.
func (t Tuning) Interval(fireRate float64) int {
	if !(fireRate > 0) {
		return max(1, t.UnarmedInterval)
	}
	iv := math.Round(t.IntervalConstant / fireRate)
	if !(iv >= 1) {
		return 1
	}
	if iv > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(iv)
}

// Overall returns the aggregate power score of s.
func Overall(s CombatStats) float64 {
	interval := float64(max(s.Interval, 1))
	return 2*s.Damage*(10/interval) + 0.3*s.Accuracy + 0.3*s.Defense + 0.1*float64(s.Health)
}

const damageCeiling = 10000

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// finish applies the single clamp policy with Damage bounded to
// [minDamage, maxDamage], derives Interval and Overall, and returns the
// finished record.
func finish(s CombatStats, minDamage, maxDamage float64, t Tuning) CombatStats {
	s.Accuracy = clamp(s.Accuracy, 0, 100)
	s.Stealth = clamp(s.Stealth, 0, 100)
	s.Movement = clamp(s.Movement, 0, 100)
	s.Morale = clamp(s.Morale, 0, 100)
	s.Intelligence = clamp(s.Intelligence, 0, 100)
	s.Defense = clamp(s.Defense, 0, 90)
	s.Damage = clamp(s.Damage, minDamage, maxDamage)
	s.FireRate = clamp(s.FireRate, 0, math.MaxFloat64)
	s.CritChance = clamp(s.CritChance, 0, 1)
	s.MaxHealth = max(1, s.MaxHealth)
	s.Health = min(max(1, s.Health), s.MaxHealth)
	s.Interval = t.Interval(s.FireRate)
	s.Overall = Overall(s)
	return s
}

// applyEnvironment adds terrain then weather deltas and records them.
func applyEnvironment(s *CombatStats, terrain *environment.Terrain, weather *environment.Weather) {
	applied := make(modifier.Set)
	if terrain != nil {
		for k, v := range terrain.Effects {
			if k.IsStat() {
				applied[k] += v
			}
		}
	}
	if weather != nil {
		weather.Effects.AddInto(applied)
	}
	s.add(applied)
	s.TerrainEffects = applied
}

// add sums a keyed delta set into the stat fields.
func (s *CombatStats) add(m modifier.Set) {
	s.Damage += m.Get(modifier.Damage)
	s.Accuracy += m.Get(modifier.Accuracy)
	s.FireRate += m.Get(modifier.FireRate)
	h := int(math.Round(m.Get(modifier.Health)))
	s.Health += h
	s.MaxHealth += h
	s.Defense += m.Get(modifier.Defense)
	s.Stealth += m.Get(modifier.Stealth)
	s.Movement += m.Get(modifier.Movement)
	s.Morale += m.Get(modifier.Morale)
	s.Intelligence += m.Get(modifier.Intelligence)
}
