package enemy

import (
	"fmt"
	"math"
)

// Factors are the per-squad-member and per-tier scaling increments and caps.
type Factors struct {
	HealthPerMember   float64 `mapstructure:"health_per_member"` // also scales damage
	HealthPerTier     float64 `mapstructure:"health_per_tier"`
	HealthCap         float64 `mapstructure:"health_cap"`
	AccuracyPerMember float64 `mapstructure:"accuracy_per_member"`
	AccuracyPerTier   float64 `mapstructure:"accuracy_per_tier"`
	AccuracyCap       float64 `mapstructure:"accuracy_cap"`
}

// DefaultFactors returns the stock scaling curve.
func DefaultFactors() Factors {
	return Factors{
		HealthPerMember:   0.15,
		HealthPerTier:     0.10,
		HealthCap:         2.0,
		AccuracyPerMember: 0.05,
		AccuracyPerTier:   0.03,
		AccuracyCap:       1.25,
	}
}

// Scaled is an enemy ready for combat: template stats scaled for the
// encounter and the weapon reference resolved into one shape.
type Scaled struct {
	ID           string
	TemplateID   string
	Name         string
	Health       int
	Defense      float64
	Accuracy     float64
	Damage       float64 // template damage plus weapon damage, scaled
	FireRate     float64
	Intelligence float64
	Morale       float64
	Doctrine     string
}

func clampFactor(v, limit float64) float64 {
	return math.Min(math.Max(v, 1), limit)
}

// Multipliers returns the health/damage factor and the accuracy factor for
// squadSize and tier. Values below 1 are treated as 1.
//
// Postcondition: 1 <= health <= f.HealthCap and 1 <= accuracy <= f.AccuracyCap.
func (f Factors) Multipliers(squadSize, tier int) (health, accuracy float64) {
	n := float64(max(squadSize, 1) - 1)
	t := float64(max(tier, 1) - 1)
	health = clampFactor(1+f.HealthPerMember*n+f.HealthPerTier*t, f.HealthCap)
	accuracy = clampFactor(1+f.AccuracyPerMember*n+f.AccuracyPerTier*t, f.AccuracyCap)
	return health, accuracy
}

// Scale turns templates into encounter enemies for a squad of squadSize at
// encounter tier. Weapon references are resolved through weapons here, once.
// Repeated names are numbered: "Raider", "Raider #2".
//
// Postcondition: len(result) == len(templates); every Health >= 1.
func Scale(templates []Template, squadSize, tier int, weapons WeaponLookup, f Factors) []Scaled {
	hf, af := f.Multipliers(squadSize, tier)
	seen := make(map[string]int, len(templates))
	out := make([]Scaled, 0, len(templates))
	for i, t := range templates {
		w := t.Weapon.Resolve(weapons)
		seen[t.Name]++
		name := t.Name
		if n := seen[t.Name]; n > 1 {
			name = fmt.Sprintf("%s #%d", t.Name, n)
		}
		out = append(out, Scaled{
			ID:           fmt.Sprintf("enemy-%d-%s", i+1, t.ID),
			TemplateID:   t.ID,
			Name:         name,
			Health:       max(1, int(math.Round(float64(t.Health)*hf))),
			Defense:      t.Defense,
			Accuracy:     (t.Accuracy + w.Accuracy) * af,
			Damage:       (t.Damage + w.Damage) * hf,
			FireRate:     w.FireRate,
			Intelligence: t.Intelligence,
			Morale:       t.Morale,
			Doctrine:     t.Doctrine,
		})
	}
	return out
}
