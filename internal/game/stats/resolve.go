package stats

import (
	"github.com/cory-johannsen/wasteland/internal/game/character"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/enemy"
	"github.com/cory-johannsen/wasteland/internal/game/environment"
	"github.com/cory-johannsen/wasteland/internal/game/inventory"
	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

// Resolver stacks every modifier source onto a combatant. Both registries may
// be nil; an unresolvable reference contributes nothing.
type Resolver struct {
	Items   *inventory.Registry
	Effects *effect.Registry
	Options Options
	Tuning  Tuning
}

// NewResolver returns a Resolver with DefaultTuning.
func NewResolver(items *inventory.Registry, effects *effect.Registry, opts Options) *Resolver {
	return &Resolver{Items: items, Effects: effects, Options: opts, Tuning: DefaultTuning()}
}

// Resolve turns a profile into CombatStats. Sources are applied in a fixed
// order: base attributes, weapon, armor, accessory, temporary effects, traits,
// perk additive deltas, perk multipliers, terrain, weather, clamp.
//
// Postcondition: the result satisfies every CombatStats invariant, and an armed
// profile's Damage exceeds the same profile's unarmed Damage by at least
// MinCharacterDamage. Resolve is total: it never panics on missing references
// and is a pure function of its inputs.
func (r *Resolver) Resolve(p character.Profile, terrain *environment.Terrain, weather *environment.Weather) CombatStats {
	floor := r.Tuning.MinCharacterDamage
	unarmed := finish(r.stack(p, nil, terrain, weather), floor, damageCeiling-floor, r.Tuning)
	w, ok := r.Items.Weapon(p.Loadout.Weapon)
	if !ok {
		return unarmed
	}
	return finish(r.stack(p, w, terrain, weather), unarmed.Damage+floor, damageCeiling, r.Tuning)
}

// stack sums every modifier source onto p without clamping. A nil weapon
// applies the unarmed penalty to the combat-attribute damage.
func (r *Resolver) stack(p character.Profile, w *inventory.WeaponDef, terrain *environment.Terrain, weather *environment.Weather) CombatStats {
	a := p.Attributes
	combat := float64(a.Combat)

	s := CombatStats{
		Accuracy:     40 + float64(a.Perception)*0.3 + combat*0.2,
		Health:       p.Health,
		MaxHealth:    p.MaxHealth,
		Defense:      float64(a.Endurance) * 0.1,
		Stealth:      float64(a.Agility) * 0.5,
		Movement:     20 + float64(a.Agility)*0.6,
		Morale:       float64(p.Morale),
		Intelligence: float64(a.Intelligence),
		CritChance:   float64(a.Luck) * r.Tuning.LuckCrit,
	}

	if w != nil {
		s.Damage = combat * 0.3
		s.add(w.Modifiers())
	} else {
		s.Damage = max(r.Tuning.MinCharacterDamage, combat*0.3*r.Tuning.UnarmedPenalty)
	}
	if ar, ok := r.Items.Armor(p.Loadout.Armor); ok {
		s.add(ar.Modifiers())
	}
	if acc, ok := r.Items.Accessory(p.Loadout.Accessory); ok {
		s.add(acc.Bonuses)
	}
	if r.Options.Effects {
		s.add(effect.ConsumableTotals(r.Effects, p.Effects))
	}
	s.TraitBonuses = modifier.Set{}
	if r.Options.Traits {
		s.TraitBonuses = effect.TraitTotals(r.Effects, p.Traits)
		s.add(s.TraitBonuses)
	}
	if r.Options.Perks {
		additive, mult := effect.PerkTotals(r.Effects, p.Perks)
		s.add(additive)
		s.Damage *= mult.Get(modifier.Damage)
		s.FireRate *= mult.Get(modifier.FireRate)
	}
	s.TerrainEffects = modifier.Set{}
	if r.Options.Environment {
		applyEnvironment(&s, terrain, weather)
	}
	return s
}

// ResolveEnemy turns a scaled enemy into CombatStats. Enemies carry no
// equipment, effects, perks, or traits beyond what scaling resolved, and may
// have zero damage.
func (r *Resolver) ResolveEnemy(e enemy.Scaled, terrain *environment.Terrain, weather *environment.Weather) CombatStats {
	s := CombatStats{
		Damage:         e.Damage,
		Accuracy:       e.Accuracy,
		FireRate:       e.FireRate,
		Health:         e.Health,
		MaxHealth:      e.Health,
		Defense:        e.Defense,
		Movement:       50,
		Morale:         e.Morale,
		Intelligence:   e.Intelligence,
		TerrainEffects: modifier.Set{},
		TraitBonuses:   modifier.Set{},
	}
	if r.Options.Environment {
		applyEnvironment(&s, terrain, weather)
	}
	return finish(s, 0, damageCeiling, r.Tuning)
}
