package effect

import "github.com/cory-johannsen/wasteland/internal/game/modifier"

// ConsumableTotals returns the summed deltas of every active consumable in ids.
// Unknown ids contribute nothing.
//
// Postcondition: Returns a non-nil Set.
func ConsumableTotals(r *Registry, ids []string) modifier.Set {
	total := make(modifier.Set)
	for _, id := range ids {
		if def, ok := r.Consumable(id); ok {
			def.Effects.AddInto(total)
		}
	}
	return total
}

// TraitTotals returns the summed bonuses of every trait in ids.
// Unknown ids contribute nothing.
//
// Postcondition: Returns a non-nil Set.
func TraitTotals(r *Registry, ids []string) modifier.Set {
	total := make(modifier.Set)
	for _, id := range ids {
		if def, ok := r.Trait(id); ok {
			def.Bonuses.AddInto(total)
		}
	}
	return total
}

// PerkTotals returns the summed additive deltas and the product of the
// multipliers of every perk in ids, in ids order.
// Unknown ids contribute nothing.
//
// Postcondition: multipliers holds an entry for damage and fire_rate, each 1
// when no perk scales it.
func PerkTotals(r *Registry, ids []string) (additive, multipliers modifier.Set) {
	additive = make(modifier.Set)
	multipliers = modifier.Set{modifier.Damage: 1, modifier.FireRate: 1}
	for _, id := range ids {
		def, ok := r.Perk(id)
		if !ok {
			continue
		}
		def.Additive.AddInto(additive)
		for _, k := range []modifier.Key{modifier.Damage, modifier.FireRate} {
			if v, ok := def.Multipliers[k]; ok {
				multipliers[k] *= v
			}
		}
	}
	return additive, multipliers
}
