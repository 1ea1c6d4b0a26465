// Package modifier defines the keyed stat deltas shared by equipment,
// temporary effects, perks, traits, terrain, and weather.
package modifier

import (
	"fmt"
	"sort"
)

// Key names one combat stat a modifier can adjust.
type Key string

const (
	Damage       Key = "damage"
	Accuracy     Key = "accuracy"
	FireRate     Key = "fire_rate"
	Health       Key = "health"
	Defense      Key = "defense"
	Stealth      Key = "stealth"
	Movement     Key = "movement"
	Morale       Key = "morale"
	Intelligence Key = "intelligence"
)

// SquadDamage and EnemyDamage are side-specific percentage damage modifiers
// carried only by terrain. They are not stats; the simulator reads them when
// scaling damage dealt by the named side.
const (
	SquadDamage Key = "squad_damage"
	EnemyDamage Key = "enemy_damage"
)

var statKeys = map[Key]struct{}{
	Damage: {}, Accuracy: {}, FireRate: {}, Health: {}, Defense: {},
	Stealth: {}, Movement: {}, Morale: {}, Intelligence: {},
}

// IsStat reports whether k names a combat stat.
func (k Key) IsStat() bool {
	_, ok := statKeys[k]
	return ok
}

// StatKeys returns every stat key in sorted order.
func StatKeys() []Key {
	out := make([]Key, 0, len(statKeys))
	for k := range statKeys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Set is a collection of additive deltas keyed by stat. A nil Set is a
// valid empty Set.
type Set map[Key]float64

// Get returns the delta for k, or 0 when absent.
func (s Set) Get(k Key) float64 {
	return s[k]
}

// Validate reports an error naming the first key (in sorted order) that is
// not in allowed.
func (s Set) Validate(allowed func(Key) bool) error {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !allowed(Key(k)) {
			return fmt.Errorf("unknown modifier key %q", k)
		}
	}
	return nil
}

// AddInto adds every delta of s into dst.
//
// Precondition: dst must be non-nil.
func (s Set) AddInto(dst Set) {
	for k, v := range s {
		dst[k] += v
	}
}

// Sum returns a new Set holding the per-key sum of sets. Sets are summed in
// argument order, so the result is reproducible for a fixed argument list.
//
// Postcondition: the inputs are not modified.
func Sum(sets ...Set) Set {
	out := make(Set)
	for _, s := range sets {
		s.AddInto(out)
	}
	return out
}

// Clone returns a copy of s; nil stays nil.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
