// Package inventory provides definitions and loaders for the weapons, armor,
// and accessories a combatant can carry into a fight.
package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

// WeaponDef defines the static combat properties of a weapon loaded from YAML.
type WeaponDef struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Damage   float64 `yaml:"damage"`
	Accuracy float64 `yaml:"accuracy"`  // flat accuracy delta, may be negative
	FireRate float64 `yaml:"fire_rate"` // attacks per ten ticks; 0 = unarmed cadence
}

// Modifiers returns the weapon's contribution as a modifier Set.
func (w *WeaponDef) Modifiers() modifier.Set {
	return modifier.Set{
		modifier.Damage:   w.Damage,
		modifier.Accuracy: w.Accuracy,
		modifier.FireRate: w.FireRate,
	}
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff ID and Name are set, Damage >= 1 and FireRate >= 0.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.Damage < 1 {
		errs = append(errs, fmt.Errorf("damage must be >= 1, got %v", w.Damage))
	}
	if w.FireRate < 0 {
		errs = append(errs, fmt.Errorf("fire_rate must be >= 0, got %v", w.FireRate))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	return loadDir(dir, "LoadWeapons", func(w *WeaponDef) error { return w.Validate() })
}
