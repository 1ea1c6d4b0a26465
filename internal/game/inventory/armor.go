package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

// ArmorDef defines the static properties of an armor piece loaded from YAML.
type ArmorDef struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Defense     float64 `yaml:"defense"`      // percentage damage reduction points
	HealthBonus int     `yaml:"health_bonus"` // added to the starting health pool
	Movement    float64 `yaml:"movement"`     // non-positive for heavy armor
}

// Modifiers returns the armor's contribution as a modifier Set.
func (a *ArmorDef) Modifiers() modifier.Set {
	return modifier.Set{
		modifier.Defense:  a.Defense,
		modifier.Health:   float64(a.HealthBonus),
		modifier.Movement: a.Movement,
	}
}

// Validate reports an error if the ArmorDef is missing required fields or contains illegal values.
// Precondition: a is non-nil.
// Postcondition: Returns nil iff the def is well-formed.
func (a *ArmorDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.Defense < 0 {
		errs = append(errs, errors.New("defense must be >= 0"))
	}
	if a.HealthBonus < 0 {
		errs = append(errs, errors.New("health_bonus must be >= 0"))
	}
	if a.Movement > 0 {
		errs = append(errs, errors.New("movement must be <= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %v", errs)
	}
	return nil
}

// LoadArmors reads all .yaml files in dir and returns parsed ArmorDef slice.
// Precondition: dir must be a readable directory.
// Postcondition: Returns non-nil slice and nil error on success; all returned defs pass Validate.
func LoadArmors(dir string) ([]*ArmorDef, error) {
	armors, err := loadDir(dir, "LoadArmors", func(a *ArmorDef) error { return a.Validate() })
	if err != nil {
		return nil, err
	}
	if armors == nil {
		armors = []*ArmorDef{}
	}
	return armors, nil
}
