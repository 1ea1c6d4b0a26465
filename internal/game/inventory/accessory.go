package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

// AccessoryDef is a worn trinket that grants flat stat bonuses.
type AccessoryDef struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Bonuses modifier.Set `yaml:"bonuses"`
}

// Validate checks ID, Name, and that every bonus key names a stat.
func (a *AccessoryDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if err := a.Bonuses.Validate(modifier.Key.IsStat); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("accessory validation failed: %v", errs)
	}
	return nil
}

// LoadAccessories reads all *.yaml files in dir as AccessoryDefs.
func LoadAccessories(dir string) ([]*AccessoryDef, error) {
	return loadDir(dir, "LoadAccessories", func(a *AccessoryDef) error { return a.Validate() })
}
