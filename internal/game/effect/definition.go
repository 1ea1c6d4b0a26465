// Package effect defines the non-equipment modifier sources a combatant brings
// into a fight: temporary consumable effects, permanent perks, and traits.
package effect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

// ConsumableDef is a temporary effect granted by a consumable. Within one
// combat it never expires; expiry happens between missions, outside the engine.
type ConsumableDef struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Effects     modifier.Set `yaml:"effects"`
}

// Validate checks required fields and that every effect key names a stat.
func (c *ConsumableDef) Validate() error {
	if c.ID == "" {
		return errors.New("consumable: id must not be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("consumable %q: name must not be empty", c.ID)
	}
	if err := c.Effects.Validate(modifier.Key.IsStat); err != nil {
		return fmt.Errorf("consumable %q: %w", c.ID, err)
	}
	return nil
}

// PerkDef is a permanent perk. Additive deltas are summed with the other
// sources; multipliers scale the result after every additive source is applied.
type PerkDef struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Additive    modifier.Set `yaml:"additive"`
	Multipliers modifier.Set `yaml:"multipliers"` // only damage and fire_rate
}

// multipliable reports whether k may carry a perk multiplier.
func multipliable(k modifier.Key) bool {
	return k == modifier.Damage || k == modifier.FireRate
}

// Validate checks required fields, additive keys, and that multipliers are
// positive factors on damage or fire_rate only.
func (p *PerkDef) Validate() error {
	if p.ID == "" {
		return errors.New("perk: id must not be empty")
	}
	if p.Name == "" {
		return fmt.Errorf("perk %q: name must not be empty", p.ID)
	}
	if err := p.Additive.Validate(modifier.Key.IsStat); err != nil {
		return fmt.Errorf("perk %q: additive: %w", p.ID, err)
	}
	if err := p.Multipliers.Validate(multipliable); err != nil {
		return fmt.Errorf("perk %q: multipliers: %w", p.ID, err)
	}
	for k, v := range p.Multipliers {
		if v <= 0 {
			return fmt.Errorf("perk %q: multiplier %q must be > 0, got %v", p.ID, k, v)
		}
	}
	return nil
}

// TraitDef is an innate trait contributing flat stat bonuses.
type TraitDef struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Bonuses     modifier.Set `yaml:"bonuses"`
}

// Validate checks required fields and that every bonus key names a stat.
func (t *TraitDef) Validate() error {
	if t.ID == "" {
		return errors.New("trait: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("trait %q: name must not be empty", t.ID)
	}
	if err := t.Bonuses.Validate(modifier.Key.IsStat); err != nil {
		return fmt.Errorf("trait %q: %w", t.ID, err)
	}
	return nil
}

// Registry holds all known consumable, perk, and trait definitions keyed by ID.
// It is read-only after loading.
type Registry struct {
	consumables map[string]*ConsumableDef
	perks       map[string]*PerkDef
	traits      map[string]*TraitDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		consumables: make(map[string]*ConsumableDef),
		perks:       make(map[string]*PerkDef),
		traits:      make(map[string]*TraitDef),
	}
}

// RegisterConsumable adds def, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) RegisterConsumable(def *ConsumableDef) { r.consumables[def.ID] = def }

// RegisterPerk adds def, overwriting any existing entry with the same ID.
func (r *Registry) RegisterPerk(def *PerkDef) { r.perks[def.ID] = def }

// RegisterTrait adds def, overwriting any existing entry with the same ID.
func (r *Registry) RegisterTrait(def *TraitDef) { r.traits[def.ID] = def }

// Consumable returns the ConsumableDef for id, or (nil, false) if not found.
// A nil Registry finds nothing.
func (r *Registry) Consumable(id string) (*ConsumableDef, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.consumables[id]
	return d, ok
}

// Perk returns the PerkDef for id, or (nil, false) if not found.
func (r *Registry) Perk(id string) (*PerkDef, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.perks[id]
	return d, ok
}

// Trait returns the TraitDef for id, or (nil, false) if not found.
func (r *Registry) Trait(id string) (*TraitDef, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.traits[id]
	return d, ok
}

// decodeDir strictly decodes every *.yaml file in dir into a fresh T and
// hands it to add after validation.
func decodeDir[T any](dir string, validate func(*T) error, add func(*T)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		var def T
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := validate(&def); err != nil {
			return fmt.Errorf("validating %q: %w", path, err)
		}
		add(&def)
	}
	return nil
}

// LoadDirectory reads root/consumables, root/perks, and root/traits and
// returns a populated Registry.
// Precondition: all three subdirectories must be readable.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func LoadDirectory(root string) (*Registry, error) {
	reg := NewRegistry()
	if err := decodeDir(filepath.Join(root, "consumables"), (*ConsumableDef).Validate, reg.RegisterConsumable); err != nil {
		return nil, err
	}
	if err := decodeDir(filepath.Join(root, "perks"), (*PerkDef).Validate, reg.RegisterPerk); err != nil {
		return nil, err
	}
	if err := decodeDir(filepath.Join(root, "traits"), (*TraitDef).Validate, reg.RegisterTrait); err != nil {
		return nil, err
	}
	return reg, nil
}
