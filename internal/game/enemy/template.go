// Package enemy provides enemy template definitions and the encounter
// scaling that turns templates into fight-ready enemies.
package enemy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/wasteland/internal/game/inventory"
)

// WeaponStats is the normalized weapon block every scaled enemy carries.
type WeaponStats struct {
	Damage   float64 `yaml:"damage"`
	Accuracy float64 `yaml:"accuracy"`
	FireRate float64 `yaml:"fire_rate"`
}

// WeaponRef is either a reference to a weapon item by id or an inline stat
// block. The zero value references nothing and resolves to unarmed.
//
// Invariant: at most one of ItemID and Inline is set.
type WeaponRef struct {
	ItemID string
	Inline *WeaponStats
}

// ByID returns a WeaponRef naming an inventory weapon.
func ByID(id string) WeaponRef { return WeaponRef{ItemID: id} }

// InlineWeapon returns a WeaponRef carrying its own stats.
func InlineWeapon(s WeaponStats) WeaponRef { return WeaponRef{Inline: &s} }

// IsZero reports whether the reference names no weapon.
func (w WeaponRef) IsZero() bool { return w.ItemID == "" && w.Inline == nil }

// UnmarshalYAML accepts either a scalar item id or a mapping of weapon stats.
func (w *WeaponRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var id string
		if err := node.Decode(&id); err != nil {
			return err
		}
		*w = ByID(id)
		return nil
	case yaml.MappingNode:
		var s WeaponStats
		if err := node.Decode(&s); err != nil {
			return err
		}
		*w = InlineWeapon(s)
		return nil
	default:
		return fmt.Errorf("line %d: weapon must be an item id or a stat mapping", node.Line)
	}
}

// WeaponLookup resolves weapon item ids. *inventory.Registry satisfies it.
type WeaponLookup interface {
	Weapon(id string) (*inventory.WeaponDef, bool)
}

// Resolve returns the weapon stats this reference denotes. An unknown id or
// a nil lookup resolves to the zero (unarmed) block.
func (w WeaponRef) Resolve(lookup WeaponLookup) WeaponStats {
	if w.Inline != nil {
		return *w.Inline
	}
	if w.ItemID == "" || lookup == nil {
		return WeaponStats{}
	}
	def, ok := lookup.Weapon(w.ItemID)
	if !ok {
		return WeaponStats{}
	}
	return WeaponStats{Damage: def.Damage, Accuracy: def.Accuracy, FireRate: def.FireRate}
}

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Health       int       `yaml:"health"`
	Defense      float64   `yaml:"defense"`
	Accuracy     float64   `yaml:"accuracy"`
	Damage       float64   `yaml:"damage"` // added to the weapon's damage; 0 with no weapon means harmless
	Intelligence float64   `yaml:"intelligence"`
	Morale       float64   `yaml:"morale"`
	Weapon       WeaponRef `yaml:"weapon"`
	// Doctrine names a scripted doctrine function; empty means intelligence only.
	Doctrine string `yaml:"doctrine"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Health >= 1 and
// Damage, Defense, Accuracy are non-negative.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("enemy template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", t.ID)
	}
	if t.Health < 1 {
		return fmt.Errorf("enemy template %q: health must be >= 1", t.ID)
	}
	if t.Damage < 0 || t.Defense < 0 || t.Accuracy < 0 {
		return fmt.Errorf("enemy template %q: damage, defense and accuracy must be >= 0", t.ID)
	}
	if t.Weapon.Inline != nil && t.Weapon.Inline.FireRate < 0 {
		return fmt.Errorf("enemy template %q: weapon fire_rate must be >= 0", t.ID)
	}
	return nil
}

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// Catalog indexes templates by id.
type Catalog struct {
	byID map[string]*Template
}

// NewCatalog indexes templates, rejecting duplicate ids.
func NewCatalog(templates []*Template) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("enemy template %q defined twice", t.ID)
		}
		c.byID[t.ID] = t
	}
	return c, nil
}

// Get returns the template for id.
func (c *Catalog) Get(id string) (*Template, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.byID[id]
	return t, ok
}

// Roster expands a list of template ids into template values, in order.
// Repeated ids yield repeated templates.
func (c *Catalog) Roster(ids []string) ([]Template, error) {
	out := make([]Template, 0, len(ids))
	for _, id := range ids {
		t, ok := c.Get(id)
		if !ok {
			return nil, fmt.Errorf("enemy: unknown template %q", id)
		}
		out = append(out, *t)
	}
	return out, nil
}
