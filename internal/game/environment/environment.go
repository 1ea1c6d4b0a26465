// Package environment provides the terrain and weather tables consulted by the
// stat resolver, the tactical AI, and the tick simulator.
package environment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

// Category classifies a terrain by the tactics it physically permits.
type Category string

const (
	// Enclosed terrain always offers cover and leaves no room to flank.
	Enclosed Category = "enclosed"
	// Open terrain offers neither cover nor exploitable features.
	Open Category = "open"
	// Neutral terrain leaves tactics to the combatant.
	Neutral Category = "neutral"
)

// enclosedIDs and openIDs seed the category of a terrain whose file omits it.
var (
	enclosedIDs = map[string]bool{"forest": true, "urban": true, "underground": true, "vault": true}
	openIDs     = map[string]bool{"wasteland": true, "desert": true}
)

// CategoryFor returns the default category for a terrain id.
func CategoryFor(id string) Category {
	switch {
	case enclosedIDs[id]:
		return Enclosed
	case openIDs[id]:
		return Open
	default:
		return Neutral
	}
}

// Terrain is one terrain table entry. Effects may carry the side-specific
// squad_damage and enemy_damage percentage keys in addition to stat keys.
type Terrain struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Category  Category     `yaml:"category"`
	Effects   modifier.Set `yaml:"effects"`
	Hazard    string       `yaml:"hazard"`
	Advantage string       `yaml:"advantage"`
}

func terrainKey(k modifier.Key) bool {
	return k.IsStat() || k == modifier.SquadDamage || k == modifier.EnemyDamage
}

// Validate checks required fields and keys, and fills an omitted Category.
//
// Postcondition: on nil error Category is one of Enclosed, Open, Neutral.
func (t *Terrain) Validate() error {
	if t.ID == "" {
		return errors.New("terrain: id must not be empty")
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	switch t.Category {
	case "":
		t.Category = CategoryFor(t.ID)
	case Enclosed, Open, Neutral:
	default:
		return fmt.Errorf("terrain %q: unknown category %q", t.ID, t.Category)
	}
	if err := t.Effects.Validate(terrainKey); err != nil {
		return fmt.Errorf("terrain %q: %w", t.ID, err)
	}
	return nil
}

// SideDamage returns the percentage damage modifier for attacks made by the
// squad (squad == true) or by enemies. A nil Terrain returns 0.
func (t *Terrain) SideDamage(squad bool) float64 {
	if t == nil {
		return 0
	}
	if squad {
		return t.Effects.Get(modifier.SquadDamage)
	}
	return t.Effects.Get(modifier.EnemyDamage)
}

// Weather is one weather table entry.
type Weather struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Effects     modifier.Set `yaml:"effects"`
}

// Validate checks the id and that every effect key names a stat.
func (w *Weather) Validate() error {
	if w.ID == "" {
		return errors.New("weather: id must not be empty")
	}
	if w.Name == "" {
		w.Name = w.ID
	}
	if err := w.Effects.Validate(modifier.Key.IsStat); err != nil {
		return fmt.Errorf("weather %q: %w", w.ID, err)
	}
	return nil
}

// Tables holds the terrain and weather lookups. Unknown keys resolve to nil,
// which every consumer treats as "no effect".
type Tables struct {
	terrain map[string]*Terrain
	weather map[string]*Weather
}

// NewTables creates empty Tables.
func NewTables() *Tables {
	return &Tables{terrain: make(map[string]*Terrain), weather: make(map[string]*Weather)}
}

// AddTerrain registers t after validating it.
func (tb *Tables) AddTerrain(t *Terrain) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, dup := tb.terrain[t.ID]; dup {
		return fmt.Errorf("terrain %q already registered", t.ID)
	}
	tb.terrain[t.ID] = t
	return nil
}

// AddWeather registers w after validating it.
func (tb *Tables) AddWeather(w *Weather) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if _, dup := tb.weather[w.ID]; dup {
		return fmt.Errorf("weather %q already registered", w.ID)
	}
	tb.weather[w.ID] = w
	return nil
}

// Terrain returns the terrain for id, or nil when id is empty or unknown.
func (tb *Tables) Terrain(id string) *Terrain {
	if tb == nil || id == "" {
		return nil
	}
	return tb.terrain[id]
}

// Weather returns the weather for id, or nil when id is empty or unknown.
func (tb *Tables) Weather(id string) *Weather {
	if tb == nil || id == "" {
		return nil
	}
	return tb.weather[id]
}

// LoadTables reads root/terrain/*.yaml and root/weather/*.yaml.
//
// Precondition: both directories must be readable.
// Postcondition: returns populated Tables or the first load error.
func LoadTables(root string) (*Tables, error) {
	tb := NewTables()
	if err := eachYAML(filepath.Join(root, "terrain"), func(path string, data []byte) error {
		var t Terrain
		if err := yaml.Unmarshal(data, &t); err != nil {
			return err
		}
		return tb.AddTerrain(&t)
	}); err != nil {
		return nil, err
	}
	if err := eachYAML(filepath.Join(root, "weather"), func(path string, data []byte) error {
		var w Weather
		if err := yaml.Unmarshal(data, &w); err != nil {
			return err
		}
		return tb.AddWeather(&w)
	}); err != nil {
		return nil, err
	}
	return tb, nil
}

func eachYAML(dir string, fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("environment: reading dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("environment: reading %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return fmt.Errorf("environment: loading %q: %w", path, err)
		}
	}
	return nil
}
