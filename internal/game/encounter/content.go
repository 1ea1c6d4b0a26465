// Package encounter is the entry point of the combat engine: it turns raw
// squad records, enemy templates, and terrain/weather ids into combatants and
// runs them through the tick simulator in batch or live mode.
package encounter

import (
	"fmt"

	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/enemy"
	"github.com/cory-johannsen/wasteland/internal/game/environment"
	"github.com/cory-johannsen/wasteland/internal/game/inventory"
)

// Dirs names the content directories.
type Dirs struct {
	Items       string // holds weapons/, armor/, accessories/
	Effects     string // holds consumables/, perks/, traits/
	Environment string // holds terrain/, weather/
	Enemies     string
}

// Content is every lookup table an encounter consults. Any field may be nil;
// a nil table resolves nothing.
type Content struct {
	Items       *inventory.Registry
	Effects     *effect.Registry
	Environment *environment.Tables
	Enemies     *enemy.Catalog
}

// LoadContent loads all content tables.
//
// Postcondition: returns fully populated Content or the first load error.
func LoadContent(d Dirs) (*Content, error) {
	items, err := inventory.LoadRegistry(d.Items)
	if err != nil {
		return nil, fmt.Errorf("encounter: loading items: %w", err)
	}
	effects, err := effect.LoadDirectory(d.Effects)
	if err != nil {
		return nil, fmt.Errorf("encounter: loading effects: %w", err)
	}
	env, err := environment.LoadTables(d.Environment)
	if err != nil {
		return nil, fmt.Errorf("encounter: loading environment: %w", err)
	}
	templates, err := enemy.LoadTemplates(d.Enemies)
	if err != nil {
		return nil, fmt.Errorf("encounter: loading enemies: %w", err)
	}
	catalog, err := enemy.NewCatalog(templates)
	if err != nil {
		return nil, fmt.Errorf("encounter: %w", err)
	}
	return &Content{Items: items, Effects: effects, Environment: env, Enemies: catalog}, nil
}
