// Package scenario loads encounter descriptions from YAML files.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/wasteland/internal/game/character"
	"github.com/cory-johannsen/wasteland/internal/game/encounter"
	"github.com/cory-johannsen/wasteland/internal/game/enemy"
)

// Scenario is one encounter on disk. Enemies are template ids; repeat an id to
// field several of the same template.
type Scenario struct {
	Name    string                  `yaml:"name"`
	Terrain string                  `yaml:"terrain"`
	Weather string                  `yaml:"weather"`
	Tier    int                     `yaml:"tier"`
	Seed    uint64                  `yaml:"seed"`
	Players []character.Player      `yaml:"players"`
	Squad   []character.SquadMember `yaml:"squad"`
	Enemies []string                `yaml:"enemies"`
}

// Validate checks the scenario for obvious authoring mistakes.
//
// Postcondition: returns nil iff Name is set, Tier >= 0, and no enemy id is empty.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.Tier < 0 {
		errs = append(errs, fmt.Errorf("tier must be >= 0, got %d", s.Tier))
	}
	for i, id := range s.Enemies {
		if id == "" {
			errs = append(errs, fmt.Errorf("enemies[%d]: id must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// Setup resolves the enemy ids against catalog. seed overrides the file's
// seed when non-zero.
//
// Postcondition: returns an error if any enemy id is not in catalog.
func (s *Scenario) Setup(catalog *enemy.Catalog, seed uint64) (encounter.Setup, error) {
	roster, err := catalog.Roster(s.Enemies)
	if err != nil {
		return encounter.Setup{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if seed == 0 {
		seed = s.Seed
	}
	return encounter.Setup{
		Players:   s.Players,
		Squad:     s.Squad,
		Enemies:   roster,
		TerrainID: s.Terrain,
		WeatherID: s.Weather,
		Tier:      s.Tier,
		Seed:      seed,
	}, nil
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario: parsing YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %q: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: loading %q: %w", path, err)
	}
	return s, nil
}
