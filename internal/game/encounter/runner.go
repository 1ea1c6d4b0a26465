package encounter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/character"
	"github.com/cory-johannsen/wasteland/internal/game/combat"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/enemy"
	"github.com/cory-johannsen/wasteland/internal/game/stats"
)

// Setup is one encounter request.
type Setup struct {
	Players   []character.Player
	Squad     []character.SquadMember
	Enemies   []enemy.Template
	TerrainID string
	WeatherID string
	Tier      int
	// Seed drives every random draw of the run. 0 picks a fresh random seed.
	Seed uint64
}

// Runner resolves Setups into combat states.
type Runner struct {
	Content  *Content
	Resolver *stats.Resolver
	Scaling  enemy.Factors
	Engine   *combat.Engine
	logger   *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: content and engine must not be nil.
// Postcondition: logger nil is replaced with a no-op logger.
func NewRunner(content *Content, opts stats.Options, scaling enemy.Factors, engine *combat.Engine, logger *zap.Logger) *Runner {
	if content == nil {
		panic("encounter.NewRunner: content must not be nil")
	}
	if engine == nil {
		panic("encounter.NewRunner: engine must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Content:  content,
		Resolver: stats.NewResolver(content.Items, content.Effects, opts),
		Scaling:  scaling,
		Engine:   engine,
		logger:   logger,
	}
}

// Begin resolves su into the initial state of a run without advancing it.
//
// Postcondition: returns an error only when two combatants share an id.
func (r *Runner) Begin(su Setup) (combat.State, error) {
	env := combat.Environment{
		Terrain: r.Content.Environment.Terrain(su.TerrainID),
		Weather: r.Content.Environment.Weather(su.WeatherID),
	}

	profiles := make([]character.Profile, 0, len(su.Players)+len(su.Squad))
	for _, p := range su.Players {
		profiles = append(profiles, character.FromPlayer(p))
	}
	for _, m := range su.Squad {
		profiles = append(profiles, character.FromSquadMember(m))
	}

	seen := make(map[string]bool, len(profiles)+len(su.Enemies))
	claim := func(id string) error {
		if seen[id] {
			return fmt.Errorf("encounter: duplicate combatant id %q", id)
		}
		seen[id] = true
		return nil
	}

	squad := make([]combat.Combatant, 0, len(profiles))
	for i, p := range profiles {
		if p.ID == "" {
			p.ID = fmt.Sprintf("squad-%d", i+1)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		if err := claim(p.ID); err != nil {
			return combat.State{}, err
		}
		c := combat.NewCombatant(p.ID, p.Name, combat.TeamSquad, r.Resolver.Resolve(p, env.Terrain, env.Weather))
		if _, ok := r.Content.Items.Armor(p.Loadout.Armor); ok {
			c.ArmorID = p.Loadout.Armor
		}
		r.logger.Debug("squad combatant resolved",
			zap.String("combatant", p.ID),
			zap.Stringer("kind", p.Kind),
			zap.Int("level", p.Level),
			zap.Float64("overall", c.Stats.Overall),
		)
		squad = append(squad, c)
	}

	scaled := enemy.Scale(su.Enemies, len(squad), su.Tier, r.Content.Items, r.Scaling)
	foes := make([]combat.Combatant, 0, len(scaled))
	for _, e := range scaled {
		if err := claim(e.ID); err != nil {
			return combat.State{}, err
		}
		c := combat.NewCombatant(e.ID, e.Name, combat.TeamEnemy, r.Resolver.ResolveEnemy(e, env.Terrain, env.Weather))
		c.Doctrine = e.Doctrine
		foes = append(foes, c)
	}

	seed := su.Seed
	if seed == 0 {
		seed = dice.NewSeed()
	}
	s := r.Engine.NewState(squad, foes, env, seed)
	r.logger.Info("encounter begun",
		zap.String("run", s.RunID.String()),
		zap.Uint64("seed", seed),
		zap.Int("squad", len(squad)),
		zap.Int("enemies", len(foes)),
		zap.String("terrain", su.TerrainID),
		zap.String("weather", su.WeatherID),
		zap.Int("ceiling", s.Ceiling),
	)
	return s, nil
}

// Preview runs su to completion in batch mode.
func (r *Runner) Preview(su Setup) (combat.Result, error) {
	s, err := r.Begin(su)
	if err != nil {
		return combat.Result{}, err
	}
	res := r.Engine.Simulate(s)
	r.logger.Info("encounter resolved",
		zap.String("run", res.RunID.String()),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("ticks", res.Duration),
		zap.Strings("casualties", res.Casualties),
	)
	return res, nil
}
