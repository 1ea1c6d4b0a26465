package encounter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/character"
	"github.com/cory-johannsen/wasteland/internal/game/combat"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/encounter"
	"github.com/cory-johannsen/wasteland/internal/game/enemy"
	"github.com/cory-johannsen/wasteland/internal/game/environment"
	"github.com/cory-johannsen/wasteland/internal/game/inventory"
	"github.com/cory-johannsen/wasteland/internal/game/modifier"
	"github.com/cory-johannsen/wasteland/internal/game/stats"
)

func content(t *testing.T) *encounter.Content {
	t.Helper()
	items := inventory.NewRegistry()
	require.NoError(t, items.RegisterWeapon(&inventory.WeaponDef{ID: "pipe_rifle", Name: "Pipe Rifle", Damage: 8, Accuracy: 5, FireRate: 4}))
	require.NoError(t, items.RegisterArmor(&inventory.ArmorDef{ID: "leather", Name: "Leather Armor", Defense: 10, HealthBonus: 10}))
	env := environment.NewTables()
	require.NoError(t, env.AddTerrain(&environment.Terrain{ID: "urban", Name: "Ruined City", Effects: modifier.Set{modifier.Stealth: 10}}))
	require.NoError(t, env.AddWeather(&environment.Weather{ID: "rain", Name: "Acid Rain", Effects: modifier.Set{modifier.Accuracy: -5}}))
	return &encounter.Content{Items: items, Effects: effect.NewRegistry(), Environment: env}
}

func runner(t *testing.T, logger *zap.Logger) *encounter.Runner {
	t.Helper()
	eng := combat.NewEngine(combat.DefaultConfig(), ai.NewPlanner(ai.NewRegistry()), logger)
	return encounter.NewRunner(content(t), stats.Full(), enemy.DefaultFactors(), eng, logger)
}

func setup(seed uint64) encounter.Setup {
	return encounter.Setup{
		Players: []character.Player{{
			ID: "player", Name: "Wanderer", Level: 3,
			Stats:     character.Special{Strength: 6, Perception: 7, Endurance: 5, Charisma: 5, Intelligence: 6, Agility: 6, Luck: 5},
			Skills:    character.PlayerSkills{Guns: 60},
			Health:    90,
			MaxHealth: 100,
			Equipped:  character.Equipped{Weapon: "pipe_rifle", Armor: "leather"},
		}},
		Squad: []character.SquadMember{{
			ID: "dogmeat", Name: "Dogmeat", Role: "scout",
			Skills: character.SquadSkills{Combat: 40, Survival: 70},
			Health: 60, MaxHealth: 60, Loyalty: 80,
		}},
		Enemies: []enemy.Template{
			{ID: "raider", Name: "Raider", Health: 30, Accuracy: 45, Damage: 1, Intelligence: 50, Morale: 50, Weapon: enemy.ByID("pipe_rifle")},
			{ID: "raider", Name: "Raider", Health: 30, Accuracy: 45, Damage: 1, Intelligence: 50, Morale: 50, Doctrine: "berserker",
				Weapon: enemy.InlineWeapon(enemy.WeaponStats{Damage: 5, FireRate: 2})},
		},
		TerrainID: "urban",
		WeatherID: "rain",
		Tier:      2,
		Seed:      seed,
	}
}

func TestPreview_Deterministic(t *testing.T) {
	r := runner(t, nil)
	a, err := r.Preview(setup(99))
	require.NoError(t, err)
	b, err := r.Preview(setup(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, []combat.Outcome{combat.OutcomeVictory, combat.OutcomeDefeat, combat.OutcomeTimeout}, a.Outcome)
	assert.Len(t, a.SquadHealthLoss, 2)
	assert.Len(t, a.HealthLoss, 4)
}

func TestBegin_BuildsRoster(t *testing.T) {
	r := runner(t, nil)
	s, err := r.Begin(setup(5))
	require.NoError(t, err)
	require.Len(t, s.Squad, 2)
	require.Len(t, s.Enemies, 2)
	assert.Equal(t, "leather", s.Squad[0].ArmorID)
	assert.Empty(t, s.Squad[1].ArmorID)
	assert.Equal(t, "Raider", s.Enemies[0].Name)
	assert.Equal(t, "Raider #2", s.Enemies[1].Name)
	assert.Equal(t, "berserker", s.Enemies[1].Doctrine)
	assert.Equal(t, environment.Enclosed, s.Env.Terrain.Category)
	assert.Equal(t, combat.PhaseSetup, s.Phase)
	assert.Equal(t, 0, s.Tick)
}

func TestBegin_DuplicateIDs(t *testing.T) {
	su := setup(1)
	su.Squad[0].ID = "player"
	_, err := runner(t, nil).Begin(su)
	assert.ErrorContains(t, err, "duplicate combatant id")
}

func TestBegin_MissingIDsAreAssigned(t *testing.T) {
	su := setup(1)
	su.Players[0].ID = ""
	su.Squad[0].ID = ""
	s, err := runner(t, nil).Begin(su)
	require.NoError(t, err)
	assert.Equal(t, "squad-1", s.Squad[0].ID)
	assert.Equal(t, "squad-2", s.Squad[1].ID)
}

func TestBegin_UnknownEnvironmentIsNoEffect(t *testing.T) {
	su := setup(1)
	su.TerrainID, su.WeatherID = "moon", "hail"
	s, err := runner(t, nil).Begin(su)
	require.NoError(t, err)
	assert.Nil(t, s.Env.Terrain)
	assert.Nil(t, s.Env.Weather)
	assert.Empty(t, s.Squad[0].Stats.TerrainEffects)
}

func TestPreview_NoEnemiesIsImmediateVictory(t *testing.T) {
	su := setup(3)
	su.Enemies = nil
	res, err := runner(t, nil).Preview(su)
	require.NoError(t, err)
	assert.True(t, res.Victory)
	assert.Equal(t, 0, res.Duration)
	assert.Empty(t, res.Events)
}

func TestPreview_LogsResolution(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	_, err := runner(t, zap.New(core)).Preview(setup(12))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("encounter begun").Len())
	assert.Equal(t, 1, logs.FilterMessage("encounter resolved").Len())
}

func TestBegin_LogsResolvedSquad(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := runner(t, zap.New(core)).Begin(setup(12))
	require.NoError(t, err)

	resolved := logs.FilterMessage("squad combatant resolved").All()
	require.Len(t, resolved, 2)
	player := resolved[0].ContextMap()
	assert.Equal(t, "player", player["combatant"])
	assert.Equal(t, "player", player["kind"])
	assert.EqualValues(t, 3, player["level"])
	dog := resolved[1].ContextMap()
	assert.Equal(t, "squad_member", dog["kind"])
	assert.EqualValues(t, 1, dog["level"])
}

func TestBegin_ZeroSeedPicksOne(t *testing.T) {
	r := runner(t, nil)
	a, err := r.Begin(setup(0))
	require.NoError(t, err)
	b, err := r.Begin(setup(0))
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestNewRunner_NilPanics(t *testing.T) {
	assert.Panics(t, func() { encounter.NewRunner(nil, stats.Full(), enemy.DefaultFactors(), combat.NewEngine(combat.DefaultConfig(), nil, nil), nil) })
	assert.Panics(t, func() { encounter.NewRunner(&encounter.Content{}, stats.Full(), enemy.DefaultFactors(), nil, nil) })
}

func TestLoadContent(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"items/weapons/pipe_rifle.yaml":   "id: pipe_rifle\nname: Pipe Rifle\ndamage: 8\nfire_rate: 4\n",
		"items/armor/leather.yaml":        "id: leather\nname: Leather Armor\ndefense: 10\n",
		"items/accessories/goggles.yaml":  "id: goggles\nname: Goggles\nbonuses:\n  accuracy: 5\n",
		"effects/consumables/jet.yaml":    "id: jet\nname: Jet\neffects:\n  accuracy: 10\n",
		"effects/perks/sniper.yaml":       "id: sniper\nname: Sniper\nadditive:\n  accuracy: 5\n",
		"effects/traits/tough.yaml":       "id: tough\nname: Tough\nbonuses:\n  health: 10\n",
		"environment/terrain/desert.yaml": "id: desert\nname: Desert\n",
		"environment/weather/clear.yaml":  "id: clear\nname: Clear Skies\n",
		"enemies/raider.yaml":             "id: raider\nname: Raider\nhealth: 30\nweapon: pipe_rifle\n",
	}
	for rel, body := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	c, err := encounter.LoadContent(encounter.Dirs{
		Items:       filepath.Join(root, "items"),
		Effects:     filepath.Join(root, "effects"),
		Environment: filepath.Join(root, "environment"),
		Enemies:     filepath.Join(root, "enemies"),
	})
	require.NoError(t, err)
	_, ok := c.Items.Weapon("pipe_rifle")
	assert.True(t, ok)
	assert.Equal(t, environment.Open, c.Environment.Terrain("desert").Category)
	_, ok = c.Enemies.Get("raider")
	assert.True(t, ok)
}

func TestLoadContent_MissingDir(t *testing.T) {
	_, err := encounter.LoadContent(encounter.Dirs{Items: t.TempDir()})
	assert.Error(t, err)
}

func TestProperty_SquadHealthLossBounded(t *testing.T) {
	r := runner(t, nil)
	rapid.Check(t, func(rt *rapid.T) {
		su := setup(rapid.Uint64Min(1).Draw(rt, "seed"))
		su.Tier = rapid.IntRange(1, 6).Draw(rt, "tier")
		su.Players[0].Health = rapid.IntRange(-20, 150).Draw(rt, "health")
		res, err := r.Preview(su)
		if err != nil {
			rt.Fatalf("preview: %v", err)
		}
		for id, loss := range res.SquadHealthLoss {
			if loss < 0 || loss > res.StartingHealth[id] {
				rt.Fatalf("%s lost %d of %d", id, loss, res.StartingHealth[id])
			}
		}
	})
}
