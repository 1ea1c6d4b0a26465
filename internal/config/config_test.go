package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/combat"
	"github.com/cory-johannsen/wasteland/internal/game/enemy"
	"github.com/cory-johannsen/wasteland/internal/game/stats"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Simulation: SimulationConfig{
			Combat:    combat.DefaultConfig(),
			Resolver:  stats.DefaultTuning(),
			Modifiers: stats.Full(),
			Tactics:   ai.DefaultThresholds(),
		},
		Scaling: enemy.DefaultFactors(),
		Content: ContentConfig{
			Items:       "content/items",
			Effects:     "content/effects",
			Environment: "content/environment",
			Enemies:     "content/enemies",
		},
		Scripting: ScriptingConfig{InstructionLimit: 1000},
		Playback: PlaybackConfig{
			TickInterval: 100 * time.Millisecond,
			Host:         "127.0.0.1",
			Port:         8080,
			Path:         "/ws",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestPlaybackAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "127.0.0.1:8080", cfg.Playback.Addr())
}

func TestContentDirs(t *testing.T) {
	d := validConfig().Content.Dirs()
	assert.Equal(t, "content/items", d.Items)
	assert.Equal(t, "content/enemies", d.Enemies)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, combat.DefaultConfig(), cfg.Simulation.Combat)
	assert.Equal(t, stats.DefaultTuning(), cfg.Simulation.Resolver)
	assert.Equal(t, stats.Full(), cfg.Simulation.Modifiers)
	assert.Equal(t, ai.DefaultThresholds(), cfg.Simulation.Tactics)
	assert.Equal(t, enemy.DefaultFactors(), cfg.Scaling)
	assert.Equal(t, 100*time.Millisecond, cfg.Playback.TickInterval)
	assert.Equal(t, "content/doctrines", cfg.Content.Doctrines)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
simulation:
  combat:
    knockout_floor: 0.1
    ceiling_max: 500
  modifiers:
    perks: false
scaling:
  health_cap: 3
playback:
  tick_interval: 250ms
  port: 9090
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 0.1, cfg.Simulation.Combat.KnockoutFloor)
	assert.Equal(t, 500, cfg.Simulation.Combat.CeilingMax)
	assert.Equal(t, combat.DefaultConfig().CritChance, cfg.Simulation.Combat.CritChance)
	assert.False(t, cfg.Simulation.Modifiers.Perks)
	assert.True(t, cfg.Simulation.Modifiers.Traits)
	assert.Equal(t, 3.0, cfg.Scaling.HealthCap)
	assert.Equal(t, 250*time.Millisecond, cfg.Playback.TickInterval)
	assert.Equal(t, 9090, cfg.Playback.Port)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WASTELAND_SIMULATION_COMBAT_CRIT_CHANCE", "0.2")
	t.Setenv("WASTELAND_PLAYBACK_PORT", "7000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Simulation.Combat.CritChance)
	assert.Equal(t, 7000, cfg.Playback.Port)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateCeilingBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Combat.CeilingMin = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Simulation.Combat.CeilingMax = cfg.Simulation.Combat.CeilingMin - 1
	assert.Error(t, cfg.Validate())
}

func TestValidatePhaseFractions(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Combat.SetupFraction = 0.6
	cfg.Simulation.Combat.CleanupFraction = 0.5
	assert.ErrorContains(t, cfg.Validate(), "setup_fraction + cleanup_fraction")
}

func TestValidateKnockoutFloor(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Combat.KnockoutFloor = 1
	assert.ErrorContains(t, cfg.Validate(), "knockout_floor")
}

func TestValidateResolver(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Resolver.IntervalConstant = 0
	cfg.Simulation.Resolver.UnarmedInterval = 0
	cfg.Simulation.Resolver.MinCharacterDamage = 0
	err := cfg.Validate()
	assert.ErrorContains(t, err, "interval_constant")
	assert.ErrorContains(t, err, "unarmed_interval")
	assert.ErrorContains(t, err, "min_character_damage")
}

func TestValidateTactics(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Tactics.Basic = 80
	assert.ErrorContains(t, cfg.Validate(), "simulation.tactics.basic")
}

func TestValidateScalingCaps(t *testing.T) {
	cfg := validConfig()
	cfg.Scaling.HealthCap = 0.5
	assert.ErrorContains(t, cfg.Validate(), "scaling.health_cap")
}

func TestValidateContentDirs(t *testing.T) {
	cfg := validConfig()
	cfg.Content.Enemies = ""
	assert.ErrorContains(t, cfg.Validate(), "content.enemies")
}

func TestValidatePlayback(t *testing.T) {
	cfg := validConfig()
	cfg.Playback.TickInterval = 0
	cfg.Playback.Path = "ws"
	err := cfg.Validate()
	assert.ErrorContains(t, err, "playback.tick_interval")
	assert.ErrorContains(t, err, "playback.path")
}

func TestValidateAggregatesViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	cfg.Scripting.InstructionLimit = -1
	cfg.Playback.Port = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "logging.level")
	assert.ErrorContains(t, err, "scripting.instruction_limit")
	assert.ErrorContains(t, err, "playback.port")
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.Playback.Port = port
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.Playback.Port = port
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}

func TestPropertyProbabilitiesOutsideUnitRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.OneOf(
			rapid.Float64Range(-10, -0.001),
			rapid.Float64Range(1.001, 10),
		).Draw(t, "p")
		cfg := validConfig()
		cfg.Simulation.Combat.CritChance = p
		if cfg.Validate() == nil {
			t.Fatalf("crit_chance %v accepted", p)
		}
	})
}
