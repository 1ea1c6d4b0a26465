// Package config provides Viper-based configuration loading for the skirmish
// engine and its live playback server.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/combat"
	"github.com/cory-johannsen/wasteland/internal/game/encounter"
	"github.com/cory-johannsen/wasteland/internal/game/enemy"
	"github.com/cory-johannsen/wasteland/internal/game/stats"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds every tunable of the stat resolver, the tactical AI,
// and the tick simulator.
type SimulationConfig struct {
	Combat    combat.Config `mapstructure:"combat"`
	Resolver  stats.Tuning  `mapstructure:"resolver"`
	Modifiers stats.Options `mapstructure:"modifiers"`
	Tactics   ai.Thresholds `mapstructure:"tactics"`
}

// ContentConfig names the content directories.
type ContentConfig struct {
	Items       string `mapstructure:"items"`
	Effects     string `mapstructure:"effects"`
	Environment string `mapstructure:"environment"`
	Enemies     string `mapstructure:"enemies"`
	// Doctrines holds *.lua doctrine scripts. Empty disables scripted doctrines.
	Doctrines string `mapstructure:"doctrines"`
}

// Dirs returns the content directories in the shape the encounter loader takes.
func (c ContentConfig) Dirs() encounter.Dirs {
	return encounter.Dirs{Items: c.Items, Effects: c.Effects, Environment: c.Environment, Enemies: c.Enemies}
}

// ScriptingConfig holds doctrine sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit caps the VM instructions of one doctrine call. 0 means unlimited.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// PlaybackConfig holds live playback settings.
type PlaybackConfig struct {
	// TickInterval is the real time between two simulated ticks.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	// Path is the websocket endpoint.
	Path string `mapstructure:"path"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (p PlaybackConfig) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Scaling    enemy.Factors    `mapstructure:"scaling"`
	Content    ContentConfig    `mapstructure:"content"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Playback   PlaybackConfig   `mapstructure:"playback"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateSimulation(c.Simulation),
		validateScaling(c.Scaling),
		validateContent(c.Content),
		validateScripting(c.Scripting),
		validatePlayback(c.Playback),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// fraction collects a violation when v is outside [0, 1].
func fraction(errs []string, key string, v float64) []string {
	if v < 0 || v > 1 {
		errs = append(errs, fmt.Sprintf("%s must be in [0, 1], got %v", key, v))
	}
	return errs
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	c := s.Combat
	if c.CeilingMin < 1 {
		errs = append(errs, fmt.Sprintf("simulation.combat.ceiling_min must be >= 1, got %d", c.CeilingMin))
	}
	if c.CeilingMax < c.CeilingMin {
		errs = append(errs, "simulation.combat.ceiling_max must not be below ceiling_min")
	}
	if c.CeilingHealthFactor < 0 || c.CeilingPerEnemy < 0 {
		errs = append(errs, "simulation.combat ceiling factors must not be negative")
	}
	if c.SetupMax < 0 {
		errs = append(errs, "simulation.combat.setup_max must not be negative")
	}
	if c.SetupFraction+c.CleanupFraction >= 1 {
		errs = append(errs, "simulation.combat setup_fraction + cleanup_fraction must be < 1")
	}
	if c.KnockoutFloor >= 1 {
		errs = append(errs, "simulation.combat.knockout_floor must be < 1")
	}
	for key, v := range map[string]float64{
		"setup_fraction":          c.SetupFraction,
		"cleanup_fraction":        c.CleanupFraction,
		"knockout_floor":          c.KnockoutFloor,
		"crit_chance":             c.CritChance,
		"miss_narrative_chance":   c.MissNarrativeChance,
		"damage_variance":         c.DamageVariance,
		"equipment_damage_chance": c.EquipmentDamageChance,
		"equipment_defense_decay": c.EquipmentDefenseDecay,
		"treat_chance":            c.TreatChance,
		"treat_threshold":         c.TreatThreshold,
		"treat_fraction":          c.TreatFraction,
	} {
		errs = fraction(errs, "simulation.combat."+key, v)
	}
	if c.CritMultiplier < 1 {
		errs = append(errs, "simulation.combat.crit_multiplier must be >= 1")
	}
	if c.MaxDefense < 0 || c.MaxDefense > 100 {
		errs = append(errs, "simulation.combat.max_defense must be in [0, 100]")
	}
	if c.MinHitChance < 0 || c.MaxHitChance > 100 || c.MinHitChance > c.MaxHitChance {
		errs = append(errs, "simulation.combat hit chance bounds must satisfy 0 <= min_hit_chance <= max_hit_chance <= 100")
	}
	if c.MoraleLow > c.MoraleHigh {
		errs = append(errs, "simulation.combat.morale_low must not exceed morale_high")
	}
	if s.Resolver.IntervalConstant <= 0 {
		errs = append(errs, "simulation.resolver.interval_constant must be > 0")
	}
	if s.Resolver.UnarmedInterval < 1 {
		errs = append(errs, "simulation.resolver.unarmed_interval must be >= 1")
	}
	if !(s.Resolver.MinCharacterDamage > 0) {
		errs = append(errs, "simulation.resolver.min_character_damage must be > 0")
	}
	if s.Resolver.LuckCrit < 0 {
		errs = append(errs, "simulation.resolver.luck_crit must not be negative")
	}
	if s.Tactics.Basic > s.Tactics.Advanced {
		errs = append(errs, "simulation.tactics.basic must not exceed advanced")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateScaling(f enemy.Factors) error {
	var errs []string
	if f.HealthPerMember < 0 || f.HealthPerTier < 0 || f.AccuracyPerMember < 0 || f.AccuracyPerTier < 0 {
		errs = append(errs, "scaling factors must not be negative")
	}
	if f.HealthCap < 1 {
		errs = append(errs, fmt.Sprintf("scaling.health_cap must be >= 1, got %v", f.HealthCap))
	}
	if f.AccuracyCap < 1 {
		errs = append(errs, fmt.Sprintf("scaling.accuracy_cap must be >= 1, got %v", f.AccuracyCap))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	for key, dir := range map[string]string{"items": c.Items, "effects": c.Effects, "environment": c.Environment, "enemies": c.Enemies} {
		if dir == "" {
			errs = append(errs, fmt.Sprintf("content.%s must not be empty", key))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validatePlayback(p PlaybackConfig) error {
	var errs []string
	if p.TickInterval <= 0 {
		errs = append(errs, "playback.tick_interval must be > 0")
	}
	if p.Port < 1 || p.Port > 65535 {
		errs = append(errs, fmt.Sprintf("playback.port must be 1-65535, got %d", p.Port))
	}
	if !strings.HasPrefix(p.Path, "/") {
		errs = append(errs, fmt.Sprintf("playback.path must start with /, got %q", p.Path))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with WASTELAND_ prefix
	v.SetEnvPrefix("WASTELAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	setStructDefaults(v, "simulation.combat", combat.DefaultConfig())
	setStructDefaults(v, "simulation.resolver", stats.DefaultTuning())
	setStructDefaults(v, "simulation.modifiers", stats.Full())
	setStructDefaults(v, "simulation.tactics", ai.DefaultThresholds())
	setStructDefaults(v, "scaling", enemy.DefaultFactors())

	v.SetDefault("content.items", "content/items")
	v.SetDefault("content.effects", "content/effects")
	v.SetDefault("content.environment", "content/environment")
	v.SetDefault("content.enemies", "content/enemies")
	v.SetDefault("content.doctrines", "content/doctrines")

	v.SetDefault("scripting.instruction_limit", 100_000)

	v.SetDefault("playback.tick_interval", "100ms")
	v.SetDefault("playback.host", "127.0.0.1")
	v.SetDefault("playback.port", 8080)
	v.SetDefault("playback.path", "/ws")
}

// setStructDefaults registers every mapstructure-tagged field of value under
// prefix, so each one is known to AutomaticEnv.
//
// Precondition: value must be a struct.
func setStructDefaults(v *viper.Viper, prefix string, value any) {
	rv := reflect.ValueOf(value)
	rt := rv.Type()
	for i := range rt.NumField() {
		key := rt.Field(i).Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		v.SetDefault(prefix+"."+key, rv.Field(i).Interface())
	}
}
