package combat

import "math"

// Config holds every tunable constant of the tick simulator. The ceiling
// formula and the knockout floor are tuning choices rather than fixed rules.
type Config struct {
	// Tick ceiling: clamp(round(totalEnemyHealth*CeilingHealthFactor) +
	// CeilingPerEnemy*enemyCount, CeilingMin, CeilingMax).
	CeilingHealthFactor float64 `mapstructure:"ceiling_health_factor"`
	CeilingPerEnemy     int     `mapstructure:"ceiling_per_enemy"`
	CeilingMin          int     `mapstructure:"ceiling_min"`
	CeilingMax          int     `mapstructure:"ceiling_max"`

	// SetupFraction of the ceiling, capped at SetupMax, is spent in setup.
	SetupFraction float64 `mapstructure:"setup_fraction"`
	SetupMax      int     `mapstructure:"setup_max"`
	// CleanupFraction is the tail of the ceiling spent in cleanup.
	CleanupFraction float64 `mapstructure:"cleanup_fraction"`

	// KnockoutFloor is the fraction of max health a squad combatant cannot drop below.
	KnockoutFloor float64 `mapstructure:"knockout_floor"`

	CritChance          float64 `mapstructure:"crit_chance"`
	CritMultiplier      float64 `mapstructure:"crit_multiplier"`
	MissNarrativeChance float64 `mapstructure:"miss_narrative_chance"`
	DamageVariance      float64 `mapstructure:"damage_variance"` // +/- fraction applied to every hit
	MaxDefense          float64 `mapstructure:"max_defense"`     // defense above this reduces nothing further

	FlankBonus            float64 `mapstructure:"flank_bonus"`
	TerrainAdvantageBonus float64 `mapstructure:"terrain_advantage_bonus"`
	CoverBonus            float64 `mapstructure:"cover_bonus"`
	MinHitChance          float64 `mapstructure:"min_hit_chance"`
	MaxHitChance          float64 `mapstructure:"max_hit_chance"`

	MoraleLow         float64 `mapstructure:"morale_low"`
	MoraleHigh        float64 `mapstructure:"morale_high"`
	LowAccuracyFactor float64 `mapstructure:"low_accuracy_factor"`
	LowDamageFactor   float64 `mapstructure:"low_damage_factor"`
	HighMoraleFactor  float64 `mapstructure:"high_morale_factor"`
	MoraleOnHit       float64 `mapstructure:"morale_on_hit"`
	MoraleOnKill      float64 `mapstructure:"morale_on_kill"`
	MoraleOnAllyDown  float64 `mapstructure:"morale_on_ally_down"`

	ExperiencePerHit     int `mapstructure:"experience_per_hit"`
	ExperiencePerKill    int `mapstructure:"experience_per_kill"`
	ExperienceForVictory int `mapstructure:"experience_for_victory"`

	EquipmentDamageChance float64 `mapstructure:"equipment_damage_chance"`
	EquipmentDefenseDecay float64 `mapstructure:"equipment_defense_decay"` // defense multiplier after armor is damaged

	TreatChance    float64 `mapstructure:"treat_chance"`
	TreatThreshold float64 `mapstructure:"treat_threshold"` // ally health fraction below which treatment is considered
	TreatFraction  float64 `mapstructure:"treat_fraction"`  // fraction of max health restored
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		CeilingHealthFactor: 1.5,
		CeilingPerEnemy:     20,
		CeilingMin:          150,
		CeilingMax:          3000,

		SetupFraction:   0.15,
		SetupMax:        30,
		CleanupFraction: 0.10,

		KnockoutFloor: 0.08,

		CritChance:          0.05,
		CritMultiplier:      2,
		MissNarrativeChance: 0.3,
		DamageVariance:      0.10,
		MaxDefense:          75,

		FlankBonus:            15,
		TerrainAdvantageBonus: 10,
		CoverBonus:            20,
		MinHitChance:          5,
		MaxHitChance:          100,

		MoraleLow:         25,
		MoraleHigh:        75,
		LowAccuracyFactor: 0.8,
		LowDamageFactor:   0.85,
		HighMoraleFactor:  1.1,
		MoraleOnHit:       -3,
		MoraleOnKill:      10,
		MoraleOnAllyDown:  -8,

		ExperiencePerHit:     2,
		ExperiencePerKill:    10,
		ExperienceForVictory: 25,

		EquipmentDamageChance: 0.3,
		EquipmentDefenseDecay: 0.9,

		TreatChance:    0.5,
		TreatThreshold: 0.5,
		TreatFraction:  0.05,
	}
}

// Ceiling returns the tick ceiling for an enemy roster.
//
// Postcondition: CeilingMin <= result <= CeilingMax.
func (c Config) Ceiling(totalEnemyHealth, enemyCount int) int {
	raw := int(math.Round(float64(totalEnemyHealth)*c.CeilingHealthFactor)) + c.CeilingPerEnemy*enemyCount
	return min(max(raw, c.CeilingMin), c.CeilingMax)
}

// SetupTicks returns the number of setup ticks for ceiling.
func (c Config) SetupTicks(ceiling int) int {
	return min(c.SetupMax, int(math.Round(c.SetupFraction*float64(ceiling))))
}

// CleanupStart returns the first cleanup tick for ceiling.
func (c Config) CleanupStart(ceiling int) int {
	return ceiling - int(math.Round(c.CleanupFraction*float64(ceiling)))
}

// Floor returns the knockout floor for a squad combatant with maxHealth.
//
// Postcondition: result >= 1.
func (c Config) Floor(maxHealth int) int {
	return max(1, int(math.Ceil(c.KnockoutFloor*float64(maxHealth))))
}

// moraleFactors returns the accuracy and damage multipliers for morale.
func (c Config) moraleFactors(morale float64) (accuracy, damage float64) {
	switch {
	case morale < c.MoraleLow:
		return c.LowAccuracyFactor, c.LowDamageFactor
	case morale > c.MoraleHigh:
		return c.HighMoraleFactor, c.HighMoraleFactor
	default:
		return 1, 1
	}
}
