package effect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func contentRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "consumables"), "jet.yaml", `
id: jet
name: Jet
description: "Slows the world down."
effects:
  accuracy: 10
  morale: 5
`)
	writeFile(t, filepath.Join(root, "perks"), "bloody_mess.yaml", `
id: bloody_mess
name: Bloody Mess
additive:
  damage: 1
multipliers:
  damage: 1.05
`)
	writeFile(t, filepath.Join(root, "perks"), "fast_shot.yaml", `
id: fast_shot
name: Fast Shot
multipliers:
  fire_rate: 1.2
`)
	writeFile(t, filepath.Join(root, "traits"), "tough.yaml", `
id: tough
name: Tough
bonuses:
  health: 10
  defense: 2
`)
	return root
}

func TestLoadDirectory_ParsesAllKinds(t *testing.T) {
	reg, err := effect.LoadDirectory(contentRoot(t))
	require.NoError(t, err)

	jet, ok := reg.Consumable("jet")
	require.True(t, ok)
	assert.Equal(t, 10.0, jet.Effects.Get(modifier.Accuracy))

	perk, ok := reg.Perk("bloody_mess")
	require.True(t, ok)
	assert.Equal(t, 1.05, perk.Multipliers.Get(modifier.Damage))

	trait, ok := reg.Trait("tough")
	require.True(t, ok)
	assert.Equal(t, 10.0, trait.Bonuses.Get(modifier.Health))
}

func TestLoadDirectory_RejectsUnknownField(t *testing.T) {
	root := contentRoot(t)
	writeFile(t, filepath.Join(root, "traits"), "bad.yaml", `
id: bad
name: Bad
bogus_field: 3
`)
	_, err := effect.LoadDirectory(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestLoadDirectory_MissingSubdir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "consumables"), 0o755))
	_, err := effect.LoadDirectory(root)
	assert.Error(t, err)
}

func TestPerkDef_Validate_RejectsAccuracyMultiplier(t *testing.T) {
	p := &effect.PerkDef{ID: "x", Name: "X", Multipliers: modifier.Set{modifier.Accuracy: 1.1}}
	assert.Error(t, p.Validate())
}

func TestPerkDef_Validate_RejectsNonPositiveMultiplier(t *testing.T) {
	p := &effect.PerkDef{ID: "x", Name: "X", Multipliers: modifier.Set{modifier.Damage: 0}}
	assert.Error(t, p.Validate())
}

func TestConsumableDef_Validate_RejectsTerrainKey(t *testing.T) {
	c := &effect.ConsumableDef{ID: "x", Name: "X", Effects: modifier.Set{modifier.SquadDamage: 5}}
	assert.Error(t, c.Validate())
}

func TestTraitDef_Validate_RequiresID(t *testing.T) {
	assert.Error(t, (&effect.TraitDef{Name: "X"}).Validate())
}

func TestTotals_SkipUnknownIDs(t *testing.T) {
	reg, err := effect.LoadDirectory(contentRoot(t))
	require.NoError(t, err)

	c := effect.ConsumableTotals(reg, []string{"jet", "missing"})
	assert.Equal(t, 10.0, c.Get(modifier.Accuracy))
	assert.Equal(t, 5.0, c.Get(modifier.Morale))

	tr := effect.TraitTotals(reg, []string{"tough", "tough"})
	assert.Equal(t, 20.0, tr.Get(modifier.Health))

	add, mul := effect.PerkTotals(reg, []string{"bloody_mess", "fast_shot", "nope"})
	assert.Equal(t, 1.0, add.Get(modifier.Damage))
	assert.InDelta(t, 1.05, mul.Get(modifier.Damage), 1e-9)
	assert.InDelta(t, 1.2, mul.Get(modifier.FireRate), 1e-9)
}

func TestTotals_NilRegistry(t *testing.T) {
	assert.Empty(t, effect.ConsumableTotals(nil, []string{"jet"}))
	_, mul := effect.PerkTotals(nil, []string{"x"})
	assert.Equal(t, 1.0, mul.Get(modifier.Damage))
	assert.Equal(t, 1.0, mul.Get(modifier.FireRate))
}

func TestProperty_PerkMultipliersAreProducts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		factors := rapid.SliceOfN(rapid.Float64Range(0.5, 2.0), 0, 6).Draw(rt, "factors")
		reg := effect.NewRegistry()
		ids := make([]string, len(factors))
		want := 1.0
		for i, f := range factors {
			id := string(rune('a' + i))
			ids[i] = id
			reg.RegisterPerk(&effect.PerkDef{ID: id, Name: id, Multipliers: modifier.Set{modifier.Damage: f}})
			want *= f
		}
		_, mul := effect.PerkTotals(reg, ids)
		if d := mul.Get(modifier.Damage) - want; d > 1e-9 || d < -1e-9 {
			rt.Fatalf("damage multiplier %v, want %v", mul.Get(modifier.Damage), want)
		}
		if mul.Get(modifier.FireRate) != 1 {
			rt.Fatalf("fire_rate multiplier %v, want 1", mul.Get(modifier.FireRate))
		}
	})
}
