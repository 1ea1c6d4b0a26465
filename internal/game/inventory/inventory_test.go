package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/inventory"
	"github.com/cory-johannsen/wasteland/internal/game/modifier"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestWeaponDef_Validate_RejectsEmpty(t *testing.T) {
	w := &inventory.WeaponDef{}
	assert.Error(t, w.Validate())
}

func TestWeaponDef_Validate_AcceptsMinimal(t *testing.T) {
	w := &inventory.WeaponDef{ID: "pipe_pistol", Name: "Pipe Pistol", Damage: 6, FireRate: 2}
	assert.NoError(t, w.Validate())
}

func TestWeaponDef_Validate_RejectsSubUnitDamage(t *testing.T) {
	w := &inventory.WeaponDef{ID: "stick", Name: "Stick", Damage: 0.5}
	assert.Error(t, w.Validate())
}

func TestWeaponDef_Modifiers(t *testing.T) {
	w := &inventory.WeaponDef{ID: "r", Name: "R", Damage: 12, Accuracy: -5, FireRate: 1.5}
	m := w.Modifiers()
	assert.Equal(t, 12.0, m.Get(modifier.Damage))
	assert.Equal(t, -5.0, m.Get(modifier.Accuracy))
	assert.Equal(t, 1.5, m.Get(modifier.FireRate))
}

func TestArmorDef_Validate(t *testing.T) {
	assert.NoError(t, (&inventory.ArmorDef{ID: "a", Name: "A", Defense: 10, HealthBonus: 5, Movement: -5}).Validate())
	assert.Error(t, (&inventory.ArmorDef{ID: "a", Name: "A", Defense: -1}).Validate())
	assert.Error(t, (&inventory.ArmorDef{ID: "a", Name: "A", HealthBonus: -1}).Validate())
	assert.Error(t, (&inventory.ArmorDef{ID: "a", Name: "A", Movement: 3}).Validate())
}

func TestAccessoryDef_Validate_RejectsUnknownBonus(t *testing.T) {
	a := &inventory.AccessoryDef{ID: "x", Name: "X", Bonuses: modifier.Set{"luck": 2}}
	assert.Error(t, a.Validate())
}

func TestLoadRegistry_LoadsAllKinds(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "weapons"), "pipe_rifle.yaml", "id: pipe_rifle\nname: Pipe Rifle\ndamage: 10\naccuracy: 5\nfire_rate: 1\n")
	writeFile(t, filepath.Join(root, "armor"), "leather.yaml", "id: leather_armor\nname: Leather Armor\ndefense: 12\nhealth_bonus: 10\n")
	writeFile(t, filepath.Join(root, "accessories"), "goggles.yaml", "id: goggles\nname: Goggles\nbonuses:\n  accuracy: 4\n")
	writeFile(t, filepath.Join(root, "accessories"), "README.txt", "ignored")

	reg, err := inventory.LoadRegistry(root)
	require.NoError(t, err)
	w, a, acc := reg.Counts()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, acc)

	rifle, ok := reg.Weapon("pipe_rifle")
	require.True(t, ok)
	assert.Equal(t, 10.0, rifle.Damage)
	g, ok := reg.Accessory("goggles")
	require.True(t, ok)
	assert.Equal(t, 4.0, g.Bonuses.Get(modifier.Accuracy))
}

func TestLoadRegistry_MissingDirectory(t *testing.T) {
	_, err := inventory.LoadRegistry(t.TempDir())
	assert.Error(t, err)
}

func TestLoadWeapons_InvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "id: bad\nname: Bad\ndamage: 0\n")
	_, err := inventory.LoadWeapons(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestRegistry_DuplicateWeapon(t *testing.T) {
	reg := inventory.NewRegistry()
	w := &inventory.WeaponDef{ID: "knife", Name: "Knife", Damage: 3}
	require.NoError(t, reg.RegisterWeapon(w))
	assert.Error(t, reg.RegisterWeapon(w))
}

func TestRegistry_NilAndEmptyIDLookups(t *testing.T) {
	var reg *inventory.Registry
	_, ok := reg.Weapon("knife")
	assert.False(t, ok)
	_, ok = inventory.NewRegistry().Armor("")
	assert.False(t, ok)
}

// TestRegistry_LookupConsistency_Property verifies every registered weapon is found by its ID.
func TestRegistry_LookupConsistency_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{3,8}`), 1, 8, rapid.ID[string]).Draw(rt, "ids")
		reg := inventory.NewRegistry()
		for _, id := range ids {
			require.NoError(rt, reg.RegisterWeapon(&inventory.WeaponDef{ID: id, Name: id, Damage: 1}))
		}
		for _, id := range ids {
			w, ok := reg.Weapon(id)
			assert.True(rt, ok)
			assert.Equal(rt, id, w.ID)
		}
	})
}
