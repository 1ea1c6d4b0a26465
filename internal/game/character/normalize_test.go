package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/character"
)

func TestFromPlayer_MapsSpecialOntoPercentScale(t *testing.T) {
	p := character.Player{
		ID: "p1", Name: "Vault Dweller", Level: 3,
		Stats:     character.Special{Strength: 6, Perception: 7, Endurance: 5, Charisma: 5, Intelligence: 8, Agility: 6, Luck: 5},
		Skills:    character.PlayerSkills{Guns: 60, Melee: 30},
		Health:    80,
		MaxHealth: 100,
		Equipped:  character.Equipped{Weapon: "pipe_rifle", Armor: "leather_armor"},
		Perks:     []string{"gunslinger"},
	}
	prof := character.FromPlayer(p)
	assert.Equal(t, character.KindPlayer, prof.Kind)
	assert.Equal(t, 60, prof.Attributes.Combat) // 60*0.7 + 6*3
	assert.Equal(t, 70, prof.Attributes.Perception)
	assert.Equal(t, 80, prof.Attributes.Intelligence)
	assert.Equal(t, 50, prof.Attributes.Luck)
	assert.Equal(t, 3, prof.Level)
	assert.Equal(t, 50, prof.Morale)
	assert.Equal(t, 80, prof.Health)
	assert.Equal(t, 100, prof.MaxHealth)
	assert.Equal(t, "pipe_rifle", prof.Loadout.Weapon)
	assert.Equal(t, []string{"gunslinger"}, prof.Perks)
}

func TestFromSquadMember_ReadsEquipmentSlots(t *testing.T) {
	m := character.SquadMember{
		ID: "s1", Name: "Dogmeat",
		Skills:    character.SquadSkills{Combat: 40, Survival: 80, Tech: 10, Medical: 30},
		Health:    50,
		MaxHealth: 50,
		Loyalty:   90,
		Equipment: map[string]string{character.SlotWeapon: "knife", character.SlotAccessory: "collar"},
	}
	prof := character.FromSquadMember(m)
	assert.Equal(t, character.KindSquadMember, prof.Kind)
	assert.Equal(t, 40, prof.Attributes.Combat)
	assert.Equal(t, 80, prof.Attributes.Agility)
	assert.Equal(t, 70, prof.Morale)
	assert.Zero(t, prof.Attributes.Luck)
	assert.Equal(t, "knife", prof.Loadout.Weapon)
	assert.Equal(t, "", prof.Loadout.Armor)
	assert.Equal(t, "collar", prof.Loadout.Accessory)
	assert.Nil(t, prof.Perks)
}

func TestFromPlayer_NormalizesNegativeHealth(t *testing.T) {
	prof := character.FromPlayer(character.Player{ID: "p", Health: -20, MaxHealth: -5})
	assert.Equal(t, 1, prof.Health)
	assert.Equal(t, 1, prof.MaxHealth)
	assert.Equal(t, 1, prof.Level)
}

func TestFromSquadMember_CopiesSlices(t *testing.T) {
	traits := []string{"tough"}
	prof := character.FromSquadMember(character.SquadMember{ID: "s", Traits: traits})
	traits[0] = "mutated"
	assert.Equal(t, []string{"tough"}, prof.Traits)
}

// TestProfileInvariant_Property verifies both normalizers always satisfy the Profile invariant.
func TestProfileInvariant_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		anyInt := rapid.IntRange(-500, 500)
		p := character.Player{
			Stats: character.Special{
				Strength: anyInt.Draw(rt, "str"), Perception: anyInt.Draw(rt, "per"),
				Endurance: anyInt.Draw(rt, "end"), Charisma: anyInt.Draw(rt, "cha"),
				Intelligence: anyInt.Draw(rt, "int"), Agility: anyInt.Draw(rt, "agi"),
			},
			Skills:    character.PlayerSkills{Guns: anyInt.Draw(rt, "guns"), Melee: anyInt.Draw(rt, "melee")},
			Health:    anyInt.Draw(rt, "hp"),
			MaxHealth: anyInt.Draw(rt, "maxhp"),
		}
		m := character.SquadMember{
			Skills: character.SquadSkills{
				Combat: anyInt.Draw(rt, "combat"), Survival: anyInt.Draw(rt, "survival"),
				Tech: anyInt.Draw(rt, "tech"), Medical: anyInt.Draw(rt, "medical"),
			},
			Health:    anyInt.Draw(rt, "shp"),
			MaxHealth: anyInt.Draw(rt, "smaxhp"),
			Loyalty:   anyInt.Draw(rt, "loyalty"),
		}
		for _, prof := range []character.Profile{character.FromPlayer(p), character.FromSquadMember(m)} {
			assert.GreaterOrEqual(rt, prof.Health, 1)
			assert.LessOrEqual(rt, prof.Health, prof.MaxHealth)
			a := prof.Attributes
			for _, v := range []int{a.Combat, a.Perception, a.Agility, a.Endurance, a.Intelligence, a.Charisma, prof.Morale} {
				assert.GreaterOrEqual(rt, v, 0)
				assert.LessOrEqual(rt, v, 100)
			}
		}
	})
}
