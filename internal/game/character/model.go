// Package character defines the squad records handed to the combat engine by
// the character/inventory layer and normalizes them into one Profile shape.
package character

// Kind records which record shape a Profile was normalized from.
type Kind int

const (
	KindPlayer Kind = iota
	KindSquadMember
)

// String returns a human-readable kind label.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindSquadMember:
		return "squad_member"
	default:
		return "unknown"
	}
}

// Attributes is the normalized attribute block on a 0-100 scale.
type Attributes struct {
	// Combat is the core combat attribute; it drives damage and accuracy.
	Combat       int
	Perception   int
	Agility      int
	Endurance    int
	Intelligence int
	Charisma     int
	// Luck widens the critical-hit chance. Squad members carry none.
	Luck int
}

// Loadout holds the equipped item ids. Empty means the slot is empty.
type Loadout struct {
	Weapon    string
	Armor     string
	Accessory string
}

// Profile is the single internal shape the Stat Resolver consumes.
//
// Invariant: 1 <= Health <= MaxHealth; every Attributes field and Morale are in [0, 100].
type Profile struct {
	ID         string
	Name       string
	Kind       Kind
	Level      int
	Attributes Attributes
	Health     int
	MaxHealth  int
	Morale     int
	Loadout    Loadout
	Effects    []string // active temporary consumable effect ids
	Perks      []string
	Traits     []string
}

// Special is the 1-10 attribute block carried by the player record.
type Special struct {
	Strength     int `yaml:"strength"`
	Perception   int `yaml:"perception"`
	Endurance    int `yaml:"endurance"`
	Charisma     int `yaml:"charisma"`
	Intelligence int `yaml:"intelligence"`
	Agility      int `yaml:"agility"`
	Luck         int `yaml:"luck"`
}

// PlayerSkills are the 0-100 combat skills of the player record.
type PlayerSkills struct {
	Guns  int `yaml:"guns"`
	Melee int `yaml:"melee"`
}

// Equipped is the player record's item reference block.
type Equipped struct {
	Weapon    string `yaml:"weapon"`
	Armor     string `yaml:"armor"`
	Accessory string `yaml:"accessory"`
}

// Player is the player-character record shape.
type Player struct {
	ID            string       `yaml:"id"`
	Name          string       `yaml:"name"`
	Level         int          `yaml:"level"`
	Stats         Special      `yaml:"stats"`
	Skills        PlayerSkills `yaml:"skills"`
	Health        int          `yaml:"health"`
	MaxHealth     int          `yaml:"max_health"`
	Equipped      Equipped     `yaml:"equipped"`
	ActiveEffects []string     `yaml:"active_effects"`
	Perks         []string     `yaml:"perks"`
	Traits        []string     `yaml:"traits"`
}

// SquadSkills are the 0-100 skills of a recruited squad member.
type SquadSkills struct {
	Combat   int `yaml:"combat"`
	Survival int `yaml:"survival"`
	Tech     int `yaml:"tech"`
	Medical  int `yaml:"medical"`
}

// Equipment slot keys used by SquadMember.Equipment.
const (
	SlotWeapon    = "weapon"
	SlotArmor     = "armor"
	SlotAccessory = "accessory"
)

// SquadMember is the recruited squad member record shape.
type SquadMember struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Role          string            `yaml:"role"`
	Level         int               `yaml:"level"`
	Skills        SquadSkills       `yaml:"skills"`
	Health        int               `yaml:"health"`
	MaxHealth     int               `yaml:"max_health"`
	Loyalty       int               `yaml:"loyalty"`
	Equipment     map[string]string `yaml:"equipment"`
	ActiveEffects []string          `yaml:"active_effects"`
	Traits        []string          `yaml:"traits"`
}
