package character

// clampPercent clamps v into [0, 100].
func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// clampSpecial clamps a S.P.E.C.I.A.L. score into [1, 10].
func clampSpecial(v int) int {
	switch {
	case v < 1:
		return 1
	case v > 10:
		return 10
	default:
		return v
	}
}

// normalizeHealth returns a (current, max) pair satisfying 1 <= current <= max.
// Negative or zero values are raised to the safe minimum; a max below the
// current value is raised to match it.
func normalizeHealth(current, max int) (int, int) {
	if max < 1 {
		max = current
	}
	if max < 1 {
		max = 1
	}
	if current < 1 {
		current = 1
	}
	if current > max {
		current = max
	}
	return current, max
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// FromPlayer normalizes a player record into a Profile.
// S.P.E.C.I.A.L. scores are mapped onto the 0-100 scale; Combat blends the
// better of the two combat skills with Strength.
//
// Postcondition: the returned Profile satisfies the Profile invariant.
func FromPlayer(p Player) Profile {
	s := Special{
		Strength:     clampSpecial(p.Stats.Strength),
		Perception:   clampSpecial(p.Stats.Perception),
		Endurance:    clampSpecial(p.Stats.Endurance),
		Charisma:     clampSpecial(p.Stats.Charisma),
		Intelligence: clampSpecial(p.Stats.Intelligence),
		Agility:      clampSpecial(p.Stats.Agility),
		Luck:         clampSpecial(p.Stats.Luck),
	}
	skill := clampPercent(p.Skills.Guns)
	if m := clampPercent(p.Skills.Melee); m > skill {
		skill = m
	}
	health, maxHealth := normalizeHealth(p.Health, p.MaxHealth)
	level := p.Level
	if level < 1 {
		level = 1
	}
	return Profile{
		ID:    p.ID,
		Name:  p.Name,
		Kind:  KindPlayer,
		Level: level,
		Attributes: Attributes{
			Combat:       clampPercent(skill*7/10 + s.Strength*3),
			Perception:   s.Perception * 10,
			Agility:      s.Agility * 10,
			Endurance:    s.Endurance * 10,
			Intelligence: s.Intelligence * 10,
			Charisma:     s.Charisma * 10,
			Luck:         s.Luck * 10,
		},
		Health:    health,
		MaxHealth: maxHealth,
		Morale:    clampPercent(50 + (s.Charisma-5)*5),
		Loadout: Loadout{
			Weapon:    p.Equipped.Weapon,
			Armor:     p.Equipped.Armor,
			Accessory: p.Equipped.Accessory,
		},
		Effects: copyStrings(p.ActiveEffects),
		Perks:   copyStrings(p.Perks),
		Traits:  copyStrings(p.Traits),
	}
}

// FromSquadMember normalizes a squad member record into a Profile.
// Squad members carry no perks; morale is derived from loyalty.
//
// Postcondition: the returned Profile satisfies the Profile invariant.
func FromSquadMember(m SquadMember) Profile {
	sk := SquadSkills{
		Combat:   clampPercent(m.Skills.Combat),
		Survival: clampPercent(m.Skills.Survival),
		Tech:     clampPercent(m.Skills.Tech),
		Medical:  clampPercent(m.Skills.Medical),
	}
	health, maxHealth := normalizeHealth(m.Health, m.MaxHealth)
	level := m.Level
	if level < 1 {
		level = 1
	}
	loyalty := clampPercent(m.Loyalty)
	return Profile{
		ID:    m.ID,
		Name:  m.Name,
		Kind:  KindSquadMember,
		Level: level,
		Attributes: Attributes{
			Combat:       sk.Combat,
			Perception:   (sk.Combat + sk.Survival) / 2,
			Agility:      sk.Survival,
			Endurance:    (sk.Survival*6 + sk.Combat*4) / 10,
			Intelligence: (sk.Tech + sk.Medical) / 2,
			Charisma:     loyalty,
		},
		Health:    health,
		MaxHealth: maxHealth,
		Morale:    25 + loyalty/2,
		Loadout: Loadout{
			Weapon:    m.Equipment[SlotWeapon],
			Armor:     m.Equipment[SlotArmor],
			Accessory: m.Equipment[SlotAccessory],
		},
		Effects: copyStrings(m.ActiveEffects),
		Traits:  copyStrings(m.Traits),
	}
}
