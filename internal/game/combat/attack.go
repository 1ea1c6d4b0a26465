package combat

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
)

var injuries = []string{
	"a fractured arm",
	"a concussion",
	"a deep laceration",
	"cracked ribs",
	"radiation burns",
	"a sprained ankle",
}

func snapshot(c *Combatant) *ai.CombatantState {
	return &ai.CombatantState{
		ID:           c.ID,
		Name:         c.Name,
		Health:       c.Health,
		MaxHealth:    c.MaxHealth,
		Overall:      c.Stats.Overall,
		Intelligence: c.Stats.Intelligence,
		Doctrine:     c.Doctrine,
		Down:         !c.IsActive(),
	}
}

// worldFor builds the planner snapshot for actor.
func worldFor(s *State, actor *Combatant) *ai.WorldState {
	ws := &ai.WorldState{Self: snapshot(actor), Terrain: s.Env.category()}
	team := s.team(actor.Team)
	for i := range team {
		if team[i].ID != actor.ID {
			ws.Allies = append(ws.Allies, snapshot(&team[i]))
		}
	}
	foes := s.opponents(actor.Team)
	for i := range foes {
		ws.Enemies = append(ws.Enemies, snapshot(&foes[i]))
	}
	return ws
}

// act resolves one action of actor: plan, maneuver, then treat or attack.
func (e *Engine) act(s *State, actor *Combatant) {
	actor.LastAction = s.Tick
	src := e.source(s)

	ws := worldFor(s, actor)
	dec := e.Planner.Decide(ws, src)

	if dec.TakeCover && !actor.InCover {
		s.emit(Event{Type: EventCover, Actor: actor.Name, Description: actor.Name + " dives into cover."})
	}
	actor.InCover = dec.TakeCover
	actor.TerrainAdvantage = dec.UseTerrainAdvantage && s.Env.Terrain != nil

	if s.Phase == PhaseCleanup && actor.Team == TeamSquad && e.treat(s, actor) {
		return
	}

	picked := ai.SelectTarget(dec.Target, ws.Enemies, src)
	if picked == nil {
		return
	}
	foes := s.opponents(actor.Team)
	target := &foes[slices.IndexFunc(foes, func(c Combatant) bool { return c.ID == picked.ID })]

	flanked := false
	if dec.AttemptFlank {
		p := 0.5 + (actor.Stats.Movement-50)/200
		flanked = dice.Chance(src, p)
		if flanked {
			s.emit(Event{Type: EventFlank, Actor: actor.Name, Target: target.Name,
				Description: fmt.Sprintf("%s flanks %s.", actor.Name, target.Name)})
		} else {
			s.emit(Event{Type: EventFlank, Actor: actor.Name, Target: target.Name,
				Description: fmt.Sprintf("%s tries to flank %s but is spotted.", actor.Name, target.Name)})
		}
	}

	if dice.Chance(src, e.hitChance(actor, target, flanked)) {
		e.hit(s, actor, target)
		return
	}
	e.miss(s, actor, target)
}

// hitChance returns the probability in [MinHitChance, MaxHitChance]/100 that
// actor hits target.
func (e *Engine) hitChance(actor, target *Combatant, flanked bool) float64 {
	acc := actor.Stats.Accuracy
	if flanked {
		acc += e.Config.FlankBonus
	}
	if actor.TerrainAdvantage {
		acc += e.Config.TerrainAdvantageBonus
	}
	if target.InCover && !flanked {
		acc -= e.Config.CoverBonus
	}
	moraleAcc, _ := e.Config.moraleFactors(actor.Morale)
	acc *= moraleAcc
	return math.Min(math.Max(acc, e.Config.MinHitChance), e.Config.MaxHitChance) / 100
}

func (e *Engine) miss(s *State, actor, target *Combatant) {
	desc := fmt.Sprintf("%s misses %s.", actor.Name, target.Name)
	if dice.Chance(e.source(s), e.Config.MissNarrativeChance) {
		switch {
		case target.InCover:
			desc = fmt.Sprintf("%s ducks behind cover as %s fires.", target.Name, actor.Name)
		case dice.Chance(e.source(s), 0.5):
			desc = fmt.Sprintf("%s's weapon jams mid-burst.", actor.Name)
		default:
			desc = fmt.Sprintf("%s's shot deflects off %s's gear.", actor.Name, target.Name)
		}
	}
	s.emit(Event{Type: EventMiss, Actor: actor.Name, Target: target.Name, Description: desc})
}

// damage rolls the damage of a landed hit.
//
// Postcondition: result >= 1 when actor's base damage > 0; 0 otherwise.
func (e *Engine) damage(s *State, actor, target *Combatant) (amount int, crit bool) {
	base := actor.Stats.Damage
	if base <= 0 {
		return 0, false
	}
	v := e.Config.DamageVariance
	dmg := base * dice.Between(e.source(s), 1-v, 1+v)
	_, moraleDmg := e.Config.moraleFactors(actor.Morale)
	dmg *= moraleDmg
	crit = dice.Chance(e.source(s), e.Config.CritChance+actor.Stats.CritChance)
	if crit {
		dmg *= e.Config.CritMultiplier
	}
	dmg *= 1 - math.Min(math.Max(target.Defense, 0), e.Config.MaxDefense)/100
	dmg *= 1 + s.Env.Terrain.SideDamage(actor.Team == TeamSquad)/100
	return max(1, int(math.Round(dmg))), crit
}

func (e *Engine) hit(s *State, actor, target *Combatant) {
	amount, crit := e.damage(s, actor, target)
	ev := Event{Type: EventAttack, Actor: actor.Name, Target: target.Name, Damage: amount,
		Description: fmt.Sprintf("%s hits %s for %d damage.", actor.Name, target.Name, amount)}
	if crit {
		ev.Type = EventCritical
		ev.Description = fmt.Sprintf("Critical! %s tears into %s for %d damage.", actor.Name, target.Name, amount)
	}
	s.emit(ev)

	before := target.Health
	if target.Team == TeamSquad {
		floor := e.Config.Floor(target.MaxHealth)
		if amount > 0 && target.Health-amount <= floor {
			target.Health = min(target.Health, floor)
			target.Status = StatusKnockedOut
		} else {
			target.Health -= amount
		}
	} else {
		target.Health = max(0, target.Health-amount)
		if target.Health == 0 {
			target.Status = StatusEliminated
		}
	}
	applied := before - target.Health
	if actor.Team == TeamSquad {
		s.DamageDealt += applied
		s.Experience[actor.ID] += e.Config.ExperiencePerHit
	} else {
		s.DamageReceived += applied
	}
	e.shiftMorale(s, target, e.Config.MoraleOnHit)

	if crit && target.Team == TeamSquad && target.ArmorID != "" && dice.Chance(e.source(s), e.Config.EquipmentDamageChance) {
		target.Defense *= e.Config.EquipmentDefenseDecay
		if !slices.Contains(s.DamagedEquipment, target.ArmorID) {
			s.DamagedEquipment = append(s.DamagedEquipment, target.ArmorID)
		}
		s.emit(Event{Type: EventEquipment, Actor: actor.Name, Target: target.Name,
			Description: fmt.Sprintf("%s's armor is damaged by the blow.", target.Name)})
	}

	if target.IsActive() {
		return
	}
	e.shiftMorale(s, actor, e.Config.MoraleOnKill)
	if actor.Team == TeamSquad {
		s.Experience[actor.ID] += e.Config.ExperiencePerKill
	}
	e.down(s, actor, target)
}

// down records a combatant leaving the fight and demoralizes its teammates.
func (e *Engine) down(s *State, actor, target *Combatant) {
	if target.Team == TeamSquad {
		injury := dice.Pick(e.source(s), injuries)
		s.Injuries[target.ID] = injury
		s.emit(Event{Type: EventKnockout, Actor: actor.Name, Target: target.Name,
			Description: fmt.Sprintf("%s is knocked out by %s.", target.Name, actor.Name)})
		s.emit(Event{Type: EventInjury, Target: target.Name,
			Description: fmt.Sprintf("%s suffers %s.", target.Name, injury)})
		e.logger.Debug("squad combatant knocked out",
			zap.String("run", s.RunID.String()),
			zap.Int("tick", s.Tick),
			zap.String("combatant", target.ID),
			zap.Int("health", target.Health),
		)
	} else {
		s.emit(Event{Type: EventElimination, Actor: actor.Name, Target: target.Name,
			Description: fmt.Sprintf("%s eliminates %s.", actor.Name, target.Name)})
	}
	team := s.team(target.Team)
	for i := range team {
		if team[i].IsActive() {
			e.shiftMorale(s, &team[i], e.Config.MoraleOnAllyDown)
		}
	}
}

// shiftMorale moves c's morale by delta within [0, 100] and records the
// applied change for squad combatants.
func (e *Engine) shiftMorale(s *State, c *Combatant, delta float64) {
	next := math.Min(math.Max(c.Morale+delta, 0), 100)
	if c.Team == TeamSquad {
		s.MoraleDeltas[c.ID] += next - c.Morale
	}
	c.Morale = next
}

// treat lets actor spend its action tending the most wounded living ally
// below the treatment threshold. It reports whether the action was spent.
func (e *Engine) treat(s *State, actor *Combatant) bool {
	var patient *Combatant
	for i := range s.Squad {
		c := &s.Squad[i]
		if c.ID == actor.ID || !c.IsActive() || c.HealthFraction() >= e.Config.TreatThreshold {
			continue
		}
		if patient == nil || c.HealthFraction() < patient.HealthFraction() {
			patient = c
		}
	}
	if patient == nil || !dice.Chance(e.source(s), e.Config.TreatChance) {
		return false
	}
	heal := max(1, int(math.Round(e.Config.TreatFraction*float64(patient.MaxHealth))))
	healed := min(patient.Health+heal, patient.MaxHealth) - patient.Health
	patient.Health += healed
	s.emit(Event{Type: EventTactical, Actor: actor.Name, Target: patient.Name,
		Description: fmt.Sprintf("%s patches up %s (+%d health).", actor.Name, patient.Name, healed)})
	return true
}
