package combat

import (
	"fmt"

	"github.com/google/uuid"
)

// EventType classifies a combat event.
type EventType string

const (
	EventAttack      EventType = "attack"
	EventMiss        EventType = "miss"
	EventCover       EventType = "cover"
	EventFlank       EventType = "flank"
	EventTerrain     EventType = "terrain"
	EventTactical    EventType = "tactical"
	EventInjury      EventType = "injury"
	EventEquipment   EventType = "equipment"
	EventCritical    EventType = "critical"
	EventPhase       EventType = "phase"
	EventKnockout    EventType = "knockout"
	EventElimination EventType = "elimination"
	EventOutcome     EventType = "outcome"
)

// Event is one append-only entry of the combat record.
type Event struct {
	Tick        int       `json:"tick"`
	Type        EventType `json:"type"`
	Actor       string    `json:"actor,omitempty"`
	Target      string    `json:"target,omitempty"`
	Damage      int       `json:"damage,omitempty"` // attack and critical events only
	Description string    `json:"description"`
}

// LogLine renders e as one human-readable log line.
func (e Event) LogLine() string {
	return fmt.Sprintf("[%04d] %s", e.Tick, e.Description)
}

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	// OutcomeTimeout is a withdrawal when the tick ceiling is reached. It
	// counts as a loss but is reported apart from a tactical defeat.
	OutcomeTimeout Outcome = "timeout"
)

// Result is the only object that survives a run.
type Result struct {
	RunID    uuid.UUID `json:"run_id"`
	Outcome  Outcome   `json:"outcome"`
	Victory  bool      `json:"victory"`
	Duration int       `json:"duration"` // ticks

	// HealthLoss is max(0, start - final) for every combatant of both teams.
	HealthLoss map[string]int `json:"health_loss"`
	// SquadHealthLoss is HealthLoss restricted to the squad.
	SquadHealthLoss map[string]int `json:"squad_health_loss"`
	StartingHealth  map[string]int `json:"starting_health"`
	FinalHealth     map[string]int `json:"final_health"`

	// DamageDealt and DamageReceived are health removed, from the squad's side.
	DamageDealt    int `json:"damage_dealt"`
	DamageReceived int `json:"damage_received"`

	Events     []Event  `json:"events"`
	Log        []string `json:"log"`
	Casualties []string `json:"casualties"` // enemy names eliminated, roster order
	// Injuries maps knocked-out squad combatant ids to an injury description.
	Injuries         map[string]string  `json:"injuries"`
	Experience       map[string]int     `json:"experience"`
	MoraleDeltas     map[string]float64 `json:"morale_deltas"`
	DamagedEquipment []string           `json:"damaged_equipment"`
}

// Summarize reduces a terminal state into its Result.
//
// Precondition: s.Phase.Terminal(); panics otherwise.
// Postcondition: SquadHealthLoss[id] is in [0, StartingHealth[id]] for every
// squad id; Victory is true iff Outcome == OutcomeVictory.
func Summarize(s State) Result {
	if !s.Phase.Terminal() {
		panic(fmt.Sprintf("combat: Summarize called in phase %q", s.Phase))
	}
	r := Result{
		RunID:            s.RunID,
		Outcome:          Outcome(s.Phase),
		Victory:          s.Phase == PhaseVictory,
		Duration:         s.Tick,
		HealthLoss:       make(map[string]int, len(s.Squad)+len(s.Enemies)),
		SquadHealthLoss:  make(map[string]int, len(s.Squad)),
		StartingHealth:   make(map[string]int, len(s.Squad)+len(s.Enemies)),
		FinalHealth:      make(map[string]int, len(s.Squad)+len(s.Enemies)),
		DamageDealt:      s.DamageDealt,
		DamageReceived:   s.DamageReceived,
		Events:           append([]Event{}, s.Events...),
		Log:              append([]string{}, s.Log...),
		Casualties:       []string{},
		Injuries:         cloneMap(s.Injuries),
		Experience:       cloneMap(s.Experience),
		MoraleDeltas:     cloneMap(s.MoraleDeltas),
		DamagedEquipment: append([]string{}, s.DamagedEquipment...),
	}
	for _, c := range s.Squad {
		loss := max(0, c.StartHealth-c.Health)
		r.HealthLoss[c.ID] = loss
		r.SquadHealthLoss[c.ID] = loss
		r.StartingHealth[c.ID] = c.StartHealth
		r.FinalHealth[c.ID] = c.Health
	}
	for _, c := range s.Enemies {
		r.HealthLoss[c.ID] = max(0, c.StartHealth-c.Health)
		r.StartingHealth[c.ID] = c.StartHealth
		r.FinalHealth[c.ID] = c.Health
		if c.Health <= 0 {
			r.Casualties = append(r.Casualties, c.Name)
		}
	}
	return r
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
