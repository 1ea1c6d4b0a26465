package combat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/environment"
)

// runNamespace scopes deterministic run ids.
var runNamespace = uuid.MustParse("6f1c2a4e-9b7d-4c3e-8a51-2d0f7e9b3c14")

// Environment is the terrain and weather a run takes place in. Either may be nil.
type Environment struct {
	Terrain *environment.Terrain
	Weather *environment.Weather
}

// category returns the terrain category, Neutral when there is no terrain.
func (e Environment) category() environment.Category {
	if e.Terrain == nil {
		return environment.Neutral
	}
	return e.Terrain.Category
}

// State is the complete state of one run between ticks. It is a plain value:
// Advance never mutates the State it is given, and the RNG stream travels
// inside the State so a tick is a pure function of the State alone.
type State struct {
	RunID        uuid.UUID
	Tick         int
	Phase        Phase
	Ceiling      int
	SetupEnd     int // last setup tick
	CleanupStart int // first cleanup tick

	Squad   []Combatant
	Enemies []Combatant
	Env     Environment
	RNG     dice.Stream

	Events []Event
	Log    []string

	DamageDealt      int
	DamageReceived   int
	Experience       map[string]int
	MoraleDeltas     map[string]float64
	Injuries         map[string]string
	DamagedEquipment []string
}

// RunID derives the deterministic run id for a seed and roster.
func RunID(seed uint64, squad, enemies []Combatant) uuid.UUID {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", seed)
	for _, c := range squad {
		b.WriteString("|s:" + c.ID)
	}
	for _, c := range enemies {
		b.WriteString("|e:" + c.ID)
	}
	return uuid.NewSHA1(runNamespace, []byte(b.String()))
}

// NewState prepares a run. An empty squad resolves immediately to defeat and
// an empty enemy roster to victory, both at tick 0 with no events.
//
// Precondition: combatant ids are unique across both rosters.
// Postcondition: every combatant's LastAction is SetupEnd and its team is set
// by roster.
func (e *Engine) NewState(squad, enemies []Combatant, env Environment, seed uint64) State {
	total := 0
	for _, c := range enemies {
		total += c.MaxHealth
	}
	ceiling := e.Config.Ceiling(total, len(enemies))
	s := State{
		RunID:        RunID(seed, squad, enemies),
		Phase:        PhaseSetup,
		Ceiling:      ceiling,
		SetupEnd:     e.Config.SetupTicks(ceiling),
		CleanupStart: e.Config.CleanupStart(ceiling),
		Squad:        slices.Clone(squad),
		Enemies:      slices.Clone(enemies),
		Env:          env,
		RNG:          dice.NewStream(seed),
		Events:       []Event{},
		Log:          []string{},
		Experience:   make(map[string]int, len(squad)),
		MoraleDeltas: make(map[string]float64, len(squad)),
		Injuries:     make(map[string]string),
	}
	for i := range s.Squad {
		s.Squad[i].Team = TeamSquad
		s.Squad[i].LastAction = s.SetupEnd
		s.Experience[s.Squad[i].ID] = 0
		s.MoraleDeltas[s.Squad[i].ID] = 0
	}
	for i := range s.Enemies {
		s.Enemies[i].Team = TeamEnemy
		s.Enemies[i].LastAction = s.SetupEnd
	}
	switch {
	case len(s.Squad) == 0:
		s.Phase = nextPhase(s.Phase, eventLose)
	case len(s.Enemies) == 0:
		s.Phase = nextPhase(s.Phase, eventWin)
	}
	return s
}

// Clone returns a deep copy of s sharing no mutable memory with it.
func (s State) Clone() State {
	out := s
	out.Squad = slices.Clone(s.Squad)
	out.Enemies = slices.Clone(s.Enemies)
	out.Events = slices.Clone(s.Events)
	out.Log = slices.Clone(s.Log)
	out.Experience = cloneMap(s.Experience)
	out.MoraleDeltas = cloneMap(s.MoraleDeltas)
	out.Injuries = cloneMap(s.Injuries)
	out.DamagedEquipment = slices.Clone(s.DamagedEquipment)
	return out
}

// Done reports whether the run has reached a terminal phase.
func (s State) Done() bool { return s.Phase.Terminal() }

func (s *State) team(t Team) []Combatant {
	if t == TeamSquad {
		return s.Squad
	}
	return s.Enemies
}

func (s *State) opponents(t Team) []Combatant {
	if t == TeamSquad {
		return s.Enemies
	}
	return s.Squad
}

func anyActive(cs []Combatant) bool {
	for i := range cs {
		if cs[i].IsActive() {
			return true
		}
	}
	return false
}
