package combat

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// Phase is the simulator's state-machine position.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseCombat  Phase = "combat"
	PhaseCleanup Phase = "cleanup"
	PhaseVictory Phase = "victory"
	PhaseDefeat  Phase = "defeat"
	PhaseTimeout Phase = "timeout"
)

// Terminal reports whether p ends the run.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat || p == PhaseTimeout
}

// Phase machine events.
const (
	eventEngage      = "engage"
	eventConsolidate = "consolidate"
	eventWin         = "win"
	eventLose        = "lose"
	eventExpire      = "expire"
)

var live = []string{string(PhaseSetup), string(PhaseCombat), string(PhaseCleanup)}

var phaseEvents = fsm.Events{
	{Name: eventEngage, Src: []string{string(PhaseSetup)}, Dst: string(PhaseCombat)},
	{Name: eventConsolidate, Src: []string{string(PhaseCombat)}, Dst: string(PhaseCleanup)},
	{Name: eventWin, Src: live, Dst: string(PhaseVictory)},
	{Name: eventLose, Src: live, Dst: string(PhaseDefeat)},
	{Name: eventExpire, Src: live, Dst: string(PhaseTimeout)},
}

// nextPhase validates event against the phase machine and returns the
// destination phase. The machine is rebuilt from from so State stays a plain
// copyable value.
//
// Precondition: event must be legal from from; panics otherwise.
func nextPhase(from Phase, event string) Phase {
	m := fsm.NewFSM(string(from), phaseEvents, nil)
	if err := m.Event(context.Background(), event); err != nil {
		panic(fmt.Sprintf("combat: illegal phase transition %q from %q: %v", event, from, err))
	}
	return Phase(m.Current())
}
