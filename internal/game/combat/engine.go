package combat

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
)

// Engine runs ticks. It holds configuration only; all run state lives in State.
type Engine struct {
	Config  Config
	Planner *ai.Planner
	logger  *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: planner may be nil (intelligence-only planning); logger may be
// nil (no logging).
func NewEngine(cfg Config, planner *ai.Planner, logger *zap.Logger) *Engine {
	if planner == nil {
		planner = ai.NewPlanner(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Config: cfg, Planner: planner, logger: logger}
}

// Advance resolves exactly one tick and returns the next state and the events
// emitted during that tick. s is not modified. A terminal state is returned
// unchanged with no events.
func (e *Engine) Advance(s State) (State, []Event) {
	if s.Done() {
		return s, nil
	}
	next := s.Clone()
	from := len(next.Events)
	e.step(&next)
	return next, slices.Clone(next.Events[from:])
}

// Simulate runs s to completion and returns the result. s is not modified.
func (e *Engine) Simulate(s State) Result {
	run := s.Clone()
	for !run.Done() {
		e.step(&run)
	}
	return Summarize(run)
}

// step resolves one tick in place.
func (e *Engine) step(s *State) {
	s.Tick++

	switch {
	case s.Phase == PhaseSetup && s.Tick > s.SetupEnd:
		e.transition(s, eventEngage, "The shooting starts.")
	case s.Phase == PhaseCombat && s.Tick >= s.CleanupStart:
		e.transition(s, eventConsolidate, "The fight winds down; the squad consolidates.")
	}

	if s.Phase == PhaseSetup {
		e.prepare(s)
	} else {
		for i := range s.Squad {
			if e.due(s, &s.Squad[i]) {
				e.act(s, &s.Squad[i])
			}
		}
		for i := range s.Enemies {
			if e.due(s, &s.Enemies[i]) {
				e.act(s, &s.Enemies[i])
			}
		}
	}

	switch {
	case !anyActive(s.Enemies):
		for _, c := range s.Squad {
			s.Experience[c.ID] += e.Config.ExperienceForVictory
		}
		e.finish(s, eventWin, "Victory: every enemy is down.")
	case !anyActive(s.Squad):
		e.finish(s, eventLose, "Defeat: the whole squad has been knocked out.")
	case s.Tick >= s.Ceiling:
		e.finish(s, eventExpire, fmt.Sprintf("Timeout: the squad withdraws after %d ticks.", s.Tick))
	}
}

func (e *Engine) due(s *State, c *Combatant) bool {
	if !c.IsActive() {
		return false
	}
	interval := max(1, c.Stats.Interval)
	return (s.Tick-c.LastAction)%interval == 0
}

func (e *Engine) transition(s *State, event, description string) {
	from := s.Phase
	s.Phase = nextPhase(s.Phase, event)
	e.logger.Debug("combat phase transition",
		zap.String("run", s.RunID.String()),
		zap.Int("tick", s.Tick),
		zap.String("from", string(from)),
		zap.String("to", string(s.Phase)),
	)
	s.emit(Event{Type: EventPhase, Description: description})
}

func (e *Engine) finish(s *State, event, description string) {
	s.Phase = nextPhase(s.Phase, event)
	s.emit(Event{Type: EventOutcome, Description: description})
	e.logger.Debug("combat finished",
		zap.String("run", s.RunID.String()),
		zap.String("outcome", string(s.Phase)),
		zap.Int("ticks", s.Tick),
	)
}

// prepare emits the cosmetic setup narrative. It draws nothing from the RNG.
func (e *Engine) prepare(s *State) {
	if s.Tick != 1 {
		return
	}
	if t := s.Env.Terrain; t != nil {
		desc := "The squad moves into " + t.Name + "."
		if t.Advantage != "" {
			desc += " " + t.Advantage
		}
		if t.Hazard != "" {
			desc += " Hazard: " + t.Hazard
		}
		s.emit(Event{Type: EventTerrain, Description: desc})
	}
	if w := s.Env.Weather; w != nil {
		desc := "Weather: " + w.Name + "."
		if w.Description != "" {
			desc += " " + w.Description
		}
		s.emit(Event{Type: EventTerrain, Description: desc})
	}
	for _, c := range s.Squad {
		s.emit(Event{Type: EventTactical, Actor: c.Name, Description: c.Name + " checks their gear and takes position."})
	}
}

// source returns the run's RNG, wrapped to log every draw when debug logging
// is enabled. Both paths draw the same sequence.
func (e *Engine) source(s *State) dice.Source {
	if e.logger.Core().Enabled(zap.DebugLevel) {
		return dice.NewLoggedSource(&s.RNG, e.logger)
	}
	return &s.RNG
}

// emit appends ev at the current tick and its log line.
func (s *State) emit(ev Event) {
	ev.Tick = s.Tick
	s.Events = append(s.Events, ev)
	s.Log = append(s.Log, ev.LogLine())
}
