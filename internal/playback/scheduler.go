// Package playback drives a combat run on a real-time cadence and fans each
// tick out to live viewers.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/combat"
)

// Frame is everything one tick produced.
type Frame struct {
	Tick   int            `json:"tick"`
	Phase  combat.Phase   `json:"phase"`
	Events []combat.Event `json:"events"`
	Lines  []string       `json:"lines"`
	// Result is set only on the final frame of a run.
	Result *combat.Result `json:"result,omitempty"`
}

// Final reports whether f closes the run.
func (f Frame) Final() bool { return f.Result != nil }

// Scheduler owns one combat run and advances it one tick at a time, either on
// its own ticker (Run) or when the caller asks (Step).
//
// Invariant: the engine is only ever called under mu, so ticks never overlap.
type Scheduler struct {
	engine   *combat.Engine
	interval time.Duration
	logger   *zap.Logger

	mu          sync.Mutex
	state       combat.State
	last        Frame
	finished    bool
	subscribers map[uuid.UUID]chan Frame
	done        chan struct{}
}

// NewScheduler creates a stopped Scheduler for the run starting at initial.
//
// Precondition: engine must not be nil; interval must be > 0.
// Postcondition: logger nil is replaced with a no-op logger.
func NewScheduler(engine *combat.Engine, initial combat.State, interval time.Duration, logger *zap.Logger) *Scheduler {
	if engine == nil {
		panic("playback.NewScheduler: engine must not be nil")
	}
	if interval <= 0 {
		panic("playback.NewScheduler: interval must be > 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		engine:      engine,
		interval:    interval,
		logger:      logger,
		state:       initial.Clone(),
		last:        Frame{Tick: initial.Tick, Phase: initial.Phase},
		subscribers: make(map[uuid.UUID]chan Frame),
		done:        make(chan struct{}),
	}
}

// Subscribe registers a new viewer. Frames are delivered without blocking; a
// viewer whose buffer is full misses that frame. The final frame is always
// delivered, displacing the oldest buffered frame if needed, and the channel
// is closed after it.
//
// Precondition: buffer must be >= 1.
// Postcondition: subscribing after the run finished yields a closed channel.
func (s *Scheduler) Subscribe(buffer int) (uuid.UUID, <-chan Frame) {
	if buffer < 1 {
		panic("playback.Scheduler.Subscribe: buffer must be >= 1")
	}
	id := uuid.New()
	ch := make(chan Frame, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		close(ch)
		return id, ch
	}
	s.subscribers[id] = ch
	s.logger.Debug("viewer subscribed", zap.String("session", id.String()))
	return id, ch
}

// Unsubscribe removes the viewer id and closes its channel.
func (s *Scheduler) Unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

// Step advances the run by exactly one tick and publishes the frame.
//
// Postcondition: returns the published frame and whether more ticks remain.
// Once the run is over, Step publishes nothing and returns the final frame.
func (s *Scheduler) Step() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return s.last, false
	}
	if s.state.Done() {
		s.finishLocked(Frame{Tick: s.state.Tick, Phase: s.state.Phase})
		return s.last, false
	}

	next, events := s.engine.Advance(s.state)
	s.state = next
	f := Frame{Tick: next.Tick, Phase: next.Phase, Events: events, Lines: make([]string, len(events))}
	for i, ev := range events {
		f.Lines[i] = ev.LogLine()
	}
	if next.Done() {
		s.finishLocked(f)
		return s.last, false
	}
	s.last = f
	s.publishLocked(f)
	return f, true
}

func (s *Scheduler) finishLocked(f Frame) {
	res := combat.Summarize(s.state)
	f.Result = &res
	s.last = f
	for id, ch := range s.subscribers {
		deliverLocked(ch, f)
		delete(s.subscribers, id)
		close(ch)
	}
	s.finished = true
	close(s.done)
	s.logger.Info("playback finished",
		zap.String("run", res.RunID.String()),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("ticks", res.Duration),
	)
}

func (s *Scheduler) publishLocked(f Frame) {
	for id, ch := range s.subscribers {
		select {
		case ch <- f:
		default:
			s.logger.Debug("viewer lagging, frame dropped",
				zap.String("session", id.String()),
				zap.Int("tick", f.Tick),
			)
		}
	}
}

// deliverLocked sends f on ch, evicting buffered frames until it fits. The
// scheduler is the only sender, so a freed slot stays free until the send.
func deliverLocked(ch chan Frame, f Frame) {
	for {
		select {
		case ch <- f:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Run steps the run once per interval until it finishes or ctx is cancelled.
//
// Postcondition: returns nil when the run finished, ctx.Err() otherwise.
// A cancelled run can be resumed by calling Run again.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-ticker.C:
			if _, more := s.Step(); !more {
				return nil
			}
		}
	}
}

// Done is closed once the final frame has been published.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// State returns a copy of the current run state.
func (s *Scheduler) State() combat.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Result returns the run's result once it has finished.
func (s *Scheduler) Result() (combat.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		return combat.Result{}, false
	}
	return *s.last.Result, true
}
