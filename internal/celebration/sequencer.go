// Package celebration sequences what the visitor sees after a booking is accepted:
// a celebration overlay right away, the success modal shortly after, and the overlay
// fading on its own. It only observes a successful submission and never feeds back
// into the booking state machine.
package celebration

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultModalDelay      = 1500 * time.Millisecond
	DefaultOverlayDuration = 4 * time.Second
)

type Phase string

const (
	OverlayShown  Phase = "overlay_shown"
	ModalShown    Phase = "modal_shown"
	OverlayHidden Phase = "overlay_hidden"
)

// State is what is on screen for one session.
type State struct {
	Overlay bool `json:"overlay"`
	Modal   bool `json:"modal"`
}

func (s State) Apply(p Phase) State {
	switch p {
	case OverlayShown:
		s.Overlay = true
	case ModalShown:
		s.Modal = true
	case OverlayHidden:
		s.Overlay = false
	}
	return s
}

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Sink receives every phase change, possibly from a timer goroutine.
type Sink func(sessionID string, phase Phase)

type Config struct {
	ModalDelay      time.Duration
	OverlayDuration time.Duration
}

type Sequencer struct {
	cfg    Config
	sched  Scheduler
	sink   Sink
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*run
}

type run struct {
	timers    []Timer
	remaining int
}

func NewSequencer(cfg Config, sched Scheduler, sink Sink, logger *zap.Logger) *Sequencer {
	if cfg.ModalDelay <= 0 {
		cfg.ModalDelay = DefaultModalDelay
	}
	if cfg.OverlayDuration <= 0 {
		cfg.OverlayDuration = DefaultOverlayDuration
	}
	if sched == nil {
		sched = wallClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{
		cfg:     cfg,
		sched:   sched,
		sink:    sink,
		logger:  logger,
		pending: make(map[string]*run),
	}
}

// Start shows the overlay now and schedules the modal and the overlay fade.
// Starting again for the same session replaces the previous sequence.
func (s *Sequencer) Start(sessionID string) {
	s.Stop(sessionID)
	s.sink(sessionID, OverlayShown)

	s.mu.Lock()
	defer s.mu.Unlock()
	r := &run{remaining: 2}
	r.timers = []Timer{
		s.sched.AfterFunc(s.cfg.ModalDelay, func() { s.fire(r, sessionID, ModalShown) }),
		s.sched.AfterFunc(s.cfg.OverlayDuration, func() { s.fire(r, sessionID, OverlayHidden) }),
	}
	s.pending[sessionID] = r
	s.logger.Debug("celebration started", zap.String("session_id", sessionID))
}

// fire delivers a phase unless the run was stopped or replaced in the meantime.
func (s *Sequencer) fire(r *run, sessionID string, phase Phase) {
	s.mu.Lock()
	if s.pending[sessionID] != r {
		s.mu.Unlock()
		return
	}
	r.remaining--
	if r.remaining == 0 {
		delete(s.pending, sessionID)
	}
	s.mu.Unlock()
	s.sink(sessionID, phase)
}

// Stop cancels whatever is still scheduled for the session.
func (s *Sequencer) Stop(sessionID string) {
	s.mu.Lock()
	r := s.pending[sessionID]
	delete(s.pending, sessionID)
	s.mu.Unlock()
	if r == nil {
		return
	}
	for _, t := range r.timers {
		t.Stop()
	}
}

// Active reports whether the session still has phases pending.
func (s *Sequencer) Active(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[sessionID]
	return ok
}
