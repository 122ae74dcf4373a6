package world

import (
	"github.com/san-kum/ipcsim/internal/logging"
	"github.com/san-kum/ipcsim/internal/metrics"
	"github.com/san-kum/ipcsim/internal/sanity"
	"github.com/san-kum/ipcsim/internal/scene"
	"go.uber.org/zap"
)

type State int

const (
	Unbound State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

type World struct {
	engine  Engine
	scene   *scene.Scene
	state   State
	checks  *sanity.Collection
	logger  *zap.Logger
	metrics *metrics.Recorder
}

type Option func(*World)

func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.logger = logging.OrNop(l) }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(w *World) { w.metrics = r }
}

// WithSanityChecks replaces the builtin checkers.
func WithSanityChecks(c *sanity.Collection) Option {
	return func(w *World) { w.checks = c }
}

func New(engine Engine, opts ...Option) *World {
	w := &World{engine: engine, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	if w.checks == nil {
		w.checks = sanity.Default(w.logger)
	}
	return w
}

func (w *World) State() State        { return w.state }
func (w *World) IsValid() bool       { return w.state == Valid }
func (w *World) Scene() *scene.Scene { return w.scene }

// Init binds s, runs the sanity checks when enabled and initializes the
// engine. It only succeeds once, from Unbound.
func (w *World) Init(s *scene.Scene) bool {
	if w.state != Unbound {
		w.logger.Warn("World is already bound, skipping init.", zap.Stringer("state", w.state))
		w.metrics.Call("init", metrics.OutcomeSkipped)
		return false
	}
	if s == nil {
		w.logger.Error("World init requires a scene.")
		w.metrics.Call("init", metrics.OutcomeFailed)
		return false
	}

	w.scene = s
	if s.Info().SanityCheck.Enable {
		switch w.checks.Check(s) {
		case sanity.Error:
			w.logger.Error("Sanity check failed, world is invalid.")
			w.transition(Invalid)
			w.metrics.Call("init", metrics.OutcomeFailed)
			return false
		case sanity.Warning:
			w.logger.Warn("Sanity check reported warnings, continuing.")
		}
	}

	w.engine.Init(s)
	return w.settle("init", Unbound)
}

func (w *World) Advance() bool {
	return w.run("advance", w.engine.Advance)
}

func (w *World) Sync() bool {
	return w.run("sync", w.engine.Sync)
}

func (w *World) Retrieve() bool {
	return w.run("retrieve", w.engine.Retrieve)
}

func (w *World) Backward() bool {
	return w.run("backward", w.engine.Backward)
}

// Dump succeeds only if the engine reports a successful dump and no error.
func (w *World) Dump() bool {
	var ok bool
	if !w.run("dump", func() { ok = w.engine.Dump() }) {
		return false
	}
	if !ok {
		w.logger.Warn("Engine dump failed.", zap.Uint64("frame", w.engine.Frame()))
	}
	return ok
}

func (w *World) Recover(frame uint64) bool {
	if w.scene == nil {
		w.logger.Warn("Recover() is called before Init().", zap.Uint64("frame", frame))
		w.metrics.Call("recover", metrics.OutcomeSkipped)
		return false
	}
	var ok bool
	if !w.run("recover", func() { ok = w.engine.Recover(frame) }) {
		return false
	}
	if !ok {
		w.logger.Warn("Engine recover failed.", zap.Uint64("frame", frame))
	}
	return ok
}

// Frame is 0 unless the world is valid.
func (w *World) Frame() uint64 {
	if w.state != Valid {
		return 0
	}
	return w.engine.Frame()
}

func (w *World) run(op string, call func()) bool {
	if w.state != Valid {
		w.logger.Warn("World is not valid, skipping "+op+".", zap.Stringer("state", w.state))
		w.metrics.Call(op, metrics.OutcomeSkipped)
		return false
	}
	call()
	return w.settle(op, Valid)
}

// settle checks the engine status after a delegated call.
func (w *World) settle(op string, from State) bool {
	if status := w.engine.Status(); status.HasError() {
		w.logger.Error("Engine error, world is invalid.", zap.String("op", op), zap.Error(status.Err))
		w.transition(Invalid)
		w.metrics.Call(op, metrics.OutcomeFailed)
		return false
	}
	if from != Valid {
		w.transition(Valid)
	}
	w.metrics.Call(op, metrics.OutcomeOK)
	w.metrics.SetFrame(w.engine.Frame())
	return true
}

func (w *World) transition(to State) {
	if w.state == to {
		return
	}
	w.logger.Debug("world state changed", zap.Stringer("from", w.state), zap.Stringer("to", to))
	w.metrics.Transition(w.state.String(), to.String())
	w.state = to
}
