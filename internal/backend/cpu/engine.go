package cpu

import (
	"errors"
	"fmt"

	"github.com/san-kum/ipcsim/internal/backend"
	"github.com/san-kum/ipcsim/internal/compute"
	"github.com/san-kum/ipcsim/internal/geometry"
	"github.com/san-kum/ipcsim/internal/logging"
	"github.com/san-kum/ipcsim/internal/metrics"
	"github.com/san-kum/ipcsim/internal/scene"
	"github.com/san-kum/ipcsim/internal/storage"
	"github.com/san-kum/ipcsim/internal/world"
	"go.uber.org/zap"
)

// ErrNotInitialized is the status of an engine used before Init.
var ErrNotInitialized = errors.New("cpu: engine is not initialized")

// stepper is a system that runs once per frame after the displacements
// are applied.
type stepper interface {
	backend.SimSystem
	Step(frame uint64) error
}

// Engine is the cpu backend. It is not safe for concurrent use.
type Engine struct {
	logger    *zap.Logger
	metrics   *metrics.Recorder
	store     storage.Store
	device    compute.Device
	ownDevice bool
	factories []SystemFactory
	observers []metrics.Observer

	scene    *scene.Scene
	registry *backend.Registry
	vertices *GlobalVertexManager
	dump     *DumpSystem

	frame uint64
	err   error
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithStore enables Dump and Recover against s.
func WithStore(s storage.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithDevice overrides the device selected by the scene config's backend.
// The engine does not clean it up.
func WithDevice(d compute.Device) Option {
	return func(e *Engine) { e.device = d }
}

// WithSystems replaces the system table.
func WithSystems(factories ...SystemFactory) Option {
	return func(e *Engine) { e.factories = factories }
}

func WithObservers(observers ...metrics.Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, observers...) }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:    zap.NewNop(),
		factories: DefaultSystems(),
		err:       ErrNotInitialized,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ world.Engine = (*Engine)(nil)

func (e *Engine) AddObserver(o metrics.Observer) { e.observers = append(e.observers, o) }

func (e *Engine) Registry() *backend.Registry    { return e.registry }
func (e *Engine) Vertices() *GlobalVertexManager { return e.vertices }
func (e *Engine) Observers() []metrics.Observer  { return e.observers }
func (e *Engine) Device() compute.Device         { return e.device }
func (e *Engine) Frame() uint64                  { return e.frame }
func (e *Engine) Status() world.Status           { return world.Status{Err: e.err} }

func (e *Engine) fail(op string, err error) {
	e.err = fmt.Errorf("cpu: %s: %w", op, err)
	e.logger.Error("engine error", zap.String("op", op), zap.Error(err))
}

func (e *Engine) Init(s *scene.Scene) {
	e.err = nil
	e.scene = s
	cfg := s.Info()

	if e.device == nil {
		dev, err := compute.Select(cfg.Backend, cfg.Workers)
		if err != nil {
			e.fail("init", err)
			return
		}
		e.device = dev
		e.ownDevice = true
	}
	e.logger.Info("initializing engine",
		zap.String("device", e.device.Name()),
		zap.Int("workers", e.device.Workers()),
		zap.Int("geometries", len(s.Geometries())))

	e.registry = backend.NewRegistry(e.logger, e.metrics)
	for _, f := range e.factories {
		e.registry.Create(f(e))
	}

	env := backend.Env{Scene: s, Device: e.device, Metrics: e.metrics}
	if err := e.registry.BuildSystems(env); err != nil {
		e.fail("init", err)
		return
	}
	e.registry.CleanupInvalidSystems()

	vm, ok := backend.Get[*GlobalVertexManager](e.registry, KindGlobalVertexManager)
	if !ok {
		e.fail("init", fmt.Errorf("%s is not available", KindGlobalVertexManager))
		return
	}
	e.vertices = vm
	e.dump, _ = backend.Get[*DumpSystem](e.registry, KindDump)

	if err := vm.Rebuild(); err != nil {
		e.fail("init", err)
		return
	}
	e.logger.Debug("engine initialized", zap.Stringer("systems", e.registry), zap.Int("vertices", vm.Total()))
}

func (e *Engine) Advance() {
	vm := e.vertices
	if err := vm.Collect(e.frame); err != nil {
		e.fail("advance", err)
		return
	}
	if err := vm.Apply(); err != nil {
		e.fail("advance", err)
		return
	}

	next := e.frame + 1
	for _, sys := range e.registry.Systems() {
		st, ok := sys.(stepper)
		if !ok || !st.IsValid() {
			continue
		}
		if err := st.Step(next); err != nil {
			if st.IsEngineAware() {
				e.fail("advance", err)
				return
			}
			e.registry.Invalidate(st, err.Error())
			vm.MarkDirty()
		}
	}

	if err := vm.CheckFinite(); err != nil {
		e.fail("advance", err)
		return
	}
	e.frame = next
	e.observe()
}

func (e *Engine) observe() {
	if len(e.observers) == 0 {
		return
	}
	f := metrics.Frame{
		Index:         e.frame,
		Dt:            e.scene.Info().Dt,
		Gravity:       geometry.Vector3(e.scene.Info().Gravity),
		Positions:     e.vertices.Positions(),
		Displacements: e.vertices.Displacements(),
	}
	for _, o := range e.observers {
		o.Observe(f)
	}
	e.metrics.Publish(e.observers...)
}

func (e *Engine) Sync() {
	if err := e.device.Synchronize(); err != nil {
		e.fail("sync", err)
	}
}

// Retrieve writes the simulated state back into the scene geometries.
func (e *Engine) Retrieve() {
	for _, sys := range e.registry.Systems() {
		if r, ok := sys.(retriever); ok && r.IsValid() {
			r.Retrieve()
		}
	}
}

func (e *Engine) Backward() {
	e.logger.Debug("backward is not supported by the cpu engine")
}

// Dump saves the current frame. It returns false when dumping is disabled
// or the store rejects the frame.
func (e *Engine) Dump() bool {
	if e.dump == nil || !e.dump.IsValid() {
		e.logger.Debug("dump is not available")
		return false
	}
	observed := make(map[string]float64, len(e.observers))
	for _, o := range e.observers {
		observed[o.Name()] = o.Value()
	}
	if err := e.dump.Dump(e.frame, observed); err != nil {
		e.logger.Warn("dump failed", zap.Uint64("frame", e.frame), zap.Error(err))
		return false
	}
	return true
}

// Recover restores frame from the store. A missing or incompatible dump
// leaves the engine untouched and returns false.
func (e *Engine) Recover(frame uint64) bool {
	if e.dump == nil || !e.dump.IsValid() {
		e.logger.Debug("recover is not available")
		return false
	}
	if err := e.dump.Recover(frame); err != nil {
		e.logger.Warn("recover failed", zap.Uint64("frame", frame), zap.Error(err))
		return false
	}
	e.frame = frame
	return true
}

// Close releases the device if the engine created it.
func (e *Engine) Close() {
	if e.ownDevice && e.device != nil {
		e.device.Cleanup()
	}
}
