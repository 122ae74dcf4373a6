package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/ipcsim/internal/logging"
	"github.com/san-kum/ipcsim/internal/metrics"
	"go.uber.org/zap"
)

// Registry owns the systems of one engine. It is not safe for concurrent use.
type Registry struct {
	systems []SimSystem
	byKind  map[Kind]SimSystem
	fatal   error

	logger  *zap.Logger
	metrics *metrics.Recorder
}

func NewRegistry(logger *zap.Logger, rec *metrics.Recorder) *Registry {
	return &Registry{
		byKind:  make(map[Kind]SimSystem),
		logger:  logging.OrNop(logger),
		metrics: rec,
	}
}

// Create registers sys and returns it. Registering a second system of the
// same kind panics with ErrDuplicateSystem.
func (r *Registry) Create(sys SimSystem) SimSystem {
	kind := sys.Kind()
	if existing, ok := r.byKind[kind]; ok {
		panic(fmt.Errorf("%w: %s (registered by %s)", ErrDuplicateSystem, kind, existing.Name()))
	}
	r.systems = append(r.systems, sys)
	r.byKind[kind] = sys
	return sys
}

// BuildSystems builds every registered system in registration order. Soft
// failures shut their system down; the first other error is returned.
func (r *Registry) BuildSystems(env Env) error {
	for _, sys := range r.systems {
		if err := r.build(sys, env); err != nil {
			return err
		}
		if r.fatal != nil {
			return r.fatal
		}
	}
	r.metrics.SetActiveSystems(r.activeCount())
	return nil
}

func (r *Registry) build(sys SimSystem, env Env) error {
	b := sys.base()
	switch b.state {
	case built:
		return nil
	case building:
		err := fmt.Errorf("%w: %s", ErrDependencyCycle, sys.Name())
		if r.fatal == nil {
			r.fatal = err
		}
		return err
	}

	b.state = building
	err := sys.Build(&BuildInfo{
		Env:      env,
		Logger:   r.logger.With(zap.String("system", sys.Name())),
		registry: r,
	})
	b.state = built

	if err == nil {
		return nil
	}
	var soft *SoftFailure
	if errors.As(err, &soft) && !errors.Is(err, ErrDependencyCycle) {
		r.shutdown(sys, soft.Reason)
		return nil
	}
	// A fatal build error is kept even when a dependent swallows it.
	b.invalid = true
	err = fmt.Errorf("backend: build %s: %w", sys.Name(), err)
	if r.fatal == nil {
		r.fatal = err
	}
	return err
}

// Invalidate shuts sys down at runtime.
func (r *Registry) Invalidate(sys SimSystem, reason string) {
	if !sys.IsValid() {
		return
	}
	r.shutdown(sys, reason)
	r.metrics.SetActiveSystems(r.activeCount())
}

func (r *Registry) shutdown(sys SimSystem, reason string) {
	sys.base().invalid = true
	r.logger.Info("["+sys.Name()+"] shutdown", zap.String("reason", reason))
	r.metrics.SoftFailure(sys.Name())
}

// CleanupInvalidSystems drops every invalid system.
func (r *Registry) CleanupInvalidSystems() {
	kept := r.systems[:0]
	for _, sys := range r.systems {
		if sys.IsValid() {
			kept = append(kept, sys)
			continue
		}
		delete(r.byKind, sys.Kind())
		r.logger.Debug("removed invalid system", zap.String("system", sys.Name()))
	}
	clear(r.systems[len(kept):])
	r.systems = kept
	r.metrics.SetActiveSystems(r.activeCount())
}

func (r *Registry) Find(kind Kind) (SimSystem, bool) {
	sys, ok := r.byKind[kind]
	return sys, ok
}

// Get returns the system under kind as T.
func Get[T SimSystem](r *Registry, kind Kind) (T, bool) {
	sys, ok := r.byKind[kind].(T)
	return sys, ok
}

func (r *Registry) Len() int { return len(r.systems) }

// Systems returns the systems in registration order.
func (r *Registry) Systems() []SimSystem {
	out := make([]SimSystem, len(r.systems))
	copy(out, r.systems)
	return out
}

func (r *Registry) activeCount() int {
	n := 0
	for _, sys := range r.systems {
		if sys.IsValid() {
			n++
		}
	}
	return n
}

type SystemInfo struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	EngineAware bool   `json:"engine_aware"`
	Valid       bool   `json:"valid"`
}

func (r *Registry) Snapshot() []SystemInfo {
	out := make([]SystemInfo, 0, len(r.systems))
	for _, sys := range r.systems {
		out = append(out, SystemInfo{
			Name:        sys.Name(),
			Kind:        sys.Kind(),
			EngineAware: sys.IsEngineAware(),
			Valid:       sys.IsValid(),
		})
	}
	return out
}

func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

// String lists the systems, "> " marking engine-aware ones and "* " the rest.
func (r *Registry) String() string {
	var sb strings.Builder
	for _, sys := range r.systems {
		if sys.IsEngineAware() {
			sb.WriteString("> ")
		} else {
			sb.WriteString("* ")
		}
		sb.WriteString(sys.Name())
		sb.WriteByte('\n')
	}
	return sb.String()
}
