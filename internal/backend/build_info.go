package backend

import (
	"fmt"

	"github.com/san-kum/ipcsim/internal/compute"
	"github.com/san-kum/ipcsim/internal/metrics"
	"github.com/san-kum/ipcsim/internal/scene"
	"go.uber.org/zap"
)

// Env is what every system sees while building.
type Env struct {
	Scene   *scene.Scene
	Device  compute.Device
	Metrics *metrics.Recorder
}

// BuildInfo is passed to SimSystem.Build. Logger is scoped to the system.
type BuildInfo struct {
	Env
	Logger *zap.Logger

	registry *Registry
}

// Require builds the system registered under kind and returns it. A missing
// or invalid dependency is a soft failure for the caller.
func (b *BuildInfo) Require(kind Kind) (SimSystem, error) {
	dep, ok := b.registry.byKind[kind]
	if !ok {
		return nil, Shutdown("requires %s, which is not registered", kind)
	}
	if err := b.registry.build(dep, b.Env); err != nil {
		return nil, err
	}
	if !dep.IsValid() {
		return nil, Shutdown("requires %s, which is shut down", dep.Name())
	}
	return dep, nil
}

// Optional builds and returns the system under kind if it is registered and
// valid. A fatal build error of the dependency is still reported by
// Registry.BuildSystems.
func (b *BuildInfo) Optional(kind Kind) (SimSystem, bool) {
	dep, err := b.Require(kind)
	return dep, err == nil
}

// Require is BuildInfo.Require with a typed result.
func Require[T SimSystem](info *BuildInfo, kind Kind) (T, error) {
	var zero T
	dep, err := info.Require(kind)
	if err != nil {
		return zero, err
	}
	typed, ok := dep.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrKindMismatch, kind, dep)
	}
	return typed, nil
}
