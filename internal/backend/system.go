package backend

// Kind is the registration token of a concrete system type. Each system type
// declares one constant Kind and always returns it.
type Kind string

// SimSystem is a backend system. Implementations embed SystemBase.
type SimSystem interface {
	Kind() Kind
	Name() string
	Build(info *BuildInfo) error

	IsValid() bool
	IsEngineAware() bool

	base() *SystemBase
}

type buildState int

const (
	unbuilt buildState = iota
	building
	built
)

// SystemBase carries the validity and engine-aware flags of a system.
type SystemBase struct {
	invalid     bool
	engineAware bool
	state       buildState
}

func (b *SystemBase) IsValid() bool       { return !b.invalid }
func (b *SystemBase) IsEngineAware() bool { return b.engineAware }

// SetEngineAware makes the engine treat this system's runtime errors as
// engine errors instead of shutting the system down.
func (b *SystemBase) SetEngineAware(aware bool) { b.engineAware = aware }

func (b *SystemBase) base() *SystemBase { return b }
