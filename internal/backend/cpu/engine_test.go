package cpu

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/san-kum/ipcsim/internal/attribute"
	"github.com/san-kum/ipcsim/internal/backend"
	"github.com/san-kum/ipcsim/internal/builtin"
	"github.com/san-kum/ipcsim/internal/compute"
	"github.com/san-kum/ipcsim/internal/config"
	"github.com/san-kum/ipcsim/internal/geometry"
	"github.com/san-kum/ipcsim/internal/metrics"
	"github.com/san-kum/ipcsim/internal/scene"
	"github.com/san-kum/ipcsim/internal/storage"
	"github.com/san-kum/ipcsim/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const eps = 1e-9

// fallOffset is how far a free vertex starting at rest drops in n frames.
func fallOffset(cfg *config.Config, n int) float64 {
	return cfg.Gravity[2] * cfg.Dt * cfg.Dt * float64(n*(n+1)) / 2
}

// addCube adds a unit cube with one instance per transform.
func addCube(t *testing.T, s *scene.Scene, c scene.Identity, transforms ...geometry.Matrix4x4) *scene.GeometrySlot {
	t.Helper()
	cube := geometry.UnitCube()
	if len(transforms) > 0 {
		cube.Instances().Resize(len(transforms))
		copy(cube.Transforms().MutView(), transforms)
	}
	s.ConstitutionTabular().Insert(c)
	require.NoError(t, c.ApplyTo(cube))

	obj := s.Objects().Create("cube")
	obj.Geometries().Create(cube)
	slots := s.Geometries()
	return slots[len(slots)-1]
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	e := NewEngine(opts...)
	t.Cleanup(e.Close)
	return e
}

func TestEngine_StatusBeforeInit(t *testing.T) {
	e := newTestEngine(t)
	assert.ErrorIs(t, e.Status().Err, ErrNotInitialized)
}

func TestEngine_WorldLifecycle(t *testing.T) {
	s := scene.New(nil)
	addCube(t, s, scene.AffineBody())

	rec := metrics.NewRecorder()
	e := newTestEngine(t, WithStore(storage.NewMemoryStore()), WithMetrics(rec), WithObservers(metrics.NewDisplacement()))
	w := world.New(e, world.WithLogger(zaptest.NewLogger(t)), world.WithMetrics(rec))

	require.True(t, w.Init(s))
	require.Equal(t, world.Valid, w.State())
	assert.Equal(t, 8, e.Vertices().Total())

	for i := 0; i < 3; i++ {
		require.True(t, w.Advance())
		require.True(t, w.Sync())
	}
	assert.Equal(t, uint64(3), w.Frame())

	want := fallOffset(s.Info(), 3)
	rest := e.Vertices().RestPositions()
	for i, p := range e.Vertices().Positions() {
		assert.InDelta(t, rest[i][2]+want, p[2], eps, "vertex %d", i)
		assert.InDelta(t, rest[i][0], p[0], eps)
	}

	assert.True(t, w.Retrieve())
	assert.True(t, w.Backward())
	assert.True(t, w.Dump())
	assert.Equal(t, world.Valid, w.State())
}

func TestEngine_SystemsShutDownSoftly(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Contact.Enable = false
	s := scene.New(cfg)
	addCube(t, s, scene.FiniteElement())

	e := newTestEngine(t)
	e.Init(s)
	require.NoError(t, e.Status().Err)

	var kinds []backend.Kind
	for _, sys := range e.Registry().Systems() {
		kinds = append(kinds, sys.Kind())
	}
	// no affine bodies, contact off and no store
	assert.Equal(t, []backend.Kind{KindGlobalVertexManager, KindFiniteElement}, kinds)

	e.Advance()
	require.NoError(t, e.Status().Err)
	assert.False(t, e.Dump())
	assert.False(t, e.Recover(0))
	assert.NoError(t, e.Status().Err)
}

func TestEngine_DeviceFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Workers = 3
	e := newTestEngine(t)
	e.Init(scene.New(cfg))
	require.NoError(t, e.Status().Err)
	require.IsType(t, &compute.CPUDevice{}, e.Device())
	assert.Equal(t, 3, e.Device().Workers())

	cfg = config.DefaultConfig()
	cfg.Backend = "tpu"
	e = newTestEngine(t)
	e.Init(scene.New(cfg))
	assert.ErrorIs(t, e.Status().Err, compute.ErrDeviceUnavailable)
	assert.Nil(t, e.Device())
}

func TestEngine_EmptyScene(t *testing.T) {
	e := newTestEngine(t)
	e.Init(scene.New(nil))
	require.NoError(t, e.Status().Err)
	assert.Equal(t, 0, e.Vertices().Total())

	e.Advance()
	require.NoError(t, e.Status().Err)
	assert.Equal(t, uint64(1), e.Frame())
}

func TestEngine_NonFinite(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Contact.Enable = false
	s := scene.New(cfg)

	cube := geometry.UnitCube()
	attribute.MustCreate(cube.Instances(), builtin.Velocity, geometry.Vector3{math.NaN(), 0, 0})
	s.ConstitutionTabular().Insert(scene.AffineBody())
	require.NoError(t, scene.AffineBody().ApplyTo(cube))
	s.Objects().Create("nan").Geometries().Create(cube)

	e := newTestEngine(t)
	w := world.New(e, world.WithLogger(zaptest.NewLogger(t)))
	require.True(t, w.Init(s))

	assert.False(t, w.Advance())
	assert.Equal(t, world.Invalid, w.State())
	assert.ErrorIs(t, e.Status().Err, ErrNonFinite)
}

func TestEngine_Intersection(t *testing.T) {
	s := scene.New(nil)
	addCube(t, s, scene.AffineBody(), geometry.Identity(), geometry.Identity())

	e := newTestEngine(t)
	e.Init(s)
	require.NoError(t, e.Status().Err)
	assert.Equal(t, 16, e.Vertices().Total())

	e.Advance()
	assert.ErrorIs(t, e.Status().Err, ErrIntersection)
}

func TestEngine_ContactCandidates(t *testing.T) {
	s := scene.New(nil)
	addCube(t, s, scene.AffineBody(),
		geometry.Identity(),
		geometry.Translation(geometry.Vector3{1.005, 0, 0}))

	e := newTestEngine(t)
	e.Init(s)
	require.NoError(t, e.Status().Err)

	e.Advance()
	require.NoError(t, e.Status().Err)

	contact, ok := backend.Get[*ContactSystem](e.Registry(), KindContact)
	require.True(t, ok)
	assert.Equal(t, 4, contact.Candidates())
	assert.Greater(t, contact.Energy(), 0.0)
}

func TestEngine_DumpRecover(t *testing.T) {
	s := scene.New(nil)
	addCube(t, s, scene.FiniteElement())
	store := storage.NewMemoryStore()

	e := newTestEngine(t, WithStore(store))
	e.Init(s)
	require.NoError(t, e.Status().Err)

	e.Advance()
	e.Advance()
	require.True(t, e.Dump())
	saved := slices.Clone(e.Vertices().Positions())

	e.Advance()
	third := slices.Clone(e.Vertices().Positions())
	e.Advance()

	require.True(t, e.Recover(2))
	assert.Equal(t, uint64(2), e.Frame())
	assert.Equal(t, saved, e.Vertices().Positions())

	// resuming replays the same trajectory
	e.Advance()
	require.NoError(t, e.Status().Err)
	assert.Equal(t, third, e.Vertices().Positions())

	assert.False(t, e.Recover(42))
	assert.Equal(t, uint64(3), e.Frame())
	assert.NoError(t, e.Status().Err)

	frames, err := store.Frames()
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, frames)
}

func TestEngine_RetrieveAffineBody(t *testing.T) {
	s := scene.New(nil)
	offset := geometry.Vector3{5, 0, 0}
	slot := addCube(t, s, scene.AffineBody(), geometry.Identity(), geometry.Translation(offset))

	e := newTestEngine(t)
	e.Init(s)
	require.NoError(t, e.Status().Err)
	e.Advance()
	e.Advance()
	e.Retrieve()

	drop := geometry.Vector3{0, 0, fallOffset(s.Info(), 2)}
	transforms := slot.Geometry.Transforms()
	assert.InDeltaSlice(t, drop[:], pointSlice(transforms.At(0).TransformPoint(geometry.Vector3{})), eps)
	assert.InDeltaSlice(t, pointSlice(offset.Add(drop)), pointSlice(transforms.At(1).TransformPoint(geometry.Vector3{})), eps)

	// the rest geometry keeps its own copy
	rest := slot.Rest.Transforms()
	assert.True(t, rest.At(0).IsIdentity())
	assert.Equal(t, geometry.Translation(offset), rest.At(1))
	assert.False(t, transforms.IsShared())
}

func TestEngine_RetrieveFiniteElement(t *testing.T) {
	s := scene.New(nil)
	slot := addCube(t, s, scene.FiniteElement(), geometry.Translation(geometry.Vector3{0, 2, 0}))
	geometry.MustCreateAttribute(slot.Geometry.Vertices(), builtin.IsFixed, 0).Set(0, 1)

	e := newTestEngine(t)
	e.Init(s)
	require.NoError(t, e.Status().Err)
	e.Advance()
	e.Retrieve()

	drop := fallOffset(s.Info(), 1)
	pos := slot.Geometry.Positions().View()
	rest := slot.Rest.Positions().View()
	assert.Equal(t, geometry.Vector3{0, 2, 0}, pos[0], "fixed vertex must not move")
	for i := 1; i < len(pos); i++ {
		assert.InDelta(t, rest[i][1]+2, pos[i][1], eps)
		assert.InDelta(t, rest[i][2]+drop, pos[i][2], eps)
	}
	assert.True(t, slot.Geometry.Transforms().At(0).IsIdentity())
	assert.Equal(t, geometry.Vector3{1, 1, 1}, rest[7])
	assert.Equal(t, geometry.Translation(geometry.Vector3{0, 2, 0}), slot.Rest.Transforms().At(0))
}

func TestEngine_FixedInstance(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Contact.Enable = false
	s := scene.New(cfg)

	cube := geometry.UnitCube()
	cube.Instances().Resize(2)
	cube.Transforms().Set(1, geometry.Translation(geometry.Vector3{3, 0, 0}))
	attribute.MustCreate(cube.Instances(), builtin.IsFixed, 0).Set(1, 1)
	s.ConstitutionTabular().Insert(scene.AffineBody())
	require.NoError(t, scene.AffineBody().ApplyTo(cube))
	s.Objects().Create("pair").Geometries().Create(cube)

	e := newTestEngine(t)
	e.Init(s)
	require.NoError(t, e.Status().Err)
	e.Advance()

	require.Equal(t, 1, e.Vertices().Layout().Len())
	pos, rest := e.Vertices().Positions(), e.Vertices().RestPositions()
	for i := 0; i < 8; i++ {
		assert.NotEqual(t, rest[i], pos[i])
	}
	// rest positions are in world space, so the fixed copy stays on them
	for i := 8; i < 16; i++ {
		assert.Equal(t, rest[i], pos[i])
		assert.GreaterOrEqual(t, pos[i][0], 3.0)
	}
}

// flakySystem fails its first step.
type flakySystem struct {
	backend.SystemBase
	steps int
}

func (f *flakySystem) Kind() backend.Kind                  { return "flaky" }
func (f *flakySystem) Name() string                        { return "flaky" }
func (f *flakySystem) Build(info *backend.BuildInfo) error { return nil }

func (f *flakySystem) Step(frame uint64) error {
	f.steps++
	return errors.New("diverged")
}

func TestEngine_StepFailureInvalidatesSystem(t *testing.T) {
	s := scene.New(nil)
	addCube(t, s, scene.AffineBody())

	flaky := &flakySystem{}
	factories := append(DefaultSystems(), func(*Engine) backend.SimSystem { return flaky })
	e := newTestEngine(t, WithSystems(factories...))
	e.Init(s)
	require.NoError(t, e.Status().Err)

	e.Advance()
	e.Advance()
	require.NoError(t, e.Status().Err)
	assert.False(t, flaky.IsValid())
	assert.Equal(t, 1, flaky.steps)
	assert.Equal(t, uint64(2), e.Frame())
}

func TestBarrier(t *testing.T) {
	const dHat = 0.01
	assert.Zero(t, Barrier(dHat, dHat))
	assert.Zero(t, Barrier(2*dHat, dHat))
	assert.Greater(t, Barrier(dHat/2, dHat), 0.0)
	assert.Greater(t, Barrier(dHat/100, dHat), Barrier(dHat/2, dHat))
}

func pointSlice(v geometry.Vector3) []float64 { return v[:] }
