package world_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/ipcsim/internal/config"
	"github.com/san-kum/ipcsim/internal/geometry"
	"github.com/san-kum/ipcsim/internal/metrics"
	"github.com/san-kum/ipcsim/internal/scene"
	"github.com/san-kum/ipcsim/internal/world"
)

var errBoom = errors.New("boom")

// fakeEngine records calls and fails on the call named in failOn.
type fakeEngine struct {
	calls  []string
	frame  uint64
	failOn string
	dumpOK bool
	err    error
	inited *scene.Scene
	dumped map[uint64]bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{dumpOK: true, dumped: map[uint64]bool{}}
}

func (e *fakeEngine) record(op string) {
	e.calls = append(e.calls, op)
	if op == e.failOn {
		e.err = errBoom
	}
}

func (e *fakeEngine) Init(s *scene.Scene) { e.inited = s; e.record("init") }
func (e *fakeEngine) Advance()            { e.frame++; e.record("advance") }
func (e *fakeEngine) Sync()               { e.record("sync") }
func (e *fakeEngine) Retrieve()           { e.record("retrieve") }
func (e *fakeEngine) Backward()           { e.record("backward") }
func (e *fakeEngine) Frame() uint64       { return e.frame }
func (e *fakeEngine) Status() world.Status {
	return world.Status{Err: e.err}
}

func (e *fakeEngine) Dump() bool {
	e.record("dump")
	if e.dumpOK {
		e.dumped[e.frame] = true
	}
	return e.dumpOK
}

func (e *fakeEngine) Recover(frame uint64) bool {
	e.record("recover")
	if !e.dumped[frame] {
		return false
	}
	e.frame = frame
	return true
}

func cubeScene(cfg *config.Config) *scene.Scene {
	s := scene.New(cfg)
	abd := scene.AffineBody()
	s.ConstitutionTabular().Insert(abd)
	cube := geometry.UnitCube()
	Expect(abd.ApplyTo(cube)).To(Succeed())
	s.Objects().Create("cube").Geometries().Create(cube)
	return s
}

var _ = Describe("World", func() {
	var (
		engine *fakeEngine
		w      *world.World
		logs   *observer.ObservedLogs
		rec    *metrics.Recorder
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		rec = metrics.NewRecorder()
		engine = newFakeEngine()
		w = world.New(engine, world.WithLogger(zap.New(core)), world.WithMetrics(rec))
	})

	Context("before Init", func() {
		It("starts unbound and refuses lifecycle calls", func() {
			Expect(w.State()).To(Equal(world.Unbound))
			Expect(w.Advance()).To(BeFalse())
			Expect(w.Sync()).To(BeFalse())
			Expect(w.Dump()).To(BeFalse())
			Expect(w.Frame()).To(BeZero())
			Expect(engine.calls).To(BeEmpty())
		})

		It("warns when Recover is called without a scene", func() {
			Expect(w.Recover(3)).To(BeFalse())
			Expect(logs.FilterMessage("Recover() is called before Init().").Len()).To(Equal(1))
			Expect(engine.calls).To(BeEmpty())
		})

		It("rejects a nil scene", func() {
			Expect(w.Init(nil)).To(BeFalse())
			Expect(w.State()).To(Equal(world.Unbound))
		})
	})

	Context("with a sane scene", func() {
		BeforeEach(func() {
			Expect(w.Init(cubeScene(nil))).To(BeTrue())
		})

		It("becomes valid and delegates every call", func() {
			Expect(w.State()).To(Equal(world.Valid))
			Expect(w.Advance()).To(BeTrue())
			Expect(w.Sync()).To(BeTrue())
			Expect(w.Retrieve()).To(BeTrue())
			Expect(w.Backward()).To(BeTrue())
			Expect(w.Dump()).To(BeTrue())
			Expect(w.Frame()).To(Equal(uint64(1)))
			Expect(engine.calls).To(Equal([]string{"init", "advance", "sync", "retrieve", "backward", "dump"}))

			n, err := testutil.GatherAndCount(rec.Registry(), "ipcsim_world_calls_total")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(6))
		})

		It("recovers a dumped frame", func() {
			Expect(w.Advance()).To(BeTrue())
			Expect(w.Dump()).To(BeTrue())
			Expect(w.Advance()).To(BeTrue())
			Expect(w.Frame()).To(Equal(uint64(2)))

			Expect(w.Recover(1)).To(BeTrue())
			Expect(w.Frame()).To(Equal(uint64(1)))
		})

		It("stays valid when the engine declines a recover", func() {
			Expect(w.Recover(42)).To(BeFalse())
			Expect(w.IsValid()).To(BeTrue())
		})

		It("stays valid when a dump is declined", func() {
			engine.dumpOK = false
			Expect(w.Dump()).To(BeFalse())
			Expect(w.IsValid()).To(BeTrue())
		})

		It("refuses a second Init", func() {
			Expect(w.Init(cubeScene(nil))).To(BeFalse())
			Expect(w.IsValid()).To(BeTrue())
		})

		DescribeTable("an engine error is terminal",
			func(op string, call func(*world.World) bool) {
				engine.failOn = op
				Expect(call(w)).To(BeFalse())
				Expect(w.State()).To(Equal(world.Invalid))

				before := len(engine.calls)
				Expect(w.Advance()).To(BeFalse())
				Expect(w.Sync()).To(BeFalse())
				Expect(w.Retrieve()).To(BeFalse())
				Expect(w.Backward()).To(BeFalse())
				Expect(w.Dump()).To(BeFalse())
				Expect(w.Recover(0)).To(BeFalse())
				Expect(w.Frame()).To(BeZero())
				Expect(engine.calls).To(HaveLen(before))
				Expect(w.State()).To(Equal(world.Invalid))
			},
			Entry("advance", "advance", (*world.World).Advance),
			Entry("sync", "sync", (*world.World).Sync),
			Entry("retrieve", "retrieve", (*world.World).Retrieve),
			Entry("backward", "backward", (*world.World).Backward),
			Entry("dump", "dump", (*world.World).Dump),
			Entry("recover", "recover", func(w *world.World) bool { return w.Recover(0) }),
		)

		It("counts skipped calls after invalidation", func() {
			engine.failOn = "advance"
			w.Advance()
			w.Advance()
			w.Advance()
			Expect(logs.FilterMessage("World is not valid, skipping advance.").Len()).To(Equal(2))
		})
	})

	Context("sanity checks", func() {
		It("invalidates before touching the engine on error", func() {
			s := cubeScene(nil)
			geo := s.Geometries()[0].Geometry
			geo.Positions().Set(0, geometry.Vector3{math.NaN(), 0, 0})

			Expect(w.Init(s)).To(BeFalse())
			Expect(w.State()).To(Equal(world.Invalid))
			Expect(engine.calls).To(BeEmpty())
			Expect(w.Frame()).To(BeZero())
		})

		It("skips the checks when disabled", func() {
			cfg := config.DefaultConfig()
			cfg.SanityCheck.Enable = false
			s := cubeScene(cfg)
			s.Geometries()[0].Geometry.Positions().Set(0, geometry.Vector3{math.Inf(1), 0, 0})

			Expect(w.Init(s)).To(BeTrue())
			Expect(w.IsValid()).To(BeTrue())
			Expect(engine.inited).To(BeIdenticalTo(s))
		})

		It("proceeds on warnings", func() {
			s := scene.New(nil)
			s.Objects().Create("bare").Geometries().Create(geometry.UnitCube())

			Expect(w.Init(s)).To(BeTrue())
			Expect(logs.FilterLevelExact(zapcore.WarnLevel).Len()).To(BeNumerically(">=", 1))
		})
	})

	It("invalidates when engine init fails", func() {
		engine.failOn = "init"
		Expect(w.Init(cubeScene(nil))).To(BeFalse())
		Expect(w.State()).To(Equal(world.Invalid))
		Expect(w.Advance()).To(BeFalse())
	})

	It("renders states", func() {
		Expect(world.Unbound.String()).To(Equal("unbound"))
		Expect(world.Valid.String()).To(Equal("valid"))
		Expect(world.Invalid.String()).To(Equal("invalid"))
		Expect(world.State(7).String()).To(Equal("unknown"))
	})
})
