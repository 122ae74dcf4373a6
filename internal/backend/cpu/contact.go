package cpu

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/san-kum/ipcsim/internal/backend"
	"github.com/san-kum/ipcsim/internal/compute"
	"github.com/san-kum/ipcsim/internal/scene"
)

const KindContact backend.Kind = "contact"

// ContactSystem evaluates the log barrier of every vertex pair closer than
// d_hat, scaled by the pair's contact model. Two vertices at zero distance
// are an intersection, which is an engine error.
type ContactSystem struct {
	backend.SystemBase

	device   compute.Device
	vertices *GlobalVertexManager
	tabular  *scene.ContactTabular
	dHat     float64

	candidates int
	energy     float64
}

func NewContactSystem() *ContactSystem {
	return &ContactSystem{}
}

func (c *ContactSystem) Kind() backend.Kind { return KindContact }
func (c *ContactSystem) Name() string       { return string(KindContact) }

func (c *ContactSystem) Build(info *backend.BuildInfo) error {
	cfg := info.Scene.Info()
	if !cfg.Contact.Enable {
		return backend.Shutdown("contact is disabled")
	}
	vm, err := backend.Require[*GlobalVertexManager](info, KindGlobalVertexManager)
	if err != nil {
		return err
	}
	c.device = info.Device
	c.vertices = vm
	c.tabular = info.Scene.ContactTabular()
	c.dHat = cfg.Contact.DHat
	c.SetEngineAware(true)
	return nil
}

// Candidates is the number of pairs within d_hat at the last step.
func (c *ContactSystem) Candidates() int { return c.candidates }

// Energy is the barrier energy at the last step.
func (c *ContactSystem) Energy() float64 { return c.energy }

// Barrier is the IPC log barrier -(d - dHat)^2 ln(d / dHat), zero beyond dHat.
func Barrier(d, dHat float64) float64 {
	if d >= dHat {
		return 0
	}
	return -(d - dHat) * (d - dHat) * math.Log(d/dHat)
}

func (c *ContactSystem) Step(frame uint64) error {
	pos := c.vertices.Positions()
	ids := c.vertices.ContactElementIDs()
	n := len(pos)

	var candidates, intersections atomic.Int64
	partial := make([]float64, n)
	err := compute.ParallelFor(c.device, n, func(start, end int) error {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				d := pos[i].Sub(pos[j]).Norm()
				if d >= c.dHat {
					continue
				}
				if d == 0 {
					intersections.Add(1)
					continue
				}
				candidates.Add(1)
				kappa := c.tabular.Model(ids[i], ids[j]).Resistance
				partial[i] += kappa * Barrier(d, c.dHat)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.candidates = int(candidates.Load())
	c.energy = 0
	for _, e := range partial {
		c.energy += e
	}
	if k := intersections.Load(); k > 0 {
		return fmt.Errorf("%w: %d pairs at frame %d", ErrIntersection, k, frame)
	}
	return nil
}
