package metrics

import "math"

// Stability is the fraction of frames whose largest vertex step stayed under
// threshold. A non-finite step always counts against it.
type Stability struct {
	threshold float64
	unstable  int
	frames    int
	maxStep   float64
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(f Frame) {
	s.frames++
	step := 0.0
	for _, d := range f.Displacements {
		if !d.IsFinite() {
			step = math.Inf(1)
			break
		}
		step = max(step, d.Norm())
	}
	s.maxStep = max(s.maxStep, step)
	if step > s.threshold {
		s.unstable++
	}
}

func (s *Stability) Value() float64 {
	if s.frames == 0 {
		return 1
	}
	return 1 - float64(s.unstable)/float64(s.frames)
}

// MaxStep is the largest single-vertex displacement observed.
func (s *Stability) MaxStep() float64 { return s.maxStep }

func (s *Stability) Reset() {
	*s = Stability{threshold: s.threshold}
}
