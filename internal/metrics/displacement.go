package metrics

type Displacement struct {
	name    string
	sum     float64
	samples int
}

func NewDisplacement() *Displacement {
	return &Displacement{
		name: "displacement",
	}
}

func (d *Displacement) Name() string {
	return d.name
}

func (d *Displacement) Observe(f Frame) {
	for _, v := range f.Displacements {
		d.sum += v.Norm()
		d.samples++
	}
}

func (d *Displacement) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *Displacement) Reset() {
	d.sum = 0
	d.samples = 0
}
