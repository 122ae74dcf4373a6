package compute

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultMinChunk is the smallest range a CPU kernel chunk covers.
const DefaultMinChunk = 64

type CPUDevice struct {
	workers  int
	minChunk int

	mu    sync.Mutex
	group *errgroup.Group
}

// NewCPUDevice returns a device with the given worker count; zero or less
// uses runtime.NumCPU.
func NewCPUDevice(workers int) *CPUDevice {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUDevice{
		workers:  workers,
		minChunk: DefaultMinChunk,
	}
}

// SetMinChunk changes the chunking threshold. Values below 1 are clamped.
func (c *CPUDevice) SetMinChunk(n int) { c.minChunk = max(n, 1) }

func (c *CPUDevice) Name() string    { return "cpu" }
func (c *CPUDevice) Available() bool { return true }
func (c *CPUDevice) Workers() int    { return c.workers }

func (c *CPUDevice) Cleanup() {
	_ = c.Synchronize()
}

func (c *CPUDevice) Launch(n int, kernel Kernel) {
	if n <= 0 {
		return
	}

	c.mu.Lock()
	if c.group == nil {
		c.group = new(errgroup.Group)
		c.group.SetLimit(c.workers)
	}
	g := c.group
	c.mu.Unlock()

	workers := c.workers
	if n/c.minChunk < workers {
		workers = n / c.minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			return runChunk(kernel, start, end)
		})
	}
}

func (c *CPUDevice) Synchronize() error {
	c.mu.Lock()
	g := c.group
	c.group = nil
	c.mu.Unlock()

	if g == nil {
		return nil
	}
	return g.Wait()
}

func runChunk(kernel Kernel, start, end int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: [%d, %d): %w", ErrKernelPanic, start, end, e)
				return
			}
			err = fmt.Errorf("%w: [%d, %d): %v", ErrKernelPanic, start, end, r)
		}
	}()
	return kernel(start, end)
}
