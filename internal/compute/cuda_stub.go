//go:build !cuda

package compute

// CUDADevice stands in for the GPU device in builds without the cuda tag.
// It reports itself unavailable and runs kernels on the CPU if used anyway.
type CUDADevice struct {
	*CPUDevice
}

func NewCUDADevice(workers int) *CUDADevice {
	return &CUDADevice{CPUDevice: NewCPUDevice(workers)}
}

func (c *CUDADevice) Name() string    { return "cuda (not available)" }
func (c *CUDADevice) Available() bool { return false }
