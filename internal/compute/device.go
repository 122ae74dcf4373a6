package compute

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceUnavailable indicates the requested device cannot run here.
	ErrDeviceUnavailable = errors.New("compute: device unavailable")

	// ErrKernelPanic indicates a kernel chunk panicked.
	ErrKernelPanic = errors.New("compute: kernel panicked")
)

// Kernel processes the half-open element range [start, end).
type Kernel func(start, end int) error

type Device interface {
	Name() string
	Available() bool
	Workers() int
	Launch(n int, kernel Kernel)
	Synchronize() error
	Cleanup()
}

// Select returns the device named by name: "cpu", "cuda" or "auto".
func Select(name string, workers int) (Device, error) {
	switch name {
	case "", "auto":
		return AutoSelectDevice(workers), nil
	case "cpu":
		return NewCPUDevice(workers), nil
	case "cuda":
		cuda := NewCUDADevice(workers)
		if !cuda.Available() {
			return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, cuda.Name())
		}
		return cuda, nil
	}
	return nil, fmt.Errorf("%w: unknown device %q", ErrDeviceUnavailable, name)
}

func AutoSelectDevice(workers int) Device {
	cuda := NewCUDADevice(workers)
	if cuda.Available() {
		return cuda
	}
	return NewCPUDevice(workers)
}

// ParallelFor launches kernel on dev and waits for it.
func ParallelFor(dev Device, n int, kernel Kernel) error {
	dev.Launch(n, kernel)
	return dev.Synchronize()
}
