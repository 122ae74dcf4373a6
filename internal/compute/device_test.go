package compute

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCPUDevice_CoversRange(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		workers  int
		minChunk int
	}{
		{"serial", 10, 4, 64},
		{"exact", 256, 4, 64},
		{"ragged", 1001, 8, 16},
		{"more workers than elements", 3, 16, 1},
		{"single worker", 500, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewCPUDevice(tt.workers)
			dev.SetMinChunk(tt.minChunk)
			hits := make([]int32, tt.n)

			err := ParallelFor(dev, tt.n, func(start, end int) error {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
				return nil
			})
			require.NoError(t, err)
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("element %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestCPUDevice_SynchronizeIsBarrier(t *testing.T) {
	dev := NewCPUDevice(4)
	dev.SetMinChunk(1)

	counts := []int{3, 5, 2}
	var written atomic.Int32
	dev.Launch(len(counts), func(start, end int) error {
		for i := start; i < end; i++ {
			written.Add(int32(counts[i]))
		}
		return nil
	})
	require.NoError(t, dev.Synchronize())
	assert.Equal(t, int32(10), written.Load())

	// nothing outstanding
	require.NoError(t, dev.Synchronize())
}

func TestCPUDevice_KernelError(t *testing.T) {
	dev := NewCPUDevice(2)
	dev.SetMinChunk(1)
	errBad := errors.New("bad element")

	err := ParallelFor(dev, 8, func(start, end int) error {
		if start == 0 {
			return errBad
		}
		return nil
	})
	assert.ErrorIs(t, err, errBad)

	// the next launch starts from a clean group
	require.NoError(t, ParallelFor(dev, 8, func(int, int) error { return nil }))
}

func TestCPUDevice_KernelPanic(t *testing.T) {
	dev := NewCPUDevice(2)
	errRange := errors.New("out of range")

	err := ParallelFor(dev, 4, func(start, end int) error {
		panic(errRange)
	})
	assert.ErrorIs(t, err, ErrKernelPanic)
	assert.ErrorIs(t, err, errRange)

	err = ParallelFor(dev, 4, func(start, end int) error {
		panic("plain")
	})
	assert.ErrorIs(t, err, ErrKernelPanic)
	assert.Contains(t, err.Error(), "plain")
}

func TestCPUDevice_EmptyLaunch(t *testing.T) {
	dev := NewCPUDevice(0)
	assert.Positive(t, dev.Workers())
	called := false
	require.NoError(t, ParallelFor(dev, 0, func(int, int) error {
		called = true
		return nil
	}))
	assert.False(t, called)
	dev.Cleanup()
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{"cpu", "cpu", nil},
		{"", "cpu", nil},
		{"auto", "cpu", nil},
		{"cuda", "", ErrDeviceUnavailable},
		{"tpu", "", ErrDeviceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, err := Select(tt.name, 2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, dev.Name())
			assert.True(t, dev.Available())
		})
	}
}

func TestCUDAStub(t *testing.T) {
	dev := NewCUDADevice(2)
	assert.False(t, dev.Available())
	assert.Equal(t, "cuda (not available)", dev.Name())

	out := make([]int, 5)
	require.NoError(t, ParallelFor(dev, len(out), func(start, end int) error {
		for i := start; i < end; i++ {
			out[i] = i
		}
		return nil
	}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, out)
}

func TestBuffer(t *testing.T) {
	b := NewBuffer[float64](3)
	assert.Equal(t, 3, b.Len())
	assert.False(t, b.Resize(3))

	dev := NewCPUDevice(2)
	b.Fill(dev, 1.5)
	require.NoError(t, dev.Synchronize())
	assert.Equal(t, []float64{1.5, 1.5, 1.5}, b.View())

	assert.True(t, b.Resize(5))
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, b.View())

	b.Upload([]float64{1, 2})
	dst := make([]float64, 4)
	assert.Equal(t, 2, b.Download(dst))
	assert.Equal(t, []float64{1, 2, 0, 0}, dst)
}
