// Package compute provides the devices backend kernels run on.
//
// The package ships two devices:
//
//   - CPU: kernels are split into chunks and run on a bounded worker pool
//   - CUDA: placeholder that reports itself unavailable unless built with
//     the cuda tag
//
// # Launch and Synchronize
//
// Launch may return before the kernel finished. Synchronize is the barrier:
// it blocks until every launched kernel is done and reports the first kernel
// error. Callers must Synchronize before reading anything a kernel wrote.
//
//	dev := compute.NewCPUDevice(0)
//	dev.Launch(n, func(start, end int) error {
//		for i := start; i < end; i++ {
//			out[i] = in[i] * 2
//		}
//		return nil
//	})
//	if err := dev.Synchronize(); err != nil {
//		return err
//	}
//
// A kernel that panics does not crash the process; the panic is reported by
// Synchronize as an error wrapping [ErrKernelPanic].
package compute
