package compute

// Buffer is a device-resident array. On the CPU device it is plain memory.
type Buffer[T any] struct {
	data []T
}

func NewBuffer[T any](n int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, n)}
}

func (b *Buffer[T]) Len() int { return len(b.data) }

// Resize reallocates to n elements, zeroed, and reports whether it did.
// Resizing to the current length keeps the contents.
func (b *Buffer[T]) Resize(n int) bool {
	if n == len(b.data) {
		return false
	}
	b.data = make([]T, n)
	return true
}

func (b *Buffer[T]) View() []T { return b.data }

// Upload copies src into the buffer, resizing it to len(src).
func (b *Buffer[T]) Upload(src []T) {
	b.Resize(len(src))
	copy(b.data, src)
}

// Download copies the buffer into dst and returns the number of elements.
func (b *Buffer[T]) Download(dst []T) int {
	return copy(dst, b.data)
}

// Fill sets every element to v on dev. The caller synchronizes.
func (b *Buffer[T]) Fill(dev Device, v T) {
	data := b.data
	dev.Launch(len(data), func(start, end int) error {
		for i := start; i < end; i++ {
			data[i] = v
		}
		return nil
	})
}
