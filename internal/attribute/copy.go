package attribute

type copyKind int

const (
	copySame copyKind = iota
	copyRange
	copyPull
	copyPush
)

// Copy selects which rows CopyFrom moves between collections.
type Copy struct {
	kind      copyKind
	dstOffset int
	srcOffset int
	count     int
	indices   []int
}

// CopySame aliases the source storage row for row. Both sides must have the
// same row count.
func CopySame() Copy { return Copy{kind: copySame} }

// CopyRange copies count rows starting at srcOffset into dstOffset.
// CopyRange(0, i, 1) narrows an instanced collection to instance i.
func CopyRange(dstOffset, srcOffset, count int) Copy {
	return Copy{kind: copyRange, dstOffset: dstOffset, srcOffset: srcOffset, count: count}
}

// CopyPull sets dst[i] = src[indices[i]].
func CopyPull(indices []int) Copy { return Copy{kind: copyPull, indices: indices} }

// CopyPush sets dst[indices[i]] = src[i].
func CopyPush(indices []int) Copy { return Copy{kind: copyPush, indices: indices} }
