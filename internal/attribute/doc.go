// Package attribute provides named, typed columnar storage for geometric
// entities.
//
// The package defines two building blocks:
//
//   - [Slot]: a dense column of per-element values with copy-on-write sharing
//   - [Collection]: a set of slots that always share one row count
//
// # Sharing
//
// Slots are backed by reference-counted storage. [Collection.Share] and
// [CopySame] alias storage instead of copying it; the first mutating access
// through a handle ([Slot.MutView], [Slot.Set], structural resizes) clones the
// storage if anyone else still owns it:
//
//	rest := verts.Share()
//	mass, _ := attribute.Find[float64](verts, "mass")
//	mass.Set(0, 2) // verts clones privately, rest keeps the original values
//
// # Thread Safety
//
// A Collection is NOT safe for concurrent structural mutation. Readers of a
// still-shared slot never race with a writer on another handle, because the
// writer always clones before it writes.
package attribute
