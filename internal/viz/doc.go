// Package viz provides a terminal view of a running world.
//
// The package implements a Bubble Tea model:
//
//   - [Watch]: advances a world on a timer and draws its vertices
//   - [Canvas]: Braille-based pixel canvas, two by four dots per cell
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single frame while paused
//	D     - Dump the current frame
//	U     - Recover the last dumped frame
//	?     - Show help overlay
//	Q     - Quit
package viz
