// Package world drives an [Engine] through a scene's lifecycle.
//
// A World moves through three states:
//
//	Unbound --Init--> Valid --error--> Invalid
//	   |                                  ^
//	   +-----------sanity Error-----------+
//
// Invalid is terminal. Every lifecycle call made while the world is not
// Valid is a no-op that returns false, and Frame reports 0. Failures surface
// as return values and state, never as panics.
package world
