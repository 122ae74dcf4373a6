// Package sanity validates a scene before a world binds it.
//
// Each [Checker] returns one of three results:
//
//   - Success: the scene passed
//   - Warning: the message is logged and binding proceeds
//   - Error: the world becomes invalid before the engine is touched
//
// [Collection.Check] runs every checker and returns the most severe result.
package sanity
