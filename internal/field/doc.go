// Package field implements the particle network simulation.
//
// A [Field] owns a population of drifting particles sized to the surface
// area, advances them once per frame and draws them, together with fading
// links between nearby pairs, onto a [Surface]:
//
//   - [Field.Resize]: reseeds the population for new surface dimensions
//   - [Field.Frame]: clears, draws links, then advances and draws particles
//   - [Field.PointerMove], [Field.PointerLeave]: drive the interaction particle
//   - [Field.SpawnBurst]: paint-trail spawning while the pointer is held
//
// # Thread Safety
//
// Field is NOT thread-safe. All calls are expected to come from the single
// goroutine that owns the frame loop (see package anim).
package field
