// Package viz is the terminal host for the particle field.
//
// The package implements a Bubble Tea program around [anim.Animator]:
//
//   - [Canvas]: braille surface with per-dot colour and intensity
//   - [Model]: live view with a stats panel and frame-time chart
//   - a preset launcher built by [NewLauncher]
//
// Mouse motion inside the canvas drives the interaction particle, a held
// left button paints new particles, and leaving the canvas or losing
// terminal focus counts as the pointer leaving.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reseed the field
//	T     - Cycle color themes
//	G     - Toggle particle glow
//	S     - Toggle scanlines
//	?     - Show help
//	Q     - Quit
package viz
