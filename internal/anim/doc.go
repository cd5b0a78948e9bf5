// Package anim runs a particle field as a frame loop.
//
// The loop follows the bubbletea command model: every frame request is a
// [tea.Cmd] that yields a [FrameMsg], and handling that message draws one
// frame and requests the next. Requests carry a generation token, so
// [Animator.Unmount] cancels the loop without touching the scheduler.
//
// Hosts pick a [Scheduler]:
//
//   - [TeaScheduler]: the terminal host, driven by the bubbletea runtime
//   - [DeferredScheduler] plus [Pump]: hosts that own their clock (the
//     desktop window, headless recording)
//   - [DeferredScheduler] alone: the browser, which fires [Deferred] frame
//     requests on requestAnimationFrame and the rest on setTimeout
//
// Holding the pointer down starts a second chain of [SpawnMsg] ticks at
// [DefaultSpawnInterval] that ends on pointer up, pointer leave or unmount.
// Touch input tracks like the pointer but never spawns.
package anim
