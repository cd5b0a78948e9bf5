package anim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/driftfield/internal/anim"
	"github.com/san-kum/driftfield/internal/field"
)

var _ = Describe("Animator", func() {
	var (
		sched   *countingScheduler
		surface *countingSurface
		f       *field.Field
		a       *anim.Animator
	)

	newAnimator := func(opts anim.Options) {
		var err error
		f, err = field.New(field.DefaultConfig(), 7)
		Expect(err).NotTo(HaveOccurred())
		a = anim.New(f, surface, sched, opts)
	}

	BeforeEach(func() {
		sched = &countingScheduler{}
		surface = &countingSurface{w: 1200, h: 800}
		newAnimator(anim.Options{})
	})

	Describe("mounting", func() {
		It("seeds the field and requests exactly one frame", func() {
			cmd := a.Mount(1200, 800)
			Expect(cmd).NotTo(BeNil())
			Expect(sched.calls).To(Equal(1))
			Expect(sched.delays[0]).To(Equal(time.Second / 60))
			Expect(f.Len()).To(Equal(80))
			Expect(a.Mounted()).To(BeTrue())
		})

		It("does nothing without a surface", func() {
			a = anim.New(f, nil, sched, anim.Options{})
			Expect(a.Mount(1200, 800)).To(BeNil())
			Expect(sched.calls).To(BeZero())
			Expect(a.Mounted()).To(BeFalse())
		})

		It("draws one revealed frame and schedules nothing under reduced motion", func() {
			newAnimator(anim.Options{ReducedMotion: true})
			Expect(a.Mount(1200, 800)).To(BeNil())
			Expect(sched.calls).To(BeZero())
			Expect(surface.clears).To(Equal(1))
			for _, p := range f.Particles() {
				Expect(p.Opacity).To(Equal(1.0))
			}
		})
	})

	Describe("the frame loop", func() {
		It("draws and reschedules on every current frame", func() {
			cmd := a.Mount(1200, 800)
			for i := 0; i < 5; i++ {
				cmd = a.Update(cmd())
				Expect(cmd).NotTo(BeNil())
			}
			Expect(sched.calls).To(Equal(6))
			Expect(surface.clears).To(Equal(5))
			Expect(a.Stats().Frames).To(Equal(5))
			Expect(a.Stats().FrameTimes).To(HaveLen(5))
		})

		It("drops a frame from an older generation", func() {
			stale := a.Mount(1200, 800)
			a.Restart()
			calls := sched.calls
			Expect(a.Update(stale())).To(BeNil())
			Expect(sched.calls).To(Equal(calls))
		})

		It("drops the interaction particle on unmount", func() {
			a.Mount(1200, 800)
			n := f.Len()
			a.Update(anim.PointerMsg{Kind: anim.PointerMove, X: 10, Y: 10})
			Expect(f.Len()).To(Equal(n + 1))

			a.Unmount()
			Expect(f.Len()).To(Equal(n))
			_, ok := f.Interaction()
			Expect(ok).To(BeFalse())
			Expect(f.PointerIsDown()).To(BeFalse())
		})

		It("schedules nothing after unmount", func() {
			cmd := a.Mount(1200, 800)
			cmd = a.Update(cmd())
			a.Unmount()
			calls := sched.calls

			Expect(a.Update(cmd())).To(BeNil())
			Expect(a.Update(anim.FrameMsg{Gen: 0})).To(BeNil())
			Expect(a.Update(anim.PointerMsg{Kind: anim.PointerDown, X: 5, Y: 5})).To(BeNil())
			Expect(a.Restart()).To(BeNil())
			Expect(sched.calls).To(Equal(calls))
		})
	})

	Describe("pausing", func() {
		It("drops the pending frame and resumes with a fresh one", func() {
			pending := a.Mount(1200, 800)
			a.Pause()
			Expect(a.Paused()).To(BeTrue())
			Expect(a.Update(pending())).To(BeNil())

			resumed := a.Resume()
			Expect(resumed).NotTo(BeNil())
			Expect(a.Update(resumed())).NotTo(BeNil())
			Expect(a.Stats().Frames).To(Equal(1))
		})

		It("does not spawn while paused", func() {
			a.Mount(1200, 800)
			a.Pause()
			Expect(a.Update(anim.PointerMsg{Kind: anim.PointerDown, X: 10, Y: 10})).To(BeNil())
			Expect(a.Spawning()).To(BeFalse())
		})

		It("ignores resume when not paused", func() {
			a.Mount(1200, 800)
			Expect(a.Resume()).To(BeNil())
		})
	})

	Describe("replacing the field", func() {
		It("remounts the new field at the current size", func() {
			a.Mount(600, 400)
			next, err := field.New(field.DefaultConfig(), 9)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Replace(next)).NotTo(BeNil())
			Expect(a.Field()).To(BeIdenticalTo(next))
			Expect(next.Len()).To(Equal(20))
		})

		It("leaves an unmounted animator unmounted", func() {
			next, _ := field.New(field.DefaultConfig(), 9)
			Expect(a.Replace(next)).To(BeNil())
			Expect(a.Mounted()).To(BeFalse())
			Expect(next.Len()).To(BeZero())
		})
	})

	Describe("resizing", func() {
		It("reseeds the population for the new area", func() {
			a.Mount(1200, 800)
			Expect(f.Len()).To(Equal(80))
			a.Update(anim.ResizeMsg{W: 600, H: 400})
			Expect(f.Len()).To(Equal(20))
		})

		It("clamps negative dimensions", func() {
			a.Mount(1200, 800)
			a.Update(anim.ResizeMsg{W: -1, H: -1})
			w, h := f.Size()
			Expect(w).To(BeZero())
			Expect(h).To(BeZero())
			Expect(f.Len()).To(BeZero())
		})
	})

	Describe("pointer input", func() {
		BeforeEach(func() {
			a.Mount(1200, 800)
		})

		It("adds one interaction particle and removes it on leave", func() {
			n := f.Len()
			a.Update(anim.PointerMsg{Kind: anim.PointerMove, X: 100, Y: 100})
			a.Update(anim.PointerMsg{Kind: anim.PointerMove, X: 120, Y: 140})
			Expect(f.Len()).To(Equal(n + 1))
			p, ok := f.Interaction()
			Expect(ok).To(BeTrue())
			Expect(p.X).To(Equal(120.0))

			a.Update(anim.PointerMsg{Kind: anim.PointerLeave})
			Expect(f.Len()).To(Equal(n))
			_, ok = f.Interaction()
			Expect(ok).To(BeFalse())
		})

		It("spawns every interval while held and stops on release", func() {
			n := f.Len()
			calls := sched.calls
			spawn := a.Update(anim.PointerMsg{Kind: anim.PointerDown, X: 300, Y: 300})
			Expect(spawn).NotTo(BeNil())
			Expect(sched.calls).To(Equal(calls + 1))
			Expect(sched.delays[len(sched.delays)-1]).To(Equal(anim.DefaultSpawnInterval))

			spawn = a.Update(spawn())
			spawn = a.Update(spawn())
			Expect(f.Len()).To(Equal(n + 1 + 2*field.DefaultSpawnBurst))

			a.Update(anim.PointerMsg{Kind: anim.PointerUp})
			Expect(a.Spawning()).To(BeFalse())
			calls = sched.calls
			Expect(a.Update(spawn())).To(BeNil())
			Expect(sched.calls).To(Equal(calls))
			Expect(f.Len()).To(Equal(n + 1 + 2*field.DefaultSpawnBurst))
		})

		It("does not start a second spawn chain on repeated down", func() {
			first := a.Update(anim.PointerMsg{Kind: anim.PointerDown, X: 1, Y: 1})
			Expect(first).NotTo(BeNil())
			Expect(a.Update(anim.PointerMsg{Kind: anim.PointerDown, X: 1, Y: 1})).To(BeNil())
		})

		It("stops spawning on leave and on unmount", func() {
			spawn := a.Update(anim.PointerMsg{Kind: anim.PointerDown, X: 1, Y: 1})
			a.Update(anim.PointerMsg{Kind: anim.PointerLeave})
			Expect(a.Update(spawn())).To(BeNil())

			spawn = a.Update(anim.PointerMsg{Kind: anim.PointerDown, X: 1, Y: 1})
			a.Unmount()
			Expect(a.Update(spawn())).To(BeNil())
		})
	})

	Describe("touch input", func() {
		BeforeEach(func() {
			a.Mount(1200, 800)
		})

		It("tracks like the pointer but never spawns", func() {
			n := f.Len()
			calls := sched.calls
			Expect(a.Update(anim.TouchMsg{Kind: anim.TouchMove, X: 10, Y: 20})).To(BeNil())
			Expect(f.Len()).To(Equal(n + 1))
			Expect(a.Spawning()).To(BeFalse())
			Expect(sched.calls).To(Equal(calls))

			a.Update(anim.TouchMsg{Kind: anim.TouchEnd})
			Expect(f.Len()).To(Equal(n))
		})
	})

	Describe("the cursor overlay", func() {
		It("follows pointer moves and hides on touch", func() {
			newAnimator(anim.Options{Cursor: true})
			cmd := a.Mount(1200, 800)
			a.Update(anim.PointerMsg{Kind: anim.PointerMove, X: 50, Y: 50})
			Expect(a.Cursor().Visible()).To(BeTrue())
			a.Update(cmd())
			Expect(surface.lines).To(BeNumerically(">", 0))

			a.Update(anim.TouchMsg{Kind: anim.TouchMove, X: 50, Y: 50})
			Expect(a.Cursor().Visible()).To(BeFalse())
		})
	})
})
