package anim

import (
	"container/heap"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type timer struct {
	due  time.Time
	seq  uint64
	fire func(time.Time) tea.Msg
}

type timerHeap []timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any) { *h = append(*h, x.(timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// Pump drives an Animator built on DeferredScheduler from an explicit clock.
// Everything runs on the caller's goroutine.
type Pump struct {
	anim    *Animator
	now     time.Time
	seq     uint64
	pending timerHeap
}

func NewPump(a *Animator, start time.Time) *Pump {
	return &Pump{anim: a, now: start}
}

func (p *Pump) Now() time.Time { return p.now }

// Pending is the number of scheduled, not yet fired requests.
func (p *Pump) Pending() int { return len(p.pending) }

// Send dispatches a message to the animator and runs the resulting command.
func (p *Pump) Send(msg tea.Msg) {
	p.Exec(p.anim.Update(msg))
}

// Exec runs cmd to completion: Deferred requests are queued, batches are
// flattened and any other message is dispatched to the animator.
func (p *Pump) Exec(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case Deferred:
			p.seq++
			heap.Push(&p.pending, timer{due: p.now.Add(msg.Delay), seq: p.seq, fire: msg.Fire})
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, p.anim.Update(msg))
		}
	}
}

// Advance fires, in due order, every request due at or before t and moves
// the clock to t. It returns how many requests fired.
func (p *Pump) Advance(t time.Time) int {
	fired := 0
	for len(p.pending) > 0 && !p.pending[0].due.After(t) {
		next := heap.Pop(&p.pending).(timer)
		p.now = next.due
		fired++
		p.Send(next.fire(next.due))
	}
	if t.After(p.now) {
		p.now = t
	}
	return fired
}

// Reset drops every pending request.
func (p *Pump) Reset() {
	p.pending = p.pending[:0]
}
