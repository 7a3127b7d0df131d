package northlands

import (
	"time"
)

// Timer is a repeating timer. It counts up to Duration, then wraps around
// and reports JustFinished for that one tick.
type Timer struct {
	Duration time.Duration

	elapsed  time.Duration
	finished bool
	times    int
}

// NewTimer returns a repeating timer of duration d
func NewTimer(d time.Duration) *Timer {
	return &Timer{Duration: d}
}

// Tick advances the timer by dt.
func (t *Timer) Tick(dt time.Duration) {
	t.finished = false
	t.times = 0

	if t.Duration <= 0 {
		t.finished = true
		t.times = 1
		return
	}

	t.elapsed += dt
	if t.elapsed >= t.Duration {
		t.times = int(t.elapsed / t.Duration)
		t.elapsed %= t.Duration
		t.finished = true
	}
}

// JustFinished returns if the last Tick reached the end of the timer.
func (t *Timer) JustFinished() bool {
	return t.finished
}

// TimesFinished is how many times the last Tick wrapped the timer.
func (t *Timer) TimesFinished() int {
	return t.times
}

// Elapsed time since the timer last wrapped.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Reset the timer to zero.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.times = 0
}

// AnimationIndices are the sprite sheet indices an animation moves between.
type AnimationIndices struct {
	First int
	Last  int
}

// TwoFrame flips a sprite between two sheet indices each time its timer
// finishes.
type TwoFrame struct {
	Indices AnimationIndices
	Timer   *Timer
	Index   int
}

// NewTwoFrame returns an animation showing indices.First, flipping every d.
func NewTwoFrame(indices AnimationIndices, d time.Duration) *TwoFrame {
	return &TwoFrame{
		Indices: indices,
		Timer:   NewTimer(d),
		Index:   indices.First,
	}
}

// Update advances the animation by dt and returns if the index changed.
// The index flips at most once per update, however many times the timer
// wrapped.
func (a *TwoFrame) Update(dt time.Duration) bool {
	a.Timer.Tick(dt)
	if !a.Timer.JustFinished() {
		return false
	}

	before := a.Index
	if a.Index == a.Indices.Last {
		a.Index = a.Indices.First
	} else {
		a.Index = a.Indices.Last
	}
	return before != a.Index
}
