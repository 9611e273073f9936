// Package transition runs scene changes as a tick-driven state machine:
// fade to black, load in the background, hold for a minimum time, swap
// scenes, then fade back in.
package transition

// Fade interpolates an overlay alpha linearly over Duration seconds.
type Fade struct {
	From     float64
	To       float64
	Duration float64
	Elapsed  float64
}

// NewFade creates a fade from one alpha to another.
func NewFade(from, to, duration float64) Fade {
	return Fade{From: from, To: to, Duration: duration}
}

// Tick advances the fade by dt seconds.
func (f *Fade) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	f.Elapsed = min(f.Elapsed+dt, max(f.Duration, 0))
}

// Done reports whether the fade reached its target.
func (f *Fade) Done() bool {
	return f.Duration <= 0 || f.Elapsed >= f.Duration
}

// Alpha returns the current alpha.
func (f *Fade) Alpha() float64 {
	if f.Done() {
		return f.To
	}
	t := f.Elapsed / f.Duration
	return f.From + (f.To-f.From)*t
}
