// Package follow moves a chain of companions behind a leader along the
// leader's recorded trail.
//
// Every tracked body keeps a trail of positions, appended only once the body
// has moved at least SampleSpacing from the last recorded point. Follower i
// walks toward a point DelaySamples entries behind the end of the trail of
// the body ahead of it: the leader for follower 0, follower i-1 otherwise.
package follow

import (
	"math"
	"math/rand"
)

// trailEpsilon absorbs float error when comparing distances against the sample
// spacing, so a body stepping exactly one spacing per tick records every step.
const trailEpsilon = 1e-9

// movingEpsilon is the squared per-tick displacement below which a follower
// counts as standing still.
const movingEpsilon = 0.0001

// Config tunes the engine.
type Config struct {
	SampleSpacing       float64
	MaxTrailPoints      int
	LeaderAvoidRadius   float64
	LeaderAvoidStrength float64
	SeparationRadius    float64
	SeparationStrength  float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		SampleSpacing:       0.12,
		MaxTrailPoints:      512,
		LeaderAvoidRadius:   0.55,
		LeaderAvoidStrength: 1.1,
		SeparationRadius:    0.4,
		SeparationStrength:  0.25,
	}
}

func (c Config) normalized() Config {
	if c.SampleSpacing < 0.01 {
		c.SampleSpacing = 0.01
	}
	if c.MaxTrailPoints < 32 {
		c.MaxTrailPoints = 32
	}
	c.LeaderAvoidRadius = math.Max(0, c.LeaderAvoidRadius)
	c.LeaderAvoidStrength = math.Max(0, c.LeaderAvoidStrength)
	c.SeparationRadius = math.Max(0, c.SeparationRadius)
	c.SeparationStrength = math.Max(0, c.SeparationStrength)
	return c
}

// Body is anything with a position the engine can track.
type Body struct {
	Position Vec2
}

// Follower is a body driven by the engine.
type Follower struct {
	Body     *Body
	Speed    float64
	Distance float64

	// Moving and Facing are outputs for animation.
	Moving bool
	Facing Direction
}

// Engine runs the follow chain. It is not safe for concurrent use; call it
// from the simulation tick after the leader has moved.
type Engine struct {
	cfg       Config
	rng       *rand.Rand
	leader    *Body
	followers []*Follower
	trails    map[*Body][]Vec2
}

// NewEngine creates an engine. rng is used only to break the tie when a
// follower sits exactly on the leader.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	return &Engine{
		cfg:    cfg.normalized(),
		rng:    rng,
		trails: make(map[*Body][]Vec2),
	}
}

// Config returns the effective tuning.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetLeader sets the body at the head of the chain. A nil leader makes the
// whole chain inert.
func (e *Engine) SetLeader(leader *Body) {
	e.leader = leader
	if leader != nil {
		e.ensureTrail(leader)
	}
	e.pruneTrails()
}

// Leader returns the current leader.
func (e *Engine) Leader() *Body {
	return e.leader
}

// SetFollowers replaces the chain in order. Trails of bodies that remain
// tracked keep their history; trails of bodies no longer tracked are dropped.
func (e *Engine) SetFollowers(followers []*Follower) {
	e.followers = e.followers[:0]
	for _, f := range followers {
		if f == nil || f.Body == nil {
			continue
		}
		e.followers = append(e.followers, f)
		e.ensureTrail(f.Body)
	}
	e.pruneTrails()
}

// Followers returns the chain in order.
func (e *Engine) Followers() []*Follower {
	return e.followers
}

func (e *Engine) pruneTrails() {
	keep := make(map[*Body]bool, len(e.followers)+1)
	if e.leader != nil {
		keep[e.leader] = true
	}
	for _, f := range e.followers {
		keep[f.Body] = true
	}
	for body := range e.trails {
		if !keep[body] {
			delete(e.trails, body)
		}
	}
}

// ResetTrails forgets all recorded history. Every tracked body restarts with
// a single point at its current position. Call it after bodies teleport.
func (e *Engine) ResetTrails() {
	clear(e.trails)
	if e.leader != nil {
		e.ensureTrail(e.leader)
	}
	for _, f := range e.followers {
		e.ensureTrail(f.Body)
	}
}

// Trail returns a copy of the recorded trail for body, oldest first.
func (e *Engine) Trail(body *Body) []Vec2 {
	trail := e.trails[body]
	out := make([]Vec2, len(trail))
	copy(out, trail)
	return out
}

// DelaySamples is how many trail entries a follower at distance lags behind.
func (e *Engine) DelaySamples(distance float64) int {
	samples := int(math.Ceil(distance/e.cfg.SampleSpacing - trailEpsilon))
	return max(1, samples)
}

// Tick advances every follower by dt seconds.
func (e *Engine) Tick(dt float64) {
	if e.leader == nil || len(e.followers) == 0 {
		return
	}

	e.record(e.leader)

	for i, f := range e.followers {
		ahead := e.leader
		if i > 0 {
			ahead = e.followers[i-1].Body
		}
		e.step(f, i, e.ensureTrail(ahead), dt)
		e.record(f.Body)
	}
}

func (e *Engine) step(f *Follower, index int, trail []Vec2, dt float64) {
	delay := e.DelaySamples(f.Distance)
	if len(trail) <= delay {
		f.Moving = false
		return
	}

	target := trail[len(trail)-1-delay]
	target = target.Add(e.avoidance(f, index))

	current := f.Body.Position
	next := current.MoveTowards(target, f.Speed*dt)
	f.Body.Position = next

	delta := next.Sub(current)
	f.Moving = delta.LenSq() > movingEpsilon
	if f.Moving {
		f.Facing = Cardinal(delta)
	}
}

// avoidance pushes a follower away from the leader and from followers ahead
// of it in the chain. It nudges the target; it is not collision resolution.
func (e *Engine) avoidance(f *Follower, index int) Vec2 {
	var push Vec2
	pos := f.Body.Position

	if r := e.cfg.LeaderAvoidRadius; r > 0 {
		diff := pos.Sub(e.leader.Position)
		dist := diff.Len()
		if dist < r {
			var away Vec2
			if dist > 0.0001 {
				away = diff.Scale(1 / dist)
			} else {
				away = e.randomUnit()
			}
			t := (r - dist) / r
			push = push.Add(away.Scale(t * e.cfg.LeaderAvoidStrength))
		}
	}

	if r := e.cfg.SeparationRadius; r > 0 && e.cfg.SeparationStrength > 0 {
		for i := 0; i < index && i < len(e.followers); i++ {
			other := e.followers[i]
			if other == f {
				continue
			}
			diff := pos.Sub(other.Body.Position)
			dist := diff.Len()
			if dist <= 0.0001 || dist >= r {
				continue
			}
			t := (r - dist) / r
			push = push.Add(diff.Scale(1 / dist).Scale(t * e.cfg.SeparationStrength))
		}
	}

	return push
}

func (e *Engine) randomUnit() Vec2 {
	if e.rng == nil {
		return Vec2{X: 1}
	}
	angle := e.rng.Float64() * 2 * math.Pi
	return Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
}

func (e *Engine) ensureTrail(body *Body) []Vec2 {
	trail, ok := e.trails[body]
	if !ok {
		trail = make([]Vec2, 1, e.cfg.MaxTrailPoints)
		trail[0] = body.Position
		e.trails[body] = trail
	}
	return trail
}

func (e *Engine) record(body *Body) {
	trail := e.ensureTrail(body)
	last := trail[len(trail)-1]
	if body.Position.Dist(last)+trailEpsilon < e.cfg.SampleSpacing {
		return
	}
	trail = append(trail, body.Position)
	if len(trail) > e.cfg.MaxTrailPoints {
		trail = append(trail[:0], trail[1:]...)
	}
	e.trails[body] = trail
}
