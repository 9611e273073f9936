package zombie

import (
	"math"

	"github.com/samdwyer/zompanion/internal/follow"
)

const goldenAngle = 2.39996323

// PlacementConfig tunes where new companions appear around the player.
type PlacementConfig struct {
	// SideOffset is the sideways distance of the first pair.
	SideOffset float64
	// RowSpacing widens each later pair.
	RowSpacing float64
	// RowDepth offsets each later pair along the vertical axis.
	RowDepth float64

	MinPlayerDistance float64
	MinZombieDistance float64

	// CheckRadius is passed to the blocked predicate. Zero skips the check.
	CheckRadius float64

	SearchAttempts int
	SearchStep     float64
	SpiralSteps    int
}

// DefaultPlacementConfig returns the standard tuning.
func DefaultPlacementConfig() PlacementConfig {
	return PlacementConfig{
		SideOffset:        1.15,
		RowSpacing:        0.65,
		RowDepth:          0,
		MinPlayerDistance: 0.8,
		MinZombieDistance: 0.55,
		CheckRadius:       0.3,
		SearchAttempts:    30,
		SearchStep:        0.22,
		SpiralSteps:       24,
	}
}

// preferredPoint alternates left and right of center, one pair per row.
func (c PlacementConfig) preferredPoint(center follow.Vec2, index int) follow.Vec2 {
	row := index / 2
	side := 1.0
	if index%2 == 0 {
		side = -1
	}
	return follow.Vec2{
		X: center.X + side*(c.SideOffset+float64(row)*c.RowSpacing),
		Y: center.Y + float64(row)*c.RowDepth,
	}
}

func (m *Manager) center() follow.Vec2 {
	if m.player == nil {
		return follow.Vec2{}
	}
	return m.player.Position
}

// resolveSpawnPosition picks a free spot for the companion at index. It
// tries the preferred point, then a golden-angle search around it, then a
// spiral around the player, and finally falls back to the preferred point.
// Only companions before index are considered occupied.
func (m *Manager) resolveSpawnPosition(index int) follow.Vec2 {
	c := m.cfg.Placement
	center := m.center()
	preferred := c.preferredPoint(center, index)

	if m.validSpawn(preferred, index) {
		return preferred
	}

	for i := 0; i < c.SearchAttempts; i++ {
		angle := float64(i) * goldenAngle
		radius := c.SearchStep * float64(i+1)
		p := preferred.Add(follow.Vec2{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius})
		if m.validSpawn(p, index) {
			return p
		}
	}

	step := math.Max(c.SearchStep, c.CheckRadius*1.5)
	for i := 0; i < c.SpiralSteps; i++ {
		angle := float64(i) * goldenAngle
		radius := c.SideOffset + float64(i)*step
		p := center.Add(follow.Vec2{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius})
		if m.validSpawn(p, index) {
			return p
		}
	}

	return preferred
}

func (m *Manager) validSpawn(p follow.Vec2, index int) bool {
	c := m.cfg.Placement
	if m.player != nil && p.Dist(m.player.Position) < c.MinPlayerDistance {
		return false
	}
	for i, z := range m.zombies {
		if i >= index {
			break
		}
		if p.Dist(z.Position()) < c.MinZombieDistance {
			return false
		}
	}
	if c.CheckRadius > 0 && m.blocked != nil && m.blocked(p, c.CheckRadius) {
		return false
	}
	return true
}
