package zombie

// Modifiers holds session-wide bonuses granted by zombie buffs.
type Modifiers struct {
	diggingLootBonus float64
}

// NewModifiers creates modifiers with no bonus.
func NewModifiers() *Modifiers {
	return &Modifiers{}
}

// AddDiggingLootBonus adds value (a fraction, 0.25 = +25%) to the digging bonus.
func (m *Modifiers) AddDiggingLootBonus(value float64) {
	m.diggingLootBonus += value
}

// DiggingLootBonus returns the accumulated digging bonus.
func (m *Modifiers) DiggingLootBonus() float64 {
	return m.diggingLootBonus
}

// ApplyDiggingBonus scales a base chance by the digging bonus, clamped to [0, 1].
func (m *Modifiers) ApplyDiggingBonus(baseChance float64) float64 {
	boosted := baseChance * (1 + m.diggingLootBonus)
	return min(max(boosted, 0), 1)
}

// Clear drops every bonus.
func (m *Modifiers) Clear() {
	m.diggingLootBonus = 0
}
