package game

import (
	"github.com/samdwyer/zompanion/internal/zombie"
)

// SlotSummary is one inventory slot by item name.
type SlotSummary struct {
	Item     string `json:"item,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// Summary is a JSON-friendly picture of the session, used by the inspector.
type Summary struct {
	Scene     string             `json:"scene,omitempty"`
	State     string             `json:"state"`
	Player    [2]float64         `json:"player"`
	Inventory []SlotSummary      `json:"inventory"`
	Zombies   []*zombie.Instance `json:"zombies"`
	Codex     []string           `json:"codex"`
	Stories   []string           `json:"stories"`
	Paused    []string           `json:"paused,omitempty"`
	Snapshots []string           `json:"snapshots,omitempty"`
}

// Summarize describes the session as it is right now.
func (c *Context) Summarize() Summary {
	slots := c.inventory.Slots()
	inv := make([]SlotSummary, len(slots))
	for i, s := range slots {
		if !s.IsEmpty() {
			inv[i] = SlotSummary{Item: s.Item.Name, Quantity: s.Quantity}
		}
	}

	pos := c.player.Position()
	codex := c.zombies.Codex()
	return Summary{
		Scene:     c.SceneName(),
		State:     c.State().String(),
		Player:    [2]float64{pos.X, pos.Y},
		Inventory: inv,
		Zombies:   c.zombies.Zombies(),
		Codex:     codex.UnlockedZombies(),
		Stories:   codex.UnlockedStories(),
		Paused:    c.pause.Owners(),
		Snapshots: c.snapshots.Scenes(),
	}
}

// SceneName returns the active scene's name, or "" before the first load.
func (c *Context) SceneName() string {
	if c.scene == nil {
		return ""
	}
	return c.scene.Name
}
