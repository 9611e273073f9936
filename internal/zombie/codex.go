package zombie

import (
	"sort"
	"strings"
)

// Codex records which zombie types and story entries the player has
// unlocked. Unlocking is idempotent.
type Codex struct {
	zombies  map[string]bool
	stories  map[string]bool
	onChange []func()
}

// NewCodex creates an empty codex.
func NewCodex() *Codex {
	return &Codex{
		zombies: make(map[string]bool),
		stories: make(map[string]bool),
	}
}

// OnChanged registers fn to run whenever something new is unlocked.
func (c *Codex) OnChanged(fn func()) {
	c.onChange = append(c.onChange, fn)
}

func (c *Codex) changed() {
	for _, fn := range c.onChange {
		fn()
	}
}

// UnlockZombie unlocks a zombie definition. It returns true only when the
// entry was not already unlocked.
func (c *Codex) UnlockZombie(definitionID string) bool {
	return c.add(c.zombies, definitionID)
}

// UnlockStory unlocks a story entry. It returns true only when the entry was
// not already unlocked.
func (c *Codex) UnlockStory(storyID string) bool {
	return c.add(c.stories, storyID)
}

func (c *Codex) add(set map[string]bool, id string) bool {
	if strings.TrimSpace(id) == "" || set[id] {
		return false
	}
	set[id] = true
	c.changed()
	return true
}

// IsZombieUnlocked reports whether a zombie definition is unlocked.
func (c *Codex) IsZombieUnlocked(definitionID string) bool {
	return c.zombies[definitionID]
}

// IsStoryUnlocked reports whether a story entry is unlocked.
func (c *Codex) IsStoryUnlocked(storyID string) bool {
	return c.stories[storyID]
}

// UnlockedZombies returns unlocked zombie ids, sorted.
func (c *Codex) UnlockedZombies() []string {
	return sortedKeys(c.zombies)
}

// UnlockedStories returns unlocked story ids, sorted.
func (c *Codex) UnlockedStories() []string {
	return sortedKeys(c.stories)
}

// Reset forgets everything. Observers are notified if anything was unlocked.
func (c *Codex) Reset() {
	if len(c.zombies) == 0 && len(c.stories) == 0 {
		return
	}
	clear(c.zombies)
	clear(c.stories)
	c.changed()
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
