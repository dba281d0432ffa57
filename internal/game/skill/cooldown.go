package skill

// Cooldowns tracks remaining cooldown turns per skill for one battle.
// It is not safe for concurrent use.
type Cooldowns struct {
	remaining map[string]int
}

// NewCooldowns returns an empty tracker.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{remaining: make(map[string]int)}
}

// Remaining returns the turns left before skillID can be used again.
func (c *Cooldowns) Remaining(skillID string) int {
	return c.remaining[skillID]
}

// Start sets the cooldown for skillID. A non-positive turns clears it.
func (c *Cooldowns) Start(skillID string, turns int) {
	if turns <= 0 {
		delete(c.remaining, skillID)
		return
	}
	c.remaining[skillID] = turns
}

// Tick decrements every cooldown by one, removing those that reach zero.
func (c *Cooldowns) Tick() {
	for id, n := range c.remaining {
		if n <= 1 {
			delete(c.remaining, id)
			continue
		}
		c.remaining[id] = n - 1
	}
}

// Snapshot returns a copy of the active cooldowns.
func (c *Cooldowns) Snapshot() map[string]int {
	out := make(map[string]int, len(c.remaining))
	for id, n := range c.remaining {
		out[id] = n
	}
	return out
}

// Clear drops all cooldowns.
func (c *Cooldowns) Clear() {
	clear(c.remaining)
}
