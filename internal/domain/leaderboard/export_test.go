package leaderboard

// Sorted reports whether the cached order is current.
func (c *Collection) Sorted() bool { return c.cache != nil }
