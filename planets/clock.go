package planets

// Clock tracks frame time in seconds.
type Clock struct {
	Now   float32
	Last  float32
	Delta float32
}

// Tick advances the clock to now, which is usually glfw.GetTime().
func (c *Clock) Tick(now float32) {
	c.Last = c.Now
	c.Now = now
	c.Delta = c.Now - c.Last
}
