package input

// ClickTracker tells clicks from drags for one button.
type ClickTracker struct {
	slop     int
	pressed  bool
	dragging bool
	startX   int
	startY   int
	lastX    int
	lastY    int
}

// NewClickTracker creates a tracker with the given slop in pixels.
func NewClickTracker(slop int) *ClickTracker {
	if slop < 0 {
		slop = 0
	}
	return &ClickTracker{slop: slop}
}

// Down records a press.
func (c *ClickTracker) Down(x, y int) {
	c.pressed = true
	c.dragging = false
	c.startX, c.startY = x, y
	c.lastX, c.lastY = x, y
}

// Move reports the motion since the last move once the press has left the
// slop radius.
func (c *ClickTracker) Move(x, y int) (dx, dy int, dragging bool) {
	if !c.pressed {
		return 0, 0, false
	}
	if !c.dragging {
		ox, oy := x-c.startX, y-c.startY
		if ox*ox+oy*oy <= c.slop*c.slop {
			return 0, 0, false
		}
		c.dragging = true
	}
	dx, dy = x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	return dx, dy, true
}

// Up ends the press and reports whether it was a click.
func (c *ClickTracker) Up(x, y int) bool {
	if !c.pressed {
		return false
	}
	c.pressed = false
	ox, oy := x-c.startX, y-c.startY
	return !c.dragging && ox*ox+oy*oy <= c.slop*c.slop
}

// Pressed reports whether the button is held.
func (c *ClickTracker) Pressed() bool {
	return c.pressed
}
