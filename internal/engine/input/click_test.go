package input

import "testing"

func TestClickTracker(t *testing.T) {
	tests := []struct {
		name  string
		moves [][2]int
		upX   int
		upY   int
		click bool
	}{
		{"still", nil, 100, 100, true},
		{"within slop", [][2]int{{102, 101}, {103, 102}}, 103, 102, true},
		{"drag", [][2]int{{110, 100}}, 110, 100, false},
		{"drag and return", [][2]int{{120, 100}, {100, 100}}, 100, 100, false},
		{"released far", nil, 150, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClickTracker(4)
			c.Down(100, 100)
			for _, m := range tt.moves {
				c.Move(m[0], m[1])
			}
			if got := c.Up(tt.upX, tt.upY); got != tt.click {
				t.Errorf("Up() = %v, want %v", got, tt.click)
			}
			if c.Pressed() {
				t.Error("still pressed after Up")
			}
		})
	}
}

func TestClickTrackerDragDeltas(t *testing.T) {
	c := NewClickTracker(4)

	if _, _, ok := c.Move(10, 10); ok {
		t.Fatal("move without press reported a drag")
	}

	c.Down(0, 0)
	if _, _, ok := c.Move(2, 2); ok {
		t.Fatal("move within slop reported a drag")
	}

	dx, dy, ok := c.Move(10, 0)
	if !ok || dx != 10 || dy != 0 {
		t.Fatalf("first drag = (%d, %d, %v), want (10, 0, true)", dx, dy, ok)
	}

	dx, dy, ok = c.Move(12, 5)
	if !ok || dx != 2 || dy != 5 {
		t.Fatalf("second drag = (%d, %d, %v), want (2, 5, true)", dx, dy, ok)
	}
}

func TestClickTrackerUpWithoutDown(t *testing.T) {
	c := NewClickTracker(4)
	if c.Up(0, 0) {
		t.Error("Up without Down reported a click")
	}
}
