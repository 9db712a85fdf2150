package lighting

import (
	"testing"

	"github.com/Faultbox/wondermap/pkg/math"
)

func TestContribution(t *testing.T) {
	l := NewPointLight(3, 0.5)
	l.Position = math.Vec3{Z: 0.15}

	tests := []struct {
		name string
		at   math.Vec3
		want float32
	}{
		{"at light", math.Vec3{Z: 0.15}, 3},
		{"half range", math.Vec3{Z: 0.4}, 0.75},
		{"beyond range", math.Vec3{X: 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Contribution(tt.at); !math.ApproxEqual(got, tt.want, 1e-5) {
				t.Errorf("Contribution(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}

	unbounded := NewPointLight(1.5, 0)
	if got := unbounded.Contribution(math.Vec3{X: 100}); got != 1.5 {
		t.Errorf("unbounded light = %v, want 1.5", got)
	}
}

func TestBufferCapacity(t *testing.T) {
	b := NewPointLightBuffer()
	for i := 0; i < MaxPointLights; i++ {
		if !b.AddLight(NewPointLight(1, 1)) {
			t.Fatalf("light %d rejected", i)
		}
	}
	if b.AddLight(NewPointLight(1, 1)) {
		t.Error("expected full buffer to reject light")
	}
	if len(b.GetPositions()) != MaxPointLights*3 {
		t.Error("positions slice must be padded to capacity")
	}

	b.Clear()
	if b.Count != 0 || len(b.Lights) != 0 {
		t.Error("Clear left lights behind")
	}
}
