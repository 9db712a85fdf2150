package math

import (
	"testing"
)

func approxMat(a, b Mat4, tol float32) bool {
	for i := range a {
		if !ApproxEqual(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	if got := m.Mul(Identity()); got != m {
		t.Errorf("M * I = %v, want %v", got, m)
	}
}

func TestTranslateAndScale(t *testing.T) {
	m := Translate(5, 10, 15)
	if m.Translation() != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v", m.Translation())
	}

	s := Scale(2, 3, 4)
	got := s.TransformVec3(Vec3{1, 1, 1})
	if got != (Vec3{2, 3, 4}) {
		t.Errorf("Scale transform = %v, want (2, 3, 4)", got)
	}
}

func TestRotateY90(t *testing.T) {
	got := RotateY(Pi / 2).TransformVec3(Vec3{1, 0, 0})
	if !got.ApproxEqual(Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", got)
	}
}

func TestRotateZ90(t *testing.T) {
	got := RotateZ(Pi / 2).TransformVec3(Vec3{1, 0, 0})
	if !got.ApproxEqual(Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("RotateZ 90: got %v, want (0, 1, 0)", got)
	}
}

func TestComposeOrder(t *testing.T) {
	// Scale first, then rotate, then translate.
	m := Compose(Vec3{10, 0, 0}, Vec3{0, 0, Pi / 2}, Vec3{2, 2, 2})
	got := m.TransformVec3(Vec3{1, 0, 0})
	if !got.ApproxEqual(Vec3{10, 2, 0}, 1e-5) {
		t.Errorf("Compose: got %v, want (10, 2, 0)", got)
	}
	if s := m.ScaleFactors(); !s.ApproxEqual(Vec3{2, 2, 2}, 1e-5) {
		t.Errorf("ScaleFactors = %v", s)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(Pi/4, 1, 0.1, 100)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	if got := m.TransformVec3(eye); !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("eye in view space = %v, want origin", got)
	}
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"translate", Translate(1, -2, 3)},
		{"scale", Scale(2, 4, 0.5)},
		{"compose", Compose(Vec3{1, 2, 3}, Vec3{0.3, -0.2, 1.1}, Vec3{1.5, 0.5, 2})},
		{"view-projection", Perspective(DegToRad(55), 16.0/9.0, 0.1, 150).Mul(
			LookAt(Vec3{0.01, -0.7, 1.08}, Vec3{}, Vec3{0, 1, 0}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Mul(tt.m.Inverse())
			if !approxMat(got, Identity(), 1e-4) {
				t.Errorf("M * M^-1 = %v, want identity", got)
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}
