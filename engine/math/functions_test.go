package math

import "testing"

func TestMulAppliesRightmostFirst(t *testing.T) {
	// Translate(1,0,0) × Scale(2): scaling happens before translation.
	m := NewTranslation(1, 0, 0).Mul(NewScale(2, 2, 2))
	got := m.MulPoint(Vec3{X: 1, Y: 1, Z: 0})
	want := Vec3{X: 3, Y: 2, Z: 0}
	if got != want {
		t.Errorf("MulPoint = %+v, want %+v", got, want)
	}
}

func TestMulDirIgnoresTranslation(t *testing.T) {
	m := NewTranslation(5, 6, 7)
	got := m.MulDir(Vec3{X: 0, Y: 0, Z: 1})
	if got != (Vec3{Z: 1}) {
		t.Errorf("MulDir = %+v, want unit +z", got)
	}
}

func TestQuaternionMatchesAxisRotation(t *testing.T) {
	// A 90° rotation about y: quaternion (0, sin45, 0, cos45).
	s := Sin(K_PI / 4)
	c := Cos(K_PI / 4)
	q := NewQuaternion(0, s, 0, c)
	r := NewRotationY(K_PI / 2)

	p := Vec3{X: 1, Y: 0, Z: 0}
	got := q.MulPoint(p)
	want := r.MulPoint(p)
	const eps = 1e-5
	if Abs(got.X-want.X) > eps || Abs(got.Y-want.Y) > eps || Abs(got.Z-want.Z) > eps {
		t.Errorf("quaternion rotation = %+v, axis rotation = %+v", got, want)
	}
}

func TestPerspectiveMapsDepthRange(t *testing.T) {
	m := NewPerspective(80.0*K_DEG2RAD_MULTIPLIER, 400.0/240.0, 0.01, 100.0)

	near := m.MulVec4(Vec4{Z: -0.01, W: 1})
	far := m.MulVec4(Vec4{Z: -100.0, W: 1})
	const eps = 1e-4
	if Abs(near.Z/near.W+1) > eps {
		t.Errorf("near plane maps to %v, want -1", near.Z/near.W)
	}
	if Abs(far.Z/far.W-1) > eps {
		t.Errorf("far plane maps to %v, want 1", far.Z/far.W)
	}
	if near.W <= 0 {
		t.Errorf("near clip w = %v, want positive for a point in front of the eye", near.W)
	}
}

func TestClampBounds(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5,0,3) = %d, want 3", got)
	}
	if got := Clamp(float32(-1), 0, 3); got != 0 {
		t.Errorf("Clamp(-1,0,3) = %v, want 0", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Errorf("Clamp(2,0,3) = %d, want 2", got)
	}
}
