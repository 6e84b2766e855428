package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-4

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "X")
	assert.InDelta(t, want.Y, got.Y, tol, "Y")
	assert.InDelta(t, want.Z, got.Z, tol, "Z")
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2))

	// X x Y = Z in a right-handed system
	assert.Equal(t, NewVec3(0, 0, 1), NewVec3(1, 0, 0).Cross(Vec3Up))
}

func TestVec3NormalizeAndDistance(t *testing.T) {
	n := NewVec3(3, 0, 0).Normalize()
	assert.Equal(t, NewVec3(1, 0, 0), n)
	assert.InDelta(t, 1, n.Length(), tol)

	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize())
	assert.InDelta(t, 5, NewVec3(3, 4, 0).Distance(Vec3Zero), tol)
}

func TestMat4Translation(t *testing.T) {
	m := Mat4Translation(NewVec3(1, 2, 3))
	assert.Equal(t, NewVec3(1, 2, 3), m.Origin())
	assertVec3(t, NewVec3(2, 3, 4), m.TransformPoint(NewVec3(1, 1, 1)))
}

func TestMat4WithoutTranslation(t *testing.T) {
	m := Mat4Scale(NewVec3(2, 2, 2)).Mul(Mat4Translation(NewVec3(5, 6, 7)))
	stripped := m.WithoutTranslation()
	assert.Equal(t, Vec3Zero, stripped.Origin())
	assert.Equal(t, m[0][0], stripped[0][0])
}

func TestMat4FromColumnMajorMatchesLayout(t *testing.T) {
	// A column-major translation keeps x,y,z in elements 12..14.
	var cm [16]float32
	cm[0], cm[5], cm[10], cm[15] = 1, 1, 1, 1
	cm[12], cm[13], cm[14] = 7, 8, 9

	m := Mat4FromColumnMajor(cm)
	assert.Equal(t, Mat4Translation(NewVec3(7, 8, 9)), m)
}

func TestQuaternionRotation(t *testing.T) {
	// +X rotated 90 degrees about +Y lands on -Z.
	q := QuaternionFromAxisAngle(Vec3Up, Pi/2)
	assertVec3(t, NewVec3(0, 0, -1), q.RotateVector(NewVec3(1, 0, 0)))
	assertVec3(t, NewVec3(0, 0, -1), q.ToMat4().TransformPoint(NewVec3(1, 0, 0)))
}

func TestQuaternionMatrixMatchesRotateVector(t *testing.T) {
	q := QuaternionFromAxisAngle(NewVec3(-1, 2, 0).Normalize(), 0.7)
	p := NewVec3(0.3, -1.2, 2)
	assertVec3(t, q.RotateVector(p), q.ToMat4().TransformPoint(p))
}

func TestMat4TRSOrder(t *testing.T) {
	m := Mat4TRS(NewVec3(10, 0, 0), Quaternion{W: 1}, NewVec3(2, 2, 2))
	// scale first, then translate
	assertVec3(t, NewVec3(12, 0, 0), m.TransformPoint(NewVec3(1, 0, 0)))
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)
	assertVec3(t, Vec3Zero, m.TransformPoint(eye))
	// target lies straight ahead on -Z in view space
	assertVec3(t, NewVec3(0, 0, -5), m.TransformPoint(Vec3Zero))
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(Radians(45), 16.0/9.0, 0.1, 100)
	assert.NotZero(t, m[0][0])
	assert.NotZero(t, m[1][1])
	assert.Equal(t, float32(-1), m[2][3])
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(5, 0, 1))
	assert.Equal(t, float32(0), Clamp(-5, 0, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, 0, 1))
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := QuaternionFromAxisAngle(Vec3Up, 1).ToMat4()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
