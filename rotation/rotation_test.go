package rotation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec3Near(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func mat3Near(a, b mgl64.Mat3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// =============================================================================
// Skew Tests
// =============================================================================

func TestSkew_MatchesCrossProduct(t *testing.T) {
	vectors := []mgl64.Vec3{
		{1, 0, 0},
		{0.3, -2, 5},
		{-1.5, 0.25, 0.75},
	}

	for _, v := range vectors {
		for _, u := range vectors {
			got := Skew(v).Mul3x1(u)
			want := v.Cross(u)
			assert.True(t, vec3Near(got, want, 1e-12), "Skew(%v)*%v = %v, want %v", v, u, got, want)
		}
	}
}

func TestSkew_Antisymmetric(t *testing.T) {
	k := Skew(mgl64.Vec3{1, 2, 3})
	assert.True(t, mat3Near(k.Transpose(), k.Mul(-1), 1e-15))
}

// =============================================================================
// Exp Tests
// =============================================================================

func TestExp_ZeroIsIdentity(t *testing.T) {
	r := Exp(mgl64.Vec3{})
	assert.Equal(t, mgl64.Ident3(), r)
}

func TestExp_Orthonormal(t *testing.T) {
	axes := []mgl64.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		mgl64.Vec3{1, 1, 1}.Normalize(),
		mgl64.Vec3{-0.2, 0.7, 0.4}.Normalize(),
	}
	angles := []float64{1e-9, 1e-5, 1e-3, 0.5, 1, math.Pi / 2, math.Pi, 2.5 * math.Pi, -3}

	for _, axis := range axes {
		for _, angle := range angles {
			r := Exp(axis.Mul(angle))
			assert.True(t, IsRotation(r, 1e-12), "Exp(%v * %v) is not a rotation: %v", axis, angle, r)
		}
	}
}

func TestExp_MatchesQuaternion(t *testing.T) {
	tests := []struct {
		name  string
		axis  mgl64.Vec3
		angle float64
	}{
		{"quarter turn around z", mgl64.Vec3{0, 0, 1}, math.Pi / 2},
		{"half turn around x", mgl64.Vec3{1, 0, 0}, math.Pi},
		{"oblique", mgl64.Vec3{1, 2, -1}.Normalize(), 0.8},
		{"small angle", mgl64.Vec3{0, 1, 0}, 5e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := mgl64.QuatRotate(tt.angle, tt.axis).Mat4().Mat3()
			got := Exp(tt.axis.Mul(tt.angle))
			assert.True(t, mat3Near(got, want, 1e-12), "Exp = %v, want %v", got, want)
		})
	}
}

func TestExp_RotatesAroundAxis(t *testing.T) {
	// A quarter turn around z maps x onto y
	r := Exp(mgl64.Vec3{0, 0, math.Pi / 2})
	got := r.Mul3x1(mgl64.Vec3{1, 0, 0})
	assert.True(t, vec3Near(got, mgl64.Vec3{0, 1, 0}, 1e-12), "got %v", got)

	// The axis itself is a fixed point
	axis := mgl64.Vec3{0.3, -0.4, 0.5}
	fixed := Exp(axis.Mul(1.3)).Mul3x1(axis)
	assert.True(t, vec3Near(fixed, axis, 1e-12), "got %v", fixed)
}

func TestExp_SmallAngleLimit(t *testing.T) {
	axis := mgl64.Vec3{2, -1, 3}.Normalize()

	for _, eps := range []float64{1e-2, 1e-3, 1e-4, 1e-6} {
		got := Exp(axis.Mul(eps))
		linear := mgl64.Ident3().Add(Skew(axis).Mul(eps))

		// The first neglected term is ε²/2 [a]²
		assert.True(t, mat3Near(got, linear, eps*eps), "eps=%v: %v vs %v", eps, got, linear)
	}
}

func TestExp_ContinuousAcrossSmallAngle(t *testing.T) {
	axis := mgl64.Vec3{1, 1, 0}.Normalize()

	below := Exp(axis.Mul(SmallAngle * (1 - 1e-9)))
	above := Exp(axis.Mul(SmallAngle * (1 + 1e-9)))
	assert.True(t, mat3Near(below, above, 1e-12))
}

func TestExp_Composition(t *testing.T) {
	// Rotations around a common axis compose additively
	axis := mgl64.Vec3{0.1, 0.9, -0.3}.Normalize()
	a := Exp(axis.Mul(0.4))
	b := Exp(axis.Mul(1.1))

	assert.True(t, mat3Near(a.Mul3(b), Exp(axis.Mul(1.5)), 1e-12))
}

// =============================================================================
// AxisAngle Tests
// =============================================================================

func TestAxisAngle(t *testing.T) {
	axis, angle, err := AxisAngle(mgl64.Vec3{0, 0, -2})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, angle, 1e-15)
	assert.True(t, vec3Near(axis, mgl64.Vec3{0, 0, -1}, 1e-15))
}

func TestAxisAngle_Degenerate(t *testing.T) {
	_, _, err := AxisAngle(mgl64.Vec3{})
	assert.ErrorIs(t, err, ErrDegenerateRotation)

	_, _, err = AxisAngle(mgl64.Vec3{math.NaN(), 0, 0})
	assert.ErrorIs(t, err, ErrDegenerateRotation)
}

// =============================================================================
// IsRotation Tests
// =============================================================================

func TestIsRotation(t *testing.T) {
	tests := []struct {
		name string
		m    mgl64.Mat3
		want bool
	}{
		{"identity", mgl64.Ident3(), true},
		{"rotation", Exp(mgl64.Vec3{0.2, 0.1, -0.3}), true},
		{"reflection", mgl64.Diag3(mgl64.Vec3{1, 1, -1}), false},
		{"scaled", mgl64.Ident3().Mul(2), false},
		{"shear", mgl64.Mat3{1, 0, 0, 0.1, 1, 0, 0, 0, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRotation(tt.m, 1e-9))
		})
	}
}

func TestOrthonormalDrift(t *testing.T) {
	assert.Zero(t, OrthonormalDrift(mgl64.Ident3()))
	assert.InDelta(t, 3.0, OrthonormalDrift(mgl64.Ident3().Mul(2)), 1e-15)
}
