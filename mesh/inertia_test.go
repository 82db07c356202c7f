package mesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tetrahedron() *SurfaceMesh {
	return &SurfaceMesh{
		Vertices: []mgl64.Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		Triangles: []Triangle{
			{0, 2, 1},
			{0, 1, 3},
			{0, 3, 2},
			{1, 2, 3},
		},
	}
}

func mat3AlmostEqual(t *testing.T, want, got mgl64.Mat3, tolerance float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, "entry %d: got %v, want %v", i, got, want)
	}
}

func vec3AlmostEqual(t *testing.T, want, got mgl64.Vec3, tolerance float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, "component %d: got %v, want %v", i, got, want)
	}
}

// =============================================================================
// ComputeInertia Tests
// =============================================================================

func TestComputeInertia_Cube(t *testing.T) {
	tests := []struct {
		name    string
		side    float64
		density float64
		offset  mgl64.Vec3
	}{
		{"unit cube", 1, 1, mgl64.Vec3{}},
		{"side 2", 2, 1, mgl64.Vec3{}},
		{"dense small cube", 0.1, 7800, mgl64.Vec3{}},
		{"offset cube", 3, 0.5, mgl64.Vec3{10, -4, 2.5}},
		{"cube in positive octant", 1, 2, mgl64.Vec3{0.5, 0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.side / 2
			m := Box(mgl64.Vec3{h, h, h}).Translate(tt.offset)

			props, err := ComputeInertia(m, tt.density)
			require.NoError(t, err)

			s3 := tt.side * tt.side * tt.side
			wantMass := tt.density * s3
			wantI := wantMass * tt.side * tt.side / 6
			tolerance := 1e-9 * math.Max(1, wantMass)

			assert.InDelta(t, wantMass, props.Mass, tolerance)
			vec3AlmostEqual(t, tt.offset, props.Center, 1e-9)
			mat3AlmostEqual(t, mgl64.Diag3(mgl64.Vec3{wantI, wantI, wantI}), props.Inertia, 1e-9*math.Max(1, wantI))
		})
	}
}

func TestComputeInertia_Box(t *testing.T) {
	half := mgl64.Vec3{0.5, 1, 2}
	density := 3.0

	props, err := ComputeInertia(Box(half), density)
	require.NoError(t, err)

	x, y, z := 2*half.X(), 2*half.Y(), 2*half.Z()
	mass := density * x * y * z
	assert.InDelta(t, mass, props.Mass, 1e-9)

	want := mgl64.Diag3(mgl64.Vec3{
		mass / 12 * (y*y + z*z),
		mass / 12 * (x*x + z*z),
		mass / 12 * (x*x + y*y),
	})
	mat3AlmostEqual(t, want, props.Inertia, 1e-9)
}

func TestComputeInertia_Tetrahedron(t *testing.T) {
	props, err := ComputeInertia(tetrahedron(), 1)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/6, props.Mass, 1e-12)
	vec3AlmostEqual(t, mgl64.Vec3{0.25, 0.25, 0.25}, props.Center, 1e-12)

	// Diagonal 1/80, products of inertia 1/480 about the centroid
	d, p := 1.0/80, 1.0/480
	want := mgl64.Mat3{
		d, p, p,
		p, d, p,
		p, p, d,
	}
	mat3AlmostEqual(t, want, props.Inertia, 1e-12)
}

func TestComputeInertia_RotatedBox(t *testing.T) {
	half := mgl64.Vec3{1, 0.25, 0.5}
	r := mgl64.QuatRotate(0.7, mgl64.Vec3{1, 2, 3}.Normalize()).Mat4().Mat3()

	base := Box(half)
	rotated := &SurfaceMesh{Vertices: make([]mgl64.Vec3, len(base.Vertices)), Triangles: base.Triangles}
	for i, v := range base.Vertices {
		rotated.Vertices[i] = r.Mul3x1(v)
	}

	want, err := ComputeInertia(base, 2)
	require.NoError(t, err)
	got, err := ComputeInertia(rotated, 2)
	require.NoError(t, err)

	assert.InDelta(t, want.Mass, got.Mass, 1e-9)
	mat3AlmostEqual(t, r.Mul3(want.Inertia).Mul3(r.Transpose()), got.Inertia, 1e-9)
	mat3AlmostEqual(t, got.Inertia, got.Inertia.Transpose(), 1e-12)
}

func TestComputeInertia_TranslationInvariant(t *testing.T) {
	at, err := ComputeInertia(tetrahedron(), 5)
	require.NoError(t, err)
	moved, err := ComputeInertia(tetrahedron().Translate(mgl64.Vec3{-3, 7, 1}), 5)
	require.NoError(t, err)

	assert.InDelta(t, at.Mass, moved.Mass, 1e-12)
	vec3AlmostEqual(t, at.Center.Add(mgl64.Vec3{-3, 7, 1}), moved.Center, 1e-9)
	mat3AlmostEqual(t, at.Inertia, moved.Inertia, 1e-9)
}

func TestComputeInertia_TriangleOrderIndependent(t *testing.T) {
	m := Box(mgl64.Vec3{0.3, 0.6, 0.9}).Translate(mgl64.Vec3{1, 1, 1})
	reversed := &SurfaceMesh{Vertices: m.Vertices, Triangles: make([]Triangle, len(m.Triangles))}
	for i, tri := range m.Triangles {
		// Reverse the list and rotate the corners, keeping the winding
		reversed.Triangles[len(m.Triangles)-1-i] = Triangle{tri[1], tri[2], tri[0]}
	}

	a, err := ComputeInertia(m, 1)
	require.NoError(t, err)
	b, err := ComputeInertia(reversed, 1)
	require.NoError(t, err)

	assert.InDelta(t, a.Mass, b.Mass, 1e-12)
	mat3AlmostEqual(t, a.Inertia, b.Inertia, 1e-12)
}

func TestComputeInertia_InwardMesh(t *testing.T) {
	_, err := ComputeInertia(Box(mgl64.Vec3{1, 1, 1}).Flip(), 1)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestComputeInertia_InvalidDensity(t *testing.T) {
	for _, density := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := ComputeInertia(Box(mgl64.Vec3{1, 1, 1}), density)
		assert.ErrorIs(t, err, ErrInvalidMesh, "density %v", density)
	}
}

func TestComputeInertia_NilMesh(t *testing.T) {
	_, err := ComputeInertia(nil, 1)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

// =============================================================================
// ComputeInertiaParallel Tests
// =============================================================================

func TestComputeInertiaParallel_MatchesSerial(t *testing.T) {
	m := Box(mgl64.Vec3{0.4, 1.2, 0.8}).Translate(mgl64.Vec3{2, 0, -1})
	want, err := ComputeInertia(m, 1.5)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 2, 3, 5, 12, 64} {
		got, err := ComputeInertiaParallel(m, 1.5, workers)
		require.NoError(t, err, "workers=%d", workers)

		assert.InDelta(t, want.Mass, got.Mass, 1e-12, "workers=%d", workers)
		vec3AlmostEqual(t, want.Center, got.Center, 1e-12)
		mat3AlmostEqual(t, want.Inertia, got.Inertia, 1e-12)
	}
}

func TestComputeInertiaParallel_InvalidMesh(t *testing.T) {
	_, err := ComputeInertiaParallel(Box(mgl64.Vec3{1, 1, 1}).Flip(), 1, 4)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

// =============================================================================
// Accumulator Tests
// =============================================================================

func TestAccumulator_DegenerateTriangle(t *testing.T) {
	var acc Accumulator
	acc.AddTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2})

	assert.Equal(t, 1, acc.Triangles)
	assert.Equal(t, 1, acc.Degenerate)
	assert.Zero(t, acc.Volume)
	assert.Equal(t, mgl64.Vec3{}, acc.Second)
}

func TestAccumulator_MergeIsAssociative(t *testing.T) {
	m := tetrahedron()

	var whole Accumulator
	for i := range m.Triangles {
		whole.AddTriangle(m.Corners(i))
	}

	var left, right Accumulator
	left.AddTriangle(m.Corners(0))
	left.AddTriangle(m.Corners(1))
	right.AddTriangle(m.Corners(2))
	right.AddTriangle(m.Corners(3))
	right.Merge(left)

	assert.InDelta(t, whole.Volume, right.Volume, 1e-15)
	vec3AlmostEqual(t, whole.First, right.First, 1e-15)
	vec3AlmostEqual(t, whole.Second, right.Second, 1e-15)
	vec3AlmostEqual(t, whole.Mixed, right.Mixed, 1e-15)
	assert.Equal(t, 4, right.Triangles)
}

func TestAccumulator_FinalizeEmpty(t *testing.T) {
	var acc Accumulator
	_, err := acc.Finalize(1)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}
