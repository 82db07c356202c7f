package mesh

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB, with a tolerance
func (a AABB) ContainsPoint(point mgl64.Vec3, tolerance float64) bool {
	return point.X() >= a.Min.X()-tolerance && point.X() <= a.Max.X()+tolerance &&
		point.Y() >= a.Min.Y()-tolerance && point.Y() <= a.Max.Y()+tolerance &&
		point.Z() >= a.Min.Z()-tolerance && point.Z() <= a.Max.Z()+tolerance
}

// Size returns the extent of the box along each axis
func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}
