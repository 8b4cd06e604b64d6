package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// exitSearchOffset separates the entry hit from the search for the exit hit
const exitSearchOffset = 0.0001

// ConstantMedium is a homogeneous participating medium (smoke, fog) filling a boundary shape.
// The boundary must be convex: the ray enters once and leaves once.
type ConstantMedium struct {
	Boundary      Hittable
	Density       float64
	PhaseFunction material.Material
	negInvDensity float64
}

// NewConstantMedium creates a medium of the given density and solid color
func NewConstantMedium(boundary Hittable, density float64, color core.Vec3) *ConstantMedium {
	return NewTexturedConstantMedium(boundary, density, material.NewSolidColor(color))
}

// NewTexturedConstantMedium creates a medium whose albedo comes from a texture
func NewTexturedConstantMedium(boundary Hittable, density float64, albedo material.Texture) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		Density:       density,
		PhaseFunction: material.NewTexturedIsotropic(albedo),
		negInvDensity: -1.0 / density,
	}
}

// Hit samples an exponential free-flight distance through the boundary segment.
// Returns false when the ray leaves the medium before scattering.
func (m *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool) {
	entry, ok := m.Boundary.Hit(ray, math.Inf(-1), math.Inf(1), sampler)
	if !ok {
		return nil, false
	}
	exit, ok := m.Boundary.Hit(ray, entry.T+exitSearchOffset, math.Inf(1), sampler)
	if !ok {
		return nil, false
	}

	t1 := math.Max(entry.T, tMin)
	t2 := math.Min(exit.T, tMax)
	if t1 >= t2 {
		return nil, false
	}
	if t1 < 0 {
		t1 = 0
	}

	rayLength := ray.Direction.Length()
	distanceInsideBoundary := (t2 - t1) * rayLength
	hitDistance := m.negInvDensity * math.Log(sampler.Get1D())
	if hitDistance > distanceInsideBoundary {
		return nil, false
	}

	t := t1 + hitDistance/rayLength
	return &material.SurfaceInteraction{
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0), // arbitrary
		FrontFace: true,                  // arbitrary
		Material:  m.PhaseFunction,
	}, true
}

// BoundingBox returns the boundary's box
func (m *ConstantMedium) BoundingBox(t0, t1 float64) (core.AABB, bool) {
	return m.Boundary.BoundingBox(t0, t1)
}

// Validate rejects media without a boundary or with non-positive density
func (m *ConstantMedium) Validate() error {
	if m.Boundary == nil {
		return &core.DegenerateGeometryError{Shape: "constant medium", Reason: "nil boundary"}
	}
	if !(m.Density > 0) || math.IsInf(m.Density, 0) {
		return &core.DegenerateGeometryError{Shape: "constant medium", Reason: fmt.Sprintf("density %g must be positive and finite", m.Density)}
	}
	return validate(m.Boundary)
}
