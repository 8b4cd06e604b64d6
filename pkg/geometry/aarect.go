package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// rectThickness pads the flat axis so the bounding box has non-zero volume
const rectThickness = 0.0001

// AARect is an axis-aligned rectangle lying in the plane normal[axis] = K.
// A and B are the two in-plane axes; the outward normal points along the positive normal axis unless flipped.
type AARect struct {
	A0, A1   float64 // Extent along the first in-plane axis
	B0, B1   float64 // Extent along the second in-plane axis
	K        float64 // Plane offset along the normal axis
	Material material.Material

	aAxis, bAxis, normalAxis int
	flipped                  bool
	name                     string
}

// NewXYRect creates a rectangle at z = k spanning [x0,x1] x [y0,y1]
func NewXYRect(x0, x1, y0, y1, k float64, material material.Material) *AARect {
	return &AARect{A0: x0, A1: x1, B0: y0, B1: y1, K: k, Material: material,
		aAxis: 0, bAxis: 1, normalAxis: 2, name: "xy rect"}
}

// NewXZRect creates a rectangle at y = k spanning [x0,x1] x [z0,z1]
func NewXZRect(x0, x1, z0, z1, k float64, material material.Material) *AARect {
	return &AARect{A0: x0, A1: x1, B0: z0, B1: z1, K: k, Material: material,
		aAxis: 0, bAxis: 2, normalAxis: 1, name: "xz rect"}
}

// NewYZRect creates a rectangle at x = k spanning [y0,y1] x [z0,z1]
func NewYZRect(y0, y1, z0, z1, k float64, material material.Material) *AARect {
	return &AARect{A0: y0, A1: y1, B0: z0, B1: z1, K: k, Material: material,
		aAxis: 1, bAxis: 2, normalAxis: 0, name: "yz rect"}
}

// Flipped returns a copy of the rectangle whose outward normal points along the negative axis
func (r *AARect) Flipped() *AARect {
	flipped := *r
	flipped.flipped = !r.flipped
	return &flipped
}

// Normal returns the outward normal of the rectangle
func (r *AARect) Normal() core.Vec3 {
	if r.flipped {
		return core.Vec3{}.WithAxis(r.normalAxis, -1)
	}
	return core.Vec3{}.WithAxis(r.normalAxis, 1)
}

// Hit intersects the ray with the rectangle's plane and tests the extent
func (r *AARect) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool) {
	dirN := ray.Direction.Axis(r.normalAxis)
	if dirN == 0 {
		return nil, false // Parallel to the plane
	}

	t := (r.K - ray.Origin.Axis(r.normalAxis)) / dirN
	if t <= tMin || t >= tMax {
		return nil, false
	}

	point := ray.At(t)
	a := point.Axis(r.aAxis)
	b := point.Axis(r.bAxis)
	if a < r.A0 || a > r.A1 || b < r.B0 || b > r.B1 {
		return nil, false
	}

	hit := &material.SurfaceInteraction{
		T:        t,
		Point:    point,
		U:        (a - r.A0) / (r.A1 - r.A0),
		V:        (b - r.B0) / (r.B1 - r.B0),
		Material: r.Material,
	}
	hit.SetFaceNormal(ray, r.Normal())

	return hit, true
}

// BoundingBox returns the rectangle's extent padded along the normal axis
func (r *AARect) BoundingBox(t0, t1 float64) (core.AABB, bool) {
	min := core.Vec3{}.
		WithAxis(r.aAxis, r.A0).
		WithAxis(r.bAxis, r.B0).
		WithAxis(r.normalAxis, r.K-rectThickness)
	max := core.Vec3{}.
		WithAxis(r.aAxis, r.A1).
		WithAxis(r.bAxis, r.B1).
		WithAxis(r.normalAxis, r.K+rectThickness)
	return core.NewAABB(min, max), true
}

// Validate rejects rectangles with an empty or inverted extent
func (r *AARect) Validate() error {
	if !(r.A0 < r.A1) || !(r.B0 < r.B1) {
		return &core.DegenerateGeometryError{
			Shape:  r.name,
			Reason: fmt.Sprintf("empty extent [%g,%g]x[%g,%g]", r.A0, r.A1, r.B0, r.B1),
		}
	}
	return nil
}
