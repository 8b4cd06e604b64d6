package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// RotateY rotates a wrapped object about the Y axis
type RotateY struct {
	Object   Hittable
	sinTheta float64
	cosTheta float64
	hasBox   bool
	box      core.AABB
}

// NewRotateY wraps object rotated by angle degrees about the Y axis.
// The rotated bounding box is computed once from the object's box over the unit shutter interval.
func NewRotateY(object Hittable, angle float64) *RotateY {
	radians := angle * math.Pi / 180
	r := &RotateY{
		Object:   object,
		sinTheta: math.Sin(radians),
		cosTheta: math.Cos(radians),
	}

	inner, ok := object.BoundingBox(0, 1)
	if !ok {
		return r
	}

	corners := inner.Corners()
	rotated := make([]core.Vec3, len(corners))
	for i, c := range corners {
		rotated[i] = r.toWorld(c)
	}
	r.box = core.NewAABBFromPoints(rotated...)
	r.hasBox = true

	return r
}

// toObject rotates a world-space vector by -angle
func (r *RotateY) toObject(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		r.cosTheta*v.X-r.sinTheta*v.Z,
		v.Y,
		r.sinTheta*v.X+r.cosTheta*v.Z,
	)
}

// toWorld rotates an object-space vector by +angle
func (r *RotateY) toWorld(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		r.cosTheta*v.X+r.sinTheta*v.Z,
		v.Y,
		-r.sinTheta*v.X+r.cosTheta*v.Z,
	)
}

// Hit rotates the ray into object space, delegates, and rotates the hit back.
// Rotation preserves the sign of dot(direction, normal) so FrontFace carries over unchanged.
func (r *RotateY) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool) {
	rotated := core.NewRayAtTime(r.toObject(ray.Origin), r.toObject(ray.Direction), ray.Time)

	hit, isHit := r.Object.Hit(rotated, tMin, tMax, sampler)
	if !isHit {
		return nil, false
	}

	hit.Point = r.toWorld(hit.Point)
	hit.Normal = r.toWorld(hit.Normal)
	return hit, true
}

// BoundingBox returns the box precomputed at construction
func (r *RotateY) BoundingBox(t0, t1 float64) (core.AABB, bool) {
	return r.box, r.hasBox
}

// Validate validates the wrapped object
func (r *RotateY) Validate() error {
	return validate(r.Object)
}
