package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Box represents an axis-aligned box made up of 6 rectangles
type Box struct {
	Min, Max core.Vec3
	sides    *HittableList
}

// NewBox creates a box spanning the corners p0 (minimum) and p1 (maximum).
// Faces on the minimum side are flipped so every normal points out of the box.
func NewBox(p0, p1 core.Vec3, mat material.Material) *Box {
	sides := NewHittableList(
		NewXYRect(p0.X, p1.X, p0.Y, p1.Y, p1.Z, mat),
		NewXYRect(p0.X, p1.X, p0.Y, p1.Y, p0.Z, mat).Flipped(),
		NewXZRect(p0.X, p1.X, p0.Z, p1.Z, p1.Y, mat),
		NewXZRect(p0.X, p1.X, p0.Z, p1.Z, p0.Y, mat).Flipped(),
		NewYZRect(p0.Y, p1.Y, p0.Z, p1.Z, p1.X, mat),
		NewYZRect(p0.Y, p1.Y, p0.Z, p1.Z, p0.X, mat).Flipped(),
	)
	return &Box{Min: p0, Max: p1, sides: sides}
}

// Hit returns the closest face hit
func (b *Box) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool) {
	return b.sides.Hit(ray, tMin, tMax, sampler)
}

// BoundingBox returns the box's own corners
func (b *Box) BoundingBox(t0, t1 float64) (core.AABB, bool) {
	return core.NewAABB(b.Min, b.Max), true
}

// Validate rejects boxes whose corners are not strictly ordered
func (b *Box) Validate() error {
	if !(b.Min.X < b.Max.X && b.Min.Y < b.Max.Y && b.Min.Z < b.Max.Z) {
		return &core.DegenerateGeometryError{Shape: "box", Reason: "min corner must be below max corner on every axis"}
	}
	return nil
}
