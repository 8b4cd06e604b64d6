package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Hittable interface for objects that can be hit by rays
type Hittable interface {
	// Hit returns the closest intersection with T strictly inside (tMin, tMax).
	// The sampler is only consumed by participating media.
	Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool)

	// BoundingBox returns a box enclosing the object over the shutter interval [t0, t1].
	// Returns false for objects that cannot be bounded.
	BoundingBox(t0, t1 float64) (core.AABB, bool)
}

// Validator interface for objects whose parameters can be degenerate
type Validator interface {
	Validate() error
}

// validate runs Validate on h when it implements Validator
func validate(h Hittable) error {
	if v, ok := h.(Validator); ok {
		return v.Validate()
	}
	return nil
}
