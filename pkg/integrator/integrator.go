package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance arriving along ray, following at most depth bounces.
	// Rays that leave the scene pick up the constant background color.
	RayColor(ray core.Ray, background core.Vec3, world geometry.Hittable, depth int, sampler core.Sampler) core.Vec3
}
