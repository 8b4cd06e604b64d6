package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Layered represents a material with two layers - an outer and inner material
// Light hits the outer layer first, then if it scatters inward, hits the inner layer.
// Used for coatings such as varnish over a diffuse base.
type Layered struct {
	Outer Material // Outer layer material (e.g., coating)
	Inner Material // Inner layer material (e.g., base material)
}

// NewLayered creates a new layered material
func NewLayered(outer, inner Material) *Layered {
	return &Layered{
		Outer: outer,
		Inner: inner,
	}
}

// Scatter implements the Material interface for layered scattering
func (l *Layered) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	outerHit := hit
	outerHit.Material = l.Outer

	outerResult, outerScatters := l.Outer.Scatter(rayIn, outerHit, sampler)
	if !outerScatters {
		return ScatterResult{}, false
	}

	// Outward scatter means only the coating was involved
	scatteredDirection := outerResult.Scattered.Direction.Normalize()
	if scatteredDirection.Dot(hit.Normal) >= 0 {
		return outerResult, true
	}

	// The ray crossed the coating; it reaches the base at the same point
	innerRay := core.NewRayAtTime(hit.Point, scatteredDirection, rayIn.Time)
	innerHit := hit
	innerHit.Material = l.Inner

	innerResult, innerScatters := l.Inner.Scatter(innerRay, innerHit, sampler)
	// Absorbed by the base; the coated ray would continue into the surface
	if !innerScatters {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   innerResult.Scattered,
		Attenuation: outerResult.Attenuation.MultiplyVec(innerResult.Attenuation),
	}, true
}
