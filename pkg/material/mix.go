package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Mix represents a material that probabilistically chooses between two materials
type Mix struct {
	Material1 Material
	Material2 Material
	Ratio     float64 // 0.0 = all material1, 1.0 = all material2
}

// NewMix creates a new mix material
func NewMix(material1, material2 Material, ratio float64) *Mix {
	ratio = math.Max(0.0, math.Min(ratio, 1.0))

	return &Mix{
		Material1: material1,
		Material2: material2,
		Ratio:     ratio,
	}
}

// Scatter delegates to one of the two materials, picked per call by Ratio
func (m *Mix) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	if sampler.Get1D() < m.Ratio {
		hit.Material = m.Material2
		return m.Material2.Scatter(rayIn, hit, sampler)
	}
	hit.Material = m.Material1
	return m.Material1.Scatter(rayIn, hit, sampler)
}

// Emit forwards emission from whichever layer emits, weighted by Ratio
func (m *Mix) Emit(u, v float64, point core.Vec3) core.Vec3 {
	var emitted core.Vec3
	if e, ok := m.Material1.(Emitter); ok {
		emitted = emitted.Add(e.Emit(u, v, point).Multiply(1.0 - m.Ratio))
	}
	if e, ok := m.Material2.(Emitter); ok {
		emitted = emitted.Add(e.Emit(u, v, point).Multiply(m.Ratio))
	}
	return emitted
}
