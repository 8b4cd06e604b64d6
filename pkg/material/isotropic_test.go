package material

import (
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestIsotropicScatter(t *testing.T) {
	albedo := core.NewVec3(0.73, 0.73, 0.73)
	iso := NewIsotropic(albedo)
	sampler := core.NewSeededSampler(42)

	hit := SurfaceInteraction{
		Point:     core.NewVec3(1, 1, 1),
		Normal:    core.NewVec3(1, 0, 0),
		FrontFace: true,
	}
	ray := core.NewRayAtTime(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), 0.4)

	const n = 20000
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)

	for i := 0; i < n; i++ {
		result, scattered := iso.Scatter(ray, hit, sampler)
		if !scattered {
			t.Fatal("Isotropic medium should always scatter")
		}
		if !result.Attenuation.Equals(albedo) {
			t.Fatalf("Expected albedo attenuation, got %v", result.Attenuation)
		}
		if !result.Scattered.Origin.Equals(hit.Point) || result.Scattered.Time != 0.4 {
			t.Fatalf("Scattered ray should start at the hit point at time 0.4, got %+v", result.Scattered)
		}
		d := result.Scattered.Direction.Normalize()
		xs[i], ys[i], zs[i] = d.X, d.Y, d.Z
	}

	// Uniform directions have zero mean and variance 1/3 per axis
	for axis, samples := range [][]float64{xs, ys, zs} {
		mean, variance := stat.MeanVariance(samples, nil)
		if mean < -0.02 || mean > 0.02 {
			t.Errorf("Axis %d mean %f should be near zero", axis, mean)
		}
		if variance < 0.31 || variance > 0.36 {
			t.Errorf("Axis %d variance %f should be near 1/3", axis, variance)
		}
	}
}
