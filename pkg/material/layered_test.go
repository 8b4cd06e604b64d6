package material

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestLayeredOutwardScattering(t *testing.T) {
	// A perfect mirror never lets light reach the inner layer
	metalMaterial := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)
	redLambertian := NewLambertian(core.NewVec3(0.8, 0.1, 0.1))
	layered := NewLayered(metalMaterial, redLambertian)

	ray := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0).Normalize())
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  layered,
	}

	result, scattered := layered.Scatter(ray, hit, core.NewSeededSampler(42))
	if !scattered {
		t.Fatal("Should scatter")
	}
	if result.Scattered.Direction.Y <= 0 {
		t.Error("Expected outward reflection (upward), but got inward direction")
	}
	if !result.Attenuation.Equals(core.NewVec3(0.9, 0.9, 0.9)) {
		t.Errorf("Expected outer-only attenuation, got %v", result.Attenuation)
	}
}

func TestLayeredInwardScattering(t *testing.T) {
	glass := NewDielectric(1.5)
	redLambertian := NewLambertian(core.NewVec3(0.8, 0.1, 0.1))
	layered := NewLayered(glass, redLambertian)

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  layered,
	}

	foundInwardScattering := false
	for seed := int64(0); seed < 100; seed++ {
		result, scattered := layered.Scatter(ray, hit, core.NewSeededSampler(seed))
		if !scattered {
			continue
		}

		if result.Attenuation.X < 0.9 || result.Attenuation.Y < 0.9 || result.Attenuation.Z < 0.9 {
			foundInwardScattering = true
			if !result.Attenuation.ApproxEquals(core.NewVec3(0.8, 0.1, 0.1), 1e-12) {
				t.Errorf("Expected glass-filtered red, got %v", result.Attenuation)
			}
			if result.Scattered.Direction.Y < 0 {
				t.Errorf("Inner lambertian should scatter back out, got %v", result.Scattered.Direction)
			}
			break
		}
	}

	if !foundInwardScattering {
		t.Error("Expected to find cases where light penetrates to inner layer")
	}
}

func TestLayeredConstructor(t *testing.T) {
	redLambertian := NewLambertian(core.NewVec3(0.8, 0.1, 0.1))
	blueLambertian := NewLambertian(core.NewVec3(0.1, 0.1, 0.8))

	layered := NewLayered(redLambertian, blueLambertian)

	if layered.Outer != redLambertian {
		t.Error("Outer material not set correctly")
	}
	if layered.Inner != blueLambertian {
		t.Error("Inner material not set correctly")
	}
}

func TestMixSelectsByRatio(t *testing.T) {
	red := NewLambertian(core.NewVec3(1, 0, 0))
	blue := NewLambertian(core.NewVec3(0, 0, 1))

	tests := []struct {
		name      string
		ratio     float64
		wantRed   bool
		wantBlue  bool
		wantRatio float64
	}{
		{"all first", 0.0, true, false, 0.0},
		{"all second", 1.0, false, true, 1.0},
		{"half", 0.5, true, true, 0.5},
		{"clamped high", 3.0, false, true, 1.0},
		{"clamped low", -1.0, true, false, 0.0},
	}

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := SurfaceInteraction{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mix := NewMix(red, blue, tt.ratio)
			if mix.Ratio != tt.wantRatio {
				t.Errorf("Expected ratio %f, got %f", tt.wantRatio, mix.Ratio)
			}

			sampler := core.NewSeededSampler(3)
			sawRed, sawBlue := false, false
			for i := 0; i < 200; i++ {
				result, _ := mix.Scatter(ray, hit, sampler)
				if result.Attenuation.X == 1 {
					sawRed = true
				}
				if result.Attenuation.Z == 1 {
					sawBlue = true
				}
			}
			if sawRed != tt.wantRed || sawBlue != tt.wantBlue {
				t.Errorf("saw red=%t blue=%t, want red=%t blue=%t", sawRed, sawBlue, tt.wantRed, tt.wantBlue)
			}
		})
	}
}

func TestMixEmission(t *testing.T) {
	light := NewDiffuseLight(core.NewVec3(4, 4, 4))
	diffuse := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	mix := NewMix(diffuse, light, 0.25)

	emitted := mix.Emit(0, 0, core.Vec3{})
	if !emitted.ApproxEquals(core.NewVec3(1, 1, 1), 1e-12) {
		t.Errorf("Expected weighted emission (1,1,1), got %v", emitted)
	}
}

// absorber never scatters
type absorber struct{}

func (absorber) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

func TestLayeredInnerAbsorption(t *testing.T) {
	tests := []struct {
		name  string
		inner Material
	}{
		{"absorbing base", absorber{}},
		{"emissive base", NewDiffuseLight(core.NewVec3(4, 4, 4))},
	}

	// An index of 1.0 never reflects, so the coat always passes light through
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layered := NewLayered(NewDielectric(1.0), tt.inner)
			hit.Material = layered
			for seed := int64(0); seed < 20; seed++ {
				result, scattered := layered.Scatter(ray, hit, core.NewSeededSampler(seed))
				if scattered {
					t.Fatalf("seed %d: expected absorption, got ray %v", seed, result.Scattered.Direction)
				}
			}
		})
	}
}
