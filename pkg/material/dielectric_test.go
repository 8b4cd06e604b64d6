package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.NewRayAtTime(core.NewVec3(-1, 1, 0), rayDirection, 0.25)

	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	hasReflection := false
	hasRefraction := false

	for seed := int64(0); seed < 1000; seed++ {
		result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(seed))
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Attenuation != core.NewVec3(1, 1, 1) {
			t.Fatalf("Expected white attenuation, got %v", result.Attenuation)
		}
		if result.Scattered.Time != ray.Time {
			t.Fatalf("Scattered ray should keep time %f, got %f", ray.Time, result.Scattered.Time)
		}

		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	// Schlick gives roughly 5% reflectance at 45 degrees for glass
	if !hasRefraction || !hasReflection {
		t.Errorf("Expected both branches: reflection=%t refraction=%t", hasReflection, hasRefraction)
	}
}

func TestDielectricRefractionAngle(t *testing.T) {
	glass := NewDielectric(1.5)
	incoming := core.NewVec3(1, -1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(-1, 1, 0), incoming)
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	sinIncoming := math.Sin(math.Pi / 4)
	for seed := int64(0); seed < 200; seed++ {
		result, _ := glass.Scatter(ray, hit, core.NewSeededSampler(seed))
		dir := result.Scattered.Direction.Normalize()
		if dir.Y > 0 {
			continue
		}
		// Snell: sin(out) = sin(in) / 1.5
		sinOut := math.Abs(dir.X)
		if math.Abs(sinOut-sinIncoming/1.5) > 1e-9 {
			t.Fatalf("Refracted sine %f, expected %f", sinOut, sinIncoming/1.5)
		}
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Shallow ray leaving the glass
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, 0, 0), rayDirection)

	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false,
		Material:  glass,
	}

	for i := 0; i < 10; i++ {
		result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(int64(i)))
		if !scattered {
			t.Error("Dielectric should always scatter")
		}
		if result.Scattered.Direction.Y <= 0 {
			t.Errorf("Expected total internal reflection (ray going up), got %v", result.Scattered.Direction)
		}
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"normal incidence glass", 1.0, 1.0 / 1.5, 0.04},
		{"normal incidence exiting", 1.0, 1.5, 0.04},
		{"grazing", 0.0, 1.0 / 1.5, 1.0},
		{"matched index", 0.5, 1.0, 0.03125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflectance(tt.cosine, tt.ratio)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Reflectance(%f, %f) = %f, expected %f", tt.cosine, tt.ratio, got, tt.expected)
			}
		})
	}
}
