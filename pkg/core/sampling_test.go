package core

import (
	"math"
	"testing"
)

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 10000; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() > 1.0+1e-12 {
			t.Fatalf("Point %v lies outside the unit sphere", p)
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(42)

	var sum Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1.0) > 1e-9 {
			t.Fatalf("Expected unit length, got %f", v.Length())
		}
		sum = sum.Add(v)
	}

	// Uniform directions average out near the origin
	mean := sum.Multiply(1.0 / n)
	if mean.Length() > 0.05 {
		t.Errorf("Mean direction %v too far from origin for uniform sampling", mean)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 10000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample should have z=0, got %v", p)
		}
		if p.X*p.X+p.Y*p.Y > 1.0+1e-12 {
			t.Fatalf("Point %v lies outside the unit disk", p)
		}
	}
}

func TestSeededSamplerIsDeterministic(t *testing.T) {
	a := NewSeededSampler(99)
	b := NewSeededSampler(99)

	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with equal seeds should produce identical sequences")
		}
	}
}

func TestRandomInRange(t *testing.T) {
	sampler := NewSeededSampler(1)
	for i := 0; i < 1000; i++ {
		v := RandomInRange(sampler, 2, 5)
		if v < 2 || v >= 5 {
			t.Fatalf("Value %f outside [2,5)", v)
		}
	}
}
