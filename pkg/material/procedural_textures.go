package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// defaultCheckerFrequency matches a check edge of π/10 world units
const defaultCheckerFrequency = 10.0

// CheckerTexture alternates between two sub-textures in a 3D sine pattern
type CheckerTexture struct {
	Even      Texture
	Odd       Texture
	Frequency float64
}

// NewCheckerTexture creates a checker pattern over two textures
func NewCheckerTexture(even, odd Texture) *CheckerTexture {
	return &CheckerTexture{Even: even, Odd: odd, Frequency: defaultCheckerFrequency}
}

// NewCheckerColors creates a checker pattern over two solid colors
func NewCheckerColors(even, odd core.Vec3) *CheckerTexture {
	return NewCheckerTexture(NewSolidColor(even), NewSolidColor(odd))
}

// Value picks the odd texture where the product of the three sine waves is negative
func (c *CheckerTexture) Value(u, v float64, p core.Vec3) core.Vec3 {
	sines := math.Sin(c.Frequency*p.X) * math.Sin(c.Frequency*p.Y) * math.Sin(c.Frequency*p.Z)
	if sines < 0 {
		return c.Odd.Value(u, v, p)
	}
	return c.Even.Value(u, v, p)
}

// NoiseTexture is a greyscale marble pattern driven by Perlin turbulence
type NoiseTexture struct {
	noise *Perlin
	Scale float64
}

// NewNoiseTexture creates a marble texture; random seeds the lattice
func NewNoiseTexture(scale float64, random *rand.Rand) *NoiseTexture {
	return &NoiseTexture{noise: NewPerlin(random), Scale: scale}
}

// Value returns 0.5*(1 + sin(scale*z + 10*turbulence(p))) in all three channels
func (n *NoiseTexture) Value(u, v float64, p core.Vec3) core.Vec3 {
	intensity := 0.5 * (1 + math.Sin(n.Scale*p.Z+10*n.noise.Turbulence(p, defaultTurbulenceDepth)))
	return core.Splat(intensity)
}
