package scene

import (
	"path/filepath"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// buildCover creates the random sphere field: a checkered ground, small diffuse spheres
// bouncing during the shutter, metal and glass spheres, and three large feature spheres
func buildCover(b *build) error {
	b.scene.Camera = outdoorCamera()
	b.scene.Background = skyBlue
	b.scene.Width = 1200
	b.scene.Sampling.SamplesPerPixel = 100
	b.scene.Sampling.MaxDepth = 100

	checker := material.NewCheckerColors(core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9))
	b.add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for c := -11; c < 11; c++ {
			chooseMat := b.random.Float64()
			center := core.NewVec3(float64(a)+0.9*b.random.Float64(), 0.2, float64(c)+0.9*b.random.Float64())

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := b.randomColor(0, 1).MultiplyVec(b.randomColor(0, 1))
				center2 := center.Add(core.NewVec3(0, b.randomRange(0, 0.5), 0))
				b.add(geometry.NewMovingSphere(center, center2, 0, 1, 0.2, material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				albedo := b.randomColor(0.5, 1)
				fuzz := b.randomRange(0, 0.5)
				b.add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				b.add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	b.add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)),
	)
	return nil
}

// buildTwoSpheres stacks two checkered spheres touching at the origin
func buildTwoSpheres(b *build) error {
	b.scene.Camera = outdoorCamera()
	b.scene.Background = skyBlue

	checker := material.NewTexturedLambertian(
		material.NewCheckerColors(core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9)))
	b.add(
		geometry.NewSphere(core.NewVec3(0, -10, 0), 10, checker),
		geometry.NewSphere(core.NewVec3(0, 10, 0), 10, checker),
	)
	return nil
}

// buildPerlinSpheres places a marble sphere on a marble ground
func buildPerlinSpheres(b *build) error {
	b.scene.Camera = outdoorCamera()
	b.scene.Background = skyBlue

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, b.random))
	b.add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
	)
	return nil
}

// buildEarth wraps an image texture around a single sphere
func buildEarth(b *build) error {
	b.scene.Camera = outdoorCamera()
	b.scene.Background = skyBlue

	earth := b.loadImageTexture(filepath.Join(b.opts.TextureDir, "earthmap.jpg"))
	b.add(geometry.NewSphere(core.NewVec3(0, 0, 0), 2, material.NewTexturedLambertian(earth)))
	return nil
}

// buildSimpleLight lights the marble spheres with a single rectangle in the dark
func buildSimpleLight(b *build) error {
	b.scene.Camera = outdoorCamera()
	b.scene.Camera.Center = core.NewVec3(26, 3, 6)
	b.scene.Camera.LookAt = core.NewVec3(0, 3, 0)
	b.scene.Background = core.Vec3{}
	b.scene.Sampling.SamplesPerPixel = 400

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, b.random))
	b.add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
		geometry.NewXYRect(3, 5, 1, 3, -2, material.NewDiffuseLight(core.NewVec3(4, 4, 4))),
	)
	return nil
}

// buildMaterials lines up the composite materials on a checkered floor under the sky
func buildMaterials(b *build) error {
	b.scene.Camera = outdoorCamera()
	b.scene.Background = skyBlue

	checker := material.NewCheckerColors(core.NewVec3(0.2, 0.2, 0.2), core.NewVec3(0.8, 0.8, 0.8))
	b.add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	// Clear coat over a red diffuse base
	coated := material.NewLayered(material.NewDielectric(1.5), material.NewLambertian(core.NewVec3(0.7, 0.1, 0.1)))
	// Half brushed metal, half blue diffuse
	blend := material.NewMix(material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.2), material.NewLambertian(core.NewVec3(0.1, 0.2, 0.7)), 0.5)
	// Glowing marble
	glow := material.NewTexturedDiffuseLight(material.NewNoiseTexture(2, b.random))

	b.add(
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, coated),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, blend),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, glow),
	)
	return nil
}
