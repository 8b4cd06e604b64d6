package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// cornellSize is the edge length of the standard Cornell box
const cornellSize = 555.0

func cornellCamera() renderer.CameraConfig {
	return renderer.CameraConfig{
		Center:        core.NewVec3(278, 278, -800), // Outside the open side, looking in
		LookAt:        core.NewVec3(278, 278, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          40,
		AspectRatio:   1,
		Aperture:      0,
		FocusDistance: 10,
		Time0:         0,
		Time1:         1,
	}
}

// cornellWalls adds the five walls and returns the white material for the contents
func cornellWalls(b *build, light geometry.Hittable) material.Material {
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	b.add(
		geometry.NewYZRect(0, cornellSize, 0, cornellSize, cornellSize, green),
		geometry.NewYZRect(0, cornellSize, 0, cornellSize, 0, red),
		light,
		geometry.NewXZRect(0, cornellSize, 0, cornellSize, 0, white),
		geometry.NewXZRect(0, cornellSize, 0, cornellSize, cornellSize, white),
		geometry.NewXYRect(0, cornellSize, 0, cornellSize, cornellSize, white),
	)
	return white
}

// cornellBoxes returns the tall and short boxes, rotated and moved into place
func cornellBoxes(white material.Material) (tall, short geometry.Hittable) {
	tall = geometry.NewTranslate(
		geometry.NewRotateY(geometry.NewBox(core.Vec3{}, core.NewVec3(165, 330, 165), white), 15),
		core.NewVec3(265, 0, 295),
	)
	short = geometry.NewTranslate(
		geometry.NewRotateY(geometry.NewBox(core.Vec3{}, core.NewVec3(165, 165, 165), white), -18),
		core.NewVec3(130, 0, 65),
	)
	return tall, short
}

func cornellSettings(b *build) {
	b.scene.Camera = cornellCamera()
	b.scene.Background = core.Vec3{}
	b.scene.Width = 600
	b.scene.Sampling.SamplesPerPixel = 200
}

// buildCornell creates the classic Cornell box with two white blocks
func buildCornell(b *build) error {
	cornellSettings(b)

	light := geometry.NewXZRect(213, 343, 227, 332, cornellSize-1, material.NewDiffuseLight(core.NewVec3(15, 15, 15)))
	white := cornellWalls(b, light)
	tall, short := cornellBoxes(white)
	b.add(tall, short)
	return nil
}

// buildCornellSmoke replaces the blocks with dark and light smoke under a wider, dimmer light
func buildCornellSmoke(b *build) error {
	cornellSettings(b)

	light := geometry.NewXZRect(113, 443, 127, 432, cornellSize-1, material.NewDiffuseLight(core.NewVec3(7, 7, 7)))
	white := cornellWalls(b, light)
	tall, short := cornellBoxes(white)
	b.add(
		geometry.NewConstantMedium(tall, 0.01, core.NewVec3(0, 0, 0)),
		geometry.NewConstantMedium(short, 0.01, core.NewVec3(1, 1, 1)),
	)
	return nil
}
