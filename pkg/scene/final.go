package scene

import (
	"path/filepath"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// buildFinal exercises every primitive: a field of boxes, a moving sphere, glass with a
// subsurface medium, global fog, image and noise textures, and an instanced sphere cluster
func buildFinal(b *build) error {
	b.scene.Camera = cornellCamera()
	b.scene.Camera.Center = core.NewVec3(478, 278, -600)
	b.scene.Background = core.Vec3{}
	b.scene.Width = 800
	b.scene.Sampling.SamplesPerPixel = 1000

	// Ground of boxes with random heights, grouped under their own hierarchy
	ground := material.NewLambertian(core.NewVec3(0.48, 0.83, 0.53))
	const boxesPerSide = 20
	boxes := make([]geometry.Hittable, 0, boxesPerSide*boxesPerSide)
	for i := 0; i < boxesPerSide; i++ {
		for j := 0; j < boxesPerSide; j++ {
			const w = 100.0
			x0 := -1000 + float64(i)*w
			z0 := -1000 + float64(j)*w
			y1 := b.randomRange(1, 101)
			boxes = append(boxes, geometry.NewBox(core.NewVec3(x0, 0, z0), core.NewVec3(x0+w, y1, z0+w), ground))
		}
	}
	groundBVH, err := geometry.NewBVH(boxes, 0, 1, b.random)
	if err != nil {
		return err
	}
	b.add(groundBVH)

	b.add(geometry.NewXZRect(123, 423, 147, 412, 554, material.NewDiffuseLight(core.NewVec3(7, 7, 7))))

	center1 := core.NewVec3(400, 400, 200)
	center2 := center1.Add(core.NewVec3(30, 0, 0))
	b.add(geometry.NewMovingSphere(center1, center2, 0, 1, 50, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.1))))

	b.add(
		geometry.NewSphere(core.NewVec3(260, 150, 45), 50, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(0, 150, 145), 50, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 1.0)),
	)

	// Glass shell filled with blue medium
	shell := geometry.NewSphere(core.NewVec3(360, 150, 145), 70, material.NewDielectric(1.5))
	b.add(shell, geometry.NewConstantMedium(shell, 0.2, core.NewVec3(0.2, 0.4, 0.9)))

	// Thin fog around everything, including the camera
	fog := geometry.NewSphere(core.NewVec3(0, 0, 0), 5000, material.NewDielectric(1.5))
	b.add(geometry.NewConstantMedium(fog, 0.0001, core.NewVec3(1, 1, 1)))

	earth := b.loadImageTexture(filepath.Join(b.opts.TextureDir, "earthmap.jpg"))
	b.add(
		geometry.NewSphere(core.NewVec3(400, 200, 400), 100, material.NewTexturedLambertian(earth)),
		geometry.NewSphere(core.NewVec3(220, 280, 300), 80, material.NewTexturedLambertian(material.NewNoiseTexture(0.1, b.random))),
	)

	// Cluster of small spheres, built once in local space then instanced
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	const clusterSize = 1000
	cluster := make([]geometry.Hittable, clusterSize)
	for i := range cluster {
		cluster[i] = geometry.NewSphere(core.RandomVec3(b.random, 0, 165), 10, white)
	}
	clusterBVH, err := geometry.NewBVH(cluster, 0, 1, b.random)
	if err != nil {
		return err
	}
	b.add(geometry.NewTranslate(geometry.NewRotateY(clusterBVH, 15), core.NewVec3(-100, 270, 395)))

	return nil
}
