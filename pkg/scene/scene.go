package scene

import (
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name       string
	World      geometry.Hittable     // Flattened BVH over every object
	Camera     renderer.CameraConfig // Camera placement and lens
	Background core.Vec3             // Radiance returned by rays that escape
	Width      int                   // Default image width; height follows the aspect ratio
	Sampling   renderer.SamplingConfig
	BVHStats   geometry.BVHStats
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() geometry.Hittable { return s.World }

// GetCameraConfig implements renderer.Scene
func (s *Scene) GetCameraConfig() renderer.CameraConfig { return s.Camera }

// GetBackground implements renderer.Scene
func (s *Scene) GetBackground() core.Vec3 { return s.Background }

// Height returns the image height implied by Width and the camera aspect ratio
func (s *Scene) Height() int {
	return HeightFor(s.Width, s.Camera.AspectRatio)
}

// HeightFor returns the image height for a width and aspect ratio, at least 1
func HeightFor(width int, aspectRatio float64) int {
	if aspectRatio <= 0 {
		return width
	}
	return max(int(float64(width)/aspectRatio), 1)
}

// Options control scene construction
type Options struct {
	Seed       int64       // Seeds object placement, procedural textures and the BVH split axes
	TextureDir string      // Directory searched for image textures
	Logger     core.Logger // Receives build progress and texture load failures; nil discards
}

// DefaultOptions returns the options used by the CLI when nothing is configured
func DefaultOptions() Options {
	return Options{Seed: 42, TextureDir: "assets"}
}

// builder constructs the objects of one scene and fills in its camera and settings
type builder func(b *build) error

var catalogue = map[string]builder{
	"cover":         buildCover,
	"two-spheres":   buildTwoSpheres,
	"perlin":        buildPerlinSpheres,
	"earth":         buildEarth,
	"simple-light":  buildSimpleLight,
	"cornell":       buildCornell,
	"cornell-smoke": buildCornellSmoke,
	"materials":     buildMaterials,
	"final":         buildFinal,
}

// Names lists the built-in scenes in alphabetical order
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// build collects objects and settings while a scene is assembled
type build struct {
	scene   *Scene
	objects []geometry.Hittable
	random  *rand.Rand
	opts    Options
	logger  core.Logger
}

func (b *build) add(objects ...geometry.Hittable) {
	b.objects = append(b.objects, objects...)
}

// Create builds the named scene. Construction is deterministic for a given seed.
func Create(name string, opts Options) (*Scene, error) {
	construct, ok := catalogue[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}

	logger := opts.Logger
	if logger == nil {
		logger = renderer.NewWriterLogger(io.Discard)
	}

	b := &build{
		scene:  &Scene{Name: name, Width: 400, Sampling: renderer.DefaultSamplingConfig()},
		random: rand.New(rand.NewSource(opts.Seed)),
		opts:   opts,
		logger: logger,
	}
	b.scene.Sampling.Seed = opts.Seed

	if err := construct(b); err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}

	bvh, err := geometry.NewBVH(b.objects, b.scene.Camera.Time0, b.scene.Camera.Time1, b.random)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	b.scene.BVHStats = bvh.Stats()
	b.scene.World = bvh.Flatten()

	logger.Printf("Scene %s: %d objects, BVH %d nodes, depth %d\n",
		name, len(b.objects), b.scene.BVHStats.Nodes, b.scene.BVHStats.MaxDepth)
	return b.scene, nil
}

// outdoorCamera is the camera shared by the sky-lit scenes
func outdoorCamera() renderer.CameraConfig {
	return renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.1,
		FocusDistance: 10,
		Time0:         0,
		Time1:         1,
	}
}

var skyBlue = core.NewVec3(0.7, 0.8, 1.0)

// loadImageTexture loads an image texture, falling back to the magenta placeholder on failure
func (b *build) loadImageTexture(path string) *material.ImageTexture {
	data, err := loaders.LoadImage(path)
	if err != nil {
		b.logger.Printf("Failed to load texture %s: %v\n", path, err)
		return material.NewImageTexture(0, 0, nil)
	}
	return material.NewImageTexture(data.Width, data.Height, data.Pixels)
}

// randomColor returns a color with every channel uniform in [min, max)
func (b *build) randomColor(min, max float64) core.Vec3 {
	return core.RandomVec3(b.random, min, max)
}

func (b *build) randomRange(min, max float64) float64 {
	return min + (max-min)*b.random.Float64()
}
