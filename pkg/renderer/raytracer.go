package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	BatchSize       int   // Scanlines dispatched per batch (0 = worker count)
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed; scanline y uses Seed + y
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		BatchSize:       16,
		Seed:            42,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetWorld() geometry.Hittable
	GetCameraConfig() CameraConfig
	GetBackground() core.Vec3
}

// ScanlineResult holds the traced pixels of one camera scanline, left to right
type ScanlineResult struct {
	Y      int
	Pixels []PixelStats
}

// Raytracer handles the rendering process
type Raytracer struct {
	world      geometry.Hittable
	camera     *Camera
	background core.Vec3
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRaytracer creates a new raytracer for a width x height image.
// A nil logger discards progress output.
func NewRaytracer(scene Scene, width, height int, config SamplingConfig, logger core.Logger) *Raytracer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = config.NumWorkers
	}
	if logger == nil {
		logger = discardLogger{}
	}

	return &Raytracer{
		world:      scene.GetWorld(),
		camera:     NewCamera(scene.GetCameraConfig()),
		background: scene.GetBackground(),
		width:      width,
		height:     height,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(),
		logger:     logger,
	}
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integrator integrator.Integrator) {
	rt.integrator = integrator
}

// TraceScanline renders every pixel of camera scanline y (0 = bottom) with the configured sample count
func (rt *Raytracer) TraceScanline(y int, sampler core.Sampler) ScanlineResult {
	pixels := make([]PixelStats, rt.width)

	// Single-pixel images would divide by zero
	sDenominator := float64(max(rt.width-1, 1))
	tDenominator := float64(max(rt.height-1, 1))

	for x := 0; x < rt.width; x++ {
		for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
			jitter := sampler.Get2D()
			s := (float64(x) + jitter.X) / sDenominator
			t := (float64(y) + jitter.Y) / tDenominator

			ray := rt.camera.GetRay(s, t, sampler)
			pixels[x].AddSample(rt.integrator.RayColor(ray, rt.background, rt.world, rt.config.MaxDepth, sampler))
		}
	}

	return ScanlineResult{Y: y, Pixels: pixels}
}

// scanlineSeed returns the sampler seed for camera scanline y
func (rt *Raytracer) scanlineSeed(y int) int64 {
	return rt.config.Seed + int64(y)
}

// Render traces the whole image from the top scanline down in batches.
// Each batch completes before the next is dispatched.
func (rt *Raytracer) Render() (*Framebuffer, RenderStats, error) {
	if rt.width <= 0 || rt.height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid image size %dx%d", rt.width, rt.height)
	}
	if rt.config.SamplesPerPixel <= 0 {
		return nil, RenderStats{}, fmt.Errorf("samples per pixel must be positive, got %d", rt.config.SamplesPerPixel)
	}

	start := time.Now()
	framebuffer := NewFramebuffer(rt.width, rt.height)
	stats := RenderStats{SamplesPerPixel: rt.config.SamplesPerPixel}

	pool := NewWorkerPool(rt, rt.config.NumWorkers, rt.config.BatchSize)
	pool.Start()
	defer pool.Stop()

	for next := rt.height - 1; next >= 0; {
		rt.logger.Printf("Scanlines remaining: %d\n", next+1)

		batch := 0
		for ; batch < rt.config.BatchSize && next >= 0; batch++ {
			pool.SubmitTask(ScanlineTask{Y: next, Seed: rt.scanlineSeed(next)})
			next--
		}

		// Results arrive in completion order; placement by Y keeps the image ordered
		for i := 0; i < batch; i++ {
			result, ok := pool.GetResult()
			if !ok {
				return nil, stats, fmt.Errorf("worker pool closed with %d scanlines outstanding", batch-i)
			}
			framebuffer.SetScanline(result.Y, result.Pixels)
			stats.Scanlines++
		}
		stats.Batches++
	}

	stats.TotalPixels = rt.width * rt.height
	stats.TotalSamples = stats.TotalPixels * rt.config.SamplesPerPixel
	stats.Duration = time.Since(start)

	rt.logger.Printf("Done: %d pixels, %d samples in %v\n", stats.TotalPixels, stats.TotalSamples, stats.Duration.Round(time.Millisecond))
	return framebuffer, stats, nil
}
