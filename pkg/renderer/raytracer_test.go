package renderer

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MockScene implements Scene for testing
type MockScene struct {
	world      geometry.Hittable
	camera     CameraConfig
	background core.Vec3
}

func (m MockScene) GetWorld() geometry.Hittable   { return m.world }
func (m MockScene) GetCameraConfig() CameraConfig { return m.camera }
func (m MockScene) GetBackground() core.Vec3      { return m.background }

// skyLight emits for rays heading upward and is invisible otherwise
type skyLight struct {
	light *material.DiffuseLight
}

func (s skyLight) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool) {
	if ray.Direction.Y <= 0 || tMin >= 1 || tMax <= 1 {
		return nil, false
	}
	return &material.SurfaceInteraction{T: 1, Point: ray.At(1), Normal: ray.Direction.Negate().Normalize(), FrontFace: true, Material: s.light}, true
}

func (s skyLight) BoundingBox(t0, t1 float64) (core.AABB, bool) { return core.AABB{}, false }

// recordingLogger captures log lines for assertions
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func newTestScene() MockScene {
	return MockScene{
		world: geometry.NewHittableList(
			geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
			skyLight{light: material.NewDiffuseLight(core.NewVec3(2, 2, 2))},
		),
		camera:     pinholeConfig(),
		background: core.NewVec3(0.1, 0.2, 0.3),
	}
}

func TestRaytracer_RenderBackgroundOnly(t *testing.T) {
	background := core.NewVec3(0.7, 0.8, 1.0)
	scene := MockScene{world: geometry.NewHittableList(), camera: pinholeConfig(), background: background}

	rt := NewRaytracer(scene, 8, 6, SamplingConfig{SamplesPerPixel: 4, MaxDepth: 5, BatchSize: 3, NumWorkers: 2, Seed: 1}, nil)
	fb, stats, err := rt.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if got := fb.At(x, y); !got.ApproxEquals(background, 1e-12) {
				t.Fatalf("Pixel (%d,%d) = %v, expected background %v", x, y, got, background)
			}
			if n := fb.Row(y)[x].SampleCount; n != 4 {
				t.Fatalf("Pixel (%d,%d) has %d samples, expected 4", x, y, n)
			}
		}
	}

	if stats.TotalPixels != 48 || stats.TotalSamples != 192 || stats.Scanlines != 6 || stats.Batches != 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestRaytracer_RowOrder(t *testing.T) {
	// Upward rays see the sky light; the top image row must be the brightest
	scene := MockScene{
		world:      skyLight{light: material.NewDiffuseLight(core.NewVec3(1, 1, 1))},
		camera:     pinholeConfig(),
		background: core.Vec3{},
	}

	rt := NewRaytracer(scene, 4, 8, SamplingConfig{SamplesPerPixel: 2, MaxDepth: 3, BatchSize: 2, NumWorkers: 2, Seed: 9}, nil)
	fb, _, err := rt.Render()
	if err != nil {
		t.Fatal(err)
	}

	if got := fb.At(0, 0); !got.Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Top row should see the sky, got %v", got)
	}
	if got := fb.At(0, fb.Height-1); !got.Equals(core.Vec3{}) {
		t.Errorf("Bottom row should be dark, got %v", got)
	}
}

func TestRaytracer_DeterministicAcrossWorkerCounts(t *testing.T) {
	scene := newTestScene()

	render := func(workers, batch int) *Framebuffer {
		rt := NewRaytracer(scene, 10, 7, SamplingConfig{SamplesPerPixel: 3, MaxDepth: 8, BatchSize: batch, NumWorkers: workers, Seed: 77}, nil)
		fb, _, err := rt.Render()
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return fb
	}

	reference := render(1, 1)
	for _, cfg := range [][2]int{{4, 2}, {3, 7}, {8, 16}} {
		fb := render(cfg[0], cfg[1])
		for i := range reference.Pixels {
			if fb.Pixels[i] != reference.Pixels[i] {
				t.Fatalf("workers=%d batch=%d: pixel %d differs: %v vs %v", cfg[0], cfg[1], i, fb.Pixels[i], reference.Pixels[i])
			}
		}
	}
}

func TestRaytracer_ProgressLogging(t *testing.T) {
	logger := &recordingLogger{}
	rt := NewRaytracer(newTestScene(), 3, 10, SamplingConfig{SamplesPerPixel: 1, MaxDepth: 2, BatchSize: 4, NumWorkers: 2, Seed: 1}, logger)
	if _, _, err := rt.Render(); err != nil {
		t.Fatal(err)
	}

	var progress []string
	for _, line := range logger.lines {
		if strings.HasPrefix(line, "Scanlines remaining:") {
			progress = append(progress, strings.TrimSpace(line))
		}
	}

	expected := []string{"Scanlines remaining: 10", "Scanlines remaining: 6", "Scanlines remaining: 2"}
	if len(progress) != len(expected) {
		t.Fatalf("Expected %d progress lines, got %v", len(expected), progress)
	}
	for i := range expected {
		if progress[i] != expected[i] {
			t.Errorf("Progress line %d: expected %q, got %q", i, expected[i], progress[i])
		}
	}
}

func TestRaytracer_TraceScanline(t *testing.T) {
	rt := NewRaytracer(newTestScene(), 5, 5, SamplingConfig{SamplesPerPixel: 6, MaxDepth: 4, Seed: 3}, nil)

	a := rt.TraceScanline(2, core.NewSeededSampler(rt.scanlineSeed(2)))
	b := rt.TraceScanline(2, core.NewSeededSampler(rt.scanlineSeed(2)))

	if a.Y != 2 || len(a.Pixels) != 5 {
		t.Fatalf("Unexpected scanline shape y=%d len=%d", a.Y, len(a.Pixels))
	}
	for x := range a.Pixels {
		if a.Pixels[x].SampleCount != 6 {
			t.Errorf("Pixel %d has %d samples, expected 6", x, a.Pixels[x].SampleCount)
		}
		if a.Pixels[x] != b.Pixels[x] {
			t.Errorf("Same seed should trace identical pixel %d", x)
		}
	}
}

func TestRaytracer_RenderErrors(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		samples       int
	}{
		{"zero width", 0, 4, 1},
		{"negative height", 4, -1, 1},
		{"no samples", 4, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRaytracer(newTestScene(), tt.width, tt.height, SamplingConfig{SamplesPerPixel: tt.samples, MaxDepth: 1}, nil)
			if _, _, err := rt.Render(); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestFramebuffer_SetScanline(t *testing.T) {
	fb := NewFramebuffer(2, 3)
	row := []PixelStats{{ColorAccum: core.NewVec3(2, 2, 2), SampleCount: 2}, {ColorAccum: core.NewVec3(3, 0, 0), SampleCount: 1}}

	fb.SetScanline(0, row) // Bottom camera scanline
	if got := fb.At(0, 2); !got.Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Camera scanline 0 should land in the last image row, got %v", got)
	}
	if got := fb.At(1, 2); !got.Equals(core.NewVec3(3, 0, 0)) {
		t.Errorf("Expected (3,0,0), got %v", got)
	}
	if got := fb.At(0, 0); !got.Equals(core.Vec3{}) {
		t.Errorf("Untouched pixel should be black, got %v", got)
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if !ps.GetColor().Equals(core.Vec3{}) {
		t.Error("Empty pixel should be black")
	}
	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))
	if got := ps.GetColor(); !got.Equals(core.NewVec3(0.5, 0.5, 0)) {
		t.Errorf("Expected average (0.5,0.5,0), got %v", got)
	}
}

func TestWorkerPool(t *testing.T) {
	rt := NewRaytracer(newTestScene(), 3, 6, SamplingConfig{SamplesPerPixel: 1, MaxDepth: 2}, nil)
	pool := NewWorkerPool(rt, 3, 6)
	pool.Start()

	for y := 0; y < 6; y++ {
		pool.SubmitTask(ScanlineTask{Y: y, Seed: int64(y)})
	}

	seen := make(map[int]bool)
	for i := 0; i < 6; i++ {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		seen[result.Y] = true
	}
	pool.Stop()

	if len(seen) != 6 {
		t.Errorf("Expected 6 distinct scanlines, got %v", seen)
	}
	if pool.GetNumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.GetNumWorkers())
	}
}
