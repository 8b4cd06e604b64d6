package config

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Config holds render settings loaded from a JSON file and the command line.
// Zero values mean "use the scene's default".
type Config struct {
	Scene      string `json:"scene"`
	TextureDir string `json:"texture_dir"`
	Output     string `json:"output"` // Image path; empty writes PPM to stdout

	Width       int     `json:"width"`
	AspectRatio float64 `json:"aspect_ratio"`
	Samples     int     `json:"samples"`
	MaxDepth    int     `json:"max_depth"`
	BatchSize   int     `json:"batch_size"`
	Workers     int     `json:"workers"`
	Seed        int64   `json:"seed"`
}

// Flags holds CLI flag values that override config file settings
type Flags struct {
	Scene      string
	TextureDir string
	Output     string
	Width      int
	Samples    int
	MaxDepth   int
	Workers    int
	Seed       int64
}

const (
	defaultScene      = "cornell"
	defaultTextureDir = "assets"
	defaultSeed       = 42
)

// Load reads a JSON config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI overrides and fills in the settings that have a global default.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Samples > 0 {
		c.Samples = flags.Samples
	}
	if flags.MaxDepth > 0 {
		c.MaxDepth = flags.MaxDepth
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}

	if c.Scene == "" {
		c.Scene = defaultScene
	}
	if c.TextureDir == "" {
		c.TextureDir = defaultTextureDir
	}
	if c.Seed == 0 {
		c.Seed = defaultSeed
	}
}

// Validate reports the first setting that cannot be rendered
func (c *Config) Validate() error {
	if !slices.Contains(scene.Names(), c.Scene) {
		return fmt.Errorf("config: unknown scene %q (available: %v)", c.Scene, scene.Names())
	}
	if c.Output != "" {
		if _, err := output.EncoderFor(c.Output); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	for _, field := range []struct {
		name  string
		value int
	}{
		{"width", c.Width},
		{"samples", c.Samples},
		{"max_depth", c.MaxDepth},
		{"batch_size", c.BatchSize},
		{"workers", c.Workers},
	} {
		if field.value < 0 {
			return fmt.Errorf("config: %s must not be negative, got %d", field.name, field.value)
		}
	}
	if c.AspectRatio < 0 {
		return fmt.Errorf("config: aspect_ratio must not be negative, got %g", c.AspectRatio)
	}

	return nil
}

// SceneOptions returns the construction options for the configured scene
func (c *Config) SceneOptions() scene.Options {
	return scene.Options{Seed: c.Seed, TextureDir: c.TextureDir}
}

// Apply overrides the scene's image size and sampling with every non-zero setting
func (c *Config) Apply(s *scene.Scene) {
	if c.Width > 0 {
		s.Width = c.Width
	}
	if c.AspectRatio > 0 {
		s.Camera.AspectRatio = c.AspectRatio
	}
	if c.Samples > 0 {
		s.Sampling.SamplesPerPixel = c.Samples
	}
	if c.MaxDepth > 0 {
		s.Sampling.MaxDepth = c.MaxDepth
	}
	if c.BatchSize > 0 {
		s.Sampling.BatchSize = c.BatchSize
	}
	if c.Workers > 0 {
		s.Sampling.NumWorkers = c.Workers
	}
	s.Sampling.Seed = c.Seed
}
