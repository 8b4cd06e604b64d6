package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, renders the selected scene and writes the image.
// Progress goes to stderr so a PPM on stdout stays clean.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "JSON config file")
	list := fs.Bool("list", false, "List available scenes and exit")
	var flags config.Flags
	fs.StringVar(&flags.Scene, "scene", "", "Scene to render: "+strings.Join(scene.Names(), ", "))
	fs.StringVar(&flags.Output, "out", "", "Output image (.ppm, .png, .webp); default PPM on stdout")
	fs.StringVar(&flags.TextureDir, "textures", "", "Directory containing image textures")
	fs.IntVar(&flags.Width, "width", 0, "Image width in pixels (default: scene setting)")
	fs.IntVar(&flags.Samples, "samples", 0, "Samples per pixel (default: scene setting)")
	fs.IntVar(&flags.MaxDepth, "depth", 0, "Maximum bounce depth (default: scene setting)")
	fs.IntVar(&flags.Workers, "workers", 0, "Parallel workers (default: CPU count)")
	fs.Int64Var(&flags.Seed, "seed", 0, "Random seed for scene construction and sampling")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		for _, name := range scene.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := renderer.NewWriterLogger(stderr)

	opts := cfg.SceneOptions()
	opts.Logger = logger
	selected, err := scene.Create(cfg.Scene, opts)
	if err != nil {
		return err
	}
	cfg.Apply(selected)

	width, height := selected.Width, selected.Height()
	logger.Printf("Rendering %s at %dx%d, %d samples per pixel, max depth %d\n",
		selected.Name, width, height, selected.Sampling.SamplesPerPixel, selected.Sampling.MaxDepth)

	raytracer := renderer.NewRaytracer(selected, width, height, selected.Sampling, logger)
	framebuffer, stats, err := raytracer.Render()
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	logger.Printf("%.0f samples/sec\n", stats.SamplesPerSecond())

	if cfg.Output == "" {
		return output.WritePPM(stdout, framebuffer)
	}
	if err := output.WriteFile(cfg.Output, framebuffer); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", cfg.Output)
	return nil
}
