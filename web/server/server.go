package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Server renders built-in scenes on request
type Server struct {
	port       int
	textureDir string
	renders    atomic.Int64

	// Scene defaults never change, so they are built once
	summariesOnce sync.Once
	summaries     []SceneSummary
	summariesErr  error
}

// NewServer creates a new web server
func NewServer(port int, textureDir string) *Server {
	return &Server{port: port, textureDir: textureDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string `json:"scene"`    // Scene name (e.g., "cornell")
	Width    int    `json:"width"`    // Image width; height follows the scene's aspect ratio
	Samples  int    `json:"samples"`  // Samples per pixel
	MaxDepth int    `json:"maxDepth"` // Maximum bounce depth
	Seed     int64  `json:"seed"`     // Seed for scene construction and sampling
	Format   string `json:"format"`   // png, webp or ppm
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	ElapsedMs        int64   `json:"elapsedMs"`
}

// CompleteUpdate is the final event of a streamed render
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// SceneSummary describes a built-in scene and its default settings
type SceneSummary struct {
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Samples  int    `json:"samples"`
	MaxDepth int    `json:"maxDepth"`
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"webp": "image/webp",
	"ppm":  "image/x-portable-pixmap",
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes with their default settings
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.sceneSummaries()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(summaries)
}

// sceneSummaries builds every scene on first use and caches their defaults
func (s *Server) sceneSummaries() ([]SceneSummary, error) {
	s.summariesOnce.Do(func() {
		summaries := make([]SceneSummary, 0, len(scene.Names()))
		for _, name := range scene.Names() {
			sc, err := scene.Create(name, scene.Options{Seed: 42, TextureDir: s.textureDir})
			if err != nil {
				s.summariesErr = err
				return
			}
			summaries = append(summaries, SceneSummary{
				Name:     name,
				Width:    sc.Width,
				Height:   sc.Height(),
				Samples:  sc.Sampling.SamplesPerPixel,
				MaxDepth: sc.Sampling.MaxDepth,
			})
		}
		s.summaries = summaries
	})
	return s.summaries, s.summariesErr
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	encode, err := output.EncoderFor("render." + req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fb, stats, err := s.render(req, NewWebLogger(s.nextRenderID(), nil))
	if err != nil {
		http.Error(w, fmt.Sprintf("Render error: %v", err), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := encode(&buf, fb); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Write(buf.Bytes())
}

type renderOutcome struct {
	fb    *renderer.Framebuffer
	stats renderer.RenderStats
	err   error
}

// handleRenderStream renders with SSE: console events while tracing, then the PNG
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 64)
	done := make(chan renderOutcome, 1)
	logger := NewWebLogger(s.nextRenderID(), consoleChan)

	go func() {
		fb, stats, err := s.render(req, logger)
		done <- renderOutcome{fb: fb, stats: stats, err: err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			s.sendConsole(w, msg)
		case outcome := <-done:
			// Flush console lines logged just before completion
			for drained := false; !drained; {
				select {
				case msg := <-consoleChan:
					s.sendConsole(w, msg)
				default:
					drained = true
				}
			}
			s.sendComplete(w, outcome)
			return
		case <-r.Context().Done():
			// Renders are not cancellable; the result is discarded
			return
		}
	}
}

func (s *Server) sendConsole(w http.ResponseWriter, msg ConsoleMessage) {
	msg.Message = strings.TrimSpace(msg.Message)
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.sendSSEEvent(w, "console", string(data))
}

func (s *Server) sendComplete(w http.ResponseWriter, outcome renderOutcome) {
	if outcome.err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", outcome.err))
		return
	}

	var buf bytes.Buffer
	if err := output.WritePNG(&buf, outcome.fb); err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	update := CompleteUpdate{
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Stats: Stats{
			Width:            outcome.fb.Width,
			Height:           outcome.fb.Height,
			TotalPixels:      outcome.stats.TotalPixels,
			TotalSamples:     outcome.stats.TotalSamples,
			SamplesPerPixel:  outcome.stats.SamplesPerPixel,
			SamplesPerSecond: outcome.stats.SamplesPerSecond(),
			ElapsedMs:        outcome.stats.Duration.Milliseconds(),
		},
	}
	data, err := json.Marshal(update)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}
	s.sendSSEEvent(w, "complete", string(data))
}

// render builds the requested scene with the request's overrides and traces it
func (s *Server) render(req *RenderRequest, logger core.Logger) (*renderer.Framebuffer, renderer.RenderStats, error) {
	sc, err := s.buildScene(config.Config{
		Scene:      req.Scene,
		TextureDir: s.textureDir,
		Width:      req.Width,
		Samples:    req.Samples,
		MaxDepth:   req.MaxDepth,
		Seed:       req.Seed,
	}, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	rt := renderer.NewRaytracer(sc, sc.Width, sc.Height(), sc.Sampling, logger)
	return rt.Render()
}

// buildScene validates cfg, then creates its scene with the overrides applied
func (s *Server) buildScene(cfg config.Config, logger core.Logger) (*scene.Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := cfg.SceneOptions()
	opts.Logger = logger
	sc, err := scene.Create(cfg.Scene, opts)
	if err != nil {
		return nil, err
	}
	cfg.Apply(sc)
	return sc, nil
}

func (s *Server) nextRenderID() string {
	return fmt.Sprintf("render-%d-%d", time.Now().Unix(), s.renders.Add(1))
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene"), Format: query.Get("format")}
	if req.Scene == "" {
		req.Scene = "cornell"
	}
	if req.Format == "" {
		req.Format = "png"
	}
	if _, ok := contentTypes[req.Format]; !ok {
		return nil, fmt.Errorf("unsupported format %q", req.Format)
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 1, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 16, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 50, 1, 1000); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 1, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	// Performance warning
	if req.Width > 800 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
