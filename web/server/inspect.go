package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	T            float64                `json:"t"`
	U            float64                `json:"u"`
	V            float64                `json:"v"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vec3JSON(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	channel := func(x float64) int {
		return int(math.Max(0, math.Min(1, x)) * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X), channel(c.Y), channel(c.Z))
}

// textureInfo describes a texture, sampling it at the hit for a representative color
func textureInfo(tex material.Texture, hit *material.SurfaceInteraction) map[string]interface{} {
	info := make(map[string]interface{})
	switch t := tex.(type) {
	case *material.SolidColor:
		info["type"] = "solid"
	case *material.CheckerTexture:
		info["type"] = "checker"
		info["frequency"] = t.Frequency
	case *material.NoiseTexture:
		info["type"] = "noise"
		info["scale"] = t.Scale
	case *material.ImageTexture:
		info["type"] = "image"
		info["width"] = t.Width
		info["height"] = t.Height
	default:
		info["type"] = "unknown"
	}
	value := tex.Value(hit.U, hit.V, hit.Point)
	info["value"] = vec3JSON(value)
	info["color"] = hexColor(value)
	return info
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material, hit *material.SurfaceInteraction) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = textureInfo(m.Albedo, hit)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vec3JSON(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	case *material.DiffuseLight:
		properties["emission"] = textureInfo(m.Emission, hit)
		return "diffuse_light", properties

	case *material.Isotropic:
		properties["albedo"] = textureInfo(m.Albedo, hit)
		return "isotropic", properties

	case *material.Layered:
		outerType, outerProps := extractMaterialInfo(m.Outer, hit)
		innerType, innerProps := extractMaterialInfo(m.Inner, hit)
		properties["outer"] = map[string]interface{}{"type": outerType, "properties": outerProps}
		properties["inner"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "layered", properties

	case *material.Mix:
		material1Type, material1Props := extractMaterialInfo(m.Material1, hit)
		material2Type, material2Props := extractMaterialInfo(m.Material2, hit)
		properties["material1"] = map[string]interface{}{"type": material1Type, "properties": material1Props}
		properties["material2"] = map[string]interface{}{"type": material2Type, "properties": material2Props}
		properties["ratio"] = m.Ratio
		properties["description"] = fmt.Sprintf("%.0f%% %s, %.0f%% %s",
			(1-m.Ratio)*100, material1Type, m.Ratio*100, material2Type)
		return "mix", properties

	default:
		if emitter, ok := mat.(material.Emitter); ok {
			emission := emitter.Emit(hit.U, hit.V, hit.Point)
			properties["emission"] = vec3JSON(emission)
			properties["color"] = hexColor(emission)
			return "emissive", properties
		}
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of image pixel (x, y), row 0 at the top
func inspectPixel(sc *scene.Scene, x, y int) (*material.SurfaceInteraction, bool) {
	width, height := sc.Width, sc.Height()
	s := (float64(x) + 0.5) / float64(max(width-1, 1))
	t := (float64(height-1-y) + 0.5) / float64(max(height-1, 1))

	// Fixed seed so repeated inspections of a defocused camera agree
	sampler := core.NewSeededSampler(0)
	ray := renderer.NewCamera(sc.Camera).GetRay(s, t, sampler)
	return sc.World.Hit(ray, 0.001, math.Inf(1), sampler)
}

func writeInspectError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// handleInspect reports the surface seen through one pixel of a scene
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	cfg := config.Config{Scene: query.Get("scene"), TextureDir: s.textureDir, Seed: 42}
	if cfg.Scene == "" {
		cfg.Scene = "cornell"
	}

	var err error
	if cfg.Width, err = parseIntParam(query, "width", 400, 1, 2000); err != nil {
		writeInspectError(w, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeInspectError(w, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeInspectError(w, "Invalid y coordinate")
		return
	}

	sc, err := s.buildScene(cfg, nil)
	if err != nil {
		writeInspectError(w, err.Error())
		return
	}

	if pixelX < 0 || pixelX >= sc.Width || pixelY < 0 || pixelY >= sc.Height() {
		writeInspectError(w, "Pixel coordinates out of bounds")
		return
	}

	hit, isHit := inspectPixel(sc, pixelX, pixelY)
	if !isHit {
		json.NewEncoder(w).Encode(InspectResponse{Hit: false})
		return
	}

	materialType, properties := extractMaterialInfo(hit.Material, hit)
	json.NewEncoder(w).Encode(InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		Point:        vec3JSON(hit.Point),
		Normal:       vec3JSON(hit.Normal),
		T:            hit.T,
		U:            hit.U,
		V:            hit.V,
		FrontFace:    hit.FrontFace,
		Properties:   properties,
	})
}
