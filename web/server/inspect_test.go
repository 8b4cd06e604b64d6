package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func decodeInspect(t *testing.T, target string) InspectResponse {
	t.Helper()
	rec := get(t, newTestServer(t), target)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	return resp
}

func TestHandleInspect_CornellLight(t *testing.T) {
	// Row 15 of a 100x100 render looks up at the ceiling light
	resp := decodeInspect(t, "/api/inspect?scene=cornell&width=100&x=50&y=15")

	if !resp.Hit {
		t.Fatal("Expected the ray to hit the light")
	}
	if resp.MaterialType != "diffuse_light" {
		t.Errorf("Expected diffuse_light, got %q", resp.MaterialType)
	}
	if math.Abs(resp.Point[1]-554) > 1e-6 {
		t.Errorf("Expected hit on the light plane y=554, got %v", resp.Point)
	}
	if resp.Point[0] < 213 || resp.Point[0] > 343 || resp.Point[2] < 227 || resp.Point[2] > 332 {
		t.Errorf("Hit point %v outside the light rectangle", resp.Point)
	}
	if resp.T <= 0 {
		t.Errorf("Expected positive t, got %f", resp.T)
	}
	if resp.U < 0 || resp.U > 1 || resp.V < 0 || resp.V > 1 {
		t.Errorf("Expected UV in [0,1], got (%f, %f)", resp.U, resp.V)
	}
	if math.Abs(math.Abs(resp.Normal[1])-1) > 1e-9 {
		t.Errorf("Expected a vertical normal, got %v", resp.Normal)
	}

	emission, ok := resp.Properties["emission"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected emission details, got %v", resp.Properties)
	}
	if emission["type"] != "solid" {
		t.Errorf("Expected solid emission, got %v", emission["type"])
	}
	value, _ := emission["value"].([]interface{})
	if len(value) != 3 || value[0] != 15.0 {
		t.Errorf("Expected emission 15, got %v", emission["value"])
	}
}

func TestHandleInspect_Miss(t *testing.T) {
	// The top-left corner of the perlin scene is open sky
	resp := decodeInspect(t, "/api/inspect?scene=perlin&width=160&x=0&y=0")

	if resp.Hit {
		t.Errorf("Expected a miss, got %+v", resp)
	}
	if resp.MaterialType != "" || resp.Properties != nil {
		t.Errorf("Miss should carry no material, got %+v", resp)
	}
}

func TestHandleInspect_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"missing x", "/api/inspect?scene=cornell&y=1", "Invalid x"},
		{"bad y", "/api/inspect?scene=cornell&x=1&y=top", "Invalid y"},
		{"bad width", "/api/inspect?scene=cornell&width=0&x=0&y=0", "width"},
		{"unknown scene", "/api/inspect?scene=nope&x=0&y=0", "unknown scene"},
		{"x out of bounds", "/api/inspect?scene=cornell&width=10&x=10&y=0", "out of bounds"},
		{"y out of bounds", "/api/inspect?scene=cornell&width=10&x=0&y=-1", "out of bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(t), tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Invalid JSON error body: %v", err)
			}
			if !strings.Contains(body["error"], tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, body["error"])
			}
		})
	}
}

func TestExtractMaterialInfo(t *testing.T) {
	hit := &material.SurfaceInteraction{Point: core.NewVec3(0, 0, 0), U: 0.5, V: 0.5}
	red := material.NewLambertian(core.NewVec3(1, 0, 0))

	tests := []struct {
		name     string
		mat      material.Material
		wantType string
		wantKey  string
	}{
		{"lambertian", red, "lambertian", "albedo"},
		{"metal", material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.1), "metal", "fuzzness"},
		{"dielectric", material.NewDielectric(1.5), "dielectric", "refractiveIndex"},
		{"diffuse light", material.NewDiffuseLight(core.NewVec3(4, 4, 4)), "diffuse_light", "emission"},
		{"isotropic", material.NewIsotropic(core.NewVec3(1, 1, 1)), "isotropic", "albedo"},
		{"layered", material.NewLayered(material.NewDielectric(1.5), red), "layered", "inner"},
		{"mix", material.NewMix(red, material.NewDielectric(1.5), 0.25), "mix", "ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, props := extractMaterialInfo(tt.mat, hit)
			if gotType != tt.wantType {
				t.Errorf("Expected type %q, got %q", tt.wantType, gotType)
			}
			if _, ok := props[tt.wantKey]; !ok {
				t.Errorf("Expected property %q in %v", tt.wantKey, props)
			}
		})
	}
}
