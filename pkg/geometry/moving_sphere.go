package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MovingSphere is a sphere whose center moves linearly between two keyframes
type MovingSphere struct {
	Center0, Center1 core.Vec3 // Centers at Time0 and Time1
	Time0, Time1     float64
	Radius           float64
	Material         material.Material
}

// NewMovingSphere creates a sphere at center0 at time0 moving to center1 at time1
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, material material.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: material,
	}
}

// Center returns the sphere center at the given time; times outside the keyframes extrapolate
func (s *MovingSphere) Center(time float64) core.Vec3 {
	fraction := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(fraction))
}

// Hit intersects the sphere at the ray's time
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool) {
	return hitSphere(ray, tMin, tMax, s.Center(ray.Time), s.Radius, s.Material)
}

// BoundingBox encloses the sphere at both ends of the shutter interval
func (s *MovingSphere) BoundingBox(t0, t1 float64) (core.AABB, bool) {
	return core.SurroundingBox(
		sphereBox(s.Center(t0), s.Radius),
		sphereBox(s.Center(t1), s.Radius),
	), true
}

// Validate rejects degenerate radii and keyframes that share a time
func (s *MovingSphere) Validate() error {
	if err := validateRadius("moving sphere", s.Radius); err != nil {
		return err
	}
	if s.Time0 == s.Time1 {
		return &core.DegenerateGeometryError{Shape: "moving sphere", Reason: "keyframe times are equal"}
	}
	return nil
}
